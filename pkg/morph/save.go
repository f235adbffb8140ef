package morph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/geom"
)

// SWC sample types.
const (
	swcSoma     = 1
	swcDendrite = 3
	swcCut      = 7
)

// Formats lists the supported destination extensions.
var Formats = []string{".swc", ".json"}

// Save implements Sink. It renders the morphology in the format implied by the
// extension of path and writes it there.
//
// With force set an existing destination is removed first; removal failures
// are ignored. If the destination cannot then be created (it still exists, or
// its directory is not writable) Save logs a warning and returns nil without
// writing anything.
func (m *Morphology) Save(label, path string, force bool) error {
	m.Label = label

	var render func(*Morphology) ([]byte, error)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".swc":
		render = RenderSWC
	case ".json":
		render = RenderJSON
	default:
		return errors.New(errors.ErrCodeInvalidFormat,
			"unsupported morphology format %q (want one of %s)", filepath.Ext(path), strings.Join(Formats, ", "))
	}

	data, err := render(m)
	if err != nil {
		return err
	}

	if force {
		_ = os.Remove(path)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		m.logger.Warn("skipping morphology output", "path", path, "error", err)
		return nil
	}
	if err := writeAndClose(f, path, data); err != nil {
		return err
	}
	m.logger.Debug("morphology written", "path", path, "bytes", len(data))
	return nil
}

// writeAndClose writes data to f and closes it. On any failure the partial
// file at path is removed so a later run does not skip it as existing.
func writeAndClose(f *os.File, path string, data []byte) error {
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(path)
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return errors.Wrap(errors.ErrCodeInternal, err, "close %s", path)
	}
	return nil
}

// walk visits sections depth first, parents before children, in growth order.
func (m *Morphology) walk(fn func(*Section)) {
	stack := slices.Clone(m.soma.Children)
	slices.Reverse(stack)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(s)
		for i := len(s.Children) - 1; i >= 0; i-- {
			stack = append(stack, s.Children[i])
		}
	}
}

// RenderSWC renders m as an SWC sample table. The soma is a single sample at
// the origin with the mean surface radius, followed by one sample per surface
// point.
func RenderSWC(m *Morphology) ([]byte, error) {
	var buf bytes.Buffer
	if m.Label != "" {
		fmt.Fprintf(&buf, "# %s\n", m.Label)
	}
	if cuts := m.CutSections(); len(cuts) > 0 {
		ids := make([]string, len(cuts))
		for i, s := range cuts {
			ids[i] = fmt.Sprint(s.id)
		}
		fmt.Fprintf(&buf, "# cut sections: %s\n", strings.Join(ids, " "))
	}

	next := 1
	line := func(typ int, p geom.Vec3, diameter float64, parent int) int {
		id := next
		next++
		fmt.Fprintf(&buf, "%d %d %g %g %g %g %d\n", id, typ, p.X, p.Y, p.Z, diameter/2, parent)
		return id
	}

	soma := line(swcSoma, geom.Vec3{}, 2*m.soma.MeanRadius(), -1)
	for _, p := range m.soma.Surface {
		line(swcSoma, p.Position, p.Diameter, soma)
	}

	last := make(map[*Section]int, len(m.sections))
	m.walk(func(s *Section) {
		parent := soma
		if s.parent != nil {
			parent = last[s.parent]
		}
		typ := swcDendrite
		if s.Cut {
			typ = swcCut
		}
		for _, p := range s.Samples {
			parent = line(typ, p.Position, p.Diameter, parent)
		}
		last[s] = parent
	})
	return buf.Bytes(), nil
}

type jsonMorphology struct {
	Label    string        `json:"label,omitempty"`
	Soma     jsonSoma      `json:"soma"`
	Sections []jsonSection `json:"sections"`
}

type jsonSoma struct {
	MeanRadius float64      `json:"mean_radius"`
	MaxRadius  float64      `json:"max_radius"`
	Surface    []jsonSample `json:"surface,omitempty"`
}

type jsonSection struct {
	ID      int          `json:"id"`
	Parent  int          `json:"parent"`
	Cut     bool         `json:"cut,omitempty"`
	Samples []jsonSample `json:"samples"`
}

type jsonSample struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Z        float64 `json:"z"`
	Diameter float64 `json:"diameter"`
}

func toJSONSamples(samples []Sample) []jsonSample {
	out := make([]jsonSample, len(samples))
	for i, s := range samples {
		out[i] = jsonSample{X: s.Position.X, Y: s.Position.Y, Z: s.Position.Z, Diameter: s.Diameter}
	}
	return out
}

// RenderJSON renders m as JSON. Sections are listed parents first; a parent of
// 0 is the soma.
func RenderJSON(m *Morphology) ([]byte, error) {
	out := jsonMorphology{
		Label: m.Label,
		Soma: jsonSoma{
			MeanRadius: m.soma.MeanRadius(),
			MaxRadius:  m.soma.MaxRadius(),
			Surface:    toJSONSamples(m.soma.Surface),
		},
		Sections: []jsonSection{},
	}
	m.walk(func(s *Section) {
		parent := SomaID
		if s.parent != nil {
			parent = s.parent.id
		}
		out.Sections = append(out.Sections, jsonSection{
			ID:      s.id,
			Parent:  parent,
			Cut:     s.Cut,
			Samples: toJSONSamples(s.Samples),
		})
	})
	return json.MarshalIndent(out, "", "  ")
}
