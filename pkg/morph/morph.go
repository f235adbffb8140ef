package morph

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/skeletonize/pkg/geom"
)

// SomaID is the handle id of the soma.
const SomaID = 0

// Handle is a point of the morphology that further sections can grow from.
type Handle interface {
	// ID identifies the handle within its morphology.
	ID() int

	// Grow starts a new child section whose first point is pos and returns
	// it.
	Grow(pos geom.Vec3, diameter float64) Handle

	// Extend appends a point to the handle. On the soma it adds a surface
	// point.
	Extend(pos geom.Vec3, diameter float64)

	// MovePoint moves the i-th point of the handle. Out of range indices are
	// ignored.
	MovePoint(i int, pos geom.Vec3)
}

// Sink receives grown sections in order: soma first, then sections, then cut
// marks, then Save.
type Sink interface {
	Soma() Handle
	InsertSurfacePoint(pos geom.Vec3, diameter float64)
	MarkCut(h Handle)
	Save(label, path string, force bool) error
}

// Sample is one point of a section or of the soma surface.
type Sample struct {
	Position geom.Vec3
	Diameter float64
}

// Section is an unbranched run of samples.
type Section struct {
	id       int
	m        *Morphology
	parent   *Section
	Samples  []Sample
	Children []*Section
	Cut      bool
}

// ID implements Handle.
func (s *Section) ID() int { return s.id }

// Parent returns the section this one grew from, or nil if it grew from the
// soma.
func (s *Section) Parent() *Section { return s.parent }

// Grow implements Handle.
func (s *Section) Grow(pos geom.Vec3, diameter float64) Handle {
	c := s.m.newSection(s, pos, diameter)
	s.Children = append(s.Children, c)
	return c
}

// Extend implements Handle.
func (s *Section) Extend(pos geom.Vec3, diameter float64) {
	s.Samples = append(s.Samples, Sample{Position: pos, Diameter: diameter})
}

// MovePoint implements Handle.
func (s *Section) MovePoint(i int, pos geom.Vec3) {
	if i >= 0 && i < len(s.Samples) {
		s.Samples[i].Position = pos
	}
}

// Soma is the root of the morphology, centred on the origin.
type Soma struct {
	m        *Morphology
	Surface  []Sample
	Children []*Section
}

// ID implements Handle.
func (s *Soma) ID() int { return SomaID }

// Grow implements Handle.
func (s *Soma) Grow(pos geom.Vec3, diameter float64) Handle {
	c := s.m.newSection(nil, pos, diameter)
	s.Children = append(s.Children, c)
	return c
}

// Extend implements Handle.
func (s *Soma) Extend(pos geom.Vec3, diameter float64) {
	s.Surface = append(s.Surface, Sample{Position: pos, Diameter: diameter})
}

// MovePoint implements Handle.
func (s *Soma) MovePoint(i int, pos geom.Vec3) {
	if i >= 0 && i < len(s.Surface) {
		s.Surface[i].Position = pos
	}
}

// MeanRadius returns the mean distance of the surface points from the origin.
func (s *Soma) MeanRadius() float64 {
	if len(s.Surface) == 0 {
		return 0
	}
	var sum float64
	for _, p := range s.Surface {
		sum += p.Position.Length()
	}
	return sum / float64(len(s.Surface))
}

// MaxRadius returns the largest distance of a surface point from the origin.
func (s *Soma) MaxRadius() float64 {
	var r float64
	for _, p := range s.Surface {
		r = math.Max(r, p.Position.Length())
	}
	return r
}

// Morphology is the in-memory Sink.
//
// Morphology is not safe for concurrent use.
type Morphology struct {
	Label    string
	soma     *Soma
	sections []*Section
	logger   *log.Logger
}

// New creates an empty morphology. A nil logger discards output.
func New(logger *log.Logger) *Morphology {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	m := &Morphology{logger: logger}
	m.soma = &Soma{m: m}
	return m
}

func (m *Morphology) newSection(parent *Section, pos geom.Vec3, diameter float64) *Section {
	s := &Section{
		id:      len(m.sections) + 1,
		m:       m,
		parent:  parent,
		Samples: []Sample{{Position: pos, Diameter: diameter}},
	}
	m.sections = append(m.sections, s)
	return s
}

// Soma implements Sink.
func (m *Morphology) Soma() Handle { return m.soma }

// SomaBody returns the soma with its surface points.
func (m *Morphology) SomaBody() *Soma { return m.soma }

// InsertSurfacePoint implements Sink.
func (m *Morphology) InsertSurfacePoint(pos geom.Vec3, diameter float64) {
	m.soma.Extend(pos, diameter)
}

// MarkCut implements Sink. Marking the soma is ignored.
func (m *Morphology) MarkCut(h Handle) {
	if s, ok := h.(*Section); ok && s.m == m {
		s.Cut = true
	}
}

// Sections returns every section in creation order.
func (m *Morphology) Sections() []*Section { return m.sections }

// Section returns the section with the given handle id, or nil.
func (m *Morphology) Section(id int) *Section {
	if id < 1 || id > len(m.sections) {
		return nil
	}
	return m.sections[id-1]
}

// CutSections returns the sections marked as cut, in creation order.
func (m *Morphology) CutSections() []*Section {
	var out []*Section
	for _, s := range m.sections {
		if s.Cut {
			out = append(out, s)
		}
	}
	return out
}

// SampleCount returns the number of section samples, soma excluded.
func (m *Morphology) SampleCount() int {
	n := 0
	for _, s := range m.sections {
		n += len(s.Samples)
	}
	return n
}
