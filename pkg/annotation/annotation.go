// Package annotation reads the metadata that accompanies a skeleton: the soma
// sphere, an optional per-skeleton simplification threshold, and the optional
// bounding box of the imaged stack.
//
// The annotations file is JSON:
//
//	{
//	  "soma": {"centre": {"x": 10, "y": 20, "z": 5}, "radius": 4},
//	  "skeletonize": {"threshold_segment_length": 0.5},
//	  "stack": {"AABB": {"v1": {"x": 0, "y": 0, "z": 0}, "v2": {"x": 100, "y": 100, "z": 50}}}
//	}
//
// Measurements are in the coordinate system and units of the skeleton.
package annotation

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/skeletonize/pkg/errors"
	"github.com/matzehuels/skeletonize/pkg/geom"
)

// DefaultMargin is the adjustment applied to each face of the stack box.
// Negative values pull the faces toward the centre so samples on the last
// imaged voxel are reported as cut.
const DefaultMargin = -1.0

// Soma describes the root region.
type Soma struct {
	Centre geom.Vec3
	Radius float64
}

// Annotations holds everything read from an annotations file.
type Annotations struct {
	Soma Soma

	// Threshold is the minimum segment length, or nil when the file does not
	// set one.
	Threshold *float64

	// Stack is the raw stack box as read (before margin adjustment), or nil.
	Stack *geom.AABB
}

// Bounds returns the stack box adjusted by margin, or nil when no stack box
// is present.
func (a *Annotations) Bounds(margin float64) *geom.AABB {
	if a.Stack == nil {
		return nil
	}
	b := a.Stack.Expand(margin)
	return &b
}

type vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v vec) toVec3() geom.Vec3 { return geom.Vec3{X: v.X, Y: v.Y, Z: v.Z} }

type document struct {
	Soma *struct {
		Centre *vec     `json:"centre"`
		Radius *float64 `json:"radius"`
	} `json:"soma"`
	Skeletonize *struct {
		Threshold *float64 `json:"threshold_segment_length"`
	} `json:"skeletonize"`
	Stack *struct {
		AABB *struct {
			V1 vec `json:"v1"`
			V2 vec `json:"v2"`
		} `json:"AABB"`
	} `json:"stack"`
}

// ReadJSON decodes annotations from r. The soma section, with both centre and
// radius, is required.
func ReadJSON(r io.Reader) (*Annotations, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode annotations")
	}
	if doc.Soma == nil || doc.Soma.Centre == nil || doc.Soma.Radius == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "annotations require soma centre and radius")
	}
	if *doc.Soma.Radius < 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "soma radius must not be negative: %g", *doc.Soma.Radius)
	}

	a := &Annotations{
		Soma: Soma{Centre: doc.Soma.Centre.toVec3(), Radius: *doc.Soma.Radius},
	}
	if doc.Skeletonize != nil && doc.Skeletonize.Threshold != nil {
		th := *doc.Skeletonize.Threshold
		if err := errors.ValidateNonNegative("threshold_segment_length", th); err != nil {
			return nil, err
		}
		a.Threshold = &th
	}
	if doc.Stack != nil && doc.Stack.AABB != nil {
		b := geom.NewAABB(doc.Stack.AABB.V1.toVec3(), doc.Stack.AABB.V2.toVec3())
		a.Stack = &b
	}
	return a, nil
}

// ImportJSON reads the annotations file at path.
func ImportJSON(path string) (*Annotations, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "annotations %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
