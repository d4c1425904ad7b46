package models

import (
	"math"

	"github.com/cockroachdb/errors"
)

// AttributeKind enumerates the attribute types a relation can hold.
type AttributeKind string

const (
	KindNominal AttributeKind = "nominal"
	KindNumeric AttributeKind = "numeric"
)

// Missing marks an absent value inside an Instance.
var Missing = math.NaN()

// IsMissing reports whether v is the missing-value marker.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Attribute describes one column of a relation.
type Attribute struct {
	Name   string
	Kind   AttributeKind
	Values []string // nominal domain, empty for numeric attributes
	Index  int
}

// IsNominal reports whether the attribute has an enumerated domain.
func (a Attribute) IsNominal() bool {
	return a.Kind == KindNominal
}

// ValueIndex returns the position of label in the nominal domain, or -1.
func (a Attribute) ValueIndex(label string) int {
	for i, v := range a.Values {
		if v == label {
			return i
		}
	}
	return -1
}

// Label renders the stored value v for display.
func (a Attribute) Label(v float64) string {
	if IsMissing(v) {
		return "?"
	}
	if a.IsNominal() {
		idx := int(v)
		if idx >= 0 && idx < len(a.Values) {
			return a.Values[idx]
		}
		return "?"
	}
	return formatNumber(v)
}

// Instance is one row of a relation. Nominal values hold the domain index.
type Instance []float64

// Relation is an in-memory table of attributes and instances.
type Relation struct {
	Name       string
	Attributes []Attribute
	Instances  []Instance
	ClassIndex int
}

// NewRelation builds a relation with no class attribute designated.
func NewRelation(name string, attrs []Attribute, instances []Instance) *Relation {
	for i := range attrs {
		attrs[i].Index = i
	}
	return &Relation{Name: name, Attributes: attrs, Instances: instances, ClassIndex: -1}
}

// NumAttributes returns the attribute count.
func (r *Relation) NumAttributes() int {
	return len(r.Attributes)
}

// NumInstances returns the instance count.
func (r *Relation) NumInstances() int {
	return len(r.Instances)
}

// SetClassIndex designates the class attribute.
func (r *Relation) SetClassIndex(idx int) error {
	if idx < 0 || idx >= len(r.Attributes) {
		return errors.Mark(
			errors.Newf("class index %d outside [0, %d)", idx, len(r.Attributes)),
			ErrInvalidClassIndex,
		)
	}
	r.ClassIndex = idx
	return nil
}

// ClassAttribute returns the designated class attribute, if any.
func (r *Relation) ClassAttribute() (Attribute, bool) {
	if r.ClassIndex < 0 || r.ClassIndex >= len(r.Attributes) {
		return Attribute{}, false
	}
	return r.Attributes[r.ClassIndex], true
}

// Project returns a new relation restricted to the given attribute positions,
// kept in the order supplied. The class designation follows its attribute.
func (r *Relation) Project(indices []int) *Relation {
	attrs := make([]Attribute, len(indices))
	classIdx := -1
	for i, idx := range indices {
		attrs[i] = r.Attributes[idx]
		attrs[i].Values = append([]string(nil), r.Attributes[idx].Values...)
		if idx == r.ClassIndex {
			classIdx = i
		}
	}

	instances := make([]Instance, len(r.Instances))
	for n, inst := range r.Instances {
		row := make(Instance, len(indices))
		for i, idx := range indices {
			row[i] = inst[idx]
		}
		instances[n] = row
	}

	out := NewRelation(r.Name, attrs, instances)
	out.ClassIndex = classIdx
	return out
}
