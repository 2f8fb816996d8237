package board

import (
	"strings"

	"cadence-cli/internal/model"
)

// Signature identifies which visual grouping an item belongs to. Every tag is
// nullable: nil matches only nil, concrete values match on exact equality.
// There is no coercion between nil and zero values.
type Signature struct {
	ProjectID *string
	HeadingID *string
	AreaID    *string
	GroupDate *string // YYYY-MM-DD
	Evening   *bool
	// Status is a tag only the flat projection sets; named views group by
	// status in their filters and leave it nil.
	Status *string
}

func (s Signature) Equal(o Signature) bool {
	return model.StrEq(s.ProjectID, o.ProjectID) &&
		model.StrEq(s.HeadingID, o.HeadingID) &&
		model.StrEq(s.AreaID, o.AreaID) &&
		model.StrEq(s.GroupDate, o.GroupDate) &&
		boolEq(s.Evening, o.Evening) &&
		model.StrEq(s.Status, o.Status)
}

func boolEq(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Field names a signature tag. Diff reports changed tags in precedence order.
type Field int

const (
	FieldProject Field = iota
	FieldHeading
	FieldArea
	FieldDate
	FieldEvening
	FieldStatus
)

func (f Field) String() string {
	switch f {
	case FieldProject:
		return "project"
	case FieldHeading:
		return "heading"
	case FieldArea:
		return "area"
	case FieldDate:
		return "date"
	case FieldEvening:
		return "evening"
	case FieldStatus:
		return "status"
	default:
		return "unknown"
	}
}

// Diff returns the tags on which from and to differ, ordered by update
// precedence: project > heading > area > date > evening. A single drop
// normally changes one dimension; when several differ the first entry is the
// one the downstream write should treat as the user's intent.
func Diff(from, to Signature) []Field {
	var out []Field
	if !model.StrEq(from.ProjectID, to.ProjectID) {
		out = append(out, FieldProject)
	}
	if !model.StrEq(from.HeadingID, to.HeadingID) {
		out = append(out, FieldHeading)
	}
	if !model.StrEq(from.AreaID, to.AreaID) {
		out = append(out, FieldArea)
	}
	if !model.StrEq(from.GroupDate, to.GroupDate) {
		out = append(out, FieldDate)
	}
	if !boolEq(from.Evening, to.Evening) {
		out = append(out, FieldEvening)
	}
	if !model.StrEq(from.Status, to.Status) {
		out = append(out, FieldStatus)
	}
	return out
}

// TaskSignature derives the signature a task currently homes under. It is the
// inverse of applying a cross-group move: a drop that changes one tag writes
// the corresponding task field(s), and the next projection pass re-homes the
// task by recomputing this.
func TaskSignature(t model.Task) Signature {
	sig := Signature{
		ProjectID: t.ProjectID,
		HeadingID: t.HeadingID,
		AreaID:    t.AreaID,
	}
	if t.ScheduledDate != nil && strings.TrimSpace(*t.ScheduledDate) != "" {
		d := strings.TrimSpace(*t.ScheduledDate)
		sig.GroupDate = &d
		ev := t.Evening
		sig.Evening = &ev
	}
	return sig
}

// RawSignature is TaskSignature plus the status tag. The flat projection
// groups by it, so loose inbox, anytime, and someday tasks keep separate
// orderings instead of sharing the zero signature.
func RawSignature(t model.Task) Signature {
	sig := TaskSignature(t)
	s := string(t.Status)
	sig.Status = &s
	return sig
}
