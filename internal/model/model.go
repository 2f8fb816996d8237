package model

import "time"

type TaskStatus string

const (
	StatusInbox     TaskStatus = "inbox"
	StatusAnytime   TaskStatus = "anytime"
	StatusSomeday   TaskStatus = "someday"
	StatusScheduled TaskStatus = "scheduled"
	StatusDone      TaskStatus = "done"
	StatusCanceled  TaskStatus = "canceled"
)

// OpenStatus reports whether s is a status a task can be actively listed under.
func OpenStatus(s TaskStatus) bool {
	switch s {
	case StatusInbox, StatusAnytime, StatusSomeday, StatusScheduled:
		return true
	default:
		return false
	}
}

type Task struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`

	Status TaskStatus `json:"status"`

	// Board placement is derived from these fields; there is no separate
	// join table. A group is a view, not a stored entity.
	ProjectID     *string `json:"projectId,omitempty"`
	HeadingID     *string `json:"headingId,omitempty"`
	AreaID        *string `json:"areaId,omitempty"`
	ScheduledDate *string `json:"scheduledDate,omitempty"` // YYYY-MM-DD
	Evening       bool    `json:"evening,omitempty"`

	// Position orders a task within whichever group currently lists it.
	// Values are comparable but not required to be contiguous; the group
	// that was last reordered holds positions 1..N.
	Position int `json:"position"`

	Tags []string `json:"tags,omitempty"`

	// RuleID links a task to the repeating rule that materialized it.
	RuleID *string `json:"ruleId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	AreaID    *string   `json:"areaId,omitempty"`
	Position  int       `json:"position"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
}

type Area struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  int       `json:"position"`
	CreatedAt time.Time `json:"createdAt"`
}

type Heading struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Title     string    `json:"title"`
	Position  int       `json:"position"`
	Archived  bool      `json:"archived"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChecklistItem is the one draggable record with stored placement: it
// belongs to exactly one task and orders by Position within it.
type ChecklistItem struct {
	ID       string `json:"id"`
	TaskID   string `json:"taskId"`
	Title    string `json:"title"`
	Done     bool   `json:"done"`
	Position int    `json:"position"`
}

type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RepeatFrequency string

const (
	RepeatDaily   RepeatFrequency = "daily"
	RepeatWeekly  RepeatFrequency = "weekly"
	RepeatMonthly RepeatFrequency = "monthly"
	RepeatYearly  RepeatFrequency = "yearly"
)

// RepeatRule is stored and listable here; materializing rules into tasks is
// an external job that hands the board ordinary tasks carrying a RuleID.
type RepeatRule struct {
	ID        string          `json:"id"`
	Frequency RepeatFrequency `json:"frequency"`
	Interval  int             `json:"interval"`
	NextDate  string          `json:"nextDate"` // YYYY-MM-DD
	Template  string          `json:"template"` // task title to materialize
	CreatedAt time.Time       `json:"createdAt"`
}

// StrPtr is a convenience for building optional fields in literals.
func StrPtr(s string) *string { return &s }

// StrEq compares optional strings: nil matches only nil, concrete values
// match on exact equality. No coercion.
func StrEq(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
