package board

import (
	"sort"
	"strconv"
	"strings"

	"cadence-cli/internal/model"
)

// Group is an ordered, non-persisted projection of the task collection: a
// context signature plus the ids of the tasks currently homed under it. It has
// no identity across renders beyond its signature, which callers use to
// re-associate optimistic edits.
type Group struct {
	ID        string
	Label     string
	Signature Signature
	ItemIDs   []string
}

func (g *Group) IndexOf(id string) int {
	for i, x := range g.ItemIDs {
		if x == id {
			return i
		}
	}
	return -1
}

// ViewKind selects which projection a board render uses. Every group a single
// view produces carries the same signature dimensions, so two groups in one
// view differ only on tags the view actually groups by.
type ViewKind int

const (
	ViewToday ViewKind = iota
	ViewUpcoming
	ViewAnytime
	ViewSomeday
	ViewProject
)

// ViewFilter is the input to the projection. Today is the calendar date the
// view considers "today" (YYYY-MM-DD); ProjectID scopes ViewProject.
type ViewFilter struct {
	Kind      ViewKind
	Today     string
	ProjectID string
	Headings  []model.Heading
	Projects  []model.Project
}

// ComputeGroups projects the task collection into the view's ordered groups.
// It is pure: callable from tests without any UI, and recomputed on every
// render pass. Within a group, order is total (position, then created-at,
// then id) with no duplicate ids; each task homes under exactly one group
// per view.
func ComputeGroups(tasks []model.Task, f ViewFilter) []*Group {
	switch f.Kind {
	case ViewToday:
		return todayGroups(tasks, f)
	case ViewUpcoming:
		return upcomingGroups(tasks, f)
	case ViewAnytime:
		return anytimeGroups(tasks, f)
	case ViewSomeday:
		return somedayGroups(tasks, f)
	case ViewProject:
		return projectGroups(tasks, f)
	default:
		return nil
	}
}

func todayGroups(tasks []model.Task, f ViewFilter) []*Group {
	day := &Group{
		ID:        "today",
		Label:     "Today",
		Signature: Signature{GroupDate: strPtr(f.Today), Evening: boolPtr(false)},
	}
	eve := &Group{
		ID:        "today-evening",
		Label:     "This Evening",
		Signature: Signature{GroupDate: strPtr(f.Today), Evening: boolPtr(true)},
	}
	var dayTasks, eveTasks []model.Task
	for _, t := range tasks {
		if !scheduledOn(t, f.Today) {
			continue
		}
		if t.Evening {
			eveTasks = append(eveTasks, t)
		} else {
			dayTasks = append(dayTasks, t)
		}
	}
	day.ItemIDs = orderedIDs(dayTasks)
	eve.ItemIDs = orderedIDs(eveTasks)
	return []*Group{day, eve}
}

func upcomingGroups(tasks []model.Task, f ViewFilter) []*Group {
	byDate := map[string][]model.Task{}
	for _, t := range tasks {
		if !model.OpenStatus(t.Status) || t.ScheduledDate == nil {
			continue
		}
		d := strings.TrimSpace(*t.ScheduledDate)
		if d == "" || d <= f.Today {
			continue
		}
		byDate[d] = append(byDate[d], t)
	}
	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	out := make([]*Group, 0, len(dates))
	for _, d := range dates {
		out = append(out, &Group{
			ID:        "day:" + d,
			Label:     d,
			Signature: Signature{GroupDate: strPtr(d)},
			ItemIDs:   orderedIDs(byDate[d]),
		})
	}
	return out
}

func anytimeGroups(tasks []model.Task, f ViewFilter) []*Group {
	loose := &Group{ID: "anytime", Label: "Anytime", Signature: Signature{}}
	byProject := map[string][]model.Task{}
	var looseTasks []model.Task
	for _, t := range tasks {
		if t.Status != model.StatusAnytime {
			continue
		}
		if t.ProjectID != nil {
			byProject[*t.ProjectID] = append(byProject[*t.ProjectID], t)
			continue
		}
		looseTasks = append(looseTasks, t)
	}
	loose.ItemIDs = orderedIDs(looseTasks)
	out := []*Group{loose}
	for _, p := range orderedProjects(f.Projects) {
		sub, ok := byProject[p.ID]
		if !ok {
			continue
		}
		out = append(out, &Group{
			ID:        "proj:" + p.ID,
			Label:     p.Name,
			Signature: Signature{ProjectID: strPtr(p.ID)},
			ItemIDs:   orderedIDs(sub),
		})
	}
	return out
}

func somedayGroups(tasks []model.Task, _ ViewFilter) []*Group {
	g := &Group{ID: "someday", Label: "Someday", Signature: Signature{}}
	var sub []model.Task
	for _, t := range tasks {
		if t.Status == model.StatusSomeday {
			sub = append(sub, t)
		}
	}
	g.ItemIDs = orderedIDs(sub)
	return []*Group{g}
}

// projectGroups renders one project: a no-heading section first, then one
// group per heading in heading order. The no-heading signature carries a
// concrete project tag and a nil heading tag, so dropping a task from a
// heading onto it is a cross-group move that clears the heading.
func projectGroups(tasks []model.Task, f ViewFilter) []*Group {
	pid := strings.TrimSpace(f.ProjectID)
	none := &Group{
		ID:        "proj:" + pid,
		Label:     "",
		Signature: Signature{ProjectID: strPtr(pid)},
	}
	byHeading := map[string][]model.Task{}
	var noneTasks []model.Task
	for _, t := range tasks {
		if !model.OpenStatus(t.Status) || t.ProjectID == nil || *t.ProjectID != pid {
			continue
		}
		if t.HeadingID != nil {
			byHeading[*t.HeadingID] = append(byHeading[*t.HeadingID], t)
			continue
		}
		noneTasks = append(noneTasks, t)
	}
	none.ItemIDs = orderedIDs(noneTasks)
	out := []*Group{none}
	heads := append([]model.Heading{}, f.Headings...)
	sort.SliceStable(heads, func(i, j int) bool { return heads[i].Position < heads[j].Position })
	for _, h := range heads {
		if h.ProjectID != pid || h.Archived {
			continue
		}
		out = append(out, &Group{
			ID:        "head:" + h.ID,
			Label:     h.Title,
			Signature: Signature{ProjectID: strPtr(pid), HeadingID: strPtr(h.ID)},
			ItemIDs:   orderedIDs(byHeading[h.ID]),
		})
	}
	return out
}

// RawGroups buckets open tasks by their raw signature (context tags plus
// status), one group per distinct signature. List-type surfaces (the CLI move
// command) use this flat projection instead of a named view.
func RawGroups(tasks []model.Task) []*Group {
	var out []*Group
	var open []model.Task
	for _, t := range tasks {
		if model.OpenStatus(t.Status) {
			open = append(open, t)
		}
	}
	for _, t := range open {
		sig := RawSignature(t)
		if _, ok := FindGroup(out, sig); !ok {
			out = append(out, &Group{ID: "sig:" + strconv.Itoa(len(out)), Signature: sig})
		}
	}
	for _, g := range out {
		var members []model.Task
		for _, t := range open {
			if RawSignature(t).Equal(g.Signature) {
				members = append(members, t)
			}
		}
		g.ItemIDs = orderedIDs(members)
	}
	return out
}

// FindGroup locates a group by signature. ok is false when no group matches,
// which callers treat as an unresolvable destination (group-level fallback).
func FindGroup(groups []*Group, sig Signature) (*Group, bool) {
	for _, g := range groups {
		if g.Signature.Equal(sig) {
			return g, true
		}
	}
	return nil, false
}

// GroupContaining locates the group currently listing id. Used when
// home-lookup by signature is ambiguous for list-type views.
func GroupContaining(groups []*Group, id string) (*Group, bool) {
	for _, g := range groups {
		if g.IndexOf(id) >= 0 {
			return g, true
		}
	}
	return nil, false
}

func scheduledOn(t model.Task, day string) bool {
	if !model.OpenStatus(t.Status) || t.ScheduledDate == nil {
		return false
	}
	d := strings.TrimSpace(*t.ScheduledDate)
	// Overdue tasks surface in Today rather than a stale day group.
	return d != "" && d <= day
}

// orderedIDs sorts by position, then created-at, then id, and returns ids.
// The tie-breaks keep order total when positions collide (positions are only
// guaranteed contiguous in the group most recently renumbered).
func orderedIDs(tasks []model.Task) []string {
	sorted := append([]model.Task{}, tasks...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	out := make([]string, 0, len(sorted))
	for _, t := range sorted {
		out = append(out, t.ID)
	}
	return out
}

func orderedProjects(ps []model.Project) []model.Project {
	out := append([]model.Project{}, ps...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
