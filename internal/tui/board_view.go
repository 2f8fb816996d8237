package tui

import (
	"strings"

	"cadence-cli/internal/board"
	"cadence-cli/internal/drag"
	"cadence-cli/internal/model"

	xansi "github.com/charmbracelet/x/ansi"
)

// contentLine is one line of the scrollable board body, before windowing.
type contentLine struct {
	text     string
	taskID   string
	group    *board.Group
	groupIdx int
}

func (m *appModel) View() string {
	if m.editor != nil {
		return m.editor.View()
	}

	header := m.renderTabs()
	lines := m.renderBody()
	footer := m.renderFooter()

	// Windowing happens before registration so hit boxes land in screen
	// coordinates. The registry is rebuilt wholesale each frame; per-frame
	// registration with a full reset is the scoped-teardown guarantee here.
	bodyTop := 2
	bodyH := m.height - bodyTop - 1
	if bodyH < 1 {
		bodyH = 1
	}
	maxScroll := len(lines) - bodyH
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.scroll > maxScroll {
		m.scroll = maxScroll
	}
	visible := lines[m.scroll:]
	if len(visible) > bodyH {
		visible = visible[:bodyH]
	}
	m.boardBox = drag.Rect{X: 0, Y: bodyTop, W: m.width, H: bodyH}
	m.registerTargets(visible, bodyTop)

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	for i, ln := range visible {
		b.WriteString(ln.text)
		if i < len(visible)-1 {
			b.WriteString("\n")
		}
	}
	for i := len(visible); i < bodyH; i++ {
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(footer)
	return b.String()
}

func (m *appModel) renderTabs() string {
	names := []string{"Today", "Upcoming", "Anytime", "Someday", "Project"}
	parts := make([]string, 0, len(names))
	for i, n := range names {
		if viewID(i) == m.view {
			parts = append(parts, tabActive.Render(n))
		} else {
			parts = append(parts, tabStyle.Render(n))
		}
	}
	title := headerStyle.Render("cadence")
	return title + "  " + strings.Join(parts, "  ")
}

// renderBody builds the full (unscrolled) board body and the row metadata the
// mouse handlers hit-test against.
func (m *appModel) renderBody() []contentLine {
	groups := m.groups()
	hover, hoverState, edge, hovering := m.mach.Hover()
	draggedID := ""
	if m.mach.Dragging() {
		draggedID = m.mach.Dragged().Snapshot.ItemID
	}

	var lines []contentLine
	rowIdx := 0
	m.rows = m.rows[:0]
	appendRow := func(id string, g *board.Group) {
		m.rows = append(m.rows, boardRow{
			taskID:     id,
			group:      g,
			contentIdx: len(lines),
			line:       -1,
		})
	}
	for gi, g := range groups {
		label := g.Label
		if label == "" {
			label = groupLabelFallback(m, g)
		}
		head := groupHeaderStyle.Render(label)
		if hovering && hoverState == drag.HoverForeign &&
			drag.IsGroupTarget(hover.Payload) && hover.Payload.Group.Equal(g.Signature) {
			head = dropMarkStyle.Render(label + "  ⇣")
		}
		lines = append(lines, contentLine{text: head, group: g, groupIdx: gi})

		for _, id := range g.ItemIDs {
			text := m.renderRow(id, g, rowIdx, draggedID, hover, hoverState, edge, hovering)
			appendRow(id, g)
			lines = append(lines, contentLine{text: text, taskID: id, group: g, groupIdx: gi})
			rowIdx++
		}
		if len(g.ItemIDs) == 0 {
			lines = append(lines, contentLine{text: rowDim.Render("  (empty)"), group: g, groupIdx: gi})
		}
		lines = append(lines, contentLine{text: "", group: g, groupIdx: gi})
	}
	return lines
}

func (m *appModel) renderRow(id string, g *board.Group, rowIdx int, draggedID string,
	hover drag.Target, hoverState drag.HoverState, edge board.Edge, hovering bool) string {

	t, ok := m.st.Task(id)
	if !ok {
		return ""
	}
	mark := "○"
	style := rowStyle
	if t.Status == model.StatusDone {
		mark = "✓"
		style = rowDone
	}
	prefix := "  "
	if hovering && drag.IsItemTarget(hover.Payload) && hover.Payload.TargetItemID == id {
		if hoverState == drag.HoverSelf {
			// The origin suppresses its own shadow instead of showing a
			// drop indicator on itself.
			style = rowDim
		} else if edge == board.EdgeTop {
			prefix = dropMarkStyle.Render("▲ ")
		} else {
			prefix = dropMarkStyle.Render("▼ ")
		}
	} else if id == draggedID {
		style = rowDim
	} else if rowIdx == m.cursor && !m.mach.Dragging() {
		style = rowFocus
	}

	line := prefix + mark + " " + t.Title
	if note := m.rowMeta(*t); note != "" {
		line += "  " + statusStyle.Render(note)
	}
	return style.Render(xansi.Truncate(line, m.width, "…"))
}

func (m *appModel) rowMeta(t model.Task) string {
	var parts []string
	if t.ProjectID != nil && m.view != viewProject {
		if p, ok := m.db.FindProject(*t.ProjectID); ok {
			parts = append(parts, p.Name)
		}
	}
	if t.ScheduledDate != nil && m.view != viewToday && m.view != viewUpcoming {
		parts = append(parts, *t.ScheduledDate)
	}
	if t.RuleID != nil {
		parts = append(parts, "↻")
	}
	return strings.Join(parts, " · ")
}

func groupLabelFallback(m *appModel, g *board.Group) string {
	if g.Signature.ProjectID != nil {
		if p, ok := m.db.FindProject(*g.Signature.ProjectID); ok {
			return p.Name
		}
	}
	return "Tasks"
}

// registerTargets rebuilds the drop-target registry from the visible frame:
// a group-level target spanning each group's section and an item-level target
// per visible row. Registering from scratch every frame guarantees no stale
// target survives a view change.
func (m *appModel) registerTargets(visible []contentLine, bodyTop int) {
	m.reg.Reset()

	type span struct {
		group *board.Group
		min   int
		max   int
	}
	spans := map[int]*span{}
	for i, ln := range visible {
		y := bodyTop + i
		if ln.group == nil {
			continue
		}
		s, ok := spans[ln.groupIdx]
		if !ok {
			s = &span{group: ln.group, min: y, max: y}
			spans[ln.groupIdx] = s
		}
		if y < s.min {
			s.min = y
		}
		if y > s.max {
			s.max = y
		}
	}
	for i := range m.rows {
		r := &m.rows[i]
		r.line = -1
		off := r.contentIdx - m.scroll
		if off < 0 || off >= len(visible) {
			continue
		}
		r.line = bodyTop + off
		m.reg.Register(drag.Target{
			ID: "task:" + r.taskID,
			Payload: drag.Payload{
				Kind:         drag.KindTaskTarget,
				TargetItemID: r.taskID,
				Group:        r.group.Signature,
			},
			Box: drag.Rect{X: 0, Y: r.line, W: m.width, H: 1},
		})
	}
	for _, s := range spans {
		m.reg.Register(drag.Target{
			ID: "group:" + s.group.ID,
			Payload: drag.Payload{
				Kind:  drag.KindGroupTarget,
				Group: s.group.Signature,
			},
			Box: drag.Rect{X: 0, Y: s.min, W: m.width, H: s.max - s.min + 1},
		})
	}
}

func (m *appModel) renderFooter() string {
	if m.mach.Dragging() {
		p := m.mach.Dragged()
		if t, ok := m.st.Task(p.Snapshot.ItemID); ok {
			w := p.Origin.W
			if w <= 0 || w > m.width {
				w = m.width
			}
			return previewStyle.Render(xansi.Truncate("↕ "+t.Title, w, "…"))
		}
	}
	if m.statusMsg != "" {
		if m.statusErr {
			return errorStyle.Render(m.statusMsg)
		}
		return statusStyle.Render(m.statusMsg)
	}
	return statusStyle.Render("1-5 views · j/k move · J/K reorder · enter open · drag with mouse · q quit")
}
