package tui

import (
	"context"
	"time"

	"cadence-cli/internal/board"
	"cadence-cli/internal/config"
	"cadence-cli/internal/drag"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type viewID int

const (
	viewToday viewID = iota
	viewUpcoming
	viewAnytime
	viewSomeday
	viewProject
)

// writeDoneMsg reports one persistence call finishing. The command and write
// are the rollback context captured when the move was classified: a late
// failure reverts only its own change, never a move applied after it.
type writeDoneMsg struct {
	cmd   *board.Command
	write board.Write
	err   error
}

// rowPersistMsg reports the outcome of a checklist row insert or delete.
// Field updates travel as writeDoneMsg; row existence changes need their own
// rollback shape (a failed insert removes the optimistic row, a failed delete
// restores it).
type rowPersistMsg struct {
	inserted bool
	row      model.ChecklistItem
	err      error
}

type autoScrollMsg struct{}

const autoScrollEvery = 80 * time.Millisecond

type appModel struct {
	cfg    config.Config
	db     *store.DB
	st     *board.State
	writer board.Persister
	today  string

	view      viewID
	projectID string

	width  int
	height int
	scroll int
	cursor int

	reg      *drag.Registry
	mach     *drag.Machine
	scroller drag.AutoScroll

	// Rebuilt on every render pass; mouse events hit-test against the most
	// recently rendered frame.
	rows     []boardRow
	boardBox drag.Rect

	editor *checklistEditor

	statusMsg string
	statusErr bool
}

// boardRow is one rendered task line. contentIdx is the row's line index in
// the unscrolled body; line is its screen y, or -1 when scrolled out of view.
type boardRow struct {
	taskID     string
	group      *board.Group
	contentIdx int
	line       int
}

func newAppModel(cfg config.Config, db *store.DB, writer board.Persister, today string) *appModel {
	applyAccent(cfg.UI.Accent)
	setMarkdownStyle(cfg.UI.Theme)
	reg := &drag.Registry{}
	return &appModel{
		cfg:    cfg,
		db:     db,
		st:     store.BoardState(db),
		writer: writer,
		today:  today,
		reg:    reg,
		mach:   &drag.Machine{Reg: reg},
		scroller: drag.AutoScroll{
			Margin: cfg.UI.AutoScrollMargin,
			Rate:   cfg.UI.AutoScrollRate,
		},
		width:  80,
		height: 24,
	}
}

func (m *appModel) Init() tea.Cmd { return nil }

func (m *appModel) filter() board.ViewFilter {
	f := board.ViewFilter{
		Today:     m.today,
		ProjectID: m.projectID,
		Headings:  m.db.Headings,
		Projects:  m.db.Projects,
	}
	switch m.view {
	case viewToday:
		f.Kind = board.ViewToday
	case viewUpcoming:
		f.Kind = board.ViewUpcoming
	case viewAnytime:
		f.Kind = board.ViewAnytime
	case viewSomeday:
		f.Kind = board.ViewSomeday
	case viewProject:
		f.Kind = board.ViewProject
	}
	return f
}

func (m *appModel) groups() []*board.Group {
	return board.ComputeGroups(m.st.TaskValues(), m.filter())
}

func (m *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.editor != nil {
			m.editor.resize(msg.Width, msg.Height)
		}
		return m, nil

	case writeDoneMsg:
		if msg.err != nil {
			msg.cmd.RollbackWrite(m.st, msg.write)
			m.statusMsg = "save failed, reverted: " + msg.err.Error()
			m.statusErr = true
		}
		return m, nil

	case rowPersistMsg:
		if msg.err != nil {
			if msg.inserted {
				m.st.RemoveRow(msg.row.ID)
			} else {
				row := msg.row
				m.st.Checklist = append(m.st.Checklist, &row)
			}
			m.statusMsg = "save failed, reverted: " + msg.err.Error()
			m.statusErr = true
		}
		return m, nil

	case autoScrollMsg:
		return m, m.tickAutoScroll()

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if m.editor != nil {
			done, cmd := m.editor.handleKey(msg)
			if done {
				m.editor = nil
			}
			return m, cmd
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *appModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "1":
		m.switchView(viewToday)
	case "2":
		m.switchView(viewUpcoming)
	case "3":
		m.switchView(viewAnytime)
	case "4":
		m.switchView(viewSomeday)
	case "5":
		if len(m.db.Projects) > 0 {
			m.projectID = m.db.Projects[0].ID
			m.switchView(viewProject)
		}
	case "tab":
		if m.view == viewProject && m.projectID != "" {
			m.cycleProject()
		}
	case "j", "down":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
		m.scrollToCursor()
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.scrollToCursor()
	case "J", "shift+down":
		return m.nudge(board.EdgeBottom)
	case "K", "shift+up":
		return m.nudge(board.EdgeTop)
	case "enter":
		if m.cursor >= 0 && m.cursor < len(m.rows) {
			m.editor = newChecklistEditor(m.rows[m.cursor].taskID, m.st, m.db, m.writer)
			m.editor.resize(m.width, m.height)
		}
	case "esc":
		if m.mach.Dragging() {
			m.mach.Cancel()
		}
	}
	return nil
}

func (m *appModel) switchView(v viewID) {
	if m.mach.Dragging() {
		m.mach.Cancel()
	}
	m.view = v
	m.cursor = 0
	m.scroll = 0
}

func (m *appModel) cycleProject() {
	for i, p := range m.db.Projects {
		if p.ID == m.projectID {
			m.projectID = m.db.Projects[(i+1)%len(m.db.Projects)].ID
			m.cursor = 0
			m.scroll = 0
			return
		}
	}
}

// nudge moves the focused row one slot in the given direction by running the
// same snapshot/hover/classify pipeline a mouse drop uses.
func (m *appModel) nudge(edge board.Edge) tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	row := m.rows[m.cursor]
	idx := row.group.IndexOf(row.taskID)
	if idx < 0 {
		return nil
	}
	target := idx + 1
	if edge == board.EdgeTop {
		target = idx - 1
	}
	if target < 0 || target >= len(row.group.ItemIDs) {
		return nil
	}
	snap := board.DragSnapshot{ItemID: row.taskID, Home: row.group.Signature}
	sig := board.HoverSignal{TargetItemID: row.group.ItemIDs[target], Edge: edge}
	return m.classifyAndPersist(snap, sig)
}

func (m *appModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.scroll -= 2
			m.clampScroll()
			return nil
		case tea.MouseButtonWheelDown:
			m.scroll += 2
			m.clampScroll()
			return nil
		case tea.MouseButtonLeft:
			if m.editor != nil {
				return m.editor.mousePress(msg.X, msg.Y)
			}
			return m.liftAt(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if m.editor != nil {
			m.editor.mouseMotion(msg.X, msg.Y)
			return nil
		}
		if m.mach.Dragging() {
			m.mach.PointerMove(msg.X, msg.Y)
		}
		return nil
	case tea.MouseActionRelease:
		if m.editor != nil {
			return m.editor.mouseRelease(msg.X, msg.Y)
		}
		if m.mach.Dragging() {
			m.mach.PointerMove(msg.X, msg.Y)
			return m.completeDrop()
		}
	}
	return nil
}

// liftAt starts a gesture on the row under the pointer. The snapshot and the
// origin rect are captured here, once; the preview is never re-measured.
func (m *appModel) liftAt(x, y int) tea.Cmd {
	for _, r := range m.rows {
		box := drag.Rect{X: 0, Y: r.line, W: m.width, H: 1}
		if !box.Contains(x, y) {
			continue
		}
		ok := m.mach.Lift(drag.Payload{
			Kind: drag.KindTaskDrag,
			Snapshot: board.DragSnapshot{
				ItemID: r.taskID,
				Home:   r.group.Signature,
			},
			Origin: box,
		})
		if ok {
			m.mach.PointerMove(x, y)
			return m.tickAutoScroll()
		}
		return nil
	}
	return nil
}

// tickAutoScroll scrolls the board at a fixed rate while a drag hovers near
// its edge. The tick chain stops as soon as the gesture ends.
func (m *appModel) tickAutoScroll() tea.Cmd {
	if !m.mach.Dragging() {
		return nil
	}
	_, py := m.mach.Pointer()
	if d := m.scroller.Delta(m.boardBox, py); d != 0 {
		m.scroll += d
		m.clampScroll()
	}
	return tea.Tick(autoScrollEvery, func(time.Time) tea.Msg { return autoScrollMsg{} })
}

func (m *appModel) completeDrop() tea.Cmd {
	snap, sig, ok := m.mach.Drop()
	if !ok {
		// Cancelled: no move was classified, local state already equals
		// pre-drag state.
		return nil
	}
	return m.classifyAndPersist(snap, sig)
}

// classifyAndPersist is the drop pipeline: resolve against current groups,
// plan, apply optimistically, then issue each write as its own fire-and-forget
// command. The UI reflects the new order before persistence confirms.
func (m *appModel) classifyAndPersist(snap board.DragSnapshot, sig board.HoverSignal) tea.Cmd {
	groups := m.groups()
	mv := board.Resolve(groups, snap, sig)
	cmd := board.PlanTask(m.st, groups, mv)
	cmd.Apply(m.st)
	m.statusMsg = ""
	m.statusErr = false
	return persistCmds(m.writer, cmd)
}

// persistCmds turns a planned command into one bubbletea command per write.
// Writes are independent: they are not awaited before further gestures, and
// each failure message carries its own rollback context.
func persistCmds(p board.Persister, c *board.Command) tea.Cmd {
	if len(c.Writes) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(c.Writes))
	for _, w := range c.Writes {
		w := w
		cmds = append(cmds, func() tea.Msg {
			err := p.UpdateItem(context.Background(), w.ItemID, w.Fields)
			return writeDoneMsg{cmd: c, write: w, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (m *appModel) clampScroll() {
	if m.scroll < 0 {
		m.scroll = 0
	}
}

func (m *appModel) scrollToCursor() {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return
	}
	// Nudge the scroll window until the cursor's content line is inside it.
	idx := m.rows[m.cursor].contentIdx
	bodyH := m.boardBox.H
	if bodyH < 1 {
		bodyH = 1
	}
	if idx < m.scroll {
		m.scroll = idx
	} else if idx >= m.scroll+bodyH {
		m.scroll = idx - bodyH + 1
	}
	m.clampScroll()
}
