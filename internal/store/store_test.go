package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cadence-cli/internal/model"
)

func openTestStore(t *testing.T) (context.Context, Writer) {
	t.Helper()
	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	sq, err := s.Open(ctx)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = sq.Close() })
	return ctx, Writer{SQ: sq}
}

func testTask(id string) model.Task {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	return model.Task{
		ID:        id,
		Title:     "title of " + id,
		Status:    model.StatusAnytime,
		Position:  1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestInsertAndLoadRoundTrip(t *testing.T) {
	ctx, w := openTestStore(t)

	tk := testTask("task-aaaa")
	tk.ProjectID = model.StrPtr("proj-bbbb")
	tk.Tags = []string{"home", "errand"}
	if err := w.InsertTask(ctx, tk); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	if err := w.InsertProject(ctx, model.Project{ID: "proj-bbbb", Name: "House", CreatedAt: tk.CreatedAt}); err != nil {
		t.Fatalf("insert project: %v", err)
	}
	if err := w.InsertChecklistItem(ctx, model.ChecklistItem{ID: "chk-cccc", TaskID: tk.ID, Title: "step", Position: 1}); err != nil {
		t.Fatalf("insert row: %v", err)
	}

	db, err := Load(ctx, w.SQ)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, ok := db.FindTask("task-aaaa")
	if !ok {
		t.Fatalf("task missing after load")
	}
	if got.ProjectID == nil || *got.ProjectID != "proj-bbbb" {
		t.Fatalf("project id lost: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "home" {
		t.Fatalf("tags lost: %v", got.Tags)
	}
	if len(db.Checklist) != 1 || db.Checklist[0].TaskID != tk.ID {
		t.Fatalf("checklist lost: %+v", db.Checklist)
	}
}

func TestUpdateItem_DispatchesOnIDPrefix(t *testing.T) {
	ctx, w := openTestStore(t)

	if err := w.InsertTask(ctx, testTask("task-aaaa")); err != nil {
		t.Fatalf("insert task: %v", err)
	}
	if err := w.InsertChecklistItem(ctx, model.ChecklistItem{ID: "chk-bbbb", TaskID: "task-aaaa", Title: "step", Position: 1}); err != nil {
		t.Fatalf("insert row: %v", err)
	}

	if err := w.UpdateItem(ctx, "task-aaaa", map[string]any{"position": 4, "status": "someday"}); err != nil {
		t.Fatalf("update task: %v", err)
	}
	if err := w.UpdateItem(ctx, "chk-bbbb", map[string]any{"done": true, "position": 2}); err != nil {
		t.Fatalf("update row: %v", err)
	}

	db, err := Load(ctx, w.SQ)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	tk, _ := db.FindTask("task-aaaa")
	if tk.Position != 4 || tk.Status != model.StatusSomeday {
		t.Fatalf("task update lost: %+v", tk)
	}
	if !db.Checklist[0].Done || db.Checklist[0].Position != 2 {
		t.Fatalf("row update lost: %+v", db.Checklist[0])
	}
}

func TestUpdateItem_NilClearsOptionalColumn(t *testing.T) {
	ctx, w := openTestStore(t)

	tk := testTask("task-aaaa")
	tk.ScheduledDate = model.StrPtr("2026-09-01")
	tk.Status = model.StatusScheduled
	if err := w.InsertTask(ctx, tk); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := w.UpdateItem(ctx, tk.ID, map[string]any{"scheduledDate": nil, "status": "anytime"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	db, err := Load(ctx, w.SQ)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got, _ := db.FindTask(tk.ID)
	if got.ScheduledDate != nil {
		t.Fatalf("scheduled date not cleared: %v", *got.ScheduledDate)
	}
}

func TestUpdateItem_RejectsUnknownField(t *testing.T) {
	ctx, w := openTestStore(t)
	if err := w.InsertTask(ctx, testTask("task-aaaa")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := w.UpdateItem(ctx, "task-aaaa", map[string]any{"rank": "h"}); err == nil {
		t.Fatalf("unknown field accepted")
	}
}

func TestUpdateItem_MissingRowIsErrNotFound(t *testing.T) {
	ctx, w := openTestStore(t)
	err := w.UpdateItem(ctx, "task-zzzz", map[string]any{"position": 1})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound; got %v", err)
	}
}

func TestAdvanceRule(t *testing.T) {
	ctx, w := openTestStore(t)
	r := model.RepeatRule{
		ID: "rule-aaaa", Frequency: model.RepeatWeekly, Interval: 1,
		NextDate: "2026-08-29", Template: "water plants",
		CreatedAt: time.Now().UTC(),
	}
	if err := w.InsertRule(ctx, r); err != nil {
		t.Fatalf("insert rule: %v", err)
	}
	if err := w.AdvanceRule(ctx, r.ID, "2026-09-05"); err != nil {
		t.Fatalf("advance: %v", err)
	}
	db, err := Load(ctx, w.SQ)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if db.Rules[0].NextDate != "2026-09-05" {
		t.Fatalf("next date not advanced: %+v", db.Rules[0])
	}
}

func TestGenerateID_PrefixAndUniqueness(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id, err := GenerateID(PrefixTask)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if len(id) <= len(PrefixTask)+1 || id[:len(PrefixTask)+1] != PrefixTask+"-" {
			t.Fatalf("bad id %q", id)
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestDiscoverDir_WalksUp(t *testing.T) {
	root := t.TempDir()
	wsDir := filepath.Join(root, workspaceDirName)
	if err := os.MkdirAll(filepath.Join(root, "a", "b"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.MkdirAll(wsDir, 0o755); err != nil {
		t.Fatalf("mkdir ws: %v", err)
	}
	found, ok := DiscoverDir(filepath.Join(root, "a", "b"))
	if !ok || found != wsDir {
		t.Fatalf("want %q; got %q ok=%v", wsDir, found, ok)
	}
}
