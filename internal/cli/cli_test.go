package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"cadence-cli/internal/board"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"
)

// runCLI executes one command against a workspace dir and returns stdout.
func runCLI(t *testing.T, dir string, args ...string) string {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	if err := cmd.Execute(); err != nil {
		t.Fatalf("cadence %s: %v\nstderr: %s", strings.Join(args, " "), err, errOut.String())
	}
	return out.String()
}

func testWorkspace(t *testing.T) string {
	t.Helper()
	t.Setenv("CADENCE_CONFIG", filepath.Join(t.TempDir(), "no-config.toml"))
	return filepath.Join(t.TempDir(), ".cadence")
}

// idFrom extracts the generated id from "id  title" output.
func idFrom(t *testing.T, out string) string {
	t.Helper()
	fields := strings.Fields(out)
	if len(fields) == 0 {
		t.Fatalf("no id in output %q", out)
	}
	return fields[0]
}

func TestAddThenList(t *testing.T) {
	dir := testWorkspace(t)
	id := idFrom(t, runCLI(t, dir, "add", "buy milk"))
	if !strings.HasPrefix(id, "task-") {
		t.Fatalf("unexpected id %q", id)
	}
	out := runCLI(t, dir, "list", "inbox")
	if !strings.Contains(out, "buy milk") {
		t.Fatalf("inbox listing missing task: %q", out)
	}
}

func TestAddAppendsAtEndOfGroup(t *testing.T) {
	dir := testWorkspace(t)
	runCLI(t, dir, "add", "first")
	runCLI(t, dir, "add", "second")
	runCLI(t, dir, "add", "third")

	out := runCLI(t, dir, "list", "inbox")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines; got %q", out)
	}
	for i, want := range []string{"first", "second", "third"} {
		if !strings.Contains(lines[i], want) {
			t.Fatalf("line %d: want %q; got %q", i, want, lines[i])
		}
	}
}

func TestMoveBeforeReorders(t *testing.T) {
	dir := testWorkspace(t)
	id1 := idFrom(t, runCLI(t, dir, "add", "first"))
	runCLI(t, dir, "add", "second")
	id3 := idFrom(t, runCLI(t, dir, "add", "third"))

	out := runCLI(t, dir, "move", id3, "--before", id1)
	if !strings.Contains(out, "reordered") {
		t.Fatalf("unexpected move result: %q", out)
	}

	listed := strings.Split(strings.TrimSpace(runCLI(t, dir, "list", "inbox")), "\n")
	for i, want := range []string{"third", "first", "second"} {
		if !strings.Contains(listed[i], want) {
			t.Fatalf("line %d: want %q; got %q", i, want, listed[i])
		}
	}
}

func TestMoveToProjectClearsHeadingAndAppends(t *testing.T) {
	dir := testWorkspace(t)
	runCLI(t, dir, "projects", "add", "Spring Cleaning")
	id := idFrom(t, runCLI(t, dir, "add", "wash windows"))

	out := runCLI(t, dir, "move", id, "--to", "project:spring-cleaning")
	if !strings.Contains(out, "empty group") && !strings.Contains(out, "across groups") {
		t.Fatalf("unexpected move result: %q", out)
	}
	listed := runCLI(t, dir, "list", "--project", "spring-cleaning")
	if !strings.Contains(listed, "wash windows") {
		t.Fatalf("task not filed under project: %q", listed)
	}
}

func TestMoveToSomedayIsPlainStatusWrite(t *testing.T) {
	dir := testWorkspace(t)
	id := idFrom(t, runCLI(t, dir, "add", "learn piano"))
	runCLI(t, dir, "move", id, "--to", "someday")
	out := runCLI(t, dir, "list", "someday")
	if !strings.Contains(out, "learn piano") {
		t.Fatalf("task not in someday: %q", out)
	}
}

func TestDoneMovesToLogbook(t *testing.T) {
	dir := testWorkspace(t)
	id := idFrom(t, runCLI(t, dir, "add", "ship it"))
	runCLI(t, dir, "done", id)
	if out := runCLI(t, dir, "list", "inbox"); strings.Contains(out, "ship it") {
		t.Fatalf("done task still in inbox: %q", out)
	}
	if out := runCLI(t, dir, "list", "logbook"); !strings.Contains(out, "ship it") {
		t.Fatalf("done task missing from logbook: %q", out)
	}
}

func TestChecklistAddToggleMove(t *testing.T) {
	dir := testWorkspace(t)
	taskID := idFrom(t, runCLI(t, dir, "add", "pack bags"))
	row1 := idFrom(t, runCLI(t, dir, "check", "add", taskID, "passport"))
	row2 := idFrom(t, runCLI(t, dir, "check", "add", taskID, "tickets"))

	runCLI(t, dir, "check", "toggle", row1)
	runCLI(t, dir, "check", "move", row2, "--before", row1)

	out := runCLI(t, dir, "check", "list", taskID)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if !strings.Contains(lines[0], "tickets") {
		t.Fatalf("reorder lost: %q", out)
	}
	if !strings.Contains(lines[1], "☑") {
		t.Fatalf("toggle lost: %q", out)
	}
}

func TestRulesRunMaterializesDueRule(t *testing.T) {
	dir := testWorkspace(t)
	runCLI(t, dir, "rules", "add", "water plants", "--every", "weekly", "--next", "2026-01-05")
	out := runCLI(t, dir, "rules", "run")
	if !strings.Contains(out, "water plants") {
		t.Fatalf("rule did not materialize: %q", out)
	}
	// The rule advanced past today, so a second run is idle.
	if out := runCLI(t, dir, "rules", "run"); !strings.Contains(out, "nothing due") {
		t.Fatalf("rule re-materialized: %q", out)
	}
}

func TestDestSignature_ChangesOneDimension(t *testing.T) {
	db := &store.DB{
		Projects: []model.Project{{ID: "proj-1", Name: "House"}},
		Headings: []model.Heading{{ID: "head-1", ProjectID: "proj-1", Title: "Phase"}},
	}
	tk := model.Task{ID: "task-1", Status: model.StatusAnytime}

	sig, err := destSignature(db, tk, "project:house", false)
	if err != nil {
		t.Fatalf("project dest: %v", err)
	}
	if sig.ProjectID == nil || *sig.ProjectID != "proj-1" || sig.HeadingID != nil {
		t.Fatalf("project signature wrong: %+v", sig)
	}

	sig, err = destSignature(db, tk, "heading:head-1", false)
	if err != nil {
		t.Fatalf("heading dest: %v", err)
	}
	if sig.HeadingID == nil || *sig.HeadingID != "head-1" || sig.ProjectID == nil {
		t.Fatalf("heading signature wrong: %+v", sig)
	}

	sig, err = destSignature(db, tk, "2026-09-01", true)
	if err != nil {
		t.Fatalf("date dest: %v", err)
	}
	if sig.GroupDate == nil || *sig.GroupDate != "2026-09-01" {
		t.Fatalf("date signature wrong: %+v", sig)
	}
	if sig.Evening == nil || !*sig.Evening {
		t.Fatalf("evening flag lost: %+v", sig)
	}
	if sig.Status == nil || *sig.Status != string(model.StatusScheduled) {
		t.Fatalf("date dest did not tag scheduled: %+v", sig)
	}

	// Filing an inbox task promotes it to anytime.
	inbox := model.Task{ID: "task-2", Status: model.StatusInbox}
	sig, err = destSignature(db, inbox, "project:house", false)
	if err != nil {
		t.Fatalf("inbox project dest: %v", err)
	}
	if sig.Status == nil || *sig.Status != string(model.StatusAnytime) {
		t.Fatalf("inbox task not promoted: %+v", sig)
	}

	if _, err := destSignature(db, tk, "evening", false); err == nil {
		t.Fatalf("evening dest on unscheduled task should fail")
	}
	if _, err := destSignature(db, tk, "sometime", false); err == nil {
		t.Fatalf("unknown destination accepted")
	}
}

func TestMoveBeforeAcrossStatusesRehomes(t *testing.T) {
	dir := testWorkspace(t)
	inboxID := idFrom(t, runCLI(t, dir, "add", "stray thought"))
	anyID := idFrom(t, runCLI(t, dir, "add", "sharpen knives", "--when", "anytime"))
	runCLI(t, dir, "add", "oil the door", "--when", "anytime")

	out := runCLI(t, dir, "move", inboxID, "--before", anyID)
	if !strings.Contains(out, "across groups") {
		t.Fatalf("cross-status move classified wrong: %q", out)
	}

	// The task left the inbox and leads the anytime list.
	if out := runCLI(t, dir, "list", "inbox"); strings.Contains(out, "stray thought") {
		t.Fatalf("task still in inbox: %q", out)
	}
	out = runCLI(t, dir, "list", "anytime")
	first := strings.Index(out, "stray thought")
	second := strings.Index(out, "sharpen knives")
	if first < 0 || second < 0 || first > second {
		t.Fatalf("anytime order wrong: %q", out)
	}
}

func TestListAreaAndDateFilters(t *testing.T) {
	dir := testWorkspace(t)
	runCLI(t, dir, "areas", "add", "Home")
	runCLI(t, dir, "projects", "add", "Garden", "--area", "home")
	runCLI(t, dir, "add", "mow lawn", "--project", "garden")
	runCLI(t, dir, "add", "pay rent", "--area", "home")
	runCLI(t, dir, "add", "unrelated errand")
	runCLI(t, dir, "add", "dentist", "--when", "2026-09-03")

	out := runCLI(t, dir, "list", "--area", "home")
	if !strings.Contains(out, "mow lawn") || !strings.Contains(out, "pay rent") {
		t.Fatalf("area listing missing tasks: %q", out)
	}
	if strings.Contains(out, "unrelated errand") {
		t.Fatalf("area listing leaked unrelated task: %q", out)
	}

	out = runCLI(t, dir, "list", "--date", "2026-09-03")
	if !strings.Contains(out, "dentist") || strings.Contains(out, "mow lawn") {
		t.Fatalf("date listing wrong: %q", out)
	}
}

func TestNextPosition_AppendsAfterGroupMax(t *testing.T) {
	tasks := []model.Task{
		{ID: "task-1", Status: model.StatusAnytime, Position: 3},
		{ID: "task-2", Status: model.StatusAnytime, Position: 7},
		{ID: "task-3", Status: model.StatusDone, Position: 40}, // closed, ignored
	}
	if got := nextPosition(tasks, board.Signature{}); got != 8 {
		t.Fatalf("want 8; got %d", got)
	}
}
