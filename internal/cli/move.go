package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cadence-cli/internal/board"
	"cadence-cli/internal/model"
	"cadence-cli/internal/store"

	"github.com/spf13/cobra"
)

func newMoveCmd(app *App) *cobra.Command {
	var before, after, to string
	var evening bool

	cmd := &cobra.Command{
		Use:   "move <task>",
		Short: "Move a task within or across groups",
		Long: strings.TrimSpace(`
Move a task. --before/--after reorder relative to another task; --to rehomes
the task into a different group:

  --to project:<ref>     file under a project
  --to heading:<id>      file under a project heading
  --to today             schedule for today
  --to <YYYY-MM-DD>      schedule for a date
  --to evening           push a scheduled task into the evening slot
  --to anytime|someday   plain status change, order untouched
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			t, ok := ws.db.FindTask(args[0])
			if !ok {
				return writeErr(cmd, errNotFound("task", args[0]))
			}
			set := 0
			for _, s := range []string{before, after, to} {
				if s != "" {
					set++
				}
			}
			if set != 1 {
				return writeErr(cmd, errors.New("exactly one of --before, --after, --to is required"))
			}

			// Status shortcuts skip the classifier: they change no group the
			// raw projection can express an order for.
			switch strings.ToLower(to) {
			case "anytime", "someday":
				st := model.StatusAnytime
				if strings.EqualFold(to, "someday") {
					st = model.StatusSomeday
				}
				fields := map[string]any{"status": string(st), "scheduledDate": nil}
				if err := ws.writer.UpdateItem(ctx, t.ID, fields); err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, fmt.Sprintf("%s → %s", t.ID, st))
			}

			snap := board.DragSnapshot{ItemID: t.ID, Home: board.RawSignature(*t)}
			var sig board.HoverSignal
			switch {
			case before != "":
				if _, ok := ws.db.FindTask(before); !ok {
					return writeErr(cmd, errNotFound("task", before))
				}
				sig = board.HoverSignal{TargetItemID: before, Edge: board.EdgeTop}
			case after != "":
				if _, ok := ws.db.FindTask(after); !ok {
					return writeErr(cmd, errNotFound("task", after))
				}
				sig = board.HoverSignal{TargetItemID: after, Edge: board.EdgeBottom}
			default:
				destSig, err := destSignature(ws.db, *t, to, evening)
				if err != nil {
					return writeErr(cmd, err)
				}
				sig = board.HoverSignal{Group: destSig, GroupLevel: true}
			}

			st := store.BoardState(ws.db)
			groups := board.RawGroups(ws.db.Tasks)
			mv := board.Resolve(groups, snap, sig)
			plan := board.PlanTask(st, groups, mv)
			plan.Apply(st)
			if errs := (board.Bridge{P: ws.writer}).Persist(ctx, st, plan); len(errs) > 0 {
				return writeErr(cmd, errs[0])
			}
			return writeOut(cmd, app, describeMove(mv, len(plan.Writes)))
		},
	}

	cmd.Flags().StringVar(&before, "before", "", "Place directly above this task")
	cmd.Flags().StringVar(&after, "after", "", "Place directly below this task")
	cmd.Flags().StringVar(&to, "to", "", "Destination group (see help)")
	cmd.Flags().BoolVar(&evening, "evening", false, "With a date destination: target the evening slot")
	return cmd
}

// destSignature builds the destination group signature for --to. It starts
// from the task's raw signature and changes one dimension, so the classifier
// sees exactly the tag the user asked to move along. The status tag follows
// the destination: filing an inbox task promotes it to anytime, scheduling
// sets scheduled.
func destSignature(db *store.DB, t model.Task, to string, evening bool) (board.Signature, error) {
	sig := board.RawSignature(t)
	setStatus := func(s model.TaskStatus) {
		v := string(s)
		sig.Status = &v
	}
	switch {
	case strings.HasPrefix(to, "project:"):
		p, ok := projectByRef(db, strings.TrimPrefix(to, "project:"))
		if !ok {
			return sig, errNotFound("project", strings.TrimPrefix(to, "project:"))
		}
		sig.ProjectID = &p.ID
		sig.HeadingID = nil
		if t.Status == model.StatusInbox {
			setStatus(model.StatusAnytime)
		}
		return sig, nil
	case strings.HasPrefix(to, "heading:"):
		h, ok := db.FindHeading(strings.TrimPrefix(to, "heading:"))
		if !ok {
			return sig, errNotFound("heading", strings.TrimPrefix(to, "heading:"))
		}
		sig.ProjectID = &h.ProjectID
		sig.HeadingID = &h.ID
		if t.Status == model.StatusInbox {
			setStatus(model.StatusAnytime)
		}
		return sig, nil
	case strings.EqualFold(to, "evening"):
		if sig.GroupDate == nil {
			return sig, errors.New("--to evening needs a scheduled task")
		}
		ev := true
		sig.Evening = &ev
		return sig, nil
	case strings.EqualFold(to, "today"):
		d := time.Now().Format("2006-01-02")
		sig.GroupDate = &d
		sig.Evening = &evening
		setStatus(model.StatusScheduled)
		return sig, nil
	default:
		if _, err := time.Parse("2006-01-02", to); err != nil {
			return sig, fmt.Errorf("unknown destination %q", to)
		}
		d := to
		sig.GroupDate = &d
		sig.Evening = &evening
		setStatus(model.StatusScheduled)
		return sig, nil
	}
}

func describeMove(mv board.Move, writes int) string {
	switch m := mv.(type) {
	case board.NoOp:
		return "no change"
	case board.Reorder:
		return fmt.Sprintf("reordered %s (%d position writes)", m.ItemID, writes)
	case board.CrossGroupMove:
		return fmt.Sprintf("moved %s across groups (%d writes)", m.ItemID, writes)
	case board.AppendToEmpty:
		return fmt.Sprintf("moved %s to an empty group (%d writes)", m.ItemID, writes)
	default:
		return "no change"
	}
}
