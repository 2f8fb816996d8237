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

func newRulesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List and manage repeating rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()
			if strings.EqualFold(app.Format, "json") {
				return writeOut(cmd, app, ws.db.Rules)
			}
			var lines []string
			for _, r := range ws.db.Rules {
				lines = append(lines, fmt.Sprintf("%s  every %d %s  next %s  %q",
					r.ID, max(r.Interval, 1), r.Frequency, r.NextDate, r.Template))
			}
			if len(lines) == 0 {
				lines = []string{"(no rules)"}
			}
			return writeOut(cmd, app, lines)
		},
	}
	cmd.AddCommand(newRulesAddCmd(app))
	cmd.AddCommand(newRulesRunCmd(app))
	return cmd
}

func newRulesAddCmd(app *App) *cobra.Command {
	var every, next string
	var interval int

	cmd := &cobra.Command{
		Use:   "add <template>",
		Short: "Create a repeating rule",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			freq := model.RepeatFrequency(strings.ToLower(every))
			switch freq {
			case model.RepeatDaily, model.RepeatWeekly, model.RepeatMonthly, model.RepeatYearly:
			default:
				return writeErr(cmd, errors.New("--every must be daily, weekly, monthly or yearly"))
			}
			if next == "" {
				next = time.Now().Format("2006-01-02")
			} else if _, err := time.Parse("2006-01-02", next); err != nil {
				return writeErr(cmd, errors.New("--next must be YYYY-MM-DD"))
			}
			id, err := store.GenerateID(store.PrefixRule)
			if err != nil {
				return writeErr(cmd, err)
			}
			r := model.RepeatRule{
				ID:        id,
				Frequency: freq,
				Interval:  interval,
				NextDate:  next,
				Template:  strings.TrimSpace(strings.Join(args, " ")),
				CreatedAt: time.Now().UTC(),
			}
			if err := ws.writer.InsertRule(ctx, r); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, r.ID+"  next "+r.NextDate)
		},
	}

	cmd.Flags().StringVar(&every, "every", "weekly", "daily | weekly | monthly | yearly")
	cmd.Flags().IntVar(&interval, "interval", 1, "Repeat every N periods")
	cmd.Flags().StringVar(&next, "next", "", "First due date (default: today)")
	return cmd
}

// newRulesRunCmd materializes every due rule into a scheduled task and
// advances the rule. The board itself never runs rules; it only sees the
// tasks this produces.
func newRulesRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Materialize due rules into tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, ws, err := openWorkspace(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer ws.Close()

			today := time.Now().Format("2006-01-02")
			var lines []string
			for _, r := range ws.db.Rules {
				for r.NextDate != "" && r.NextDate <= today {
					id, err := store.GenerateID(store.PrefixTask)
					if err != nil {
						return writeErr(cmd, err)
					}
					now := time.Now().UTC()
					due := r.NextDate
					t := model.Task{
						ID:            id,
						Title:         r.Template,
						Status:        model.StatusScheduled,
						ScheduledDate: &due,
						RuleID:        &r.ID,
						CreatedAt:     now,
						UpdatedAt:     now,
					}
					t.Position = nextPosition(ws.db.Tasks, board.RawSignature(t))
					if err := ws.writer.InsertTask(ctx, t); err != nil {
						return writeErr(cmd, err)
					}
					ws.db.Tasks = append(ws.db.Tasks, t)
					next, err := r.Advance(r.NextDate)
					if err != nil {
						return writeErr(cmd, err)
					}
					if err := ws.writer.AdvanceRule(ctx, r.ID, next); err != nil {
						return writeErr(cmd, err)
					}
					r.NextDate = next
					lines = append(lines, fmt.Sprintf("%s  %s  @%s  ↻%s", t.ID, t.Title, due, r.ID))
				}
			}
			if len(lines) == 0 {
				lines = []string{"nothing due"}
			}
			return writeOut(cmd, app, lines)
		},
	}
}
