package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lifetiles/internal/config"
	"lifetiles/internal/model"
	"lifetiles/internal/repository"
	"lifetiles/internal/schedule"
	"lifetiles/internal/service"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "lifetiles",
		Short:         "Habit tracker with a derived challenge calendar",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(
		addCmd(),
		listCmd(),
		doneCmd(),
		renameCmd(),
		archiveCmd(),
		rmCmd(),
		calendarCmd(),
		statusCmd(),
		collectionCmd("book", service.ListBooks),
		collectionCmd("film", service.ListFilms),
		watchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles the wired services for one command invocation.
type app struct {
	cfg       config.Config
	frame     schedule.Frame
	clock     schedule.Clock
	todoSvc   *service.TodoService
	challenge *service.ChallengeService
	library   *service.LibraryService
	close     func()
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}
	closeDB := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	kv := repository.NewKVStore(db)
	todoRepo := repository.NewTodoRepository(kv)
	statusRepo := repository.NewStatusRepository(kv)
	libraryRepo := repository.NewLibraryRepository(kv)

	frame := schedule.NewFrame(cfg.OffsetMinutes)
	clock := schedule.RealClock{}
	challenge := service.NewChallengeService(todoRepo, statusRepo, clock, frame)

	return &app{
		cfg:       cfg,
		frame:     frame,
		clock:     clock,
		todoSvc:   service.NewTodoService(todoRepo, challenge, clock, frame),
		challenge: challenge,
		library:   service.NewLibraryService(libraryRepo, clock),
		close:     closeDB,
	}, nil
}

func addCmd() *cobra.Command {
	var (
		freq     string
		weekdays string
		dates    string
		anchor   string
	)
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a to-do item; --freq makes it recurring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			if freq == "" {
				item, err := a.todoSvc.CreateSingle(ctx, args[0])
				if err != nil {
					return err
				}
				fmt.Printf("added %s (%s)\n", item.Name, item.ID)
				return nil
			}

			input := service.RecurringInput{
				Name:      args[0],
				Frequency: model.Frequency(freq),
			}
			if input.Weekdays, err = parseIntList(weekdays); err != nil {
				return fmt.Errorf("--weekdays: %w", err)
			}
			if input.MonthlyDates, err = parseIntList(dates); err != nil {
				return fmt.Errorf("--dates: %w", err)
			}
			if anchor != "" {
				t, err := time.ParseInLocation("2006-01-02", anchor, a.frame.Location())
				if err != nil {
					return fmt.Errorf("--anchor: %w", err)
				}
				input.AnchorDate = &t
			}

			item, err := a.todoSvc.CreateRecurring(ctx, input)
			if err != nil {
				return err
			}
			fmt.Printf("added recurring %s (%s)\n", item.Name, item.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&freq, "freq", "", "recurrence frequency: weekly, biweekly or monthly")
	cmd.Flags().StringVar(&weekdays, "weekdays", "", "comma-separated weekdays, 0=Sunday (weekly/biweekly)")
	cmd.Flags().StringVar(&dates, "dates", "", "comma-separated days of month (monthly)")
	cmd.Flags().StringVar(&anchor, "anchor", "", "biweekly anchor date YYYY-MM-DD, defaults to today")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show single and recurring to-do items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			col, err := a.todoSvc.List(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Println("Single items:")
			printItems(col.SingleItems)
			fmt.Println("\nRecurring items:")
			printItems(col.RecurringItems)
			return nil
		},
	}
}

func printItems(items []model.TodoItem) {
	if len(items) == 0 {
		fmt.Println("  (none)")
		return
	}
	for _, item := range items {
		mark := " "
		if item.Completed {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %s  %s", mark, item.Name, item.ID)
		if r := item.Recurring; r != nil {
			line += fmt.Sprintf("  (%s", r.Frequency)
			if r.Archived {
				line += ", archived"
			}
			line += ")"
		}
		fmt.Println(line)
	}
}

func doneCmd() *cobra.Command {
	var (
		undo    bool
		dateStr string
	)
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark an item completed (recurring items record today's completion)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			date := a.clock.Now()
			if dateStr != "" {
				date, err = time.ParseInLocation("2006-01-02", dateStr, a.frame.Location())
				if err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}
			return a.todoSvc.SetCompleted(cmd.Context(), args[0], date, !undo)
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "clear the completion instead")
	cmd.Flags().StringVar(&dateStr, "date", "", "record the completion for this day (YYYY-MM-DD) instead of today")
	return cmd
}

func renameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a to-do item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.todoSvc.Rename(cmd.Context(), args[0], args[1])
		},
	}
}

func archiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Toggle a recurring item's archive flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			archived, err := a.todoSvc.ToggleArchive(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if archived {
				fmt.Println("archived")
			} else {
				fmt.Println("unarchived")
			}
			return nil
		},
	}
}

func rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a to-do item and its completion history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.todoSvc.Delete(cmd.Context(), args[0])
		},
	}
}

var statusGlyphs = map[model.DateStatus]string{
	model.StatusSuccess:     "✓",
	model.StatusRescued:     "~",
	model.StatusPending:     "?",
	model.StatusFailed:      "✗",
	model.StatusNoChallenge: "·",
}

func calendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar [YYYY-MM]",
		Short: "Print the challenge calendar for a month (default: current)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			now := a.clock.Now().In(a.frame.Location())
			year, month := now.Year(), now.Month()
			if len(args) == 1 {
				t, err := time.ParseInLocation("2006-01", args[0], a.frame.Location())
				if err != nil {
					return fmt.Errorf("month: %w", err)
				}
				year, month = t.Year(), t.Month()
			}

			statuses, err := a.challenge.MonthStatuses(ctx, year, month)
			if err != nil {
				return err
			}

			fmt.Printf("%s %d\n", month, year)
			fmt.Println("Su  Mo  Tu  We  Th  Fr  Sa")
			first := a.frame.Date(year, month, 1)
			fmt.Print(strings.Repeat("    ", a.frame.Weekday(first)))
			for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
				glyph := statusGlyphs[statuses[a.frame.DayKey(d)]]
				if glyph == "" {
					glyph = " "
				}
				fmt.Printf("%2d%s ", d.Day(), glyph)
				if a.frame.Weekday(d) == 6 {
					fmt.Println()
				}
			}
			fmt.Println()
			fmt.Println("✓ success  ~ rescued  ? pending  ✗ failed  · no challenge")
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <YYYY-MM-DD>",
		Short: "Show the status and required items for one date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			ctx := cmd.Context()

			date, err := time.ParseInLocation("2006-01-02", args[0], a.frame.Location())
			if err != nil {
				return fmt.Errorf("date: %w", err)
			}

			status, err := a.challenge.StatusFor(ctx, date)
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", args[0], status)

			col, err := a.todoSvc.List(ctx)
			if err != nil {
				return err
			}
			required := a.challenge.RequiredItemsFor(date, col.RecurringItems)
			if len(required) == 0 {
				return nil
			}
			fmt.Println("Required:")
			dayKey := a.frame.DayKey(date)
			for _, item := range required {
				mark := " "
				if c, ok := item.Recurring.CompletionFor(dayKey, item.ID); ok && c.Completed {
					mark = "x"
				}
				fmt.Printf("  [%s] %s\n", mark, item.Name)
			}
			return nil
		},
	}
}

func collectionCmd(name string, list service.ListType) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name,
		Short: fmt.Sprintf("Manage the %s collection", list),
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <name>",
		Short: "Add an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			item, err := a.library.Add(cmd.Context(), list, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("added %s (%s)\n", item.Name, item.ID)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List entries, uncompleted first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			items, err := a.library.List(cmd.Context(), list)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("(none)")
				return nil
			}
			for _, item := range items {
				mark := " "
				if item.Completed {
					mark = "x"
				}
				fmt.Printf("[%s] %s  %s\n", mark, item.Name, item.ID)
				if item.Notes != "" {
					fmt.Printf("    %s\n", item.Notes)
				}
			}
			return nil
		},
	})

	var undo bool
	done := &cobra.Command{
		Use:   "done <id>",
		Short: "Mark an entry completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.library.SetCompleted(cmd.Context(), list, args[0], !undo)
		},
	}
	done.Flags().BoolVar(&undo, "undo", false, "clear the completion instead")
	cmd.AddCommand(done)

	var newName, notes string
	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry's name or notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.library.Update(cmd.Context(), list, args[0], newName, notes)
		},
	}
	edit.Flags().StringVar(&newName, "name", "", "new name")
	edit.Flags().StringVar(&notes, "notes", "", "notes text")
	cmd.AddCommand(edit)

	cmd.AddCommand(&cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()
			return a.library.Delete(cmd.Context(), list, args[0])
		},
	})

	return cmd
}

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Run the daily midnight recompute until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			scheduler := service.NewSchedulerService(a.frame.Location())
			if _, err := scheduler.ScheduleDaily(a.cfg.RecomputeTime, func() {
				jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := a.challenge.RecomputeWindow(jobCtx, a.clock.Now()); err != nil {
					log.Printf("[warn] midnight recompute: %v", err)
				}
			}); err != nil {
				return fmt.Errorf("schedule recompute: %w", err)
			}
			scheduler.Start()
			defer scheduler.Stop()

			log.Printf("[info] watching; daily recompute at %s (%s)", a.cfg.RecomputeTime, a.frame.Location())
			<-ctx.Done()
			log.Println("[info] shutdown complete")
			return nil
		},
	}
}

func parseIntList(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, n)
	}
	sort.Ints(out)
	return out, nil
}
