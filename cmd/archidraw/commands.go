package main

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tgienger/archidraw/internal/models"
	"github.com/tgienger/archidraw/internal/shortcut"
	"github.com/tgienger/archidraw/internal/timeline"
	"github.com/tgienger/archidraw/internal/workday"
)

func parseCmd() *cobra.Command {
	var flagAdd string

	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Show how quick-entry text is read, optionally adding it as an instruction",
		Example: `  archidraw parse "Order marble samples p1 @rina tomorrow"
  archidraw parse --add <phase-task-id> "Measure windows mid week"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := strings.Join(args, " ")
			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				state := e.studio.State()
				res := shortcut.Parse(input, state.Stakeholders, shortcut.OptionsFrom(state.Settings.Shortcuts), e.studio.Now())

				fmt.Printf("%s  %s\n", dim("title   "), bold(res.CleanTitle))
				if res.Priority.Valid() {
					fmt.Printf("%s  %s\n", dim("priority"), priorityLabel(res.Priority))
				}
				if res.StakeholderID != "" {
					st, _ := e.studio.Stakeholder(res.StakeholderID)
					fmt.Printf("%s  %s %s\n", dim("mention "), cyan(st.Name), dim("("+string(st.Role)+")"))
				}
				if res.NewStakeholderName != "" {
					fmt.Printf("%s  %s %s\n", dim("mention "), yellow(res.NewStakeholderName), dim("(not in directory)"))
				}
				if res.DueDate != nil {
					fmt.Printf("%s  %s\n", dim("due     "), res.DueDate.Format("Mon Jan 2, 2006"))
				}

				if flagAdd == "" {
					return nil
				}
				sub, _, err := e.studio.Compose(ctx, flagAdd, input)
				if err != nil {
					return err
				}
				if sub.ID == "" {
					return fmt.Errorf("no phase task with id %s", flagAdd)
				}
				fmt.Printf("%s %s %s\n", green("added"), bold(sub.Title), dim(sub.ID))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&flagAdd, "add", "", "Add the result as an instruction under this phase task")
	return cmd
}

func timelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline",
		Short: "Print active projects and their open phases on the business-day window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				today := workday.Midnight(e.studio.Now())
				window := workday.BuildWindow(today, workday.DefaultWindowSize)
				track := len(window)

				fmt.Printf("%s %s - %s (%d business days)\n\n",
					bold("Timeline"), window.First().Format("Jan 2"), window.Last().Format("Jan 2"), track)

				for _, p := range e.studio.ActiveProjects() {
					fmt.Printf("%-28.28s %s %s\n", p.Name, strip(timeline.ProjectBar(window, p), track),
						dim(p.StartDate.Format("Jan 2")+" - "+p.EndDate.Format("Jan 2")+"  "+p.ID))
					for _, t := range e.studio.OpenPhaseTasks(p.ID) {
						start, end := timeline.TaskRange(t)
						fmt.Printf("  %-26.26s %s %s\n", t.Title, strip(timeline.TaskBar(window, t), track),
							dim(start.Format("Jan 2")+" - "+end.Format("Jan 2")+"  "+t.ID))
					}
				}
				return nil
			})
		},
	}
}

// strip draws a bar one character per business day
func strip(b timeline.Bar, track int) string {
	from, to, ok := timeline.Cells(b, track)
	if !ok {
		if b.Left < 0 && b.Left != workday.NotPlaced {
			return dim("<" + strings.Repeat(".", track-1))
		}
		return dim(strings.Repeat(".", track-1) + ">")
	}
	return dim(strings.Repeat(".", from)) + boldMagenta(strings.Repeat("#", to-from)) + dim(strings.Repeat(".", track-to))
}

func rescheduleCmd() *cobra.Command {
	var flagEdge string

	cmd := &cobra.Command{
		Use:   "reschedule <project-or-task-id> <business-days>",
		Short: "Move a project or task by a number of business days",
		Example: `  archidraw reschedule p1 3
  archidraw reschedule p1 -2 --edge end`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			delta, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("business days must be a whole number: %w", err)
			}
			edge, err := timeline.ParseEdge(flagEdge)
			if err != nil {
				return err
			}

			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				id := args[0]
				if _, ok := e.studio.Project(id); ok {
					if err := e.studio.RescheduleProject(ctx, id, delta, edge); err != nil {
						return err
					}
					p, _ := e.studio.Project(id)
					fmt.Printf("%s %s %s - %s\n", green("moved"), bold(p.Name),
						p.StartDate.Format("Mon Jan 2"), p.EndDate.Format("Mon Jan 2"))
					return nil
				}
				if _, ok := e.studio.Task(id); ok {
					if err := e.studio.RescheduleTask(ctx, id, delta, edge); err != nil {
						return err
					}
					t, _ := e.studio.Task(id)
					start, end := timeline.TaskRange(t)
					fmt.Printf("%s %s %s - %s\n", green("moved"), bold(t.Title),
						start.Format("Mon Jan 2"), end.Format("Mon Jan 2"))
					return nil
				}
				return fmt.Errorf("no project or task with id %s", id)
			})
		},
	}

	cmd.Flags().StringVar(&flagEdge, "edge", "both", "Which boundary moves: both, start or end")
	return cmd
}

func reviewsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reviews [stakeholder]",
		Short: "List phase tasks waiting on each stakeholder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				stakeholders := e.studio.State().Stakeholders
				if len(args) == 1 {
					st, ok := shortcut.Resolve(strings.TrimPrefix(args[0], "@"), stakeholders)
					if !ok {
						return fmt.Errorf("no stakeholder matches %q", args[0])
					}
					stakeholders = []models.Stakeholder{st}
				}

				load := e.studio.OpenLoad()
				for _, st := range stakeholders {
					queue := e.studio.ReviewQueue(st.ID)
					if len(args) == 0 && load[st.ID] == 0 {
						continue
					}
					fmt.Printf("%s %s %s\n", bold(st.Name), dim(string(st.Role)), cyan(fmt.Sprintf("%d open", load[st.ID])))
					for _, t := range queue {
						project := t.ProjectID
						if p, ok := e.studio.Project(t.ProjectID); ok {
							project = p.Name
						}
						fmt.Printf("  %s  %s %s\n", statusLabel(t.Status), t.Title, dim(project+"  "+t.ID))
					}
				}
				return nil
			})
		},
	}
}

func stakeholdersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stakeholders",
		Short: "List the reviewer directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				stakeholders := append([]models.Stakeholder(nil), e.studio.State().Stakeholders...)
				sort.SliceStable(stakeholders, func(i, j int) bool { return stakeholders[i].Role < stakeholders[j].Role })
				for _, st := range stakeholders {
					fmt.Printf("%-12s %-24s %s\n", dim(st.ID), bold(st.Name), st.Role)
				}
				return nil
			})
		},
	}

	var flagRole string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add someone to the directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			role := models.Role(flagRole)
			if !role.Valid() {
				return fmt.Errorf("unknown role %q", flagRole)
			}
			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				st, err := e.studio.AddStakeholder(ctx, strings.Join(args, " "), role)
				if err != nil {
					return err
				}
				fmt.Printf("%s %s %s\n", green("added"), bold(st.Name), dim(st.ID))
				return nil
			})
		},
	}
	add.Flags().StringVar(&flagRole, "role", string(models.RoleInternal), "Client, Contractor, Vendor, Consultant or Internal")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove someone from the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				if _, ok := e.studio.Stakeholder(args[0]); !ok {
					return fmt.Errorf("no stakeholder with id %s", args[0])
				}
				return e.studio.RemoveStakeholder(ctx, args[0])
			})
		},
	}

	cmd.AddCommand(add, rm)
	return cmd
}

func suggestCmd() *cobra.Command {
	var flagAdd bool

	cmd := &cobra.Command{
		Use:   "suggest <phase-task-id>",
		Short: "Ask for instruction suggestions for a phase task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStudio(cmd.Context(), func(ctx context.Context, e *env) error {
				if !e.cfg.SuggestionsEnabled() {
					return fmt.Errorf("suggestions need ANTHROPIC_API_KEY")
				}
				items := e.studio.Suggest(ctx, args[0])
				if len(items) == 0 {
					fmt.Println(dim("no suggestions"))
					return nil
				}
				for _, item := range items {
					fmt.Printf("  - %s\n", item)
				}
				if !flagAdd {
					return nil
				}
				added, err := e.studio.AddSuggestions(ctx, args[0], items)
				if err != nil {
					return err
				}
				fmt.Printf("%s %d instructions\n", green("added"), len(added))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&flagAdd, "add", false, "Add the suggestions as instructions")
	return cmd
}
