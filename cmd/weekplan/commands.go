package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/fatih/color"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/h0rv/weekplan/internal/codec"
	"github.com/h0rv/weekplan/internal/dates"
	"github.com/h0rv/weekplan/internal/domain"
	"github.com/h0rv/weekplan/internal/richtext"
	"github.com/h0rv/weekplan/internal/urlstate"
)

var (
	dayStyle   = color.New(color.FgCyan, color.Bold)
	titleStyle = color.New(color.Bold)
)

// resolveDay turns a day argument into an ISO date within the shown week.
func (e *env) resolveDay(arg string) (string, error) {
	date, err := dates.ResolveDay(arg, e.session.Route().Week, now())
	if err != nil {
		return "", fmt.Errorf("invalid day %q: %w", arg, err)
	}
	return date, nil
}

// itemAt returns the item at the 1-based position n of date.
func (e *env) itemAt(date, n string) (domain.Item, int, error) {
	pos, err := strconv.Atoi(n)
	if err != nil {
		return domain.Item{}, 0, fmt.Errorf("invalid item number %q", n)
	}
	items := e.session.Store().Items(date)
	if pos < 1 || pos > len(items) {
		return domain.Item{}, 0, fmt.Errorf("no item %d on %s (it has %d)", pos, date, len(items))
	}
	return items[pos-1], pos - 1, nil
}

func newLsCmd(o *rootOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List the items of the week",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			if all {
				return e.listAll()
			}
			return e.listWeek()
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every day that has items, across all weeks")
	return cmd
}

func (e *env) listWeek() error {
	week := e.session.Week(now())
	titleStyle.Fprintln(e.out, week.Title())

	for _, day := range week.Days {
		fmt.Fprintln(e.out)
		dayStyle.Fprint(e.out, day.DayName)
		if day.IsToday {
			fmt.Fprint(e.out, color.GreenString(" (today)"))
		}
		fmt.Fprintln(e.out)

		if len(day.Items) == 0 {
			fmt.Fprintln(e.out, color.HiBlackString("  -"))
		}
		for i, it := range day.Items {
			fmt.Fprintf(e.out, "  %s %s\n", color.HiBlackString("%d.", i+1), it.Text)
		}
	}
	return nil
}

func (e *env) listAll() error {
	st := e.session.Store()
	days := st.Dates()
	if len(days) == 0 {
		fmt.Fprintln(e.out, "No items.")
		return nil
	}
	for i, date := range days {
		if i > 0 {
			fmt.Fprintln(e.out)
		}
		dayStyle.Fprintln(e.out, date)
		for j, it := range st.Items(date) {
			fmt.Fprintf(e.out, "  %s %s\n", color.HiBlackString("%d.", j+1), it.Text)
		}
	}
	return nil
}

func newAddCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <day> <text...>",
		Short: "Add an item to a day",
		Long: `Add an item to the end of a day.

The day is today, tomorrow, yesterday, a weekday name within the shown
week, or a date (YYYY-MM-DD).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			date, err := e.resolveDay(args[0])
			if err != nil {
				return err
			}
			it, err := e.session.Store().AddItem(date, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			e.logger.Debug("item added", "date", date, "id", it.ID)
			fmt.Fprintf(e.out, "Added to %s: %s\n", date, it.Text)
			return nil
		},
	}
}

func newEditCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <day> <n> <text...>",
		Short: "Replace the text of an item",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			date, err := e.resolveDay(args[0])
			if err != nil {
				return err
			}
			it, _, err := e.itemAt(date, args[1])
			if err != nil {
				return err
			}
			text := strings.Join(args[2:], " ")
			if err := e.session.Store().EditItem(date, it.ID, text); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Updated %s #%s: %s\n", date, args[1], text)
			return nil
		},
	}
}

func newRmCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <day> <n>",
		Aliases: []string{"delete"},
		Short:   "Delete an item",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			date, err := e.resolveDay(args[0])
			if err != nil {
				return err
			}
			it, _, err := e.itemAt(date, args[1])
			if err != nil {
				return err
			}
			if err := e.session.Store().DeleteItem(date, it.ID); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Deleted from %s: %s\n", date, it.Text)
			return nil
		},
	}
}

func newMvCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mv <day> <n> <position>",
		Short: "Move an item to another position within its day",
		Long: `Move an item to another position within its day. Positions start at 1;
a position past the end moves the item last.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			date, err := e.resolveDay(args[0])
			if err != nil {
				return err
			}
			it, _, err := e.itemAt(date, args[1])
			if err != nil {
				return err
			}
			pos, err := strconv.Atoi(args[2])
			if err != nil || pos < 1 {
				return fmt.Errorf("invalid position %q", args[2])
			}
			if err := e.session.Store().MoveItem(date, it.ID, pos-1); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Moved %q on %s\n", it.Text, date)
			return nil
		},
	}
}

func newMoveDayCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "move-day <day> <n> <to-day>",
		Short: "Move an item to the end of another day",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			from, err := e.resolveDay(args[0])
			if err != nil {
				return err
			}
			to, err := e.resolveDay(args[2])
			if err != nil {
				return err
			}
			it, _, err := e.itemAt(from, args[1])
			if err != nil {
				return err
			}
			if err := e.session.Store().MoveToDay(from, it.ID, to); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Moved %q from %s to %s\n", it.Text, from, to)
			return nil
		},
	}
}

func newSetCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <weekends|format|heading> <value>",
		Short: "Change a display preference",
		Long: `Change a display preference. Preferences live in the link query.

  weekends on|off     show Saturday and Sunday
  format <pattern>    day name pattern, e.g. "EEE, MMM d"; "default" resets it
  heading <level>     export heading: h1-h6 or p`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			value := strings.Join(args[1:], " ")

			switch args[0] {
			case "weekends":
				on, err := parseSwitch(value)
				if err != nil {
					return err
				}
				if on != e.session.Preferences().ShowWeekends {
					if err := e.session.ToggleWeekends(); err != nil {
						return err
					}
				}
			case "format":
				if value == "default" {
					value = ""
				}
				if err := e.session.SetDateFormat(value); err != nil {
					return err
				}
			case "heading":
				if err := e.session.SetHeadingLevel(value); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown preference %q (want weekends, format or heading)", args[0])
			}

			href, err := e.session.Href()
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, href)
			return nil
		},
	}
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", s)
}

func newExportCmd(o *rootOptions) *cobra.Command {
	var (
		asMarkdown bool
		rich       bool
		toClip     bool
		preview    bool
		width      int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the week as rich text",
		Long: `Export the week as the HTML the planner copies to the clipboard, or as
Markdown. --preview renders the Markdown for the terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rich") {
				rich = e.cfg.Export.Markdown
			}

			week := e.session.Week(now())
			level := e.session.Preferences().HeadingLevel

			out, kind := richtext.HTML(week.Days, richtext.Options{HeadingLevel: level, Markdown: rich}), "HTML"
			if asMarkdown || preview {
				out, kind = richtext.Markdown(week.Days, level), "Markdown"
			}

			if toClip {
				if err := clipboard.WriteAll(out); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(e.out, "Copied %s for %s to the clipboard\n", kind, week.Title())
				return nil
			}
			if preview {
				out = richtext.Preview(out, width, e.cfg.Export.PreviewStyle)
			}
			fmt.Fprint(e.out, out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&asMarkdown, "markdown", "m", false, "Output Markdown instead of HTML")
	cmd.Flags().BoolVar(&rich, "rich", false, "Render item text as Markdown inside the HTML (default from config)")
	cmd.Flags().BoolVarP(&toClip, "copy", "c", false, "Copy to the clipboard instead of printing")
	cmd.Flags().BoolVarP(&preview, "preview", "p", false, "Render a terminal preview")
	cmd.Flags().IntVar(&width, "width", 80, "Preview word-wrap width")
	return cmd
}

func newURLCmd(o *rootOptions) *cobra.Command {
	var fragmentOnly bool

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the planner link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			href, err := e.session.Href()
			if err != nil {
				return err
			}
			if fragmentOnly {
				_, href = urlstate.SplitFragment(href)
			}
			fmt.Fprintln(e.out, href)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&fragmentOnly, "fragment", "f", false, "Print only the encoded items")
	return cmd
}

func newOpenCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "open",
		Short: "Open the planner link in the browser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			href, err := e.session.Href()
			if err != nil {
				return err
			}
			browser.Stdout = cmd.ErrOrStderr()
			if err := browser.OpenURL(href); err != nil {
				return fmt.Errorf("opening browser: %w", err)
			}
			return nil
		},
	}
}

func newLoadCmd(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "load <link|fragment>",
		Short: "Replace all items with the ones carried by a link",
		Long: `Replace all items with the ones carried by a planner link or by its
fragment alone. Older link formats are accepted; the stored link is
rewritten in the current format.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			n, err := e.session.Import(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Loaded %d items\n", n)
			return nil
		},
	}
}

func newResetCmd(o *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to delete every item without --yes")
			}
			e, err := o.open(cmd)
			if err != nil {
				return err
			}
			n := e.session.Store().Count()
			if err := e.session.Store().Reset(); err != nil {
				return err
			}
			fmt.Fprintf(e.out, "Deleted %d items\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm")
	return cmd
}

// newInspectCmd decodes a link without touching the stored planner.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "inspect <link|fragment>",
		Aliases: []string{"decode"},
		Short:   "Decode a planner link and show what it carries",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fragment := args[0]
			if strings.Contains(fragment, "#") {
				_, fragment = urlstate.SplitFragment(fragment)
			}

			shape, err := codec.Inspect(fragment)
			if err != nil {
				return err
			}
			items, err := codec.Decode(fragment)
			if err != nil {
				return err
			}
			canonical, err := codec.Encode(items)
			if err != nil {
				return err
			}
			pretty, err := json.MarshalIndent(items, "", "  ")
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", titleStyle.Sprint("shape:"), shape)
			fmt.Fprintf(out, "%s %d in %d days\n", titleStyle.Sprint("items:"), items.Count(), len(items))
			fmt.Fprintf(out, "%s\n%s\n", titleStyle.Sprint("state:"), pretty)
			fmt.Fprintf(out, "%s %s\n", titleStyle.Sprint("canonical:"), canonical)
			return nil
		},
	}
}
