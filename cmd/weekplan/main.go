package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/h0rv/weekplan/internal/config"
	"github.com/h0rv/weekplan/internal/dates"
	"github.com/h0rv/weekplan/internal/planner"
	"github.com/h0rv/weekplan/internal/tui"
	"github.com/h0rv/weekplan/internal/urlstate"
)

// now is the clock used by every command.
var now = time.Now

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	week       string
}

// env is an opened planner plus the settings it was opened with.
type env struct {
	cfg     *config.Config
	session *planner.Session
	logger  *slog.Logger
	out     io.Writer
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "weekplan",
		Short: "Weekly planner that lives in a link",
		Long: `weekplan is a weekly todo planner whose entire state lives in a link.

The week being shown is the path, display preferences are the query and
the items are a base64 blob in the fragment. Copy the link anywhere to
share or back up the plan; "weekplan load" reads one back.

Run without a command to open the interactive planner.

Configuration is read from $WEEKPLAN_CONFIG or the user config directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default $WEEKPLAN_CONFIG or <config dir>/weekplan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.week, "week", "", "Week to show: a date in it, next, prev, this, or an offset like +2")

	rootCmd.AddCommand(
		newLsCmd(opts),
		newAddCmd(opts),
		newEditCmd(opts),
		newRmCmd(opts),
		newMvCmd(opts),
		newMoveDayCmd(opts),
		newSetCmd(opts),
		newExportCmd(opts),
		newURLCmd(opts),
		newOpenCmd(opts),
		newLoadCmd(opts),
		newResetCmd(opts),
		newInspectCmd(),
	)
	return rootCmd
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	path := o.configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// open loads the config, opens the planner stored in the location file and
// moves it to the --week, if any.
func (o *rootOptions) open(cmd *cobra.Command) (*env, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.Logging, cmd.ErrOrStderr())

	s, err := o.openSession(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, session: s, logger: logger, out: cmd.OutOrStdout()}, nil
}

func (o *rootOptions) openSession(cfg *config.Config, logger *slog.Logger) (*planner.Session, error) {
	loc := urlstate.NewFileLocation(cfg.LocationFile, cfg.BaseURL)
	s := planner.NewSession(loc, cfg.DefaultPreferences(), logger)
	if err := s.Open(now()); err != nil {
		return nil, err
	}
	if o.week == "" {
		return s, nil
	}

	day, err := parseWeek(o.week, s.Route().Week, now())
	if err != nil {
		return nil, err
	}
	if err := s.GoToWeek(day); err != nil {
		return nil, err
	}
	return s, nil
}

// parseWeek resolves the --week flag relative to the current week.
func parseWeek(arg string, current, today time.Time) (time.Time, error) {
	a := strings.ToLower(strings.TrimSpace(arg))
	switch a {
	case "this", "today", "now":
		return today, nil
	case "next":
		return current.AddDate(0, 0, 7), nil
	case "prev", "last":
		return current.AddDate(0, 0, -7), nil
	}
	if strings.HasPrefix(a, "+") || strings.HasPrefix(a, "-") {
		n, err := strconv.Atoi(a)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid week offset %q", arg)
		}
		return current.AddDate(0, 0, 7*n), nil
	}
	t, err := dates.ParseISODate(a, today.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --week %q: %w", arg, err)
	}
	return t, nil
}

func runTUI(cmd *cobra.Command, o *rootOptions) error {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := setupTUILogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	s, err := o.openSession(cfg, logger)
	if err != nil {
		return err
	}

	app := tui.NewAppModel(s, tui.Options{
		Markdown:     cfg.Export.Markdown,
		PreviewStyle: cfg.Export.PreviewStyle,
		Now:          now,
		Logger:       logger,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("program error: %w", err)
	}

	// Leave the link on screen so it can be copied.
	if href, err := s.Href(); err == nil {
		fmt.Fprintln(cmd.OutOrStdout(), href)
	}
	return nil
}
