package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/stash/internal/config"
	"github.com/five82/stash/internal/memo"
	"github.com/five82/stash/internal/observe"
	"github.com/five82/stash/internal/prefs"
	"github.com/five82/stash/internal/ui"
)

// Options configure the stash application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/stash/prefs.toml
	LogLevel   string // overrides log_level from the config when set

	// Observer receives the board's store events alongside the log.
	Observer observe.Observer
}

// Env is the wired runtime shared by the TUI and the demo.
type Env struct {
	Config config.Config
	Prefs  prefs.Prefs
	Logger *slog.Logger
	Board  *memo.Board

	logFile *os.File
}

// Setup loads configuration and preferences, opens the log file and builds
// a board whose store events are logged.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if level := strings.TrimSpace(opts.LogLevel); level != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		return nil, fmt.Errorf("load prefs: %w", err)
	}

	if err := os.MkdirAll(cfg.LogDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel}))
	board := memo.NewBoard(memo.Options{
		Observer: observe.NewMultiObserver(observe.NewSlogObserver(logger), opts.Observer),
		MaxMemos: cfg.MaxMemos,
	})

	return &Env{
		Config:  cfg,
		Prefs:   userPrefs,
		Logger:  logger,
		Board:   board,
		logFile: logFile,
	}, nil
}

// Close flushes and closes the log file.
func (e *Env) Close() error {
	if e == nil || e.logFile == nil {
		return nil
	}
	err := e.logFile.Close()
	e.logFile = nil
	return err
}

// Run boots the stash TUI until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer env.Close()

	env.Logger.Info("stash starting", "max_memos", env.Config.MaxMemos, "theme", env.Prefs.Theme)

	err = ui.Run(ui.Options{
		Context:      ctx,
		Board:        env.Board,
		ThemeName:    env.Prefs.Theme,
		PrefsPath:    opts.PrefsPath,
		ShowActivity: env.Prefs.ShowActivity,
		LogPath:      env.Config.LogFile,
		Logger:       env.Logger,
	})
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	env.Logger.Info("stash stopped", "memos", len(env.Board.State().Memos))
	return err
}

// DefaultScript is the scenario the demo replays when no steps are given:
// two memos are written and submitted, then the first is removed.
var DefaultScript = []string{
	"write:buy milk",
	"submit",
	"write:call the plumber",
	"submit",
	"remove:1",
}

// Demo replays script against env's board, printing every committed state
// to w and a list line whenever the memo list itself changes. Steps use
// memo.ParseAction syntax.
func Demo(ctx context.Context, env *Env, w io.Writer, script []string) error {
	if len(script) == 0 {
		script = DefaultScript
	}

	actions := make([]memo.Action, 0, len(script))
	for i, line := range script {
		action, err := memo.ParseAction(line)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		actions = append(actions, action)
	}

	commits := 0
	unsubscribe := env.Board.Subscribe(func(next, prev memo.State) {
		commits++
		fmt.Fprintf(w, "  commit %d: %s\n", commits, describeState(next))
	})
	defer unsubscribe()
	stopList := env.Board.OnMemos(func(cur, prev []memo.Entry) {
		fmt.Fprintf(w, "  list: %d -> %d memos\n", len(prev), len(cur))
	})
	defer stopList()

	fmt.Fprintf(w, "initial: %s\n", describeState(env.Board.State()))
	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(w, "step %d: %s\n", i+1, script[i])
		env.Board.Dispatch(action)
	}
	fmt.Fprintf(w, "final: %s\n", describeState(env.Board.State()))

	env.Logger.Info("demo finished", "steps", len(actions), "commits", commits)
	return nil
}

func describeState(s memo.State) string {
	texts := make([]string, 0, len(s.Memos))
	for _, e := range s.Memos {
		texts = append(texts, fmt.Sprintf("%q", e.Text))
	}
	return fmt.Sprintf("draft=%q memos=[%s]", s.Draft, strings.Join(texts, " "))
}

// LogPath returns the log file the environment writes to.
func (e *Env) LogPath() string {
	return filepath.Clean(e.Config.LogFile)
}
