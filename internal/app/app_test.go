package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/five82/stash/internal/memo"
	"github.com/five82/stash/internal/observe"
)

func setupEnv(t *testing.T, configBody string) *Env {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := filepath.Join(home, "config.toml")
	body := "log_file = \"~/logs/stash.log\"\n" + configBody
	if err := os.WriteFile(configPath, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	env, err := Setup(Options{ConfigPath: configPath, PrefsPath: filepath.Join(home, "prefs.toml")})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	t.Cleanup(func() { _ = env.Close() })
	return env
}

func readLog(t *testing.T, env *Env) string {
	t.Helper()
	data, err := os.ReadFile(env.LogPath())
	if err != nil {
		t.Fatalf("ReadFile(%s): %v", env.LogPath(), err)
	}
	return string(data)
}

func TestSetup_LogsStoreEvents(t *testing.T) {
	env := setupEnv(t, "log_level = \"debug\"\n")

	env.Board.Write("buy milk")

	log := readLog(t, env)
	for _, want := range []string{"msg=store.create", "msg=store.set", "msg=store.notify", "store=memos"} {
		if !strings.Contains(log, want) {
			t.Fatalf("log missing %q:\n%s", want, log)
		}
	}
}

type eventTypes struct {
	mu    sync.Mutex
	types []observe.EventType
}

func (e *eventTypes) OnEvent(ctx context.Context, event observe.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.types = append(e.types, event.Type)
}

func TestSetup_ForwardsToExtraObserver(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	extra := &eventTypes{}

	env, err := Setup(Options{
		ConfigPath: filepath.Join(home, "none.toml"),
		PrefsPath:  filepath.Join(home, "prefs.toml"),
		LogLevel:   "debug",
		Observer:   extra,
	})
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	t.Cleanup(func() { _ = env.Close() })

	env.Board.Write("buy milk")

	extra.mu.Lock()
	got := slices.Clone(extra.types)
	extra.mu.Unlock()
	if !slices.Contains(got, observe.EventStoreSet) {
		t.Fatalf("extra observer events = %v, want a store.set", got)
	}
	if log := readLog(t, env); !strings.Contains(log, "msg=store.set") {
		t.Fatalf("log missing store.set:\n%s", log)
	}
}

func TestSetup_LogLevelFiltersDebugEvents(t *testing.T) {
	env := setupEnv(t, "log_level = \"info\"\n")

	env.Board.Write("buy milk")

	log := readLog(t, env)
	if !strings.Contains(log, "msg=store.set") {
		t.Fatalf("log missing store.set at info:\n%s", log)
	}
	if strings.Contains(log, "msg=store.notify") {
		t.Fatalf("log contains debug store.notify at info level:\n%s", log)
	}
}

func TestSetup_AppliesMaxMemos(t *testing.T) {
	env := setupEnv(t, "max_memos = 1\n")

	for _, text := range []string{"one", "two"} {
		env.Board.Write(text)
		env.Board.Submit()
	}

	memos := env.Board.State().Memos
	if len(memos) != 1 || memos[0].Text != "two" {
		t.Fatalf("Memos = %+v, want [two]", memos)
	}
}

func TestSetup_LogLevelOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	_, err := Setup(Options{ConfigPath: filepath.Join(home, "none.toml"), LogLevel: "chatty"})
	if err == nil {
		t.Fatalf("Setup returned nil error, want invalid log level error")
	}
}

func TestSetup_BadConfigFails(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	configPath := filepath.Join(home, "config.toml")
	if err := os.WriteFile(configPath, []byte("max_memos = ["), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, err := Setup(Options{ConfigPath: configPath})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Setup error = %v, want load config error", err)
	}
}

func TestDemo_DefaultScript(t *testing.T) {
	env := setupEnv(t, "")
	var out bytes.Buffer

	if err := Demo(context.Background(), env, &out, nil); err != nil {
		t.Fatalf("Demo returned error: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		`initial: draft="" memos=[]`,
		`commit 1: draft="buy milk" memos=[]`,
		`draft="" memos=["buy milk"]`,
		`final: draft="" memos=["call the plumber"]`,
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("demo output missing %q:\n%s", want, got)
		}
	}
	// two writes, two submits, one remove
	if n := strings.Count(got, "  commit "); n != 5 {
		t.Fatalf("commits printed = %d, want 5:\n%s", n, got)
	}
	// draft edits leave the list alone
	for _, want := range []string{"list: 0 -> 1 memos", "list: 1 -> 2 memos", "list: 2 -> 1 memos"} {
		if !strings.Contains(got, want) {
			t.Fatalf("demo output missing %q:\n%s", want, got)
		}
	}
	if n := strings.Count(got, "  list: "); n != 3 {
		t.Fatalf("list lines printed = %d, want 3:\n%s", n, got)
	}
}

func TestDemo_BadStepFailsBeforeAnyChange(t *testing.T) {
	env := setupEnv(t, "")
	var out bytes.Buffer

	err := Demo(context.Background(), env, &out, []string{"write:x", "launch"})
	if !errors.Is(err, memo.ErrUnknownOp) {
		t.Fatalf("Demo error = %v, want ErrUnknownOp", err)
	}
	if env.Board.State().Draft != "" {
		t.Fatalf("Draft = %q, want no steps applied", env.Board.State().Draft)
	}
}

func TestDemo_StopsOnCancelledContext(t *testing.T) {
	env := setupEnv(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Demo(ctx, env, &bytes.Buffer{}, []string{"write:x"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Demo error = %v, want context.Canceled", err)
	}
}

func TestEnvClose_Idempotent(t *testing.T) {
	env := setupEnv(t, "")
	if err := env.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if err := env.Close(); err != nil {
		t.Fatalf("second Close returned error: %v", err)
	}
}
