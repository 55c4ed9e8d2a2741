package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--config", filepath.Join(home, "missing.toml")}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDemoCommand_DefaultScenario(t *testing.T) {
	out, err := execute(t, "demo")
	if err != nil {
		t.Fatalf("demo returned error: %v", err)
	}
	if !strings.Contains(out, `final: draft="" memos=["call the plumber"]`) {
		t.Fatalf("demo output missing final state:\n%s", out)
	}
	if !strings.Contains(out, "events logged to") {
		t.Fatalf("demo output missing log path:\n%s", out)
	}
}

func TestDemoCommand_CustomSteps(t *testing.T) {
	out, err := execute(t, "demo", "write:hello", "submit", "clear")
	if err != nil {
		t.Fatalf("demo returned error: %v", err)
	}
	if !strings.Contains(out, `final: draft="" memos=[]`) {
		t.Fatalf("demo output missing cleared state:\n%s", out)
	}
}

func TestDemoCommand_LogsToConfiguredFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	configPath := filepath.Join(home, "config.toml")
	logPath := filepath.Join(home, "custom.log")
	if err := os.WriteFile(configPath, []byte("log_file = \""+logPath+"\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--config", configPath, "demo", "write:x"})
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("demo returned error: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "msg=store.set") {
		t.Fatalf("log missing store.set:\n%s", data)
	}
}

func TestDemoCommand_InvalidStep(t *testing.T) {
	_, err := execute(t, "demo", "remove:zero")
	if err == nil || !strings.Contains(err.Error(), "step 1") {
		t.Fatalf("demo error = %v, want step 1 failure", err)
	}
}

func TestRootCommand_RejectsArgs(t *testing.T) {
	if _, err := execute(t, "unexpected"); err == nil {
		t.Fatalf("root accepted positional args, want error")
	}
}

func TestRootCommand_InvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "demo")
	if err == nil || !strings.Contains(err.Error(), "log level") {
		t.Fatalf("error = %v, want log level failure", err)
	}
}
