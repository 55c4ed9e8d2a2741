package logtail

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestRead(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}
	if err := os.WriteFile(logPath, []byte(content.String()), 0o644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{name: "read all (0)", maxLines: 0, expected: expectedAll},
		{name: "read all (negative)", maxLines: -1, expected: expectedAll},
		{name: "read partial (5)", maxLines: 5, expected: expectedAll[5:]},
		{name: "read partial wraps (3)", maxLines: 3, expected: expectedAll[7:]},
		{name: "read exactly all (10)", maxLines: 10, expected: expectedAll},
		{name: "read more than exists (20)", maxLines: 20, expected: expectedAll},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   Record
		wantOK bool
	}{
		{
			name:  "plain values",
			input: `time=2025-10-08T21:01:05.000Z level=INFO msg=store.set store=memos kind=patch`,
			want: Record{
				Time:  time.Date(2025, 10, 8, 21, 1, 5, 0, time.UTC),
				Level: "INFO",
				Msg:   "store.set",
				Attrs: []Attr{{"store", "memos"}, {"kind", "patch"}},
			},
			wantOK: true,
		},
		{
			name:  "quoted values",
			input: `level=DEBUG msg="memo submitted" text="say \"hi\" = ok"`,
			want: Record{
				Level: "DEBUG",
				Msg:   "memo submitted",
				Attrs: []Attr{{"text", `say "hi" = ok`}},
			},
			wantOK: true,
		},
		{name: "no msg", input: `level=INFO store=memos`},
		{name: "free text", input: `panic: something broke`},
		{name: "unterminated quote", input: `msg="half`},
		{name: "empty", input: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseLine() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParseLine_ReadsSlogTextOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	logger.Info("store.set", "store", "memos", "fields", []string{"Draft"}, "note", "two words")

	rec, ok := ParseLine(strings.TrimSpace(buf.String()))
	if !ok {
		t.Fatalf("ParseLine(%q) ok = false, want true", buf.String())
	}
	if rec.Msg != "store.set" || rec.Level != "INFO" {
		t.Fatalf("record = %+v, want INFO store.set", rec)
	}
	if rec.Get("store") != "memos" || rec.Get("note") != "two words" {
		t.Fatalf("attrs = %+v, want store=memos note=two words", rec.Attrs)
	}
	if rec.Time.IsZero() {
		t.Fatalf("Time is zero, want parsed timestamp")
	}
}

func TestReadRecords_SkipsForeignLines(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "stash.log")
	body := "level=INFO msg=one\nnot a record\nlevel=WARN msg=two\n"
	if err := os.WriteFile(logPath, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := ReadRecords(logPath, 0)
	if err != nil {
		t.Fatalf("ReadRecords() error = %v", err)
	}
	if len(got) != 2 || got[0].Msg != "one" || got[1].Msg != "two" {
		t.Fatalf("ReadRecords() = %+v, want one and two", got)
	}
}
