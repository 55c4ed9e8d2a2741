package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Read returns at most maxLines from the end of the file at path. A
// maxLines of zero or less returns every line. A missing file yields no
// lines and no error.
func Read(path string, maxLines int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	if maxLines <= 0 {
		var lines []string
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read log: %w", err)
		}
		return lines, nil
	}

	ring := make([]string, maxLines)
	count, next := 0, 0
	for scanner.Scan() {
		ring[next] = scanner.Text()
		next = (next + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if count < maxLines {
		return ring[:count:count], nil
	}
	return append(ring[next:], ring[:next]...), nil
}

// Attr is one key=value pair of a record, in file order.
type Attr struct {
	Key   string
	Value string
}

// Record is a parsed slog text-handler line.
type Record struct {
	Time  time.Time
	Level string
	Msg   string
	Attrs []Attr
}

// Get returns the value of the first attribute named key.
func (r Record) Get(key string) string {
	for _, a := range r.Attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// ParseLine parses a line written by slog.TextHandler. Lines without a msg
// key are rejected.
func ParseLine(line string) (Record, bool) {
	var rec Record
	found := false
	rest := strings.TrimSpace(line)
	for rest != "" {
		key, value, remaining, ok := nextPair(rest)
		if !ok {
			return Record{}, false
		}
		rest = strings.TrimLeft(remaining, " ")
		switch key {
		case "time":
			if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
				rec.Time = ts
			}
		case "level":
			rec.Level = value
		case "msg":
			rec.Msg = value
			found = true
		default:
			rec.Attrs = append(rec.Attrs, Attr{Key: key, Value: value})
		}
	}
	return rec, found
}

// ReadRecords reads the last maxLines of path and returns the lines that
// parse as records. Other lines are skipped.
func ReadRecords(path string, maxLines int) ([]Record, error) {
	lines, err := Read(path, maxLines)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if rec, ok := ParseLine(line); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func nextPair(s string) (key, value, rest string, ok bool) {
	eq := strings.IndexByte(s, '=')
	if eq <= 0 || strings.ContainsAny(s[:eq], " \"") {
		return "", "", "", false
	}
	key, s = s[:eq], s[eq+1:]

	if !strings.HasPrefix(s, `"`) {
		end := strings.IndexByte(s, ' ')
		if end < 0 {
			return key, s, "", true
		}
		return key, s[:end], s[end:], true
	}

	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			unquoted, err := strconv.Unquote(s[:i+1])
			if err != nil {
				return "", "", "", false
			}
			return key, unquoted, s[i+1:], true
		}
	}
	return "", "", "", false
}
