// Package logtail reads the end of stash's log file and parses the records
// the activity pane shows.
//
// # Reading
//
// Read returns the last maxLines lines using a ring buffer, so memory is
// O(maxLines) regardless of file size. A non-positive maxLines returns the
// whole file. A missing file is not an error: the log may not exist until
// the first event is written.
//
// # Parsing
//
// ParseLine understands the key=value format of slog.TextHandler:
//
//	time=2025-10-08T21:01:05.123-04:00 level=INFO msg=store.set store=memos kind=patch
//
// The time, level and msg keys populate Record fields; every other pair is
// kept in Attrs in file order. Quoted values are unquoted with Go syntax,
// which is how slog quotes them. Lines that are not records (panics, stray
// output) are rejected and ReadRecords skips them.
package logtail
