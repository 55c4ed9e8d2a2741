// Package app is the composition root for stash.
//
// # Architecture
//
// Setup wires the runtime in this order:
//
//  1. Load config from ~/.config/stash/config.toml (or --config)
//  2. Load UI preferences from ~/.config/stash/prefs.toml (or --prefs)
//  3. Open the log file and build a slog.TextHandler at the configured level
//  4. Build the memo board with a SlogObserver, so every store event is logged
//
// Run then hands the board to the TUI and blocks until the user quits or the
// context is cancelled. Demo replays a script against the same board without
// a terminal and prints each committed state.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Setup()    │
//	└──────┬───────┘
//	       ├─────> config.Load()         log file, level, memo cap
//	       ├─────> prefs.Load()          theme, activity pane
//	       ├─────> slog.NewTextHandler() log file sink
//	       └─────> memo.NewBoard()       store + trace/selector/reducer
//
//	ui.Run()  ── edits ──>  memo.Board  ── store events ──>  log file
//	   ^                        │                               │
//	   └──── changedMsg ────────┘        activity pane <────────┘
//
// # Error Handling
//
// Setup fails on a bad config file, an invalid log level or an unwritable
// log file. Preference problems never fail startup (see package prefs).
// Env.Close must be called to close the log file.
package app
