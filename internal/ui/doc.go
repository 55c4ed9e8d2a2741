// Package ui provides the Bubble Tea terminal interface for the memo board.
//
// # Layout
//
//   - Header: title, memo count and active theme
//   - Input pane: the draft, a bubbles textinput
//   - Memo list: submitted memos, newest last
//   - Activity pane: store events read back from the log file (optional,
//     beside the list on wide terminals, below it otherwise)
//   - Footer: last action and key hints
//
// # Store Binding
//
// The model never copies memo state into its own source of truth. Edits go
// straight to memo.Board, and a board listener signals a buffered channel
// that a waiting tea.Cmd turns into a changedMsg. Signals coalesce, and on
// each one the model rereads Board.State, so changes made outside the UI
// (or several quick edits) land as a single redraw and the listener never
// blocks the store.
//
// # Keys
//
// Tab moves focus between the input and the list. In the input every key
// edits the draft; enter submits and esc discards. In the list, j/k move,
// d or x deletes, C clears the board, L toggles the activity pane, T cycles
// the theme and ? shows help. Theme and activity choices are saved through
// package prefs.
package ui
