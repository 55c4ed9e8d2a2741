// Package config loads stash's startup settings from a TOML file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/stash/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/stash/config.toml
//   - Log file: ~/.local/share/stash/stash.log
//   - Log level: info
//   - Memo cap: 100 (0 keeps every memo)
//
// # TOML Format
//
//	log_file = "~/.local/share/stash/stash.log"
//	log_level = "debug"   # debug, info, warn, error, or offsets like "info+2"
//	max_memos = 100
//
// Tilde expansion is applied to the config path and to log_file.
//
// # Error Handling
//
// Load returns errors for:
//   - Path expansion failures (e.g., cannot determine home directory)
//   - File read errors (except os.ErrNotExist, which triggers defaults)
//   - TOML parsing errors
//   - A log_level slog cannot parse, or a negative max_memos
//
// Missing config files are NOT an error. stash runs without any
// configuration.
//
// # Usage Example
//
//	cfg, err := config.Load("")
//	if err != nil {
//		return fmt.Errorf("load config: %w", err)
//	}
//	board := memo.NewBoard(memo.Options{MaxMemos: cfg.MaxMemos})
package config
