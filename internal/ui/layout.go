package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutSideBySideWidth is the minimum width to show the activity pane
	// beside the memo list instead of below it.
	LayoutSideBySideWidth = 110

	// LayoutTimestampWidth is the minimum width to show memo timestamps.
	LayoutTimestampWidth = 70
)

// Activity pane limits.
const (
	// ActivityLineLimit is the number of log lines read for the activity pane.
	ActivityLineLimit = 200
)

// Timing constants.
const (
	// ActivityRefreshInterval is how often the activity pane rereads the log.
	ActivityRefreshInterval = time.Second
)
