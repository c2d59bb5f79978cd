package config

import "time"

const (
	// Typing indicator lifetime after the last renewing event
	TypingIndicatorTTL = 3 * time.Second

	// Directory refresh delay after a read/send action
	DirectoryReloadDelay = 500 * time.Millisecond

	// User search
	SearchDebounce   = 500 * time.Millisecond
	MinSearchTermLen = 2

	// Feed
	MaxPostLen = 500
)
