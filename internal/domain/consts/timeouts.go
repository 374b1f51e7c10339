package consts

import "time"

// UI and display
const (
	CountdownTickInterval = 1 * time.Second
	ClearLine             = "\r\033[K"
)
