package main

import (
	"time"

	"tasker/internal/utils/logging"
)

// cleanup logs the shutdown and closes the log file.
//
// A panic is logged before being re-raised.
func cleanup(startTime time.Time) {
	r := recover()
	if r != nil {
		logging.E("Panic occurred: %v", r)
	}

	logging.I("tasker ran for %v", time.Since(startTime).Round(time.Second))
	if err := logging.Close(); err != nil {
		logging.E("Failed to close log file: %v", err)
	}

	if r != nil {
		panic(r)
	}
}
