package simgames

import "time"

// HTTP status code constants.
const (
	StatusOK = 200
)

// Runner configuration constants.
const (
	TimelinePollInterval = 100 * time.Millisecond
	TimelinePollBudget   = 10 * time.Second
	PercentageMultiplier = 100
)
