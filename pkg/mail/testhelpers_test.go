package mail

import "time"

const (
	testTimeout = 2 * time.Second
	testTick    = 10 * time.Millisecond
)

var fixedTime = time.Date(2024, time.March, 14, 9, 26, 0, 0, time.UTC)
