package model

import (
	"encoding/json"
	"time"
)

// Platform identifies a contest source.
type Platform string

const (
	PlatformCodeforces Platform = "cf"
	PlatformCodeChef   Platform = "cc"
	PlatformLeetCode   Platform = "lc"
)

// Contest is an upcoming contest normalised across platforms.
type Contest struct {
	ID        string        `json:"id"`
	Platform  Platform      `json:"platform"`
	Name      string        `json:"name"`
	StartTime time.Time     `json:"startTime"`
	Duration  time.Duration `json:"-"`
	URL       string        `json:"url"`
}

// MarshalJSON reports Duration in whole seconds.
func (c Contest) MarshalJSON() ([]byte, error) {
	type alias Contest
	return json.Marshal(struct {
		alias
		DurationSeconds int64 `json:"durationSeconds,omitempty"`
	}{alias(c), int64(c.Duration / time.Second)})
}
