package model

// UserStats summarises solved problems for a user on one platform.
type UserStats struct {
	Tags        map[string]int `json:"tags"`
	TotalSolved int            `json:"totalSolved"`
	// Rating is nil when the platform does not expose one.
	Rating *int `json:"rating"`
}
