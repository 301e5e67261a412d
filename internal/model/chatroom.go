package model

import "time"

// ChatRoom is the overview row: a lighter room summary ranked by recent
// activity rather than creation time. It never round-trips to the backend.
type ChatRoom struct {
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	LatestMessageTime time.Time `json:"latestMessageTime"`
}
