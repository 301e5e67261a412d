package model

import "time"

// Room is a chat room as the backend stores it. Id is assigned by the
// backend on creation and is empty before the first persist.
type Room struct {
	ID               string    `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"not null" json:"name"`
	Description      string    `gorm:"not null" json:"description"`
	ProfileImageRoom string    `json:"profileImageRoom,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (Room) TableName() string {
	return "rooms"
}

// DefaultRoomAvatar is shown when a room has no profile image set.
const DefaultRoomAvatar = "default_room_avatar.png"

// ProfileImageOrDefault falls back to the bundled room avatar.
func (r Room) ProfileImageOrDefault() string {
	if r.ProfileImageRoom == "" {
		return DefaultRoomAvatar
	}
	return r.ProfileImageRoom
}
