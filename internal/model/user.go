package model

// User mirrors the backend's user document. RoomIDs is the membership list
// maintained by the addRoom PATCH endpoint.
type User struct {
	ID             string   `gorm:"primaryKey" json:"id"`
	Name           string   `gorm:"not null" json:"name"`
	ProfilePicture string   `json:"profilePicture,omitempty"`
	RoomIDs        []string `gorm:"serializer:json" json:"roomIds"`
}

func (User) TableName() string {
	return "users"
}
