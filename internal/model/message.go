package model

// TimestampLayout is the client-side display format stamped on messages at
// send time. The backend stores the string as-is; it is not authoritative.
const TimestampLayout = "1/2/2006 3:04 PM"

// DefaultAvatar is used when the session has no profile picture.
const DefaultAvatar = "default_avatar.png"

// Message is a single chat message. Sender identity is resolved from the
// local session at send time, never from server truth.
type Message struct {
	ID                 string `gorm:"primaryKey" json:"id"`
	SenderName         string `gorm:"not null" json:"senderName"`
	UserID             string `gorm:"index" json:"userId"`
	UserProfilePicture string `json:"userProfilePicture,omitempty"`
	Text               string `gorm:"not null" json:"text"`
	Timestamp          string `json:"timestamp"`
	RoomID             string `gorm:"not null;index:idx_messages_room_id" json:"roomId"`
	RoomName           string `json:"roomName"`
	// FromRoomName is set only when the message was forwarded here from
	// another room; it marks provenance on the new message entity.
	FromRoomName string `json:"fromRoomName,omitempty"`
}

func (Message) TableName() string {
	return "messages"
}
