package devserver

import (
	"errors"

	"chatrum/internal/model"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Storage persists rooms, messages and users in a local sqlite database.
type Storage struct {
	db *gorm.DB
}

// OpenStorage opens (and migrates) the database at path. Tests point this
// at a throwaway file; in-memory sqlite does not survive the connection
// pool.
func OpenStorage(path string) (*Storage, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&model.Room{}, &model.Message{}, &model.User{}); err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// RoomsForUser returns the rooms on the user's membership list. An unknown
// user or an empty userID returns every room; the room list endpoint is
// also used unscoped.
func (s *Storage) RoomsForUser(userID string) ([]model.Room, error) {
	if userID != "" {
		var user model.User
		err := s.db.First(&user, "id = ?", userID).Error
		if err == nil {
			if len(user.RoomIDs) == 0 {
				return []model.Room{}, nil
			}
			var rooms []model.Room
			if err := s.db.Where("id IN ?", user.RoomIDs).Order("rowid").Find(&rooms).Error; err != nil {
				return nil, err
			}
			return rooms, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	var rooms []model.Room
	if err := s.db.Order("rowid").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

// CreateRoom assigns an id and persists the room.
func (s *Storage) CreateRoom(room model.Room) (model.Room, error) {
	room.ID = uuid.NewString()
	if err := s.db.Create(&room).Error; err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// UpdateRoom replaces all mutable room fields.
func (s *Storage) UpdateRoom(id string, room model.Room) error {
	room.ID = id
	result := s.db.Model(&model.Room{}).Where("id = ?", id).Updates(map[string]any{
		"name":               room.Name,
		"description":        room.Description,
		"profile_image_room": room.ProfileImageRoom,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteRoom removes the room and its messages.
func (s *Storage) DeleteRoom(id string) error {
	if err := s.db.Delete(&model.Room{}, "id = ?", id).Error; err != nil {
		return err
	}
	return s.db.Delete(&model.Message{}, "room_id = ?", id).Error
}

// UpsertUser creates the user document or refreshes its identity fields.
func (s *Storage) UpsertUser(user model.User) error {
	var existing model.User
	err := s.db.First(&existing, "id = ?", user.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&user).Error
	}
	if err != nil {
		return err
	}
	existing.Name = user.Name
	existing.ProfilePicture = user.ProfilePicture
	return s.db.Save(&existing).Error
}

// AddUserRoom appends a room id to the user's membership list. Adding an
// already-listed room is a no-op.
func (s *Storage) AddUserRoom(userID, roomID string) error {
	var user model.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		return err
	}
	for _, id := range user.RoomIDs {
		if id == roomID {
			return nil
		}
	}
	user.RoomIDs = append(user.RoomIDs, roomID)
	return s.db.Save(&user).Error
}

// MessagesForRoom lists a room's messages in insertion order.
func (s *Storage) MessagesForRoom(roomID string) ([]model.Message, error) {
	var messages []model.Message
	if err := s.db.Where("room_id = ?", roomID).Order("rowid").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateMessage assigns an id and persists the message.
func (s *Storage) CreateMessage(message model.Message) (model.Message, error) {
	message.ID = uuid.NewString()
	if err := s.db.Create(&message).Error; err != nil {
		return model.Message{}, err
	}
	return message, nil
}

// UpdateMessage replaces the message fields.
func (s *Storage) UpdateMessage(id string, message model.Message) error {
	result := s.db.Model(&model.Message{}).Where("id = ?", id).Updates(map[string]any{
		"sender_name": message.SenderName,
		"text":        message.Text,
		"timestamp":   message.Timestamp,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteMessage removes a message by id.
func (s *Storage) DeleteMessage(id string) error {
	return s.db.Delete(&model.Message{}, "id = ?", id).Error
}
