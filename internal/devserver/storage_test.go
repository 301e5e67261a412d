package devserver

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"chatrum/internal/model"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	storage, err := OpenStorage(filepath.Join(t.TempDir(), "test.db"))
	assert.NoError(t, err)
	return storage
}

func TestStorage_CreateRoomAssignsID(t *testing.T) {
	storage := newTestStorage(t)

	created, err := storage.CreateRoom(model.Room{Name: "Gaming", Description: "games"})
	assert.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Gaming", created.Name)
}

func TestStorage_RoomsForUnknownUserReturnsAll(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)
	_, err = storage.CreateRoom(model.Room{Name: "B"})
	assert.NoError(t, err)

	rooms, err := storage.RoomsForUser("nobody")
	assert.NoError(t, err)
	assert.Len(t, rooms, 2)

	rooms, err = storage.RoomsForUser("")
	assert.NoError(t, err)
	assert.Len(t, rooms, 2)
}

func TestStorage_RoomsForUserScopedByMembership(t *testing.T) {
	storage := newTestStorage(t)

	a, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)
	_, err = storage.CreateRoom(model.Room{Name: "B"})
	assert.NoError(t, err)

	assert.NoError(t, storage.UpsertUser(model.User{ID: "user-1", Name: "Alice"}))
	assert.NoError(t, storage.AddUserRoom("user-1", a.ID))

	rooms, err := storage.RoomsForUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, rooms, 1)
	assert.Equal(t, a.ID, rooms[0].ID)
}

func TestStorage_MemberWithNoRoomsSeesNone(t *testing.T) {
	storage := newTestStorage(t)

	_, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)
	assert.NoError(t, storage.UpsertUser(model.User{ID: "user-1"}))

	rooms, err := storage.RoomsForUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, rooms, 0)
}

func TestStorage_AddUserRoomIsIdempotent(t *testing.T) {
	storage := newTestStorage(t)

	room, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)
	assert.NoError(t, storage.UpsertUser(model.User{ID: "user-1"}))

	assert.NoError(t, storage.AddUserRoom("user-1", room.ID))
	assert.NoError(t, storage.AddUserRoom("user-1", room.ID))

	rooms, err := storage.RoomsForUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, rooms, 1)
}

func TestStorage_AddUserRoomUnknownUser(t *testing.T) {
	storage := newTestStorage(t)
	err := storage.AddUserRoom("ghost", "room-1")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStorage_UpdateRoom(t *testing.T) {
	storage := newTestStorage(t)

	room, err := storage.CreateRoom(model.Room{Name: "Old", Description: "old"})
	assert.NoError(t, err)

	err = storage.UpdateRoom(room.ID, model.Room{Name: "New", Description: "new"})
	assert.NoError(t, err)

	rooms, err := storage.RoomsForUser("")
	assert.NoError(t, err)
	assert.Equal(t, "New", rooms[0].Name)
	assert.Equal(t, "new", rooms[0].Description)
}

func TestStorage_UpdateMissingRoom(t *testing.T) {
	storage := newTestStorage(t)
	err := storage.UpdateRoom("ghost", model.Room{Name: "X"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStorage_DeleteRoomRemovesItsMessages(t *testing.T) {
	storage := newTestStorage(t)

	room, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)
	_, err = storage.CreateMessage(model.Message{RoomID: room.ID, Text: "hi"})
	assert.NoError(t, err)

	assert.NoError(t, storage.DeleteRoom(room.ID))

	messages, err := storage.MessagesForRoom(room.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 0)
}

func TestStorage_MessagesKeepInsertionOrder(t *testing.T) {
	storage := newTestStorage(t)

	room, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)

	for _, text := range []string{"first", "second", "third"} {
		_, err := storage.CreateMessage(model.Message{RoomID: room.ID, Text: text})
		assert.NoError(t, err)
	}

	messages, err := storage.MessagesForRoom(room.ID)
	assert.NoError(t, err)
	assert.Len(t, messages, 3)
	assert.Equal(t, "first", messages[0].Text)
	assert.Equal(t, "second", messages[1].Text)
	assert.Equal(t, "third", messages[2].Text)
}

func TestStorage_UpdateMessage(t *testing.T) {
	storage := newTestStorage(t)

	room, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)
	msg, err := storage.CreateMessage(model.Message{RoomID: room.ID, SenderName: "Alice", Text: "hi"})
	assert.NoError(t, err)

	err = storage.UpdateMessage(msg.ID, model.Message{SenderName: "Alice B", Text: "edited", Timestamp: "3/1/2024 12:00 PM"})
	assert.NoError(t, err)

	messages, err := storage.MessagesForRoom(room.ID)
	assert.NoError(t, err)
	assert.Equal(t, "edited", messages[0].Text)
	assert.Equal(t, "Alice B", messages[0].SenderName)
}

func TestStorage_UpdateMissingMessage(t *testing.T) {
	storage := newTestStorage(t)
	err := storage.UpdateMessage("ghost", model.Message{Text: "x"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestStorage_UpsertUserRefreshesIdentity(t *testing.T) {
	storage := newTestStorage(t)

	assert.NoError(t, storage.UpsertUser(model.User{ID: "user-1", Name: "Alice"}))
	room, err := storage.CreateRoom(model.Room{Name: "A"})
	assert.NoError(t, err)
	assert.NoError(t, storage.AddUserRoom("user-1", room.ID))

	// Re-registering keeps the membership list.
	assert.NoError(t, storage.UpsertUser(model.User{ID: "user-1", Name: "Alice Smith", ProfilePicture: "a.png"}))

	rooms, err := storage.RoomsForUser("user-1")
	assert.NoError(t, err)
	assert.Len(t, rooms, 1)
}
