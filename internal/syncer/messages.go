package syncer

import (
	"context"
	"fmt"

	"chatrum/internal/gateway"
	"chatrum/internal/model"
	"chatrum/internal/notification"
	"chatrum/internal/session"

	"go.uber.org/zap"
)

// Messages owns the message cache for exactly one room. The cache keeps
// append order; it is never re-sorted. Forwarding a message to another room
// creates a new message entity there and flags the destination.
type Messages struct {
	gw       *gateway.Client
	notifier *notification.Service
	sessions *session.Manager
	ui       Prompter
	dispatch Dispatcher
	logger   *zap.SugaredLogger

	room        model.Room
	roomProfile string

	Cache *Cache[model.Message]
}

func NewMessages(room model.Room, gw *gateway.Client, notifier *notification.Service, sessions *session.Manager, ui Prompter, dispatch Dispatcher, logger *zap.SugaredLogger) *Messages {
	m := &Messages{
		gw:          gw,
		notifier:    notifier,
		sessions:    sessions,
		ui:          ui,
		dispatch:    dispatch,
		logger:      logger,
		room:        room,
		roomProfile: room.ProfileImageOrDefault(),
		Cache:       NewCache[model.Message](),
	}
	m.logger.Debugf("room profile picture: %s", m.roomProfile)
	return m
}

// Room is the resolved room metadata this synchronizer is bound to.
func (m *Messages) Room() model.Room {
	return m.room
}

// RoomProfile is the room avatar with the default fallback applied.
func (m *Messages) RoomProfile() string {
	return m.roomProfile
}

// LoadMessages fetches the room's messages and replaces the cache
// wholesale. Every message is stamped with the current room's name; a
// mismatched server value is overwritten. Aborts quietly without a
// resolvable user id.
func (m *Messages) LoadMessages(ctx context.Context) {
	sess := m.sessions.Refresh()
	if !sess.LoggedIn() {
		m.logger.Errorf("user id is not available, please login")
		return
	}

	var messages []model.Message
	if err := m.gw.GetJSON(ctx, "api/message/room_get_message/"+m.room.ID, &messages); err != nil {
		m.ui.Alert("Error", fmt.Sprintf("Could not load messages: %v", err))
		return
	}

	for i := range messages {
		messages[i].RoomName = m.room.Name
	}

	m.dispatch.Do(func() {
		m.Cache.ReplaceAll(messages)
	})
}

// CreateMessage sends a new message with the sender identity resolved from
// the local session. Identity is mandatory: a missing user name aborts; a
// missing picture falls back to the default avatar. On success the message
// is appended to the cache and the room is reloaded to pick up
// server-assigned fields.
func (m *Messages) CreateMessage(ctx context.Context, text string) {
	if text == "" {
		m.logger.Debugf("message input is empty, no action taken")
		return
	}

	sess := m.sessions.Refresh()
	if sess.UserName == "" {
		m.logger.Debugf("user name not found in the credential store")
		return
	}
	picture := sess.ProfilePicture
	if picture == "" {
		m.logger.Debugf("user profile picture not found, using default")
		picture = model.DefaultAvatar
	}

	newMessage := model.Message{
		SenderName:         sess.UserName,
		UserID:             sess.UserID,
		UserProfilePicture: picture,
		Text:               text,
		Timestamp:          now().Format(model.TimestampLayout),
		RoomID:             m.room.ID,
		RoomName:           m.room.Name,
	}

	if err := m.gw.PostJSON(ctx, "api/message/room_post_message", newMessage, nil); err != nil {
		m.ui.Alert("Error", fmt.Sprintf("Failed to create message: %v", err))
		return
	}
	m.logger.Debugf("message sent to room %s", m.room.ID)

	m.dispatch.Do(func() {
		m.Cache.Append(newMessage)
	})
	m.LoadMessages(ctx)
}

// UpdateMessage prompts for a replacement sender name and text, persists
// the full message, replaces the cache entry in place and reloads.
func (m *Messages) UpdateMessage(ctx context.Context, message model.Message) {
	sender, ok := m.ui.Prompt("Update Sender", "Enter new sender name:", message.SenderName)
	if !ok || sender == "" {
		return
	}
	text, ok := m.ui.Prompt("Update Message", "Enter new message text:", message.Text)
	if !ok || text == "" {
		return
	}

	message.SenderName = sender
	message.Text = text
	message.Timestamp = now().Format(model.TimestampLayout)

	if err := m.gw.PutJSON(ctx, "api/message/room_update_message/"+message.ID, message); err != nil {
		m.ui.Alert("Error", fmt.Sprintf("Failed to update message: %v", err))
		return
	}

	m.dispatch.Do(func() {
		if i := m.Cache.IndexFunc(func(v model.Message) bool { return v.ID == message.ID }); i >= 0 {
			m.Cache.Replace(i, message)
		}
	})
	m.LoadMessages(ctx)
}

// DeleteMessage asks for confirmation, deletes the message, removes it from
// the cache and reloads.
func (m *Messages) DeleteMessage(ctx context.Context, message model.Message) {
	if !m.ui.Confirm("Delete Message", "Are you sure you want to delete this message?") {
		return
	}

	if err := m.gw.Delete(ctx, "api/message/room_delete_message/"+message.ID); err != nil {
		m.ui.Alert("Error", fmt.Sprintf("Failed to delete message: %v", err))
		return
	}

	m.dispatch.Do(func() {
		m.Cache.RemoveFunc(func(v model.Message) bool { return v.ID == message.ID })
	})
	m.logger.Debugf("message %s removed from local collection", message.ID)
	m.LoadMessages(ctx)
}

// Forward sends a copy of the message to another room picked by the user.
// The copy carries FromRoomName as provenance; the original message is
// untouched. A successful send flags the destination room. Sending back to
// this same room is not prevented.
func (m *Messages) Forward(ctx context.Context, message model.Message) {
	sess := m.sessions.Refresh()
	if !sess.LoggedIn() {
		m.logger.Errorf("user id is not available, please login")
		return
	}

	var rooms []model.Room
	if err := m.gw.GetJSON(ctx, "api/Room/room_get?userId="+sess.UserID, &rooms); err != nil {
		m.ui.Alert("Error", "Failed to retrieve rooms.")
		return
	}
	if len(rooms) == 0 {
		m.ui.Alert("No Rooms", "No rooms available to send the message.")
		return
	}

	names := make([]string, len(rooms))
	for i, room := range rooms {
		names[i] = room.Name
	}

	selected, ok := m.ui.ChooseOption("Select Room to Send Message", names)
	if !ok || selected == "" {
		m.logger.Debugf("no room selected or user canceled")
		return
	}

	var target *model.Room
	for i := range rooms {
		if rooms[i].Name == selected {
			target = &rooms[i]
			break
		}
	}
	if target == nil {
		m.ui.Alert("Error", "Selected room not found.")
		return
	}

	forwarded := model.Message{
		SenderName:         message.SenderName,
		UserID:             message.UserID,
		UserProfilePicture: message.UserProfilePicture,
		Text:               message.Text,
		Timestamp:          now().Format(model.TimestampLayout),
		RoomID:             target.ID,
		RoomName:           target.Name,
		FromRoomName:       m.room.Name,
	}

	if err := m.gw.PostJSON(ctx, "api/message/room_post_message", forwarded, nil); err != nil {
		m.ui.Alert("Error", "Failed to send the message.")
		return
	}

	m.ui.Toast("Message sent to " + target.Name)
	m.notifier.Store(ctx, target.ID)
}

// RoomOpened is the view-entry hook. It checks the room's new-message flag,
// surfaces a toast naming the origin of the latest cached message, clears
// the flag, and always reloads the messages.
//
// Flag lifecycle per room: Clear -> (forward from elsewhere) -> Set ->
// (room opened, flag observed) -> Notified -> (explicit clear) -> Clear.
func (m *Messages) RoomOpened(ctx context.Context) {
	if m.notifier.Check(ctx, m.room.ID) {
		if n := m.Cache.Len(); n > 0 {
			latest := m.Cache.At(n - 1)
			m.ui.Toast(fmt.Sprintf("You got a new message in your: %s from %s", m.room.Name, latest.FromRoomName))
		}
		m.notifier.Clear(ctx, m.room.ID)
	}

	m.LoadMessages(ctx)
}
