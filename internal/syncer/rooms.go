package syncer

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sort"

	"chatrum/internal/gateway"
	"chatrum/internal/model"
	"chatrum/internal/session"

	"go.uber.org/zap"
)

// Rooms owns the ordered room cache: newest CreatedAt first, ties kept in
// backend arrival order. The backend is the system of record; every
// operation here is an explicit call against it.
type Rooms struct {
	gw       *gateway.Client
	sessions *session.Manager
	ui       Prompter
	picker   FilePicker
	dispatch Dispatcher
	logger   *zap.SugaredLogger

	// appDataDir is the durable app storage profile pictures are copied into.
	appDataDir string

	Cache *Cache[model.Room]

	userID             string
	userProfilePicture string
	refreshing         bool
}

func NewRooms(gw *gateway.Client, sessions *session.Manager, ui Prompter, picker FilePicker, dispatch Dispatcher, appDataDir string, logger *zap.SugaredLogger) *Rooms {
	r := &Rooms{
		gw:         gw,
		sessions:   sessions,
		ui:         ui,
		picker:     picker,
		dispatch:   dispatch,
		logger:     logger,
		appDataDir: appDataDir,
		Cache:      NewCache[model.Room](),
	}

	sess := sessions.Refresh()
	r.userID = sess.UserID
	r.userProfilePicture = sess.ProfilePicture
	if r.userProfilePicture == "" {
		r.userProfilePicture = model.DefaultAvatar
	}
	return r
}

// UserProfilePicture is the current user's avatar, with the default fallback.
func (r *Rooms) UserProfilePicture() string {
	return r.userProfilePicture
}

// Refreshing reports whether a manual refresh is in flight.
func (r *Rooms) Refreshing() bool {
	return r.refreshing
}

// SetUser sets the user id after construction and reloads the room list.
func (r *Rooms) SetUser(ctx context.Context, userID string) {
	r.userID = userID
	r.LoadRooms(ctx)
}

// resolveUser falls back to the credential store when no user id is set.
// Returns "" when no id can be resolved; callers abort with a log line.
func (r *Rooms) resolveUser() string {
	if r.userID != "" {
		return r.userID
	}
	r.logger.Debugf("user id not set, retrieving it from the credential store")
	r.userID = r.sessions.Refresh().UserID
	if r.userID == "" {
		r.logger.Errorf("user id is not available, please login")
	}
	return r.userID
}

// LoadRooms fetches all rooms for the current user and replaces the cache
// wholesale, sorted by CreatedAt descending. Aborts quietly without a
// resolvable user id; failures leave the prior cache untouched.
func (r *Rooms) LoadRooms(ctx context.Context) {
	defer func() { r.refreshing = false }()

	userID := r.resolveUser()
	if userID == "" {
		return
	}

	r.logger.Debugf("fetching rooms from API")
	var rooms []model.Room
	if err := r.gw.GetJSON(ctx, "api/Room/room_get?userId="+userID, &rooms); err != nil {
		r.logger.Errorf("could not load chat rooms: %v", err)
		return
	}
	r.logger.Debugf("number of rooms fetched: %d", len(rooms))

	for i := range rooms {
		// A stored image path that no longer resolves locally is display
		// garbage: null it out and let the view fall back to the default.
		if p := rooms[i].ProfileImageRoom; p != "" {
			if _, err := os.Stat(p); err != nil {
				r.logger.Warnf("profile image for room %q is missing, path: %s", rooms[i].Name, p)
				rooms[i].ProfileImageRoom = ""
			}
		}
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})

	r.dispatch.Do(func() {
		r.Cache.ReplaceAll(rooms)
	})
}

// Refresh reloads the room list, tracking the refresh indicator.
func (r *Rooms) Refresh(ctx context.Context) {
	r.refreshing = true
	r.LoadRooms(ctx)
}

// CreateRoom prompts for a name and description, persists the room, inserts
// the backend-returned entity at the cache head and appends the new room id
// to the user's membership list. The membership PATCH is best effort: its
// failure is logged, not rolled back.
func (r *Rooms) CreateRoom(ctx context.Context) {
	name, ok := r.ui.Prompt("Create Room", "Enter room name:", "")
	if !ok || name == "" {
		return
	}
	description, ok := r.ui.Prompt("Create Room", "Enter room description:", "")
	if !ok || description == "" {
		return
	}

	userID := r.resolveUser()
	if userID == "" {
		return
	}
	r.gw.SetUser(userID)

	newRoom := model.Room{Name: name, Description: description, CreatedAt: now()}

	var created model.Room
	if err := r.gw.PostJSON(ctx, "api/Room/room_post", newRoom, &created); err != nil {
		r.logger.Errorf("failed to create room: %v", err)
		return
	}

	r.updateUserRoomList(ctx, userID, created.ID)

	r.dispatch.Do(func() {
		r.Cache.Insert(0, created)
	})
	r.logger.Debugf("room %q created with id %s", created.Name, created.ID)
}

// updateUserRoomList appends a room id to the user's membership list.
func (r *Rooms) updateUserRoomList(ctx context.Context, userID, roomID string) {
	body := map[string]string{"roomId": roomID}
	if err := r.gw.PatchJSON(ctx, "api/User/"+userID+"/addRoom", body); err != nil {
		r.logger.Errorf("failed to update user's room list: %v", err)
		return
	}
	r.logger.Debugf("user's room list updated with room %s", roomID)
}

// UpdateRoom prompts for replacement name and description and persists the
// full room. A successful update triggers a reload rather than a local
// patch.
func (r *Rooms) UpdateRoom(ctx context.Context, room model.Room) {
	name, ok := r.ui.Prompt("Update Room", "Enter new room name:", room.Name)
	if !ok || name == "" {
		return
	}
	description, ok := r.ui.Prompt("Update Room", "Enter new room description:", room.Description)
	if !ok || description == "" {
		return
	}
	room.Name = name
	room.Description = description

	userID := r.resolveUser()
	if userID == "" {
		return
	}
	r.gw.SetUser(userID)

	if err := r.gw.PutJSON(ctx, "api/Room/room_update/"+room.ID, room); err != nil {
		r.logger.Errorf("failed to update room: %v", err)
		return
	}
	r.logger.Debugf("room %s updated", room.ID)
	r.LoadRooms(ctx)
}

// DeleteRoom asks for confirmation, deletes the room and removes it from
// the cache directly; no reload.
func (r *Rooms) DeleteRoom(ctx context.Context, room model.Room) {
	if !r.ui.Confirm("Delete Room", "Are you sure you want to delete room: "+room.Name+"?") {
		return
	}

	userID := r.resolveUser()
	if userID == "" {
		return
	}
	r.gw.SetUser(userID)

	if err := r.gw.Delete(ctx, "api/Room/room_delete/"+room.ID); err != nil {
		r.logger.Errorf("failed to delete room: %v", err)
		return
	}

	r.dispatch.Do(func() {
		r.Cache.RemoveFunc(func(v model.Room) bool { return v.ID == room.ID })
	})
	r.logger.Debugf("room %s deleted", room.ID)
}

// ChangeProfilePicture copies a user-picked image into durable app storage,
// persists the new path and replaces the cache entry in place so observers
// see the change.
func (r *Rooms) ChangeProfilePicture(ctx context.Context, room model.Room) {
	picked, ok := r.picker.PickImage()
	if !ok {
		return
	}

	target := filepath.Join(r.appDataDir, filepath.Base(picked))
	if err := copyFile(picked, target); err != nil {
		r.logger.Errorf("failed to copy profile picture into app storage: %v", err)
		return
	}
	room.ProfileImageRoom = target

	userID := r.resolveUser()
	if userID == "" {
		return
	}
	r.gw.SetUser(userID)

	if err := r.gw.PutJSON(ctx, "api/Room/room_update/"+room.ID, room); err != nil {
		r.logger.Errorf("failed to update room profile image: %v", err)
		return
	}

	r.dispatch.Do(func() {
		if i := r.Cache.IndexFunc(func(v model.Room) bool { return v.ID == room.ID }); i >= 0 {
			r.Cache.Replace(i, room)
		}
	})
	r.logger.Debugf("room %s profile picture updated", room.ID)
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0700); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
