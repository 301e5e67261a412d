package syncer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"chatrum/internal/gateway"
	"chatrum/internal/model"
	"chatrum/internal/session"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func newTestGateway(srv *httptest.Server) *gateway.Client {
	return gateway.New(gateway.Options{BaseURL: srv.URL + "/"}, testLogger())
}

func newTestRooms(srv *httptest.Server, prompter *scriptPrompter, picker FilePicker, sessions *session.Manager, appDataDir string) *Rooms {
	if picker == nil {
		picker = &fixedPicker{}
	}
	return NewRooms(newTestGateway(srv), sessions, prompter, picker, InlineDispatcher{}, appDataDir, testLogger())
}

func TestLoadRooms_SortsNewestFirst(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	served := []model.Room{
		{ID: "old", Name: "Old", CreatedAt: base},
		{ID: "newest", Name: "Newest", CreatedAt: base.Add(2 * time.Hour)},
		{ID: "mid", Name: "Mid", CreatedAt: base.Add(time.Hour)},
	}

	router := setupRouter()
	router.GET("/api/Room/room_get", func(c *gin.Context) {
		assert.Equal(t, "user-1", c.Query("userId"))
		c.JSON(http.StatusOK, served)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	rooms := newTestRooms(srv, &scriptPrompter{}, nil, testSessions("user-1", "Alice", ""), t.TempDir())
	rooms.LoadRooms(context.Background())

	items := rooms.Cache.Items()
	assert.Len(t, items, 3)
	assert.Equal(t, "newest", items[0].ID)
	assert.Equal(t, "mid", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
}

func TestLoadRooms_EqualTimesKeepArrivalOrder(t *testing.T) {
	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	served := []model.Room{
		{ID: "first", CreatedAt: when},
		{ID: "second", CreatedAt: when},
	}

	router := setupRouter()
	router.GET("/api/Room/room_get", func(c *gin.Context) {
		c.JSON(http.StatusOK, served)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	rooms := newTestRooms(srv, &scriptPrompter{}, nil, testSessions("user-1", "Alice", ""), t.TempDir())
	rooms.LoadRooms(context.Background())

	items := rooms.Cache.Items()
	assert.Equal(t, "first", items[0].ID)
	assert.Equal(t, "second", items[1].ID)
}

func TestLoadRooms_NullsMissingImagePaths(t *testing.T) {
	existing := filepath.Join(t.TempDir(), "avatar.png")
	assert.NoError(t, os.WriteFile(existing, []byte("png"), 0600))

	served := []model.Room{
		{ID: "a", Name: "A", ProfileImageRoom: existing},
		{ID: "b", Name: "B", ProfileImageRoom: filepath.Join(t.TempDir(), "gone.png")},
	}

	router := setupRouter()
	router.GET("/api/Room/room_get", func(c *gin.Context) {
		c.JSON(http.StatusOK, served)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	rooms := newTestRooms(srv, &scriptPrompter{}, nil, testSessions("user-1", "Alice", ""), t.TempDir())
	rooms.LoadRooms(context.Background())

	items := rooms.Cache.Items()
	assert.Equal(t, existing, items[0].ProfileImageRoom)
	assert.Equal(t, "", items[1].ProfileImageRoom, "missing image path should be nulled")
}

func TestLoadRooms_WithoutUserMakesNoRequest(t *testing.T) {
	requests := 0
	router := setupRouter()
	router.GET("/api/Room/room_get", func(c *gin.Context) {
		requests++
		c.JSON(http.StatusOK, []model.Room{})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	rooms := newTestRooms(srv, &scriptPrompter{}, nil, testSessions("", "", ""), t.TempDir())
	rooms.LoadRooms(context.Background())

	assert.Equal(t, 0, requests)
	assert.Equal(t, 0, rooms.Cache.Len())
}

func TestLoadRooms_FailureKeepsPriorCache(t *testing.T) {
	router := setupRouter()
	router.GET("/api/Room/room_get", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	rooms := newTestRooms(srv, &scriptPrompter{}, nil, testSessions("user-1", "Alice", ""), t.TempDir())
	rooms.Cache.Append(model.Room{ID: "kept"})

	rooms.Refresh(context.Background())

	assert.Equal(t, 1, rooms.Cache.Len())
	assert.Equal(t, "kept", rooms.Cache.At(0).ID)
	assert.False(t, rooms.Refreshing(), "refresh indicator must reset even on failure")
}

func TestCreateRoom_InsertsCreatedEntityAtHead(t *testing.T) {
	var patchedUser, patchedRoom string

	router := setupRouter()
	router.POST("/api/Room/room_post", func(c *gin.Context) {
		assert.Equal(t, "user-1", c.GetHeader("UserId"))

		var room model.Room
		assert.NoError(t, c.ShouldBindJSON(&room))
		assert.Equal(t, "Gaming", room.Name)
		assert.Equal(t, "All about games", room.Description)

		room.ID = "room-42"
		c.JSON(http.StatusCreated, room)
	})
	router.PATCH("/api/User/:id/addRoom", func(c *gin.Context) {
		patchedUser = c.Param("id")
		var body struct {
			RoomID string `json:"roomId"`
		}
		assert.NoError(t, c.ShouldBindJSON(&body))
		patchedRoom = body.RoomID
		c.Status(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	prompter := &scriptPrompter{answers: []string{"Gaming", "All about games"}}
	rooms := newTestRooms(srv, prompter, nil, testSessions("user-1", "Alice", ""), t.TempDir())
	rooms.Cache.Append(model.Room{ID: "existing"})

	rooms.CreateRoom(context.Background())

	assert.Equal(t, 2, rooms.Cache.Len())
	assert.Equal(t, "room-42", rooms.Cache.At(0).ID, "created room goes to the head")
	assert.Equal(t, "existing", rooms.Cache.At(1).ID)
	assert.Equal(t, "user-1", patchedUser)
	assert.Equal(t, "room-42", patchedRoom)
}

func TestCreateRoom_CancelledPromptMakesNoRequest(t *testing.T) {
	requests := 0
	router := setupRouter()
	router.POST("/api/Room/room_post", func(c *gin.Context) {
		requests++
		c.Status(http.StatusCreated)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	prompter := &scriptPrompter{} // no answers scripted: first prompt cancels
	rooms := newTestRooms(srv, prompter, nil, testSessions("user-1", "Alice", ""), t.TempDir())

	rooms.CreateRoom(context.Background())

	assert.Equal(t, 0, requests)
	assert.Equal(t, 0, rooms.Cache.Len())
}

func TestCreateRoom_MembershipFailureKeepsRoom(t *testing.T) {
	router := setupRouter()
	router.POST("/api/Room/room_post", func(c *gin.Context) {
		var room model.Room
		assert.NoError(t, c.ShouldBindJSON(&room))
		room.ID = "room-1"
		c.JSON(http.StatusCreated, room)
	})
	router.PATCH("/api/User/:id/addRoom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "boom"})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	prompter := &scriptPrompter{answers: []string{"Room", "Desc"}}
	rooms := newTestRooms(srv, prompter, nil, testSessions("user-1", "Alice", ""), t.TempDir())

	rooms.CreateRoom(context.Background())

	// The membership update is best effort; the room still lands in the cache.
	assert.Equal(t, 1, rooms.Cache.Len())
	assert.Equal(t, "room-1", rooms.Cache.At(0).ID)
}

func TestUpdateRoom_PersistsAndReloads(t *testing.T) {
	var updated model.Room

	router := setupRouter()
	router.PUT("/api/Room/room_update/:id", func(c *gin.Context) {
		assert.Equal(t, "room-1", c.Param("id"))
		assert.NoError(t, c.ShouldBindJSON(&updated))
		c.Status(http.StatusOK)
	})
	router.GET("/api/Room/room_get", func(c *gin.Context) {
		c.JSON(http.StatusOK, []model.Room{{ID: "room-1", Name: updated.Name, Description: updated.Description}})
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	prompter := &scriptPrompter{answers: []string{"Renamed", "New description"}}
	rooms := newTestRooms(srv, prompter, nil, testSessions("user-1", "Alice", ""), t.TempDir())

	rooms.UpdateRoom(context.Background(), model.Room{ID: "room-1", Name: "Old", Description: "Old desc"})

	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "New description", updated.Description)
	assert.Equal(t, 1, rooms.Cache.Len())
	assert.Equal(t, "Renamed", rooms.Cache.At(0).Name)
}

func TestDeleteRoom_DeclinedConfirmMakesNoRequest(t *testing.T) {
	requests := 0
	router := setupRouter()
	router.DELETE("/api/Room/room_delete/:id", func(c *gin.Context) {
		requests++
		c.Status(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	prompter := &scriptPrompter{confirm: false}
	rooms := newTestRooms(srv, prompter, nil, testSessions("user-1", "Alice", ""), t.TempDir())
	rooms.Cache.Append(model.Room{ID: "room-1"})

	rooms.DeleteRoom(context.Background(), model.Room{ID: "room-1", Name: "Room"})

	assert.Equal(t, 0, requests)
	assert.Equal(t, 1, rooms.Cache.Len())
}

func TestDeleteRoom_RemovesFromCache(t *testing.T) {
	router := setupRouter()
	router.DELETE("/api/Room/room_delete/:id", func(c *gin.Context) {
		assert.Equal(t, "room-1", c.Param("id"))
		c.Status(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	prompter := &scriptPrompter{confirm: true}
	rooms := newTestRooms(srv, prompter, nil, testSessions("user-1", "Alice", ""), t.TempDir())
	rooms.Cache.Append(model.Room{ID: "room-1"})
	rooms.Cache.Append(model.Room{ID: "room-2"})

	rooms.DeleteRoom(context.Background(), model.Room{ID: "room-1", Name: "Room"})

	assert.Equal(t, 1, rooms.Cache.Len())
	assert.Equal(t, "room-2", rooms.Cache.At(0).ID)
}

func TestChangeProfilePicture_CopiesIntoAppStorage(t *testing.T) {
	srcDir := t.TempDir()
	picked := filepath.Join(srcDir, "new_avatar.png")
	assert.NoError(t, os.WriteFile(picked, []byte("image-bytes"), 0600))

	appDataDir := t.TempDir()
	wantTarget := filepath.Join(appDataDir, "new_avatar.png")

	var updated model.Room
	router := setupRouter()
	router.PUT("/api/Room/room_update/:id", func(c *gin.Context) {
		assert.NoError(t, c.ShouldBindJSON(&updated))
		c.Status(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	prompter := &scriptPrompter{}
	picker := &fixedPicker{path: picked, ok: true}
	rooms := newTestRooms(srv, prompter, picker, testSessions("user-1", "Alice", ""), appDataDir)
	rooms.Cache.Append(model.Room{ID: "other"})
	rooms.Cache.Append(model.Room{ID: "room-1", Name: "Room"})

	rooms.ChangeProfilePicture(context.Background(), model.Room{ID: "room-1", Name: "Room"})

	copied, err := os.ReadFile(wantTarget)
	assert.NoError(t, err)
	assert.Equal(t, "image-bytes", string(copied))
	assert.Equal(t, wantTarget, updated.ProfileImageRoom)

	// Replaced in place: index preserved, new path visible.
	assert.Equal(t, "other", rooms.Cache.At(0).ID)
	assert.Equal(t, wantTarget, rooms.Cache.At(1).ProfileImageRoom)
}

func TestChangeProfilePicture_CancelledPickerMakesNoRequest(t *testing.T) {
	requests := 0
	router := setupRouter()
	router.PUT("/api/Room/room_update/:id", func(c *gin.Context) {
		requests++
		c.Status(http.StatusOK)
	})
	srv := httptest.NewServer(router)
	defer srv.Close()

	picker := &fixedPicker{ok: false}
	rooms := newTestRooms(srv, &scriptPrompter{}, picker, testSessions("user-1", "Alice", ""), t.TempDir())

	rooms.ChangeProfilePicture(context.Background(), model.Room{ID: "room-1"})

	assert.Equal(t, 0, requests)
}

func TestRoomJSONUsesCamelCaseKeys(t *testing.T) {
	room := model.Room{ID: "r1", Name: "N", Description: "D", ProfileImageRoom: "p.png"}
	data, err := json.Marshal(room)
	assert.NoError(t, err)

	var raw map[string]any
	assert.NoError(t, json.Unmarshal(data, &raw))
	for _, key := range []string{"id", "name", "description", "profileImageRoom", "createdAt"} {
		assert.Contains(t, raw, key)
	}
}
