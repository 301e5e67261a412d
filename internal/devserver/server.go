// Package devserver is a self-contained development backend implementing
// the ChatRum REST surface. It exists so the client can be developed and
// tested without the real deployment; it is not part of the client itself.
package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"chatrum/internal/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	storage *Storage
	flags   FlagStore
	logger  *zap.SugaredLogger
}

func NewServer(storage *Storage, flags FlagStore, logger *zap.SugaredLogger) *Server {
	return &Server{storage: storage, flags: flags, logger: logger}
}

// Router builds the gin engine with every route the client calls.
func (s *Server) Router(rateLimitRPS int) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if rateLimitRPS > 0 {
		router.Use(RateLimit(rateLimitRPS))
	}

	router.GET("/api/Room/room_get", s.listRooms)
	router.POST("/api/Room/room_post", s.createRoom)
	router.PUT("/api/Room/room_update/:id", s.updateRoom)
	router.DELETE("/api/Room/room_delete/:id", s.deleteRoom)

	router.POST("/api/User/user_post", s.upsertUser)
	router.PATCH("/api/User/:id/addRoom", s.addUserRoom)

	router.GET("/api/message/room_get_message/:roomId", s.listMessages)
	router.POST("/api/message/room_post_message", s.createMessage)
	router.PUT("/api/message/room_update_message/:id", s.updateMessage)
	router.DELETE("/api/message/room_delete_message/:id", s.deleteMessage)

	router.POST("/api/notification/set_new_message_flag/:roomId", s.setFlag)
	router.GET("/api/notification/check_new_message_flag/:roomId", s.checkFlag)
	router.POST("/api/notification/clear_new_message_flag/:roomId", s.clearFlag)

	return router
}

func (s *Server) listRooms(c *gin.Context) {
	rooms, err := s.storage.RoomsForUser(c.Query("userId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (s *Server) createRoom(c *gin.Context) {
	var room model.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	created, err := s.storage.CreateRoom(room)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.logger.Debugf("room %q created with id %s by user %s", created.Name, created.ID, c.GetHeader("UserId"))
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateRoom(c *gin.Context) {
	var room model.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.storage.UpdateRoom(c.Param("id"), room)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) deleteRoom(c *gin.Context) {
	if err := s.storage.DeleteRoom(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) upsertUser(c *gin.Context) {
	var user model.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if user.ID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}
	if err := s.storage.UpsertUser(user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) addUserRoom(c *gin.Context) {
	var body struct {
		RoomID string `json:"roomId"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.storage.AddUserRoom(c.Param("id"), body.RoomID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) listMessages(c *gin.Context) {
	messages, err := s.storage.MessagesForRoom(c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (s *Server) createMessage(c *gin.Context) {
	var message model.Message
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if message.RoomID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
		return
	}
	created, err := s.storage.CreateMessage(message)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) updateMessage(c *gin.Context) {
	var message model.Message
	if err := c.ShouldBindJSON(&message); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	err := s.storage.UpdateMessage(c.Param("id"), message)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) deleteMessage(c *gin.Context) {
	if err := s.storage.DeleteMessage(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) setFlag(c *gin.Context) {
	if err := s.flags.Set(c.Request.Context(), c.Param("roomId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) checkFlag(c *gin.Context) {
	set, err := s.flags.Get(c.Request.Context(), c.Param("roomId"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, strconv.FormatBool(set))
}

func (s *Server) clearFlag(c *gin.Context) {
	if err := s.flags.Clear(c.Request.Context(), c.Param("roomId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusOK)
}
