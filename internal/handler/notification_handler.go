package handler

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/kindnest/kindnest-api/internal/dto"
	"github.com/kindnest/kindnest-api/internal/middleware"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/response"
	"github.com/redis/go-redis/v9"
)

type NotificationHandler struct {
	notifications service.NotificationService
	redisClient   *redis.Client
	upgrader      websocket.Upgrader
}

func NewNotificationHandler(notifications service.NotificationService, redisClient *redis.Client) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		redisClient:   redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Get returns the caller's notifications since their read watermark. A
// silentRefresh query keeps the watermark where it is, so background
// polling doesn't mark anything as seen.
func (h *NotificationHandler) Get(c *gin.Context) {
	silent := c.Query("silentRefresh") == "true"

	notifications, err := h.notifications.GetNotifications(c.Request.Context(), middleware.CurrentUser(c), silent)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	sub, err := h.notifications.Subscribe(c.Request.Context(), middleware.CurrentUser(c).ID, req.Endpoint, req.Data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"subscription": sub})
}

func (h *NotificationHandler) UpdateSubscription(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Unprocessable("'"+c.Param("id")+"' is not a valid subscription id"))
		return
	}

	var req dto.SubscribeRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	sub, err := h.notifications.UpdateSubscription(c.Request.Context(), middleware.CurrentUser(c).ID, id, req.Endpoint, req.Data)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"subscription": sub})
}

// Stream upgrades the connection and forwards the caller's Redis
// notification channel over the socket until either side goes away.
func (h *NotificationHandler) Stream(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if h.redisClient == nil {
		response.Error(c, apperror.BadRequest("live notifications are not enabled on this server"))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	channel := fmt.Sprintf("user_notifications:%d", user.ID)
	pubsub := h.redisClient.Subscribe(c.Request.Context(), channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(c.Request.Context()); err != nil {
		log.Printf("failed to subscribe to %s: %v", channel, err)
		return
	}

	ch := pubsub.Channel()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg := <-ch:
			// Payload is the notification row already serialized by the
			// publisher; forward it untouched.
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				return
			}
		case <-clientClosed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
