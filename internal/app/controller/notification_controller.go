package controller

import (
	"net/http"

	"github.com/NPNKhoa/CT250-backend-sub000/internal/middleware"
	ws "github.com/NPNKhoa/CT250-backend-sub000/internal/websocket"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// NotificationController upgrades authenticated users to a push-only
// websocket that receives payment events.
type NotificationController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

func NewNotificationController(hub *ws.Hub, allowedOrigins []string) *NotificationController {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &NotificationController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				// non-browser clients send no Origin
				return origin == "" || allowed[origin]
			},
		},
	}
}

// Connect handles the websocket handshake
// GET /api/v1/ws/notifications?token=...
func (ctrl *NotificationController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, &ws.Conn{Conn: conn}, userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Info("WebSocket connection established", map[string]interface{}{
		"user_id": userID,
	})
}
