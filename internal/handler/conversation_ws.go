package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"soko/config"
	"soko/internal/auth"
	"soko/internal/service"
	"soko/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeWS upgrades to WebSocket for live conversation messages and
// notifications; the access token comes in the token query parameter.
// Inbound frames of type "message" post into an accepted conversation; the
// result fans out to both sides' connections.
func UpgradeWS(cfg *config.JWTConfig, hub *ws.Hub, conversations *service.ConversationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &ws.Client{
			UserID: claims.UserID,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		defer client.Close()

		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(wsPongWait))
			return nil
		})
		go func() {
			ticker := time.NewTicker(wsPingPeriod)
			defer ticker.Stop()
			for {
				select {
				case msg, ok := <-client.Send:
					if !ok {
						return
					}
					conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
					if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
						return
					}
				case <-ticker.C:
					conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
					if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
						return
					}
				}
			}
		}()
		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg struct {
				Type           string `json:"type"`
				ConversationID string `json:"conversation_id"`
				Content        string `json:"content"`
			}
			if json.Unmarshal(raw, &msg) != nil || msg.Type != "message" || msg.Content == "" {
				continue
			}
			convID, err := uuid.Parse(msg.ConversationID)
			if err != nil {
				continue
			}
			m, conv, err := conversations.CreateMessage(convID, claims.UserID, msg.Content)
			if err != nil {
				continue
			}
			payload := map[string]interface{}{
				"type":            "conversation_message",
				"conversation_id": conv.ConversationID.String(),
				"message_id":      m.MessageID.String(),
				"sender_id":       m.SenderID,
				"content":         m.Content,
				"created_at":      m.CreatedAt,
			}
			hub.SendToUser(conv.OtherParticipant(claims.UserID), payload)
			hub.SendToUser(claims.UserID, payload)
		}
	}
}
