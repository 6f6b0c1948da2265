package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/htmf/hackathon-api/internal/api/handler/v1/response"
	"github.com/htmf/hackathon-api/internal/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

type streamClient struct {
	conn   *websocket.Conn
	send   chan []byte
	userID string
}

// NotificationHub pushes notifications to the websocket connections of
// their recipients. A user may hold several connections.
type NotificationHub struct {
	upgrader   websocket.Upgrader
	clients    map[string]map[*streamClient]struct{}
	broadcast  chan domain.Notification
	register   chan *streamClient
	unregister chan *streamClient
	done       chan struct{}
}

func NewNotificationHub(allowedOrigins []string) *NotificationHub {
	return &NotificationHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowedOrigins) == 0 || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		clients:    make(map[string]map[*streamClient]struct{}),
		broadcast:  make(chan domain.Notification, 256),
		register:   make(chan *streamClient),
		unregister: make(chan *streamClient),
		done:       make(chan struct{}),
	}
}

// Run owns the client registry until ctx is cancelled.
func (h *NotificationHub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for _, conns := range h.clients {
				for c := range conns {
					close(c.send)
				}
			}
			h.clients = map[string]map[*streamClient]struct{}{}
			return
		case c := <-h.register:
			if h.clients[c.userID] == nil {
				h.clients[c.userID] = make(map[*streamClient]struct{})
			}
			h.clients[c.userID][c] = struct{}{}
		case c := <-h.unregister:
			h.remove(c)
		case n := <-h.broadcast:
			conns := h.clients[n.RecipientID]
			if len(conns) == 0 {
				continue
			}
			message, err := json.Marshal(n)
			if err != nil {
				zap.L().Error("encoding notification for stream failed", zap.String("notification_id", n.ID), zap.Error(err))
				continue
			}
			for c := range conns {
				select {
				case c.send <- message:
				default:
					h.remove(c)
				}
			}
		}
	}
}

func (h *NotificationHub) remove(c *streamClient) {
	conns, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok = conns[c]; !ok {
		return
	}
	delete(conns, c)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.userID)
	}
}

// Publish never blocks the caller. When the hub is backed up the
// notification is only available through the inbox listing.
func (h *NotificationHub) Publish(n domain.Notification) {
	select {
	case h.broadcast <- n:
	default:
		zap.L().Warn("notification stream is full, dropping live update", zap.String("notification_id", n.ID))
	}
}

// HandleStream godoc
// @Summary      Live inbox
// @Description  Upgrades to a websocket that receives every notification written for the caller. The token may be passed as the token query parameter.
// @Tags         notifications
// @Param        token  query  string  false  "JWT when the Authorization header cannot be set"
// @Success      101  {string}  string  "Switching Protocols"
// @Failure      401  {object}  response.Err
// @Router       /notifications/stream [get]
// @Security BearerAuth
func (h *NotificationHub) HandleStream(ctx *gin.Context) {
	session, respErr := getSessionFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.String("user_id", session.UserID), zap.Error(err))
		return
	}

	client := &streamClient{
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		userID: session.UserID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *streamClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the client going away. The stream is one way.
func (c *streamClient) readPump(h *NotificationHub) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Debug("notification stream closed", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
	}
}
