package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htmf/hackathon-api/internal/domain"
)

func TestNotificationHub_HandleStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewNotificationHub(nil)
	go hub.Run(ctx)

	r := gin.New()
	r.GET("/stream", withSession(&domain.Session{UserID: "bob"}), hub.HandleStream)
	srv := httptest.NewServer(r)
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/stream", nil)
	require.NoError(t, err)
	defer conn.Close()

	// Registration completes after the upgrade, so keep publishing until
	// the first message lands.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				hub.Publish(domain.Notification{ID: "other", RecipientID: "alice"})
				hub.Publish(domain.Notification{ID: "n-1", RecipientID: "bob", Type: domain.NotificationTeamDeleted})
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var n domain.Notification
	require.NoError(t, json.Unmarshal(message, &n))
	assert.Equal(t, "n-1", n.ID)
	assert.Equal(t, domain.NotificationTeamDeleted, n.Type)
}

func TestNotificationHub_HandleStream_NoSession(t *testing.T) {
	hub := NewNotificationHub(nil)

	r := gin.New()
	r.GET("/stream", hub.HandleStream)

	w := doJSON(t, r, http.MethodGet, "/stream", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestNotificationHub_PublishNeverBlocks(t *testing.T) {
	hub := NewNotificationHub(nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(domain.Notification{ID: "n", RecipientID: "bob"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked without a running hub")
	}
}
