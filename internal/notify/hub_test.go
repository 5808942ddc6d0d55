package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Xunop/e-library/internal/model"
)

func TestHubDeliversToRecipientOnly(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := int32(1)
		if r.URL.Query().Get("user") == "2" {
			userID = 2
		}
		hub.ServeWS(w, r, userID)
	}))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	alice, _, err := websocket.DefaultDialer.Dial(url+"?user=1", nil)
	require.NoError(t, err)
	defer alice.Close()
	bob, _, err := websocket.DefaultDialer.Dial(url+"?user=2", nil)
	require.NoError(t, err)
	defer bob.Close()

	require.Eventually(t, func() bool {
		return hub.Connected(1) == 1 && hub.Connected(2) == 1
	}, time.Second, 10*time.Millisecond)

	hub.Notify(&model.Notification{ID: 5, UserID: 1, CopyID: "c1", Message: "Dune is due"})

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := alice.ReadMessage()
	require.NoError(t, err)
	var got model.Notification
	require.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, "Dune is due", got.Message)
	assert.Equal(t, 5, got.ID)

	bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = bob.ReadMessage()
	assert.Error(t, err)
}

func TestHubForgetsClosedConnections(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, 1)
	}))
	defer server.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connected(1) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Connected(1) == 0 }, time.Second, 10*time.Millisecond)
}
