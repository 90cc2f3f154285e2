package seatfeed

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBroadcastReachesOnlyWatchersOfShowtime(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	seven := &Connection{ShowtimeID: 7, Send: make(chan []byte, 1)}
	eight := &Connection{ShowtimeID: 8, Send: make(chan []byte, 1)}
	hub.Register(seven)
	hub.Register(eight)
	require.Eventually(t, func() bool { return hub.WatcherCount(7) == 1 && hub.WatcherCount(8) == 1 }, time.Second, 10*time.Millisecond)

	hub.SeatsChanged(context.Background(), 7)

	select {
	case data := <-seven.Send:
		var ev Event
		require.NoError(t, json.Unmarshal(data, &ev))
		assert.Equal(t, EventSeatsChanged, ev.Type)
		assert.Equal(t, int64(7), ev.ShowtimeID)
	case <-time.After(time.Second):
		t.Fatal("watcher of showtime 7 got nothing")
	}
	assert.Empty(t, eight.Send)

	hub.Unregister(seven)
	require.Eventually(t, func() bool { return hub.WatcherCount(7) == 0 }, time.Second, 10*time.Millisecond)
	_, open := <-seven.Send
	assert.False(t, open)
}

func TestFullBufferDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	slow := &Connection{ShowtimeID: 1, Send: make(chan []byte, 1)}
	hub.Register(slow)
	require.Eventually(t, func() bool { return hub.WatcherCount(1) == 1 }, time.Second, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		hub.SeatsChanged(context.Background(), 1)
		hub.SeatsChanged(context.Background(), 1)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("SeatsChanged blocked on a full buffer")
	}
	assert.Len(t, slow.Send, 1)
}

func TestWebSocketReceivesEvent(t *testing.T) {
	hub := NewHub(nil)
	go hub.Run()
	defer hub.Shutdown()

	r := chi.NewRouter()
	r.Mount("/ws", NewHandler(hub, nil).Routes())
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/showtimes/5"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.WatcherCount(5) == 1 }, time.Second, 10*time.Millisecond)
	hub.SeatsChanged(context.Background(), 5)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	assert.Equal(t, int64(5), ev.ShowtimeID)
}
