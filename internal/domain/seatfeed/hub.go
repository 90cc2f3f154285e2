// Package seatfeed pushes "seats changed" events to browsers watching a showtime.
package seatfeed

import (
	"context"
	"encoding/json"
	"expvar"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// EventSeatsChanged tells clients to refetch the seat map.
const EventSeatsChanged = "seats_changed"

const channelPrefix = "seatfeed:showtime:"

var (
	feedConnectionsGauge   = expvar.NewInt("seatfeed_connections")
	feedEventsSentTotal    = expvar.NewInt("seatfeed_events_sent_total")
	feedEventsDroppedTotal = expvar.NewInt("seatfeed_events_dropped_total")
)

// Event is the payload written to watchers.
type Event struct {
	Type       string `json:"type"`
	ShowtimeID int64  `json:"showtime_id"`
}

// Connection is one browser watching one showtime.
type Connection struct {
	ShowtimeID int64
	Conn       *websocket.Conn
	Send       chan []byte
}

// Hub fans seat events out to local watchers. With redis, events published
// on any gateway instance reach the watchers of every instance.
type Hub struct {
	watchers map[int64]map[*Connection]struct{}
	mu       sync.RWMutex

	redis  *redis.Client
	pubsub *redis.PubSub

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub creates a hub. redisClient may be nil.
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Hub{
		watchers:   make(map[int64]map[*Connection]struct{}),
		redis:      redisClient,
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		ctx:        ctx,
		cancel:     cancel,
	}
	if redisClient != nil {
		h.pubsub = redisClient.PSubscribe(ctx, channelPrefix+"*")
	}
	return h
}

// Run processes registrations until Shutdown (call in goroutine).
func (h *Hub) Run() {
	if h.pubsub != nil {
		go h.runRedisSubscriber()
	}

	for {
		select {
		case <-h.ctx.Done():
			return

		case conn := <-h.register:
			h.mu.Lock()
			if h.watchers[conn.ShowtimeID] == nil {
				h.watchers[conn.ShowtimeID] = make(map[*Connection]struct{})
			}
			h.watchers[conn.ShowtimeID][conn] = struct{}{}
			h.mu.Unlock()
			feedConnectionsGauge.Add(1)

		case conn := <-h.unregister:
			h.mu.Lock()
			if conns, ok := h.watchers[conn.ShowtimeID]; ok {
				if _, exists := conns[conn]; exists {
					delete(conns, conn)
					close(conn.Send)
					feedConnectionsGauge.Add(-1)
				}
				if len(conns) == 0 {
					delete(h.watchers, conn.ShowtimeID)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) runRedisSubscriber() {
	ch := h.pubsub.Channel()
	for {
		select {
		case <-h.ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			id, err := strconv.ParseInt(strings.TrimPrefix(msg.Channel, channelPrefix), 10, 64)
			if err != nil {
				continue
			}
			h.broadcastLocal(id, []byte(msg.Payload))
		}
	}
}

func (h *Hub) broadcastLocal(showtimeID int64, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for conn := range h.watchers[showtimeID] {
		select {
		case conn.Send <- data:
			feedEventsSentTotal.Add(1)
		default:
			// slow reader; it will refetch on the next event
			feedEventsDroppedTotal.Add(1)
		}
	}
}

// Register starts delivering events for conn.ShowtimeID to conn.
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.ctx.Done():
	}
}

// Unregister stops delivery and closes conn.Send.
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

// SeatsChanged announces that the seats of showtimeID changed.
func (h *Hub) SeatsChanged(ctx context.Context, showtimeID int64) {
	data, err := json.Marshal(Event{Type: EventSeatsChanged, ShowtimeID: showtimeID})
	if err != nil {
		return
	}

	if h.redis != nil {
		channel := channelPrefix + strconv.FormatInt(showtimeID, 10)
		err := h.redis.Publish(ctx, channel, data).Err()
		if err == nil {
			return
		}
		log.Error().Err(err).Str("channel", channel).Msg("Redis publish failed")
	}
	h.broadcastLocal(showtimeID, data)
}

// WatcherCount returns the local watchers of showtimeID.
func (h *Hub) WatcherCount(showtimeID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.watchers[showtimeID])
}

// Shutdown stops the hub.
func (h *Hub) Shutdown() {
	h.cancel()
	if h.pubsub != nil {
		h.pubsub.Close()
	}
}
