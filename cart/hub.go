package cart

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	"brouette/globals"
	"brouette/middleware"
	"brouette/models"
	"brouette/rdx"
)

// cartChannel fans cart mutations out across instances so every open
// tab of the same cart stays in sync.
const cartChannel = "brouette-cart"

type client struct {
	conn *websocket.Conn
	send chan []byte
	key  string
}

// Hub tracks websocket subscribers per cart key.
type Hub struct {
	mu    sync.Mutex
	carts map[string]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{carts: make(map[string]map[*client]bool)}
}

var DefaultHub = NewHub()

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.carts[c.key] == nil {
		h.carts[c.key] = make(map[*client]bool)
	}
	h.carts[c.key][c] = true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns := h.carts[c.key]; conns != nil {
		if conns[c] {
			delete(conns, c)
			close(c.send)
		}
		if len(conns) == 0 {
			delete(h.carts, c.key)
		}
	}
}

func (h *Hub) broadcastLocal(key string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.carts[key] {
		select {
		case c.send <- data:
		default:
			delete(h.carts[key], c)
			close(c.send)
		}
	}
}

type cartEvent struct {
	CartKey string            `json:"cartKey"`
	Action  string            `json:"action"`
	Items   []models.CartItem `json:"items"`
	Totals  models.OrderTotals `json:"totals"`
}

// Notify publishes a cart change to every subscriber, local and on
// other instances via redis.
func (h *Hub) Notify(key, action string, items []models.CartItem) {
	evt := cartEvent{CartKey: key, Action: action, Items: items, Totals: Totals(items)}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.broadcastLocal(key, data)
	if rdx.Conn != nil {
		if err := rdx.Conn.Publish(globals.Ctx, cartChannel, data).Err(); err != nil {
			log.Debug().Err(err).Msg("cart fanout publish failed")
		}
	}
}

// StartFanout relays cart events published by other instances into
// the local hub.
func (h *Hub) StartFanout() {
	if rdx.Conn == nil {
		return
	}
	sub := rdx.Conn.Subscribe(globals.Ctx, cartChannel)
	go func() {
		for msg := range sub.Channel() {
			var evt cartEvent
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				continue
			}
			h.broadcastLocal(evt.CartKey, []byte(msg.Payload))
		}
	}()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Subscribe upgrades the connection and streams cart changes for the
// caller's cart key. Browsers cannot set headers on websockets, so the
// token and guest key ride on query parameters.
func (h *Hub) Subscribe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	key := r.URL.Query().Get("cartKey")
	if token := r.URL.Query().Get("token"); token != "" {
		if claims, err := middleware.ValidateToken(token); err == nil {
			key = claims.UserID
		}
	}
	if key == "" {
		http.Error(w, "missing cart key", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("cart websocket upgrade failed")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 16), key: key}
	h.register(c)

	go func() {
		defer func() {
			h.unregister(c)
			conn.Close()
		}()
		for data := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		}
	}()
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				h.unregister(c)
				return
			}
		}
	}()
}
