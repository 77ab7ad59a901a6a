package ws

import (
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// client is one connected stream consumer. The hub owns its lifecycle;
// send is closed exactly once, always under the hub mutex.
type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) closeOnce() {
	c.once.Do(func() {
		close(c.send)
	})
}

// writePump drains the send queue onto the connection.
func (c *client) writePump() {
	defer c.conn.Close()
	for data := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
	// Queue closed by the hub; say goodbye before dropping the conn
	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

// readPump discards inbound messages and unregisters on disconnect.
func (c *client) readPump(h *Hub) {
	defer h.remove(c)
	c.conn.SetReadLimit(512)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

// enqueue delivers a frame to one client if it is still registered.
func (h *Hub) enqueue(c *client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// HandleConnection upgrades the request and streams span frames until
// the client disconnects.
func (h *Hub) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, send: make(chan []byte, clientQueueSize)}
	if !h.add(cl) {
		conn.Close()
		return
	}
	h.logger.Info("stream client connected", zap.String("remote", conn.RemoteAddr().String()))

	// Welcome frame so clients can confirm the subscription
	if data, err := sonic.Marshal(map[string]interface{}{
		"type":    "system",
		"message": "span stream connected",
	}); err == nil {
		h.enqueue(cl, data)
	}

	go cl.writePump()
	cl.readPump(h)
	h.logger.Info("stream client disconnected")
}
