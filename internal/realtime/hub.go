package realtime

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

/*
|--------------------------------------------------------------------------
| Hub - registry client websocket display antrian
|--------------------------------------------------------------------------
*/

// Conn - bagian dari *websocket.Conn yang dipakai hub saat menulis
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Sink - tujuan tambahan tiap broadcast, misalnya channel Redis
type Sink interface {
	Publish(ctx context.Context, payload []byte) error
}

// BuildFunc - bikin payload snapshot antrian terbaru
type BuildFunc func() ([]byte, error)

type client struct {
	conn      Conn
	writeMux  sync.Mutex
	closeChan chan struct{}
	closed    bool
	id        string
}

type Hub struct {
	build  BuildFunc
	logger logrus.FieldLogger

	mu       sync.RWMutex
	clients  map[Conn]*client
	sinks    []Sink
	counter  uint64 // atomic
	lastMsg  []byte
	lastMsgM sync.RWMutex

	// Debounce broadcast, burst event tetap 1x build
	timerMu sync.Mutex
	timer   *time.Timer
	delay   time.Duration
}

const maxWorkers = 20

func NewHub(build BuildFunc, delay time.Duration, logger logrus.FieldLogger) *Hub {
	return &Hub{
		build:   build,
		logger:  logger.WithField("component", "hub"),
		clients: make(map[Conn]*client),
		delay:   delay,
	}
}

func (h *Hub) AddSink(s Sink) {
	h.mu.Lock()
	h.sinks = append(h.sinks, s)
	h.mu.Unlock()
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Serve - handler websocket, dipasang lewat websocket.New(hub.Serve)
func (h *Hub) Serve(c *websocket.Conn) {
	cl := h.register(c)
	defer h.Unregister(c)

	// Ping/pong handler, koneksi tanpa pong 60 detik dianggap mati
	c.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Ping ticker setiap 20 detik
	ticker := time.NewTicker(20 * time.Second)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ticker.C:
				cl.writeMux.Lock()
				if cl.closed {
					cl.writeMux.Unlock()
					return
				}
				c.SetWriteDeadline(time.Now().Add(5 * time.Second))
				err := c.WriteMessage(websocket.PingMessage, nil)
				cl.writeMux.Unlock()

				if err != nil {
					h.logger.Debugf("[queue] %s ping error: %v", cl.id, err)
					return
				}
			case <-cl.closeChan:
				return
			}
		}
	}()

	// Read loop
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure,
			) {
				h.logger.Warnf("[queue] %s unexpected close: %v", cl.id, err)
			} else {
				h.logger.Debugf("[queue] %s closed normally", cl.id)
			}
			return
		}
	}
}

// Register - daftarkan koneksi lalu kirim snapshot awal ke client ini saja
func (h *Hub) Register(conn Conn) {
	h.register(conn)
}

func (h *Hub) register(conn Conn) *client {
	id := atomic.AddUint64(&h.counter, 1)
	cl := &client{
		conn:      conn,
		closeChan: make(chan struct{}),
		id:        fmt.Sprintf("client-%d", id),
	}

	h.mu.Lock()
	h.clients[conn] = cl
	total := len(h.clients)
	h.mu.Unlock()

	h.logger.Infof("[queue] %s registered, total: %d", cl.id, total)

	h.lastMsgM.RLock()
	cached := h.lastMsg
	h.lastMsgM.RUnlock()

	if len(cached) == 0 {
		msg, err := h.build()
		if err != nil {
			h.logger.Errorf("[queue] initial snapshot error: %v", err)
			return cl
		}
		cached = msg
	}
	h.write(cl, cached)

	return cl
}

func (h *Hub) Unregister(conn Conn) {
	h.mu.Lock()
	cl, exists := h.clients[conn]
	if exists {
		cl.writeMux.Lock()
		if !cl.closed {
			cl.closed = true
			close(cl.closeChan)
		}
		cl.writeMux.Unlock()
		delete(h.clients, conn)
	}
	total := len(h.clients)
	h.mu.Unlock()

	_ = conn.Close()
	if exists {
		h.logger.Infof("[queue] %s unregistered, total: %d", cl.id, total)
	}
}

// Broadcast - dipanggil setelah tiap perubahan antrian.
// Pakai debounce, burst beberapa event cukup 1x build.
func (h *Hub) Broadcast() {
	h.timerMu.Lock()
	defer h.timerMu.Unlock()

	if h.timer != nil {
		h.timer.Reset(h.delay)
		return
	}

	h.timer = time.AfterFunc(h.delay, func() {
		h.timerMu.Lock()
		h.timer = nil
		h.timerMu.Unlock()

		h.Flush(context.Background())
	})
}

// Flush - build dan kirim sekarang juga tanpa debounce
func (h *Hub) Flush(ctx context.Context) {
	message, err := h.build()
	if err != nil {
		h.logger.Errorf("[queue] broadcast build error: %v", err)
		return
	}

	h.lastMsgM.Lock()
	h.lastMsg = message
	h.lastMsgM.Unlock()

	// Snapshot clients
	h.mu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	sinks := append([]Sink(nil), h.sinks...)
	h.mu.RUnlock()

	for _, s := range sinks {
		if err := s.Publish(ctx, message); err != nil {
			h.logger.Errorf("[queue] publish error: %v", err)
		}
	}

	if len(clients) == 0 {
		return
	}

	sem := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, cl := range clients {
		wg.Add(1)
		sem <- struct{}{}
		go func(c *client) {
			defer wg.Done()
			defer func() { <-sem }()
			h.write(c, message)
		}(cl)
	}

	wg.Wait()
}

// write - kirim message ke satu client, buang client kalau gagal
func (h *Hub) write(c *client, message []byte) {
	c.writeMux.Lock()
	defer c.writeMux.Unlock()

	if c.closed {
		return
	}

	c.conn.SetWriteDeadline(time.Now().Add(3 * time.Second))
	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		h.logger.Warnf("[queue] %s write error: %v", c.id, err)
		c.closed = true
		close(c.closeChan)

		go func(conn Conn, id string) {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			h.logger.Infof("[queue] %s removed after write error", id)
		}(c.conn, c.id)
	}
}
