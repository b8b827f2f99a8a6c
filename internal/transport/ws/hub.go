package ws

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Time allowed for a load or next command.
	commandTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Options configure the controllers the hub creates.
type Options struct {
	Delays session.Delays
	Store  session.MapStore // nil runs without persistence
	Logger *log.Logger
}

// Client is one WebSocket connection and the session it plays.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	ctrl   *session.Controller
	sub    *session.Subscription
	cancel context.CancelFunc
}

type outbound struct {
	client *Client
	data   []byte
}

// Hub maintains the set of active clients and delivers their messages.
type Hub struct {
	opts    Options
	logger  *log.Logger
	clients map[*Client]bool
	count   atomic.Int64

	// Messages for one client
	outbound chan outbound

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	done chan struct{}
}

// NewHub creates a new WebSocket hub.
func NewHub(opts Options) *Hub {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		opts:       opts,
		logger:     logger,
		clients:    make(map[*Client]bool),
		outbound:   make(chan outbound, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
	}
}

// Run starts the hub's event loop. When ctx is cancelled every client is
// closed and Run returns.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.outbound:
			h.deliver(msg)

		case <-ctx.Done():
			for client := range h.clients {
				h.unregisterClient(client)
			}
			return
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// ServeWS upgrades the request and starts a session for the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ctrl := session.New(session.Options{
		Delays: h.opts.Delays,
		Store:  h.opts.Store,
		Logger: h.logger.With("remote", r.RemoteAddr),
	})
	ctrl.Start(ctx)

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, 256),
		ctrl:   ctrl,
		sub:    ctrl.Subscribe(),
		cancel: cancel,
	}

	select {
	case h.register <- client:
	case <-h.done:
		ctrl.Stop()
		cancel()
		conn.Close()
		return
	}

	// The first update is the restored level
	ctrl.Bootstrap()

	go client.writePump()
	go client.readPump()
	go client.forwardUpdates()
}

func (h *Hub) registerClient(client *Client) {
	h.clients[client] = true
	h.count.Add(1)
	h.logger.Info("client registered", "clients", len(h.clients))
}

func (h *Hub) unregisterClient(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	h.count.Add(-1)
	close(client.send)
	client.ctrl.Stop()
	client.cancel()
	h.logger.Info("client unregistered", "clients", len(h.clients))
}

func (h *Hub) deliver(msg outbound) {
	if !h.clients[msg.client] {
		return
	}
	select {
	case msg.client.send <- msg.data:
	default:
		// Client's send channel is full, drop it
		h.logger.Warn("client too slow, dropping")
		h.unregisterClient(msg.client)
	}
}

// queue hands data to the hub for delivery to c. It gives up once the hub
// or the client's session has stopped.
func (c *Client) queue(data []byte) {
	select {
	case c.hub.outbound <- outbound{client: c, data: data}:
	case <-c.hub.done:
	case <-c.ctrl.Done():
	}
}

// forwardUpdates encodes every controller update for the client.
func (c *Client) forwardUpdates() {
	for {
		select {
		case u := <-c.sub.Updates():
			data, err := encodeUpdate(u)
			if err != nil {
				c.hub.logger.Error("cannot encode update", "kind", u.Kind, "error", err)
				continue
			}
			c.queue(data)
		case <-c.sub.Done():
			return
		}
	}
}

// readPump reads commands from the connection until it fails.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "error", err)
			}
			return
		}

		cmd, err := decodeCommand(data)
		if err != nil {
			c.queue(encodeError(err))
			continue
		}
		if err := c.dispatch(cmd); err != nil {
			c.queue(encodeError(err))
		}
	}
}

func (c *Client) dispatch(cmd Command) error {
	switch cmd.Type {
	case CommandMove:
		dir, _ := core.ParseDirection(cmd.Dir)
		c.ctrl.Move(dir)
	case CommandReset:
		c.ctrl.Reset()
	case CommandLoad:
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return c.ctrl.LoadByName(ctx, cmd.Name)
	case CommandNext:
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		return c.ctrl.NextLevel(ctx)
	}
	return nil
}

// writePump writes queued messages and keepalive pings to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
