package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"partyline/domain/event"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum inbound frame size. Clients only send small join frames.
	maxMessageSize = 1024
)

// Frame is the wire envelope on the websocket, both directions.
// Inbound: {"event":"join_user","data":"<userId>"} or
// {"event":"join_chat","data":"<chatId>"}. Outbound: server-pushed domain
// events with their payload.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type outFrame struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// JoinChatAuthorizer decides whether the authenticated user may subscribe to
// a chat topic.
type JoinChatAuthorizer func(userID, chatID string) error

// Client pumps one websocket connection: inbound join frames become registry
// subscriptions, events consumed by the sink become outbound frames. The
// connection id is fresh per socket, so two tabs of the same user are two
// independent subscribers.
type Client struct {
	ConnectionID string

	userID   string
	conn     *websocket.Conn
	sink     *Sink
	registry *Registry
	canJoin  JoinChatAuthorizer
	// errs routes protocol errors from the read pump to the single writer.
	errs chan string
	log  *slog.Logger
}

func NewClient(log *slog.Logger, conn *websocket.Conn, registry *Registry, userID string, bufferSize int, canJoin JoinChatAuthorizer) *Client {
	return &Client{
		ConnectionID: uuid.NewString(),
		userID:       userID,
		conn:         conn,
		sink:         NewSink(bufferSize),
		registry:     registry,
		canJoin:      canJoin,
		errs:         make(chan string, 4),
		log:          log,
	}
}

// Run starts both pumps and blocks until the connection dies. All
// subscriptions are torn down before returning; an event published after
// that simply no longer reaches this connection.
func (c *Client) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer c.registry.UnsubscribeAll(c.ConnectionID)
	defer c.conn.Close()

	go c.writePump(ctx, cancel)
	c.readPump(cancel)
}

func (c *Client) readPump(cancel context.CancelFunc) {
	defer cancel()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug("websocket closed unexpectedly", "connection_id", c.ConnectionID, "error", err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.sendError("malformed frame")
			continue
		}
		c.handleFrame(frame)
	}
}

func (c *Client) handleFrame(frame Frame) {
	var id string
	if err := json.Unmarshal(frame.Data, &id); err != nil || id == "" {
		c.sendError("frame data must be a non-empty string id")
		return
	}

	switch frame.Event {
	case "join_user":
		// A connection may only listen on the personal topic of the user it
		// authenticated as.
		if id != c.userID {
			c.sendError("cannot join another user's channel")
			return
		}
		c.registry.Subscribe(c.ConnectionID, event.UserTopic(id), c.sink)
	case "join_chat":
		if err := c.canJoin(c.userID, id); err != nil {
			c.sendError(err.Error())
			return
		}
		c.registry.Subscribe(c.ConnectionID, event.ChatTopic(id), c.sink)
	default:
		c.sendError("unknown event: " + frame.Event)
	}
}

func (c *Client) writePump(ctx context.Context, cancel context.CancelFunc) {
	defer cancel()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case e := <-c.sink.Events:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(outFrame{Event: e.Name(), Data: e.Payload()}); err != nil {
				c.log.Debug("failed to push event", "connection_id", c.ConnectionID, "event", e.Name(), "error", err)
				return
			}
		case msg := <-c.errs:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(outFrame{Event: "error", Data: msg}); err != nil {
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

func (c *Client) sendError(msg string) {
	select {
	case c.errs <- msg:
	default:
	}
}
