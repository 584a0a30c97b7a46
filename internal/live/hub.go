package live

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"MetalCal/internal/catalog"
)

const (
	writeWait      = 10 * time.Second
	maxMessageSize = 4096
	queueLength    = 10
)

// hub serves one connection: the read loop feeds requests, handleRequest
// evaluates them and handleResponse is the only writer.
type hub struct {
	conn    *websocket.Conn
	catalog *catalog.Catalog
	log     logrus.FieldLogger

	requests chan Msg
	replies  chan Msg
}

func newHub(conn *websocket.Conn, c *catalog.Catalog, log logrus.FieldLogger) *hub {
	return &hub{
		conn:     conn,
		catalog:  c,
		log:      log,
		requests: make(chan Msg, queueLength),
		replies:  make(chan Msg, queueLength),
	}
}

func (h *hub) readLoop(ctx context.Context) {
	h.conn.SetReadLimit(maxMessageSize)
	for {
		_, data, err := h.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.WithError(err).Warn("websocket read")
			}
			return
		}
		var msg Msg
		if err := json.Unmarshal(data, &msg); err != nil {
			msg = errorMsg(fmt.Errorf("invalid message: %w", err))
			select {
			case h.replies <- msg:
			case <-ctx.Done():
				return
			}
			continue
		}
		select {
		case h.requests <- msg:
		case <-ctx.Done():
			return
		}
	}
}

func (h *hub) handleRequest(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.requests:
			reply := h.handle(msg)
			select {
			case h.replies <- reply:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (h *hub) handle(msg Msg) Msg {
	switch msg.Type {
	case TypePing:
		return Msg{Type: TypePong}
	case TypeCalc:
		f, err := h.catalog.Lookup(msg.Formula)
		if err != nil {
			return errorMsg(err)
		}
		// Live forms keep the previous value of a cleared field.
		v, err := f.Resolve(msg.Inputs, true)
		if err != nil {
			return errorMsg(err)
		}
		res := f.Evaluate(v)
		return Msg{Type: TypeResult, Formula: f.ID, Result: &res}
	default:
		return errorMsg(fmt.Errorf("unknown message type %q", msg.Type))
	}
}

// handleResponse owns the connection: it closes it once ctx is done.
func (h *hub) handleResponse(ctx context.Context) {
	defer h.conn.Close()
	for {
		select {
		case <-ctx.Done():
			h.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		case reply := <-h.replies:
			h.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := h.conn.WriteJSON(&reply); err != nil {
				h.log.WithError(err).Warn("websocket write")
				return
			}
		}
	}
}
