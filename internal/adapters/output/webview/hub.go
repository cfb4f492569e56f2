package webview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"cad-ui-bridge/internal/logx"
	"cad-ui-bridge/internal/metrics"
	"cad-ui-bridge/internal/ports"
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// ErrBackpressure indicates a page is not reading its frames fast enough.
var ErrBackpressure = errors.New("ui page backpressure")

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
	pingInterval = 30 * time.Second
)

// Hub is a ScriptEngine backed by websocket connections from UI pages. Every frame
// is broadcast to all attached pages. Each page has a single writer goroutine, so
// scripts are evaluated in the order EvaluateScriptAsync was called.
type Hub struct {
	originPatterns []string
	token          string

	mu    sync.RWMutex
	pages map[string]*page
}

type page struct {
	id    string
	conn  *websocket.Conn
	send  chan Frame
	write func(ctx context.Context, data []byte) error
}

var _ ports.ScriptEngine = (*Hub)(nil)

// NewHub returns a hub accepting pages from originPatterns. A non-empty token is
// sent to each page in a hello frame when it attaches.
func NewHub(originPatterns []string, token string) *Hub {
	return &Hub{originPatterns: originPatterns, token: token, pages: map[string]*page{}}
}

// Handler accepts UI page connections.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.originPatterns})
		if err != nil {
			logx.Log.Warn().Err(err).Str("remote_addr", r.RemoteAddr).Msg("ui attach rejected")
			return
		}
		defer c.Close(websocket.StatusInternalError, "server error")

		p := &page{id: uuid.NewString(), conn: c, send: make(chan Frame, sendBuffer)}
		p.write = func(ctx context.Context, data []byte) error {
			return c.Write(ctx, websocket.MessageText, data)
		}
		if h.token != "" {
			p.send <- Frame{Type: TypeHello, Token: h.token}
		}
		h.add(p)
		logx.Log.Info().Str("page_id", p.id).Str("remote_addr", r.RemoteAddr).Msg("ui attached")
		defer func() {
			h.remove(p.id)
			logx.Log.Info().Str("page_id", p.id).Msg("ui detached")
		}()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		go h.writeLoop(ctx, cancel, p)
		go p.pingLoop(ctx)

		p.readLoop(ctx)
		c.Close(websocket.StatusNormalClosure, "")
	}
}

// EvaluateScriptAsync queues script on every attached page.
func (h *Hub) EvaluateScriptAsync(script string) error {
	return h.broadcast(Frame{Type: TypeEval, ID: uuid.NewString(), Script: script})
}

func (h *Hub) ShowDevTools() error {
	return h.broadcast(Frame{Type: TypeDevTools})
}

// Connected reports the number of attached pages.
func (h *Hub) Connected() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.pages)
}

// Close detaches every page.
func (h *Hub) Close() {
	h.mu.Lock()
	pages := h.pages
	h.pages = map[string]*page{}
	h.mu.Unlock()
	metrics.SetUIConnections(0)
	for _, p := range pages {
		_ = p.conn.Close(websocket.StatusGoingAway, "shutdown")
	}
}

func (h *Hub) broadcast(f Frame) error {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.pages) == 0 {
		return ports.ErrTransportNotReady
	}
	var errs []error
	for _, p := range h.pages {
		select {
		case p.send <- f:
		default:
			errs = append(errs, fmt.Errorf("page %s: %w", p.id, ErrBackpressure))
		}
	}
	return errors.Join(errs...)
}

func (h *Hub) add(p *page) {
	h.mu.Lock()
	h.pages[p.id] = p
	n := len(h.pages)
	h.mu.Unlock()
	metrics.SetUIConnections(n)
}

func (h *Hub) remove(id string) {
	h.mu.Lock()
	delete(h.pages, id)
	n := len(h.pages)
	h.mu.Unlock()
	metrics.SetUIConnections(n)
}

func (p *page) readLoop(ctx context.Context) {
	for {
		_, data, err := p.conn.Read(ctx)
		if err != nil {
			return
		}
		var msg inbound
		if json.Unmarshal(data, &msg) != nil {
			continue
		}
		if msg.Type == "log" {
			logx.Log.Debug().Str("page_id", p.id).Str("level", msg.Level).Msg(msg.Message)
		}
	}
}

// writeLoop is the only writer of p. A failed write detaches the page at once so
// later broadcasts do not count it as a receiver.
func (h *Hub) writeLoop(ctx context.Context, cancel context.CancelFunc, p *page) {
	for {
		select {
		case <-ctx.Done():
			return
		case f := <-p.send:
			b, err := json.Marshal(f)
			if err != nil {
				continue
			}
			wctx, wcancel := context.WithTimeout(ctx, writeTimeout)
			err = p.write(wctx, b)
			wcancel()
			if err != nil {
				logx.Log.Warn().Err(err).Str("page_id", p.id).Msg("ui write failed, detaching")
				h.remove(p.id)
				cancel()
				return
			}
		}
	}
}

func (p *page) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = p.conn.Ping(ctx)
		case <-ctx.Done():
			return
		}
	}
}
