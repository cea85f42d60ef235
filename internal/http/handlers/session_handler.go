// README: Websocket quote session; debounced autocomplete plus live repricing.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"oyadrop/internal/maps"
	"oyadrop/internal/modules/pricing"
	"oyadrop/internal/modules/route"
	"oyadrop/internal/types"
)

const (
	fieldPickup  = "pickup"
	fieldDropoff = "dropoff"

	sessionReadLimit    = 4096
	sessionWriteTimeout = 5 * time.Second
)

// SessionHandler serves one websocket per request form. The client streams
// what the user types and picks; the server answers with suggestions and a
// fresh estimate after every change to the route.
type SessionHandler struct {
	geocoder maps.Geocoder
	quotes   QuoteService
	wait     time.Duration
	upgrader websocket.Upgrader
	log      *zap.Logger
}

func NewSessionHandler(g maps.Geocoder, quotes QuoteService, debounce time.Duration, log *zap.Logger) *SessionHandler {
	return &SessionHandler{
		geocoder: g,
		quotes:   quotes,
		wait:     debounce,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log,
	}
}

// sessionMsg is a client event: input (free text), select (a resolved
// position) or clear.
type sessionMsg struct {
	Type     string      `json:"type"`
	Field    string      `json:"field"`
	Text     string      `json:"text,omitempty"`
	Position *[2]float64 `json:"position,omitempty"`
}

type session struct {
	conn *websocket.Conn
	log  *zap.Logger
	mu   sync.Mutex
}

func (s *session) send(v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(sessionWriteTimeout))
	if err := s.conn.WriteJSON(v); err != nil {
		s.log.Debug("session write", zap.Error(err))
	}
}

func (s *session) sendError(msg string) {
	s.send(gin.H{"type": "error", "error": msg})
}

func (s *session) sendQuote(snap route.Snapshot) {
	var estimate *int64
	if snap.Available {
		v := snap.Price
		estimate = &v
	}
	s.send(gin.H{
		"type":      "quote",
		"available": snap.Available,
		"estimate":  estimate,
		"formatted": pricing.FormatPrice(snap.Price, snap.Available),
	})
}

// quoteEstimator prices through the quote service so the figure shown in
// the session is the one later charged.
// Quote failures are reported to the client through fail.
type quoteEstimator struct {
	ctx    context.Context
	quotes QuoteService
	rate   string
	fail   func(string)
	log    *zap.Logger
}

func (e quoteEstimator) Estimate(r pricing.RoutePair) (int64, bool) {
	if !r.Complete() {
		return 0, false
	}
	q, err := e.quotes.Quote(e.ctx, r, e.rate)
	switch {
	case errors.Is(err, pricing.ErrRateNotFound):
		e.fail("unknown rate")
		return 0, false
	case err != nil:
		e.log.Warn("session quote", zap.Error(err))
		e.fail("quote unavailable")
		return 0, false
	}
	return q.Amount, q.Available
}

func (h *SessionHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(sessionReadLimit)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	s := &session{conn: conn, log: h.log}
	tracker := route.NewTracker(quoteEstimator{ctx: ctx, quotes: h.quotes, rate: c.Query("rate"), fail: s.sendError, log: h.log})
	tracker.OnChange(s.sendQuote)

	suggest := func(field string) func(string) {
		return func(text string) {
			list, err := h.geocoder.Autocomplete(ctx, text)
			if err != nil {
				if ctx.Err() == nil {
					h.log.Warn("session autocomplete", zap.Error(err))
					s.sendError("geocoder unavailable")
				}
				return
			}
			s.send(gin.H{"type": "suggestions", "field": field, "suggestions": toSuggestionResp(list)})
		}
	}
	debouncers := map[string]*route.Debouncer[string]{
		fieldPickup:  route.NewDebouncer(h.wait, suggest(fieldPickup)),
		fieldDropoff: route.NewDebouncer(h.wait, suggest(fieldDropoff)),
	}
	defer func() {
		for _, d := range debouncers {
			d.Stop()
		}
	}()

	for {
		var msg sessionMsg
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Field != fieldPickup && msg.Field != fieldDropoff {
			s.sendError("field must be pickup or dropoff")
			continue
		}

		switch msg.Type {
		case "input":
			// Typing invalidates the previous pick until a new one is selected.
			h.clear(tracker, msg.Field)
			debouncers[msg.Field].Trigger(msg.Text)
		case "select":
			if msg.Position == nil {
				s.sendError("position is required")
				continue
			}
			p := types.PointFromLngLat(*msg.Position)
			if !p.Valid() {
				s.sendError("position out of range")
				continue
			}
			if msg.Field == fieldPickup {
				tracker.SetPickup(p)
			} else {
				tracker.SetDropoff(p)
			}
		case "clear":
			h.clear(tracker, msg.Field)
		default:
			s.sendError("unknown event type")
		}
	}
}

func (h *SessionHandler) clear(t *route.Tracker, field string) {
	cur := t.Current().Route
	switch {
	case field == fieldPickup && cur.Pickup != nil:
		t.ClearPickup()
	case field == fieldDropoff && cur.Dropoff != nil:
		t.ClearDropoff()
	}
}
