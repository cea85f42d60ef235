package handlers_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"oyadrop/internal/http/handlers"
	"oyadrop/internal/maps"
	"oyadrop/internal/types"
)

type countingGeocoder struct {
	calls atomic.Int32
	last  atomic.Value
}

func (g *countingGeocoder) Autocomplete(_ context.Context, text string) ([]maps.Suggestion, error) {
	g.calls.Add(1)
	g.last.Store(text)
	return []maps.Suggestion{{PlaceID: "p1", DisplayName: text + ", Lagos", Position: types.Point{Lng: 3.35, Lat: 6.6}}}, nil
}

type sessionEvent struct {
	Type        string           `json:"type"`
	Field       string           `json:"field"`
	Available   bool             `json:"available"`
	Estimate    *int64           `json:"estimate"`
	Formatted   string           `json:"formatted"`
	Error       string           `json:"error"`
	Suggestions []map[string]any `json:"suggestions"`
}

func dialSession(t *testing.T, g maps.Geocoder) *websocket.Conn {
	t.Helper()
	return dialSessionQuery(t, g, "")
}

func dialSessionQuery(t *testing.T, g maps.Geocoder, query string) *websocket.Conn {
	t.Helper()
	r := newEngine()
	h := handlers.NewSessionHandler(g, newEngineQuotes(), 20*time.Millisecond, zap.NewNop())
	r.GET("/api/quotes/session", h.Serve)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/quotes/session" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) sessionEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev sessionEvent
	require.NoError(t, conn.ReadJSON(&ev))
	return ev
}

func TestSession_QuoteFollowsRoute(t *testing.T) {
	conn := dialSession(t, &countingGeocoder{})

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select", "field": "pickup", "position": lagosIsland}))
	ev := readEvent(t, conn)
	assert.Equal(t, "quote", ev.Type)
	assert.False(t, ev.Available)
	assert.Equal(t, "N/A", ev.Formatted)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select", "field": "dropoff", "position": ikeja}))
	ev = readEvent(t, conn)
	assert.True(t, ev.Available)
	require.NotNil(t, ev.Estimate)
	assert.Equal(t, int64(2800), *ev.Estimate)
	assert.Equal(t, "₦2,800", ev.Formatted)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "clear", "field": "pickup"}))
	ev = readEvent(t, conn)
	assert.False(t, ev.Available)
	assert.Nil(t, ev.Estimate)
	assert.Equal(t, "N/A", ev.Formatted)
}

func TestSession_InputIsDebounced(t *testing.T) {
	g := &countingGeocoder{}
	conn := dialSession(t, g)

	for _, text := range []string{"All", "Alle", "Allen", "Allen Av"} {
		require.NoError(t, conn.WriteJSON(map[string]any{"type": "input", "field": "dropoff", "text": text}))
	}
	ev := readEvent(t, conn)
	assert.Equal(t, "suggestions", ev.Type)
	assert.Equal(t, "dropoff", ev.Field)
	require.Len(t, ev.Suggestions, 1)
	assert.Equal(t, "Allen Av, Lagos", ev.Suggestions[0]["display_name"])
	assert.Equal(t, int32(1), g.calls.Load())
	assert.Equal(t, "Allen Av", g.last.Load())
}

func TestSession_TypingClearsSelection(t *testing.T) {
	conn := dialSession(t, &countingGeocoder{})

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select", "field": "pickup", "position": lagosIsland}))
	readEvent(t, conn)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select", "field": "dropoff", "position": ikeja}))
	require.True(t, readEvent(t, conn).Available)

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "input", "field": "pickup", "text": "Yaba"}))
	ev := readEvent(t, conn)
	assert.Equal(t, "quote", ev.Type)
	assert.False(t, ev.Available)

	ev = readEvent(t, conn)
	assert.Equal(t, "suggestions", ev.Type)
}

func TestSession_UnknownRateReportsError(t *testing.T) {
	conn := dialSessionQuery(t, &countingGeocoder{}, "?rate=express")

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select", "field": "pickup", "position": lagosIsland}))
	require.Equal(t, "quote", readEvent(t, conn).Type)
	require.NoError(t, conn.WriteJSON(map[string]any{"type": "select", "field": "dropoff", "position": ikeja}))

	ev := readEvent(t, conn)
	assert.Equal(t, "error", ev.Type)
	assert.Equal(t, "unknown rate", ev.Error)

	ev = readEvent(t, conn)
	assert.Equal(t, "quote", ev.Type)
	assert.False(t, ev.Available)
	assert.Equal(t, "N/A", ev.Formatted)
}

func TestSession_RejectsBadEvents(t *testing.T) {
	conn := dialSession(t, &countingGeocoder{})

	cases := []map[string]any{
		{"type": "select", "field": "stopover", "position": ikeja},
		{"type": "select", "field": "pickup"},
		{"type": "select", "field": "pickup", "position": []float64{3.3, 95}},
		{"type": "shout", "field": "pickup"},
	}
	for _, msg := range cases {
		require.NoError(t, conn.WriteJSON(msg))
		ev := readEvent(t, conn)
		assert.Equal(t, "error", ev.Type)
		assert.NotEmpty(t, ev.Error)
	}
}
