package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/tuizen/internal/model"
)

type fakeAPI struct {
	mu       sync.Mutex
	calls    map[string]int
	bodies   map[string][]map[string]any
	failures map[string]int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:    map[string]int{},
		bodies:   map[string][]map[string]any{},
		failures: map[string]int{},
	}
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeAPI) lastBody(path string) map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	bodies := f.bodies[path]
	if len(bodies) == 0 {
		return nil
	}
	return bodies[len(bodies)-1]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls[r.URL.Path]++
	if r.Method == http.MethodPost {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies[r.URL.Path] = append(f.bodies[r.URL.Path], body)
	}
	status := f.failures[r.URL.Path]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"status":"error","error":"boom"}`))
		return
	}
	var data any
	switch r.URL.Path {
	case "/api/games/session/start":
		data = map[string]any{"sessionId": "sess-1", "userId": "u1"}
	case "/api/games/session/stop":
		data = map[string]any{"duration": 42}
	case "/api/games/state":
		data = map[string]any{
			"userId":    r.URL.Query().Get("userId"),
			"game":      r.URL.Query().Get("game"),
			"highScore": 17,
			"sessions":  map[string]any{"count": 3, "seconds": 90},
		}
	case "/api/games/bubble/score":
		data = map[string]any{"isHighScore": true, "highScore": 21}
	case "/api/games/zen/save":
		data = map[string]any{"id": "zen-9"}
	case "/api/games/zen/list":
		data = []map[string]any{{"id": "zen-9", "theme": "sand", "rake_width": 8, "created_at": "2026-01-02T03:04:05.123456"}}
	}
	out := map[string]any{"status": "success"}
	if data != nil {
		out["data"] = data
	}
	_ = json.NewEncoder(w).Encode(out)
}

func newTestClient(t *testing.T, api http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(api)
	c := New(Options{
		Endpoint:   srv.URL + "/api/",
		Timeout:    time.Second,
		Debounce:   20 * time.Millisecond,
		HTTPClient: &http.Client{Transport: &http.Transport{}},
	})
	t.Cleanup(func() {
		c.Close()
		srv.Close()
	})
	return c, srv
}

func TestSessionLifecycle(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	id, ok := c.StartSession(ctx, "u1", model.GameBubble)
	require.True(t, ok)
	assert.Equal(t, "sess-1", id)
	assert.Equal(t, "bubble", api.lastBody("/api/games/session/start")["game"])

	assert.True(t, c.LogEvent(ctx, Event{SessionID: id, Game: model.GameBubble, Type: "pop", Payload: map[string]any{"score": 1}}))
	ev := api.lastBody("/api/games/event")
	assert.Equal(t, "pop", ev["type"])
	assert.Equal(t, "sess-1", ev["sessionId"])

	final, ok := c.StopSession(ctx, id)
	require.True(t, ok)
	assert.Equal(t, 42, final.Duration)
}

func TestStateScoreAndZen(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	st, ok := c.GetState(ctx, "u1", model.GameBubble)
	require.True(t, ok)
	require.NotNil(t, st.HighScore)
	assert.Equal(t, 17, *st.HighScore)
	assert.Equal(t, 3, st.Sessions.Count)

	res, ok := c.SubmitBubbleScore(ctx, "u1", 21)
	require.True(t, ok)
	assert.True(t, res.IsHighScore)

	id, ok := c.SaveZen(ctx, ZenSave{UserID: "u1", ImageData: "data:image/png;base64,AAAA", Theme: "sand", RakeWidth: 8})
	require.True(t, ok)
	assert.Equal(t, "zen-9", id)

	items, ok := c.ListZen(ctx, "u1")
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, 8, items[0].RakeWidth)
	assert.Equal(t, 2026, items[0].Created().Year())
}

func TestFailuresAreSwallowed(t *testing.T) {
	api := newFakeAPI()
	api.failures["/api/games/session/start"] = http.StatusInternalServerError
	api.failures["/api/games/event"] = http.StatusBadRequest
	c, _ := newTestClient(t, api)
	ctx := context.Background()

	id, ok := c.StartSession(ctx, "u1", model.GameZen)
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.False(t, c.LogEvent(ctx, Event{SessionID: "s", Game: model.GameZen, Type: "stroke"}))
}

func TestUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL
	srv.Close()

	c := New(Options{Endpoint: endpoint, Timeout: 200 * time.Millisecond})
	defer c.Close()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		_, ok := c.StartSession(ctx, "u1", model.GameLeaves)
		assert.False(t, ok)
		_, ok = c.StopSession(ctx, "s1")
		assert.False(t, ok)
		_, ok = c.GetState(ctx, "u1", model.GameLeaves)
		assert.False(t, ok)
	})
}

func TestDisabledClientIsNoop(t *testing.T) {
	c := New(Options{})
	defer c.Close()
	assert.False(t, c.Enabled())
	_, ok := c.StartSession(context.Background(), "u1", model.GameShapes)
	assert.False(t, ok)
	c.SetPreferences("u1", model.GameShapes, model.DefaultPreferences())
}

func TestEventsWithoutSessionAreDropped(t *testing.T) {
	api := newFakeAPI()
	c, _ := newTestClient(t, api)
	assert.False(t, c.LogEvent(context.Background(), Event{Game: model.GameLeaves, Type: "leaf_drag"}))
	assert.Equal(t, 0, api.count("/api/games/event"))
}

func TestPreferencesAreDebounced(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := newFakeAPI()
	srv := httptest.NewServer(api)
	c := New(Options{
		Endpoint:   srv.URL + "/api",
		Debounce:   50 * time.Millisecond,
		HTTPClient: &http.Client{Transport: &http.Transport{}},
	})

	prefs := model.DefaultPreferences()
	for _, d := range []model.Difficulty{model.Easy, model.Hard, model.Normal, model.Hard} {
		prefs.Difficulty = d
		c.SetPreferences("u1", model.GameBubble, prefs)
	}
	c.SetPreferences("u1", model.GameZen, prefs)

	require.Eventually(t, func() bool {
		return api.count("/api/games/preferences") == 2
	}, 2*time.Second, 10*time.Millisecond)

	body := api.lastBody("/api/games/preferences")
	require.NotNil(t, body)

	c.Close()
	srv.Close()
	assert.Equal(t, 2, api.count("/api/games/preferences"))
}

func TestCloseFlushesPendingPreferences(t *testing.T) {
	defer goleak.VerifyNone(t)

	api := newFakeAPI()
	srv := httptest.NewServer(api)
	c := New(Options{
		Endpoint:   srv.URL + "/api",
		Debounce:   time.Hour,
		HTTPClient: &http.Client{Transport: &http.Transport{}},
	})

	prefs := model.DefaultPreferences()
	prefs.SoundEnabled = false
	c.SetPreferences("u1", model.GameLeaves, prefs)
	c.Close()
	srv.Close()

	require.Equal(t, 1, api.count("/api/games/preferences"))
	sent := api.lastBody("/api/games/preferences")
	inner, ok := sent["preferences"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, inner["soundEnabled"])
}
