package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/analytics"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/config"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/domain"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/identity"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/kvstore"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/notify"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/pixel"
	"github.com/Abubakarnofal03/opus-commerce-sub001/internal/port"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	server   *Server
	group    *notify.Group
	events   *fakeEvents
	tracker  *fakeTracker
	sessions *kvstore.Memory
}

func newTestEnv(t *testing.T, carts port.CartRepository, db Pinger) *testEnv {
	t.Helper()

	log, _ := logtest.NewNullLogger()
	cfg := &config.Config{
		Env:         "test",
		CORSOrigins: []string{"http://localhost:3000"},
		// httptest requests come from 192.0.2.1.
		TrustedProxies: []netip.Prefix{netip.MustParsePrefix("192.0.2.0/24")},
		SessionTTL:     time.Hour,
		AnalyticsSink:  config.SinkPostgres,
		SalesEnabled:   true,
		StoreCurrency:  currency.MustParseISO("PKR"),
		SiteName:       "Opus",
		SiteURL:        "https://shop.example",
		SiteLogoURL:    "https://shop.example/logo.png",
	}

	group := notify.NewGroup(log, time.Second)
	events := &fakeEvents{}
	tracker := &fakeTracker{}
	sessions := kvstore.NewMemory()

	server := New(Deps{
		Config:    cfg,
		Log:       log,
		Sessions:  sessions,
		Carts:     carts,
		Analytics: analytics.NewDispatcher(events, identity.Provider{}, group, log),
		Pixels:    pixel.NewDispatcher(group, log, tracker),
		DB:        db,
	})
	t.Cleanup(group.Wait)

	return &testEnv{server: server, group: group, events: events, tracker: tracker, sessions: sessions}
}

// client remembers the session cookie like a browser would.
type client struct {
	t      *testing.T
	h      http.Handler
	cookie *http.Cookie
	userID string
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, h: e.server.Handler()}
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		r = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}
	if c.userID != "" {
		req.Header.Set(userIDHeader, c.userID)
	}

	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.Name == sessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type fakeEvents struct {
	mu     sync.Mutex
	events []domain.AnalyticsEvent
}

func (f *fakeEvents) InsertEvent(_ context.Context, e domain.AnalyticsEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeEvents) all() []domain.AnalyticsEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.AnalyticsEvent(nil), f.events...)
}

type fakeTracker struct {
	mu     sync.Mutex
	events []domain.PixelEvent
}

func (f *fakeTracker) Name() string {
	return "fake"
}

func (f *fakeTracker) Track(_ context.Context, e domain.PixelEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeTracker) all() []domain.PixelEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.PixelEvent(nil), f.events...)
}

// fakeCarts stands in for the server cart. Only the calls the handlers make
// are meaningful.
type fakeCarts struct {
	mu      sync.Mutex
	ownerID string
	lines   []domain.CartLine
	count   int64
	err     error
}

func (f *fakeCarts) GetCart(context.Context, string) (domain.Cart, error) {
	return domain.Cart{}, nil
}

func (f *fakeCarts) AddItem(context.Context, string, domain.CartItem) error {
	return nil
}

func (f *fakeCarts) DeleteItem(context.Context, string, domain.LineKey) (bool, error) {
	return false, nil
}

func (f *fakeCarts) CountItems(context.Context, string) (int64, error) {
	return f.count, f.err
}

func (f *fakeCarts) MergeGuestLines(_ context.Context, ownerID string, lines []domain.CartLine, _ currency.Unit) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.ownerID = ownerID
	f.lines = append(f.lines, lines...)
	return len(lines), nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

func TestHealth(t *testing.T) {
	t.Run("memory", func(t *testing.T) {
		env := newTestEnv(t, nil, nil)
		w := env.client(t).do(http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decode[map[string]any](t, w)
		require.Equal(t, "memory", body["mode"])
		require.Equal(t, []any{"fake"}, body["pixels"])
	})

	t.Run("postgres up", func(t *testing.T) {
		env := newTestEnv(t, nil, fakePinger{})
		w := env.client(t).do(http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "postgres", decode[map[string]any](t, w)["mode"])
	})

	t.Run("postgres down", func(t *testing.T) {
		env := newTestEnv(t, nil, fakePinger{err: errors.New("connection refused")})
		w := env.client(t).do(http.MethodGet, "/healthz", nil)
		require.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestSessionCookie(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	c := env.client(t)

	w := c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, c.cookie)
	first := c.cookie.Value
	_, err := uuid.Parse(first)
	require.NoError(t, err)

	w = c.do(http.MethodGet, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Empty(t, w.Result().Cookies(), "known session must not be reissued")
	require.Equal(t, first, c.cookie.Value)

	c.cookie = &http.Cookie{Name: sessionCookie, Value: "not-a-uuid"}
	c.do(http.MethodGet, "/api/v1/cart", nil)
	require.NotEqual(t, "not-a-uuid", c.cookie.Value)
	require.NotEqual(t, first, c.cookie.Value)
}

func TestUserHeaderFromUntrustedPeerIsIgnored(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	carts := &fakeCarts{count: 9}
	srv := New(Deps{
		Config:    withTrusted(env.server.cfg, "10.0.0.0/8"),
		Log:       env.server.log,
		Sessions:  env.sessions,
		Carts:     carts,
		Analytics: env.server.analytics,
		Pixels:    env.server.pixels,
	})

	c := &client{t: t, h: srv.Handler(), userID: "victim"}

	w := c.do(http.MethodPost, "/api/v1/cart/merge", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = c.do(http.MethodGet, "/api/v1/cart/badge", nil)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["count"])

	w = c.do(http.MethodPost, "/api/v1/events", eventRequest{EventType: domain.EventPageView, PagePath: "/"})
	require.Equal(t, http.StatusAccepted, w.Code)
	env.group.Wait()

	events := env.events.all()
	require.Len(t, events, 1)
	assert.Nil(t, events[0].UserID)
}

func TestPreflightDoesNotAllowUserHeader(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/cart/merge", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "content-type, x-user-id")

	w := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(w, req)

	allowed := strings.ToLower(w.Header().Get("Access-Control-Allow-Headers"))
	assert.Contains(t, allowed, "content-type")
	assert.NotContains(t, allowed, "x-user-id")
}

func withTrusted(cfg *config.Config, prefixes ...string) *config.Config {
	out := *cfg
	out.TrustedProxies = nil
	for _, p := range prefixes {
		out.TrustedProxies = append(out.TrustedProxies, netip.MustParsePrefix(p))
	}
	return &out
}
