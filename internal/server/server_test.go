package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"auction-bff/internal/countdown"
	"auction-bff/internal/deadline"
	handler "auction-bff/services/bidding/handler"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	*handler.MockBiddingServiceInterface
	ticker *countdown.Ticker
}

func (f fakeService) SubscribeCountdown(ids ...string) *countdown.Subscription {
	return f.ticker.Subscribe(ids...)
}

type streamFixture struct {
	clock  *clockwork.FakeClock
	ticker *countdown.Ticker
	mock   *handler.MockBiddingServiceInterface
	stream *CountdownStream
	srv    *httptest.Server
}

func newStreamFixture(t *testing.T, cfg StreamConfig) *streamFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	clock := clockwork.NewFakeClockAt(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	ticker := countdown.NewTicker(clock)
	svc := fakeService{MockBiddingServiceInterface: handler.NewMockBiddingServiceInterface(ctrl), ticker: ticker}

	stream := NewCountdownStream(svc, cfg)
	srv := httptest.NewServer(SetupRouter(svc, stream))
	t.Cleanup(func() {
		stream.Close()
		srv.Close()
		ticker.Close()
	})

	return &streamFixture{clock: clock, ticker: ticker, mock: svc.MockBiddingServiceInterface, stream: stream, srv: srv}
}

func (f *streamFixture) wsURL(query string) string {
	return "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/countdown/ws" + query
}

func readCountdown(t *testing.T, conn *websocket.Conn) countdownMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg countdownMessage
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "countdown", msg.Type)
	return msg
}

func TestSetupRouter_Routes(t *testing.T) {
	f := newStreamFixture(t, DefaultStreamConfig())

	f.mock.EXPECT().CountdownSnapshot().Return(countdown.Snapshot{})

	resp, err := http.Get(f.srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(f.srv.URL + "/no-such-route")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCountdownStream_PushesTicks(t *testing.T) {
	f := newStreamFixture(t, DefaultStreamConfig())
	now := f.clock.Now()
	f.ticker.Track("product:p1", deadline.At(now.Add(10*time.Second)))
	f.ticker.Track("product:p2", deadline.At(now.Add(time.Hour)))

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL("?ids=product:p1"), nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readCountdown(t, conn)
	require.Len(t, first.States, 1, "only the requested ids are streamed")
	require.Equal(t, int64(10), first.States["product:p1"].RemainingSeconds)
	require.Eventually(t, func() bool { return f.stream.Connections() == 1 }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.clock.BlockUntilContext(ctx, 1))
	f.clock.Advance(time.Second)

	next := readCountdown(t, conn)
	require.Equal(t, int64(9), next.States["product:p1"].RemainingSeconds)
	require.False(t, next.States["product:p1"].Expired)
}

func TestCountdownStream_DisconnectReleasesSubscription(t *testing.T) {
	f := newStreamFixture(t, DefaultStreamConfig())
	f.ticker.Track("auction:a1", deadline.At(f.clock.Now().Add(time.Minute)))

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(""), nil)
	require.NoError(t, err)
	readCountdown(t, conn)
	require.Eventually(t, func() bool { return f.stream.Connections() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	conn.Close()

	require.Eventually(t, func() bool { return f.stream.Connections() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestCountdownStream_TickerShutdownClosesClients(t *testing.T) {
	f := newStreamFixture(t, DefaultStreamConfig())

	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(""), nil)
	require.NoError(t, err)
	defer conn.Close()
	readCountdown(t, conn)

	f.ticker.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestCountdownStream_RejectsForeignOrigin(t *testing.T) {
	cfg := DefaultStreamConfig()
	cfg.CheckOrigin = OriginChecker([]string{"https://shop.example.com"})
	f := newStreamFixture(t, cfg)

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(f.wsURL(""), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Zero(t, f.stream.Connections())

	header = http.Header{"Origin": []string{"https://shop.example.com"}}
	conn, _, err := websocket.DefaultDialer.Dial(f.wsURL(""), header)
	require.NoError(t, err)
	conn.Close()
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{name: "wildcard", allowed: []string{"*"}, origin: "https://any.example.com", want: true},
		{name: "listed", allowed: []string{"https://a.example.com", "https://b.example.com"}, origin: "https://b.example.com", want: true},
		{name: "unlisted", allowed: []string{"https://a.example.com"}, origin: "https://c.example.com", want: false},
		{name: "no_origin_header", allowed: []string{"https://a.example.com"}, origin: "", want: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/countdown/ws", nil)
			if tc.origin != "" {
				req.Header.Set("Origin", tc.origin)
			}
			require.Equal(t, tc.want, OriginChecker(tc.allowed)(req))
		})
	}
}

func TestNewHTTPServer_CORS(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	srv := NewHTTPServer(":0", router, []string{"https://shop.example.com"})
	require.Equal(t, ":0", srv.Addr)

	tests := []struct {
		name       string
		origin     string
		wantHeader string
	}{
		{name: "allowed_origin", origin: "https://shop.example.com", wantHeader: "https://shop.example.com"},
		{name: "foreign_origin", origin: "https://evil.example.com", wantHeader: ""},
	}

	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.Header.Set("Origin", tc.origin)
		w := httptest.NewRecorder()
		srv.Handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, tc.name)
		require.Equal(t, tc.wantHeader, w.Header().Get("Access-Control-Allow-Origin"), tc.name)
	}
}
