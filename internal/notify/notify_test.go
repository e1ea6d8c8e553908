package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"testing"
	"time"

	"arena-league/internal/config"
	"arena-league/internal/domain"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) MatchCompleted(ctx context.Context, res domain.MatchResult) error {
	return m.Called(ctx, res).Error(0)
}

func sampleResult() domain.MatchResult {
	return domain.MatchResult{
		MatchID:        "m1",
		WinnerRosterID: "home",
		HomeTotal:      decimal.RequireFromString("17.33"),
		AwayTotal:      decimal.RequireFromString("5"),
		Players: map[string]domain.PlayerStat{
			"p1": {Performance: decimal.RequireFromString("1.08"), HeroID: "h1", Role: domain.RoleMid},
		},
		CreatedAt: time.Date(2026, 6, 1, 20, 0, 0, 0, time.UTC),
	}
}

func TestMultiCallsEverySink(t *testing.T) {
	ctx := context.Background()
	res := sampleResult()

	a, b := new(mockNotifier), new(mockNotifier)
	a.On("MatchCompleted", ctx, res).Return(nil).Once()
	b.On("MatchCompleted", ctx, res).Return(errors.New("down")).Once()

	err := Multi{a, b}.MatchCompleted(ctx, res)
	assert.EqualError(t, err, "down")
	a.AssertExpectations(t)
	b.AssertExpectations(t)
}

func TestNewWithoutSinksIsNop(t *testing.T) {
	n, err := New(&config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, Nop{}, n)
	assert.NoError(t, n.MatchCompleted(context.Background(), sampleResult()))
}

func TestNewRejectsBadRedisURL(t *testing.T) {
	_, err := New(&config.Config{RedisURL: "not-a-url"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestStreamValues(t *testing.T) {
	values, err := streamValues(sampleResult())
	require.NoError(t, err)
	assert.Equal(t, "m1", values["match_id"])
	assert.Equal(t, "home", values["winner_id"])

	var decoded domain.MatchResult
	require.NoError(t, json.Unmarshal([]byte(values["data"].(string)), &decoded))
	assert.Equal(t, "h1", decoded.Players["p1"].HeroID)
	assert.True(t, decoded.HomeTotal.Equal(decimal.RequireFromString("17.33")))
}

func serveWebhook(t *testing.T, status int, got chan<- []byte) *Webhook {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: func(ctx *fasthttp.RequestCtx) {
		if string(ctx.Method()) == fasthttp.MethodPost && string(ctx.Request.Header.ContentType()) == "application/json" {
			got <- append([]byte(nil), ctx.PostBody()...)
		}
		ctx.SetStatusCode(status)
	}}
	go srv.Serve(ln)
	t.Cleanup(func() { ln.Close() })

	return newWebhook("http://hooks.test/matches", &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	})
}

func TestWebhookDelivers(t *testing.T) {
	got := make(chan []byte, 1)
	w := serveWebhook(t, fasthttp.StatusNoContent, got)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, w.MatchCompleted(ctx, sampleResult()))

	var decoded domain.MatchResult
	require.NoError(t, json.Unmarshal(<-got, &decoded))
	assert.Equal(t, "m1", decoded.MatchID)
	assert.Equal(t, "home", decoded.WinnerRosterID)
}

func TestWebhookRejectsErrorStatus(t *testing.T) {
	w := serveWebhook(t, fasthttp.StatusBadGateway, make(chan []byte, 1))
	err := w.MatchCompleted(context.Background(), sampleResult())
	assert.EqualError(t, err, "webhook error: 502")
}
