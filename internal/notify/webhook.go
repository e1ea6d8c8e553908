package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arena-league/internal/domain"

	"github.com/valyala/fasthttp"
)

// Webhook POSTs the result as JSON. Any 2xx status counts as delivered.
type Webhook struct {
	url    string
	client *fasthttp.Client
}

func NewWebhook(url string) *Webhook {
	return newWebhook(url, &fasthttp.Client{
		MaxConnsPerHost:     16,
		ReadTimeout:         10 * time.Second,
		WriteTimeout:        10 * time.Second,
		MaxIdleConnDuration: 1 * time.Minute,
	})
}

func newWebhook(url string, client *fasthttp.Client) *Webhook {
	return &Webhook{url: url, client: client}
}

func (w *Webhook) MatchCompleted(ctx context.Context, res domain.MatchResult) error {
	body, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("failed to encode match %s: %w", res.MatchID, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(w.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("X-Event", "match.completed")
	req.SetBody(body)

	if deadline, ok := ctx.Deadline(); ok {
		err = w.client.DoDeadline(req, resp, deadline)
	} else {
		err = w.client.Do(req, resp)
	}
	if err != nil {
		return fmt.Errorf("failed to deliver match %s: %w", res.MatchID, err)
	}

	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("webhook error: %d", code)
	}
	return nil
}
