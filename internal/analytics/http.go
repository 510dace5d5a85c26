package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HTTPTracker posts events to an umami-compatible collection endpoint.
type HTTPTracker struct {
	endpoint  string
	websiteID string
	client    *http.Client
	log       *zap.Logger
}

func NewHTTPTracker(endpoint, websiteID string, log *zap.Logger) *HTTPTracker {
	return &HTTPTracker{
		endpoint:  endpoint,
		websiteID: websiteID,
		client:    &http.Client{Timeout: 5 * time.Second},
		log:       log.Named("analytics"),
	}
}

// Track hands the event off to a goroutine so a slow or unreachable sink
// never stalls the caller. The detached context survives the request ending;
// the client timeout bounds the send.
func (t *HTTPTracker) Track(ctx context.Context, event string, props map[string]interface{}) {
	go t.send(context.WithoutCancel(ctx), event, props)
}

func (t *HTTPTracker) send(ctx context.Context, event string, props map[string]interface{}) {
	payload := map[string]interface{}{
		"type": "event",
		"payload": map[string]interface{}{
			"website": t.websiteID,
			"name":    event,
			"data":    props,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		t.log.Debug("analytics payload marshal failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		t.log.Debug("analytics request build failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.log.Debug("analytics event dropped", zap.String("event", event), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		t.log.Debug("analytics event rejected",
			zap.String("event", event),
			zap.Int("status", resp.StatusCode),
		)
	}
}
