// Package notify delivers stage-change events to an operator-configured
// webhook. Delivery is strictly best-effort: the workflow transition has
// already committed and is never unwound for a notification failure.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/internal/dto"
	"github.com/qistas/opsflow_backend/internal/utils/retry"
)

// WebhookNotifier posts each event asynchronously with a small retry budget
// and swallows whatever is left after it.
type WebhookNotifier struct {
	url        string
	httpClient *http.Client
	policy     retry.Policy
	logger     *slog.Logger
}

var _ portssvc.Notifier = (*WebhookNotifier)(nil)

func NewWebhookNotifier(url string, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		httpClient: &http.Client{Timeout: 5 * time.Second},
		policy:     retry.Policy{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, Timeout: 5 * time.Second},
		logger:     logger,
	}
}

// StageChanged dispatches the event in the background and returns immediately.
func (n *WebhookNotifier) StageChanged(evt dto.StageChangeEvent) {
	if n.url == "" {
		return
	}
	if evt.EventID == "" {
		evt.EventID = uuid.NewString()
	}
	go n.deliver(evt)
}

func (n *WebhookNotifier) deliver(evt dto.StageChangeEvent) {
	body, err := json.Marshal(evt)
	if err != nil {
		n.logger.Error("failed to marshal stage change event", "eventID", evt.EventID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	err = retry.Do(ctx, n.policy, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			return retry.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			return fmt.Errorf("webhook returned status %d", resp.StatusCode)
		}
		return nil
	})
	if err != nil {
		n.logger.Warn("stage change notification dropped",
			"eventID", evt.EventID,
			"recordKind", evt.RecordKind,
			"recordNo", evt.RecordNo,
			"error", err,
		)
	}
}
