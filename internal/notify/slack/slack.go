// Package slack sends case notifications to Slack via incoming webhooks.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/casetriage/internal/triage"
)

const (
	maxComplaintLen = 500
	httpTimeout     = 10 * time.Second
)

// Notifier posts case events to a Slack webhook.
type Notifier struct {
	webhookURL string
	client     *http.Client
	logger     log.Logger
}

// New creates a new Slack notifier. If webhookURL is empty, sends are no-ops.
func New(webhookURL string, logger log.Logger) *Notifier {
	if logger == nil {
		logger = log.Nop()
	}
	return &Notifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: httpTimeout},
		logger:     logger,
	}
}

// CaseRouted posts a routed-case summary. The service only calls this for
// critical cases.
func (n *Notifier) CaseRouted(ctx context.Context, c *triage.Case) error {
	return n.post(ctx, routedMessage(c))
}

// ReviewRequested posts a review ticket notification.
func (n *Notifier) ReviewRequested(ctx context.Context, c *triage.Case, req *triage.ReviewRequest) error {
	return n.post(ctx, reviewMessage(c, req))
}

func (n *Notifier) post(ctx context.Context, msg map[string]any) error {
	if n.webhookURL == "" {
		return nil
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("slack: marshal message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("slack: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req) //nolint:gosec // G704: webhookURL is from trusted config, not user input
	if err != nil {
		return fmt.Errorf("slack: post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack: webhook returned %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func routedMessage(c *triage.Case) map[string]any {
	band := ""
	urgency := 0
	golden := false
	if c.Triage != nil {
		band = c.Triage.SeverityBand
		urgency = c.Triage.UrgencyScore
		golden = c.Triage.GoldenHour
	}

	fields := []map[string]any{
		mrkdwn("*Severity:* %s", band),
		mrkdwn("*Urgency:* %d", urgency),
		mrkdwn("*Category:* %s", c.Intake.CategoryName),
		mrkdwn("*Amount:* %.0f", c.Intake.Amount),
		mrkdwn("*Assigned:* %s", c.Routing.PrimaryAssignee),
		mrkdwn("*Jurisdiction:* %s", c.Routing.Jurisdiction),
	}

	title := fmt.Sprintf("%s Case Routed: %s", bandEmoji(band), c.Intake.CategoryName)
	if golden {
		title += " (golden hour)"
	}

	return map[string]any{
		"blocks": []map[string]any{
			headerBlock(title),
			{"type": "divider"},
			{"type": "section", "fields": fields},
			{"type": "section", "text": mrkdwn("*Complaint*\n\n%s", truncate(c.Intake.ComplaintText, maxComplaintLen))},
			{"type": "divider"},
			contextBlock(c.ID, c.Routing.RoutedAt),
		},
	}
}

func reviewMessage(c *triage.Case, req *triage.ReviewRequest) map[string]any {
	fields := []map[string]any{
		mrkdwn("*Queue:* %s", req.Queue),
		mrkdwn("*Priority:* %s", req.Priority),
		mrkdwn("*Turnaround:* %dh", req.EstimatedHours),
		mrkdwn("*Status:* %s", c.Status),
	}

	return map[string]any{
		"blocks": []map[string]any{
			headerBlock("\U0001f440 Review Requested: " + c.Intake.CategoryName),
			{"type": "divider"},
			{"type": "section", "fields": fields},
			{"type": "section", "text": mrkdwn("*Reason*\n\n%s", req.Reason)},
			{"type": "divider"},
			contextBlock(c.ID, req.RequestedAt),
		},
	}
}

func headerBlock(title string) map[string]any {
	return map[string]any{
		"type": "header",
		"text": map[string]any{
			"type": "plain_text",
			"text": title,
		},
	}
}

func contextBlock(caseID string, ts time.Time) map[string]any {
	return map[string]any{
		"type": "context",
		"elements": []map[string]any{
			mrkdwn("casetriage • case %s • %s", caseID, ts.UTC().Format("2006-01-02 15:04 UTC")),
		},
	}
}

func mrkdwn(format string, args ...any) map[string]any {
	return map[string]any{
		"type": "mrkdwn",
		"text": fmt.Sprintf(format, args...),
	}
}

func bandEmoji(band string) string {
	switch strings.ToUpper(band) {
	case "CRITICAL":
		return "\U0001f534" // red circle
	case "HIGH":
		return "\U0001f7e0" // orange circle
	case "MEDIUM":
		return "\U0001f7e1" // yellow circle
	default:
		return "\U0001f7e2" // green circle
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit-3] + "..."
}
