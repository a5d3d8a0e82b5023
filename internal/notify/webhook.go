package notify

import (
	"context"
	"time"

	httpclient "lead-qualifier/internal/common/http"
	"lead-qualifier/internal/models"
)

const webhookEvent = "lead.classified"

type webhookPayload struct {
	Event   string                      `json:"event"`
	SentAt  time.Time                   `json:"sentAt"`
	Summary string                      `json:"summary"`
	Record  models.ClassificationRecord `json:"record"`
}

// WebhookNotifier posts the full record as JSON.
type WebhookNotifier struct {
	client *httpclient.Client
	url    string
	now    func() time.Time
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		client: httpclient.NewClient(timeout),
		url:    url,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (n *WebhookNotifier) Name() string { return "webhook" }

func (n *WebhookNotifier) Send(ctx context.Context, msg Message) error {
	return n.client.PostJSON(ctx, n.url, webhookPayload{
		Event:   webhookEvent,
		SentAt:  n.now(),
		Summary: msg.Subject,
		Record:  msg.Record,
	}, map[string]string{"X-Lead-Event": webhookEvent})
}
