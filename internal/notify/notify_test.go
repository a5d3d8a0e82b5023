package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/models"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Mock Implementations
// ==========================

type MockSESService struct {
	SendEmailFunc func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

func (m *MockSESService) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	return m.SendEmailFunc(ctx, params, optFns...)
}

type MockSNSService struct {
	PublishFunc func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

func (m *MockSNSService) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	return m.PublishFunc(ctx, params, optFns...)
}

type recordingChannel struct {
	name string
	err  error
	sent []Message
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(_ context.Context, msg Message) error {
	c.sent = append(c.sent, msg)
	return c.err
}

// ==========================
// Test Helper Functions
// ==========================

func hotRecord() models.ClassificationRecord {
	return models.ClassificationRecord{
		ID:         "conv-1",
		Timestamp:  time.Date(2026, time.October, 14, 9, 0, 0, 0, time.UTC),
		Lead:       models.Lead{Name: "Asha", Phone: "+919876543210", Source: "Facebook"},
		IndustryID: models.IndustryRealEstate,
		Status:     models.LeadHot,
		Confidence: 1,
		Reasons:    []string{"Budget specified", "Location mentioned"},
		Metadata: models.Metadata{
			Location:     models.String("Mumbai"),
			Budget:       models.Float(50),
			PropertyType: models.String("2BHK"),
		},
	}
}

// ==========================
// Dispatcher
// ==========================

func TestDispatcher_FiltersByStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		status   models.LeadStatus
		wantSent bool
	}{
		{"default sends hot", nil, models.LeadHot, true},
		{"default skips cold", nil, models.LeadCold, false},
		{"default skips invalid", nil, models.LeadInvalid, false},
		{"configured cold", []string{"Hot", "Cold"}, models.LeadCold, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := &recordingChannel{name: "test"}
			d := NewDispatcher(tt.statuses, logger.NewTestLogger(t), ch)

			rec := hotRecord()
			rec.Status = tt.status
			require.NoError(t, d.Notify(context.Background(), rec))
			assert.Equal(t, tt.wantSent, len(ch.sent) == 1)
		})
	}
}

func TestDispatcher_ContinuesAfterChannelFailure(t *testing.T) {
	failing := &recordingChannel{name: "sms", err: errors.New("throttled")}
	ok := &recordingChannel{name: "email"}
	d := NewDispatcher(nil, logger.NewTestLogger(t), failing, ok)

	err := d.Notify(context.Background(), hotRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Len(t, failing.sent, 1)
	assert.Len(t, ok.sent, 1)
}

func TestDispatcher_NoChannels(t *testing.T) {
	d := NewDispatcher(nil, logger.NewNoOpLogger())
	assert.Equal(t, 0, d.Channels())
	assert.NoError(t, d.Notify(context.Background(), hotRecord()))
}

// ==========================
// Message
// ==========================

func TestCompose(t *testing.T) {
	msg := Compose(hotRecord())

	assert.Equal(t, "Hot lead: Asha (real_estate)", msg.Subject)
	assert.Contains(t, msg.Body, "Phone: +919876543210")
	assert.Contains(t, msg.Body, "confidence 100%")
	assert.Contains(t, msg.Body, "Reasons: Budget specified; Location mentioned")
	assert.Contains(t, msg.Body, "location: Mumbai")
	assert.Contains(t, msg.Body, "property type: 2BHK")
	assert.Equal(t, "Hot lead Asha +919876543210 in Mumbai, budget 50", msg.Short)
	assert.Equal(t, "conv-1", msg.Record.ID)
}

// ==========================
// SMS and email
// ==========================

func TestSMSNotifier_Send(t *testing.T) {
	var got *sns.PublishInput
	client := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			got = params
			return &sns.PublishOutput{}, nil
		},
	}

	n := NewSMSNotifier(client, "+14155550100")
	require.NoError(t, n.Send(context.Background(), Compose(hotRecord())))
	require.NotNil(t, got)
	assert.Equal(t, "+14155550100", *got.PhoneNumber)
	assert.Contains(t, *got.Message, "Asha")
}

func TestSMSNotifier_Errors(t *testing.T) {
	client := &MockSNSService{
		PublishFunc: func(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
			return nil, errors.New("sns unavailable")
		},
	}

	assert.Error(t, NewSMSNotifier(client, "").Send(context.Background(), Compose(hotRecord())))
	assert.EqualError(t, NewSMSNotifier(client, "+1").Send(context.Background(), Compose(hotRecord())), "sns unavailable")
}

func TestEmailNotifier_Send(t *testing.T) {
	var got *ses.SendEmailInput
	client := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			got = params
			return &ses.SendEmailOutput{}, nil
		},
	}

	n := NewEmailNotifier(client, "leads@example.com", []string{"sales@example.com"})
	require.NoError(t, n.Send(context.Background(), Compose(hotRecord())))
	require.NotNil(t, got)
	assert.Equal(t, "leads@example.com", *got.Source)
	assert.Equal(t, []string{"sales@example.com"}, got.Destination.ToAddresses)
	assert.Equal(t, "Hot lead: Asha (real_estate)", *got.Message.Subject.Data)
	assert.Contains(t, *got.Message.Body.Text.Data, "Lead: Asha")
}

func TestEmailNotifier_RequiresRecipients(t *testing.T) {
	client := &MockSESService{
		SendEmailFunc: func(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
			t.Fatal("SendEmail must not be called")
			return nil, nil
		},
	}
	assert.Error(t, NewEmailNotifier(client, "leads@example.com", nil).Send(context.Background(), Compose(hotRecord())))
}

// ==========================
// Webhook
// ==========================

func TestWebhookNotifier_Send(t *testing.T) {
	var payload webhookPayload
	var event string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		event = r.Header.Get("X-Lead-Event")
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second)
	require.NoError(t, n.Send(context.Background(), Compose(hotRecord())))

	assert.Equal(t, webhookEvent, event)
	assert.Equal(t, webhookEvent, payload.Event)
	assert.Equal(t, "conv-1", payload.Record.ID)
	assert.Equal(t, models.String("Mumbai"), payload.Record.Metadata.Location)
}

func TestWebhookNotifier_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhookNotifier(srv.URL, time.Second).Send(context.Background(), Compose(hotRecord()))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "502"))
}
