// Package notify delivers classified leads to sales over SMS, email and
// webhooks.
package notify

import (
	"context"
	stderrors "errors"

	"lead-qualifier/internal/common/errors"
	"lead-qualifier/internal/common/logger"
	"lead-qualifier/internal/common/metrics"
	"lead-qualifier/internal/models"
)

// Channel sends one composed message.
type Channel interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Dispatcher fans a record out to every channel when its status is one of the
// configured statuses. Channel failures are joined; one failing channel does
// not stop the others.
type Dispatcher struct {
	channels []Channel
	statuses map[models.LeadStatus]struct{}
	logger   logger.Logger
}

func NewDispatcher(statuses []string, log logger.Logger, channels ...Channel) *Dispatcher {
	if len(statuses) == 0 {
		statuses = []string{string(models.LeadHot)}
	}
	set := make(map[models.LeadStatus]struct{}, len(statuses))
	for _, s := range statuses {
		set[models.LeadStatus(s)] = struct{}{}
	}
	return &Dispatcher{
		channels: channels,
		statuses: set,
		logger:   log.WithFields(map[string]interface{}{"component": "notify"}),
	}
}

func (d *Dispatcher) Channels() int {
	return len(d.channels)
}

func (d *Dispatcher) Wants(status models.LeadStatus) bool {
	_, ok := d.statuses[status]
	return ok
}

func (d *Dispatcher) Notify(ctx context.Context, record models.ClassificationRecord) error {
	if len(d.channels) == 0 || !d.Wants(record.Status) {
		return nil
	}

	msg := Compose(record)
	var errs []error
	for _, ch := range d.channels {
		if err := ch.Send(ctx, msg); err != nil {
			metrics.NotificationsSent.WithLabelValues(ch.Name(), "failed").Inc()
			d.logger.WithError(err).Warn("notification channel failed", map[string]interface{}{
				"channel":        ch.Name(),
				"conversationId": record.ID,
			})
			errs = append(errs, errors.NewNotificationSendFailedError(ch.Name(), err))
			continue
		}
		metrics.NotificationsSent.WithLabelValues(ch.Name(), "sent").Inc()
		d.logger.Info("lead notification sent", map[string]interface{}{
			"channel":        ch.Name(),
			"conversationId": record.ID,
			"status":         string(record.Status),
		})
	}
	return stderrors.Join(errs...)
}
