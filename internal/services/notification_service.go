package services

import (
	"fmt"

	"github.com/containrrr/shoutrrr"

	"github.com/wardenproject/warden/internal/logger"
)

// NotificationService pushes freeze and alarm events to external channels
// via shoutrrr URLs (discord://, slack://, generic webhooks, ...). With no
// URLs configured every call is a no-op.
type NotificationService struct {
	urls []string
}

func NewNotificationService(urls []string) *NotificationService {
	return &NotificationService{urls: urls}
}

// Send delivers one message to every configured channel. Delivery failures
// are logged and swallowed; notifications never fail an admin operation.
func (s *NotificationService) Send(title, message string) {
	for _, url := range s.urls {
		if err := shoutrrr.Send(url, title+": "+message); err != nil {
			logger.Log().WithError(err).Warn("notification send failed")
		}
	}
}

// Frozen implements admin.EventSink.
func (s *NotificationService) Frozen(instance, frozenAt string) {
	logger.WithInstance(instance).WithField("frozen_at", frozenAt).Info("instance frozen")
	go s.Send("Instance frozen", fmt.Sprintf("%s frozen at %s", instance, frozenAt))
}

// Unfrozen implements admin.EventSink.
func (s *NotificationService) Unfrozen(instance string) {
	logger.WithInstance(instance).Info("instance unfrozen")
	go s.Send("Instance unfrozen", fmt.Sprintf("%s accepts writes again", instance))
}

// AlarmFired reports a due alarm picked up by the poller.
func (s *NotificationService) AlarmFired(instance string, scheduledAt int64) {
	logger.WithInstance(instance).WithField("scheduled_at", scheduledAt).Info("alarm fired")
	go s.Send("Alarm fired", fmt.Sprintf("%s alarm scheduled for %d is due", instance, scheduledAt))
}
