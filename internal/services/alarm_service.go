package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/wardenproject/warden/internal/logger"
	"github.com/wardenproject/warden/internal/metrics"
	"github.com/wardenproject/warden/internal/models"
)

// AlarmService periodically fires alarms whose scheduled time has passed.
// The admin layer only proxies alarm get/set/delete; actually waking an
// instance up is the host's job, and this poller stands in for the host
// platform's delivery loop.
type AlarmService struct {
	db     *gorm.DB
	cron   *cron.Cron
	notify *NotificationService
}

func NewAlarmService(db *gorm.DB, notify *NotificationService) *AlarmService {
	return &AlarmService{db: db, cron: cron.New(), notify: notify}
}

// Start schedules the poll loop. spec is a cron expression or descriptor
// such as "@every 30s".
func (s *AlarmService) Start(spec string) error {
	if spec == "" {
		spec = "@every 30s"
	}
	if _, err := s.cron.AddFunc(spec, func() {
		if _, err := s.CheckDue(context.Background()); err != nil {
			logger.Log().WithError(err).Error("alarm poll failed")
		}
	}); err != nil {
		return err
	}
	s.cron.Start()

	return nil
}

// Stop halts the poll loop; a poll already in flight finishes first.
func (s *AlarmService) Stop() {
	<-s.cron.Stop().Done()
}

// CheckDue fires and clears every alarm whose scheduled time has passed,
// returning the number fired.
func (s *AlarmService) CheckDue(ctx context.Context) (int, error) {
	now := time.Now().UnixMilli()

	var due []models.AlarmRecord
	if err := s.db.WithContext(ctx).Where("scheduled_at <= ?", now).Find(&due).Error; err != nil {
		return 0, err
	}

	for _, record := range due {
		metrics.IncAlarmFired()
		if s.notify != nil {
			s.notify.AlarmFired(record.Instance, record.ScheduledAt)
		}
		if err := s.db.WithContext(ctx).
			Where("instance = ? AND scheduled_at = ?", record.Instance, record.ScheduledAt).
			Delete(&models.AlarmRecord{}).Error; err != nil {
			return 0, err
		}
	}

	return len(due), nil
}
