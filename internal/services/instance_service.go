package services

import (
	"context"
	"fmt"
	"regexp"

	"gorm.io/gorm"

	"github.com/wardenproject/warden/internal/storage"
)

// DefaultInstance is the instance served when a request carries no
// instance-name path segment.
const DefaultInstance = "default"

var instanceNamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`)

// InstanceService resolves instance names to their stores. Every instance
// shares one database, scoped by name, so a single Warden process can serve
// a whole fleet.
type InstanceService struct {
	db *gorm.DB
}

func NewInstanceService(db *gorm.DB) *InstanceService {
	return &InstanceService{db: db}
}

// Resolve returns the named instance's store. The empty name selects
// DefaultInstance; an instance comes into existence when data is first
// written, so resolution never creates anything.
func (s *InstanceService) Resolve(_ context.Context, name string) (storage.Store, error) {
	if name == "" {
		name = DefaultInstance
	}
	if !instanceNamePattern.MatchString(name) {
		return nil, fmt.Errorf("invalid instance name %q", name)
	}

	return storage.NewGormStore(s.db, name), nil
}

// Names lists every instance that currently holds entries or an alarm.
func (s *InstanceService) Names(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).
		Raw(`SELECT instance FROM _warden_entries
		     UNION SELECT instance FROM _warden_alarms
		     ORDER BY instance`).
		Scan(&names).Error

	return names, err
}
