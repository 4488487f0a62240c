package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/wardenproject/warden/internal/models"
)

// internalTablePrefixes are catalog names that belong to the platform, not
// the user; Tables filters them out of admin listings.
var internalTablePrefixes = []string{"sqlite_", "_warden_"}

// GormStore persists one actor instance's entries and alarm in a shared
// GORM/SQLite database, scoped by instance name. It also exposes the
// relational capability (Cataloger) backed by the same database.
type GormStore struct {
	db       *gorm.DB
	instance string
}

var (
	_ Store     = (*GormStore)(nil)
	_ Cataloger = (*GormStore)(nil)
)

// NewGormStore returns a store scoped to the named instance.
func NewGormStore(db *gorm.DB, instance string) *GormStore {
	return &GormStore{db: db, instance: instance}
}

// Instance returns the owning instance name.
func (s *GormStore) Instance() string { return s.instance }

func (s *GormStore) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var entry models.Entry
	err := s.db.WithContext(ctx).
		Where("instance = ? AND key = ?", s.instance, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return json.RawMessage(entry.Value), nil
}

func (s *GormStore) Put(ctx context.Context, key string, value json.RawMessage) error {
	return s.put(s.db.WithContext(ctx), key, value)
}

func (s *GormStore) put(tx *gorm.DB, key string, value json.RawMessage) error {
	entry := models.Entry{Instance: s.instance, Key: key, Value: string(value)}

	return tx.Where(models.Entry{Instance: s.instance, Key: key}).
		Assign(entry).
		FirstOrCreate(&entry).Error
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).
		Where("instance = ? AND key = ?", s.instance, key).
		Delete(&models.Entry{}).Error
}

func (s *GormStore) Keys(ctx context.Context) ([]string, error) {
	keys := []string{}
	err := s.db.WithContext(ctx).
		Model(&models.Entry{}).
		Where("instance = ?", s.instance).
		Order("key").
		Pluck("key", &keys).Error

	return keys, err
}

func (s *GormStore) PutAll(ctx context.Context, entries map[string]json.RawMessage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range entries {
			if err := s.put(tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormStore) Alarm(ctx context.Context) (*int64, error) {
	var record models.AlarmRecord
	err := s.db.WithContext(ctx).
		Where("instance = ?", s.instance).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record.ScheduledAt, nil
}

func (s *GormStore) SetAlarm(ctx context.Context, ts int64) error {
	record := models.AlarmRecord{Instance: s.instance, ScheduledAt: ts}

	return s.db.WithContext(ctx).
		Where(models.AlarmRecord{Instance: s.instance}).
		Assign(record).
		FirstOrCreate(&record).Error
}

func (s *GormStore) DeleteAlarm(ctx context.Context) error {
	return s.db.WithContext(ctx).
		Where("instance = ?", s.instance).
		Delete(&models.AlarmRecord{}).Error
}

// Tables lists user tables from the SQLite catalog, excluding platform
// bookkeeping so administrative inspection never leaks it.
func (s *GormStore) Tables(ctx context.Context) ([]string, error) {
	names := []string{}
	err := s.db.WithContext(ctx).
		Raw("SELECT name FROM sqlite_master WHERE type = 'table' ORDER BY name").
		Scan(&names).Error
	if err != nil {
		return nil, err
	}

	tables := []string{}
	for _, name := range names {
		if !isInternalTable(name) {
			tables = append(tables, name)
		}
	}

	return tables, nil
}

func isInternalTable(name string) bool {
	for _, prefix := range internalTablePrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}

	return false
}

// Query executes one raw SQL statement and converts the result set into
// JSON-friendly rows keyed by column name.
func (s *GormStore) Query(ctx context.Context, stmt string) (*QueryResult, error) {
	rows, err := s.db.WithContext(ctx).Raw(stmt).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	if columns == nil {
		columns = []string{}
	}

	result := []map[string]any{}
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}
		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, column := range columns {
			value := values[i]
			// SQLite hands text back as []byte; keep JSON output readable.
			if b, ok := value.([]byte); ok {
				value = string(b)
			}
			row[column] = value
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &QueryResult{Rows: result, Columns: columns}, nil
}
