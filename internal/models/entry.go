package models

import "time"

// Entry is one key/value pair owned by a durable actor instance. Values are
// stored as serialized JSON so arbitrary payloads round-trip unchanged.
type Entry struct {
	Instance  string    `json:"instance" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"primaryKey"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName keeps the backing table inside the reserved catalog namespace so
// administrative table listings never expose it.
func (Entry) TableName() string { return "_warden_entries" }

// AlarmRecord holds the single optional scheduled wake-up for an instance,
// in milliseconds since the Unix epoch.
type AlarmRecord struct {
	Instance    string    `json:"instance" gorm:"primaryKey"`
	ScheduledAt int64     `json:"scheduled_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName keeps the backing table inside the reserved catalog namespace.
func (AlarmRecord) TableName() string { return "_warden_alarms" }
