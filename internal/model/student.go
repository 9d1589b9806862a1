package model

import "time"

// StudentRecord is one student's id/name/grade tuple. The id is assigned by
// the grade store and never changes.
type StudentRecord struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Grade float64 `json:"grade"`
}

// KVEntry is the row layout of the key-value table used by the SQL backed
// persistence.
type KVEntry struct {
	Key       string `gorm:"primaryKey"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
