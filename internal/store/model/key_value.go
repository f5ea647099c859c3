package model

import "time"

// KeyValue holds standalone serialized documents, such as the offline queue.
type KeyValue struct {
	Key       string `gorm:"primaryKey;column:key;type:VARCHAR(255);"`
	Value     string `gorm:"type:TEXT;not null"`
	UpdatedAt time.Time
}
