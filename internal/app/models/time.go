package models

import "time"

// TimeModel carries the persistence timestamps shared by every stored record.
// Documents and assessments are immutable once written, so only extraction
// jobs ever touch UpdatedAt after creation.
type TimeModel struct {
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (m *TimeModel) SetCreatedAtUpdatedAt() {
	currentTime := time.Now()
	m.CreatedAt = currentTime
	m.UpdatedAt = currentTime
}

func (m *TimeModel) SetUpdatedAt() {
	m.UpdatedAt = time.Now()
}
