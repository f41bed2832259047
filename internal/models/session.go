package models

import (
	"time"

	"gorm.io/gorm"
)

type SubmissionStatus string

const (
	SubmissionStatusPending   SubmissionStatus = "pending"
	SubmissionStatusConfirmed SubmissionStatus = "confirmed"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

// TemplateSession is one operator's in-progress template form for a
// collection. The attribute flags stored here are per-session state and are
// rebuilt from scratch whenever the active schema changes.
type TemplateSession struct {
	ID             string            `gorm:"primaryKey" json:"id"`
	Account        string            `gorm:"index;not null" json:"account"`
	ChainKey       string            `gorm:"not null" json:"chain_key"`
	CollectionName string            `gorm:"not null" json:"collection_name"`
	SchemaName     string            `json:"schema_name"`
	Attributes     []SchemaAttribute `gorm:"serializer:json" json:"attributes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	ExpiresAt time.Time      `json:"expires_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SubmissionRecord is the audit row for one submission attempt. Raw error
// payloads are kept verbatim for the diagnostic disclosure panel.
type SubmissionRecord struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	SessionID  string           `gorm:"index;not null" json:"session_id"`
	SchemaName string           `gorm:"not null" json:"schema_name"`
	Status     SubmissionStatus `gorm:"default:pending" json:"status"`
	TemplateID string           `json:"template_id"`
	Message    string           `json:"message"`
	RawDetails string           `gorm:"type:text" json:"raw_details"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Session TemplateSession `gorm:"foreignKey:SessionID;references:ID" json:"session,omitempty"`
}
