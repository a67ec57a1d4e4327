package models

import "time"

// NotificationStatus is the delivery outcome recorded per channel attempt.
type NotificationStatus string

const (
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusPending NotificationStatus = "pending"
)

// NotificationLog is an append-only record of one delivery attempt. Rows are
// created once per attempt and never mutated.
type NotificationLog struct {
	ID          string             `db:"id" json:"id"`
	StudentID   string             `db:"student_id" json:"student_id"`
	PhoneNumber string             `db:"phone_number" json:"phone_number"`
	Message     string             `db:"message" json:"message"`
	Status      NotificationStatus `db:"status" json:"status"`
	Provider    string             `db:"provider" json:"provider"`
	MessageID   *string            `db:"message_id" json:"message_id,omitempty"`
	ErrorDetail *string            `db:"error_detail" json:"error_detail,omitempty"`
	SentAt      *time.Time         `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt   time.Time          `db:"created_at" json:"created_at"`
}

// NotificationFilter scopes log listings.
type NotificationFilter struct {
	StudentID string
	Status    *NotificationStatus
	Limit     int
}
