package otp

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a delivered code.
type Status string

const (
	StatusPending Status = "pending"
	StatusUsed    Status = "used"
	StatusExpired Status = "expired"
)

// Record is a one-time code delivered out-of-band for an account.
// At most one record per account may be pending at a time; creating a new
// pending record expires all prior pendings for that account first.
type Record struct {
	RecordID  uuid.UUID  `json:"recordId"`
	AccountID string     `json:"accountId"`
	Code      string     `json:"code"`
	Status    Status     `json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
	UsedAt    *time.Time `json:"usedAt,omitempty"`

	// Optional hints about the UI surface the code was read from.
	InputField *string `json:"inputField,omitempty"`
	InputType  *string `json:"inputType,omitempty"`
	MaxLength  *int    `json:"maxLength,omitempty"`
}

// NewRecord creates a pending record for an account.
func NewRecord(accountID, code string) *Record {
	return &Record{
		RecordID:  uuid.New(),
		AccountID: accountID,
		Code:      code,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}

// MarkUsed transitions the record to used. A record is consumed at most once.
func (r *Record) MarkUsed(now time.Time) bool {
	if r.Status != StatusPending {
		return false
	}
	r.Status = StatusUsed
	r.UsedAt = &now
	return true
}

// Expire supersedes a pending record.
func (r *Record) Expire() bool {
	if r.Status != StatusPending {
		return false
	}
	r.Status = StatusExpired
	return true
}
