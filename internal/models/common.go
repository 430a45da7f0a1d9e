// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate generates the UUID application-side so inserts behave the
// same on PostgreSQL and the sqlite databases used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserRole string

const (
	UserRoleCustomer UserRole = "user"
	UserRoleStaff    UserRole = "staff"
)

// ApplicationStatus is the MPW application lifecycle state.
type ApplicationStatus string

const (
	ApplicationStatusInitiated   ApplicationStatus = "INITIATED"
	ApplicationStatusGDSUploaded ApplicationStatus = "GDS_UPLOADED"
	ApplicationStatusXORPassed   ApplicationStatus = "XOR_PASSED"
	ApplicationStatusXORFailed   ApplicationStatus = "XOR_FAILED"
)

// CanTransitionTo reports whether moving from s to next is a valid
// lifecycle step. All status writes go through this check so the policy
// lives in one place instead of scattered string comparisons.
func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	switch s {
	case ApplicationStatusInitiated:
		return next == ApplicationStatusGDSUploaded
	case ApplicationStatusGDSUploaded:
		return next == ApplicationStatusXORPassed || next == ApplicationStatusXORFailed
	default:
		// XOR_PASSED and XOR_FAILED are terminal
		return false
	}
}

// IsTerminal reports whether the application has reached a final verdict.
func (s ApplicationStatus) IsTerminal() bool {
	return s == ApplicationStatusXORPassed || s == ApplicationStatusXORFailed
}

// NDAStatus is the NDA request lifecycle state. The SIGNED transition is
// driven by the external e-signature collaborator; approval straight from
// PENDING is also valid because low-volume requests are sometimes
// counter-signed on paper before the envelope completes.
type NDAStatus string

const (
	NDAStatusPending  NDAStatus = "PENDING"
	NDAStatusSigned   NDAStatus = "SIGNED"
	NDAStatusApproved NDAStatus = "APPROVED"
)

func (s NDAStatus) CanTransitionTo(next NDAStatus) bool {
	switch s {
	case NDAStatusPending:
		return next == NDAStatusSigned || next == NDAStatusApproved
	case NDAStatusSigned:
		return next == NDAStatusApproved
	default:
		return false
	}
}

// Session is the per-request identity resolved from the auth provider's
// token. It is threaded explicitly through handlers and services; nothing
// reads identity from ambient global state.
type Session struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Role   UserRole  `json:"role"`
}

// IsStaff reports whether the session carries the staff role claim.
func (s Session) IsStaff() bool {
	return s.Role == UserRoleStaff
}
