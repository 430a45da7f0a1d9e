// internal/models/nda.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// NDARequest gates PDK access. A signed download URL is only issued once
// the caller's most recent request reaches APPROVED.
type NDARequest struct {
	BaseModel
	UserID     uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index"`
	Status     NDAStatus  `json:"status" gorm:"type:varchar(20);default:'PENDING';index"`
	ApprovedBy *uuid.UUID `json:"approved_by" gorm:"type:uuid"`
	ApprovedAt *time.Time `json:"approved_at"`

	// Relationships
	User     User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Approver *User `json:"approver,omitempty" gorm:"foreignKey:ApprovedBy"`
}

func (NDARequest) TableName() string {
	return "nda_requests"
}
