// internal/models/user.go
package models

import "time"

// User mirrors an account in the managed auth provider. Rows are
// provisioned out of band when the provider signs a customer up; this
// service only reads them (notification addresses, admin search).
type User struct {
	BaseModel
	Email       string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Role        UserRole   `json:"role" gorm:"type:varchar(20);default:'user'"`
	Company     string     `json:"company,omitempty" gorm:"size:255"`
	ProfileData JSONB      `json:"profile_data" gorm:"type:jsonb"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Relationships
	Applications []Application `json:"applications,omitempty" gorm:"foreignKey:UserID"`
	NDARequests  []NDARequest  `json:"nda_requests,omitempty" gorm:"foreignKey:UserID"`
}
