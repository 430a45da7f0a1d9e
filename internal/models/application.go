// internal/models/application.go
package models

import "github.com/google/uuid"

// Application is one user's submission against one shuttle. At most one
// per (user, shuttle) pair by convention; the create-or-reuse lookup is
// not atomic, so duplicates from concurrent uploads are possible and
// tolerated rather than enforced away.
type Application struct {
	BaseModel
	UserID        uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	ShuttleID     uuid.UUID         `json:"shuttle_id" gorm:"type:uuid;not null;index"`
	Status        ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'INITIATED';index"`
	GDSPath       *string           `json:"gds_path" gorm:"size:512"`
	XORReportPath *string           `json:"xor_report_path" gorm:"size:512"`
	XORSummary    *string           `json:"xor_summary" gorm:"type:text"`

	// Relationships
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Shuttle Shuttle `json:"shuttle,omitempty" gorm:"foreignKey:ShuttleID"`
}

func (Application) TableName() string {
	return "mpw_applications"
}

// EligibleForVerification reports whether the worker may pick this row
// up: a stored geometry path and the GDS_UPLOADED status are both
// required.
func (a *Application) EligibleForVerification() bool {
	return a.Status == ApplicationStatusGDSUploaded && a.GDSPath != nil && *a.GDSPath != ""
}
