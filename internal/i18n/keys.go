// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"

	// Shuttles
	KeyShuttleNotFound = "shuttle.not_found"

	// MPW applications
	KeyApplicationCreated   = "application.created"
	KeyApplicationNotFound  = "application.not_found"
	KeyApplicationFinalized = "application.finalized"
	KeyApplicationUploaded  = "application.uploaded"

	// NDA / PDK
	KeyNDARequested   = "nda.requested"
	KeyNDANotFound    = "nda.not_found"
	KeyNDAApproved    = "nda.approved"
	KeyNDANotApproved = "nda.not_approved"

	// Admin
	KeyAdminActionSuccess = "admin.action_success"
	KeyAdminAccessDenied  = "admin.access_denied"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
