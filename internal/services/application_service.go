// internal/services/application_service.go
package services

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/config"
	"github.com/ynstek/yns-backend/internal/models"
	"github.com/ynstek/yns-backend/internal/utils"
)

// ApplicationService owns the upload side of the MPW lifecycle: local
// validation, create-or-reuse of the application row, byte transfer to
// object storage, and finalization to GDS_UPLOADED.
type ApplicationService struct {
	db      *gorm.DB
	storage ObjectStorage
	upload  config.UploadConfig
}

const uploadURLTTL = 15 * time.Minute

func NewApplicationService(db *gorm.DB, storage ObjectStorage, upload config.UploadConfig) *ApplicationService {
	return &ApplicationService{
		db:      db,
		storage: storage,
		upload:  upload,
	}
}

type UploadURLResult struct {
	Application *models.Application `json:"application"`
	Key         string              `json:"key"`
	URL         string              `json:"url"`
	ExpiresIn   int                 `json:"expires_in"`
}

// ValidateUpload applies the extension allow-list and the size ceiling.
// It runs before any network operation; a rejection here leaves no trace
// anywhere.
func (s *ApplicationService) ValidateUpload(fileName string, size int64) error {
	name := strings.ToLower(fileName)

	allowed := false
	for _, ext := range s.upload.AllowedExtensions {
		if strings.HasSuffix(name, strings.ToLower(strings.TrimSpace(ext))) {
			allowed = true
			break
		}
	}
	if !allowed {
		return &ValidationError{Field: "file", Reason: fmt.Sprintf("file type of %q is not allowed", fileName)}
	}

	if size > s.upload.MaxSizeBytes {
		return &ValidationError{
			Field:  "file",
			Reason: fmt.Sprintf("file size %d bytes exceeds maximum allowed size %d bytes", size, s.upload.MaxSizeBytes),
		}
	}

	return nil
}

// acquireApplication returns the caller's application for the shuttle,
// creating one in INITIATED if none exists. The lookup and insert are
// not atomic: two concurrent uploads from the same user can create two
// rows. Accepted at current volume rather than defended against.
func (s *ApplicationService) acquireApplication(sess models.Session, shuttleID uuid.UUID) (*models.Application, error) {
	var application models.Application
	err := s.db.Where("user_id = ? AND shuttle_id = ?", sess.UserID, shuttleID).
		Order("created_at DESC").
		First(&application).Error
	if err == nil {
		return &application, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &PersistenceError{Op: "application lookup", Err: err}
	}

	application = models.Application{
		UserID:    sess.UserID,
		ShuttleID: shuttleID,
		Status:    models.ApplicationStatusInitiated,
	}
	if err := s.db.Create(&application).Error; err != nil {
		return nil, &PersistenceError{Op: "application create", Err: err}
	}

	return &application, nil
}

// Upload is the direct transfer strategy: bytes pass through this
// server straight into object storage, then the row is finalized.
// Exactly one storage write and one or two record writes happen.
func (s *ApplicationService) Upload(sess models.Session, shuttleID uuid.UUID, fileName string, size int64, body io.ReadSeeker) (*models.Application, error) {
	if err := s.ValidateUpload(fileName, size); err != nil {
		return nil, err
	}

	if err := s.db.First(&models.Shuttle{}, "id = ?", shuttleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "shuttle"}
		}
		return nil, &PersistenceError{Op: "shuttle lookup", Err: err}
	}

	application, err := s.acquireApplication(sess, shuttleID)
	if err != nil {
		return nil, err
	}

	key := GDSObjectKey(sess.UserID, shuttleID, time.Now())
	if err := s.storage.Upload(key, body, "application/octet-stream"); err != nil {
		// Record unchanged; the caller may simply retry.
		return nil, &TransferError{Op: "gds upload", Err: err}
	}

	return s.finalize(application, key)
}

// CreateUploadURL is the presigned strategy: the row is acquired and a
// short-lived write URL returned so the client can stream bytes with
// progress feedback, then call Finalize. Both strategies converge on
// the same end state.
func (s *ApplicationService) CreateUploadURL(sess models.Session, shuttleID uuid.UUID, fileName string, size int64) (*UploadURLResult, error) {
	if err := s.ValidateUpload(fileName, size); err != nil {
		return nil, err
	}

	if err := s.db.First(&models.Shuttle{}, "id = ?", shuttleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "shuttle"}
		}
		return nil, &PersistenceError{Op: "shuttle lookup", Err: err}
	}

	application, err := s.acquireApplication(sess, shuttleID)
	if err != nil {
		return nil, err
	}

	key := GDSObjectKey(sess.UserID, shuttleID, time.Now())
	url, err := s.storage.SignedUploadURL(key, uploadURLTTL)
	if err != nil {
		return nil, &TransferError{Op: "signed upload URL", Err: err}
	}

	return &UploadURLResult{
		Application: application,
		Key:         key,
		URL:         url,
		ExpiresIn:   int(uploadURLTTL.Seconds()),
	}, nil
}

// Finalize records a completed presigned transfer: the stored key is
// attached and the application moves to GDS_UPLOADED.
func (s *ApplicationService) Finalize(sess models.Session, applicationID uuid.UUID, key string) (*models.Application, error) {
	if key == "" {
		return nil, &ValidationError{Field: "key", Reason: "stored object key is required"}
	}

	var application models.Application
	if err := s.db.First(&application, "id = ?", applicationID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "application"}
		}
		return nil, &PersistenceError{Op: "application lookup", Err: err}
	}

	if application.UserID != sess.UserID && !sess.IsStaff() {
		return nil, &ForbiddenError{Reason: "not the owner of this application"}
	}

	return s.finalize(&application, key)
}

// finalize sequences the status transition strictly after the byte
// transfer. A re-upload while already in GDS_UPLOADED just replaces the
// stored path; terminal applications reject further uploads.
func (s *ApplicationService) finalize(application *models.Application, key string) (*models.Application, error) {
	if application.Status != models.ApplicationStatusGDSUploaded &&
		!application.Status.CanTransitionTo(models.ApplicationStatusGDSUploaded) {
		return nil, &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("application in status %s cannot accept a new upload", application.Status),
		}
	}

	updates := map[string]interface{}{
		"status":   models.ApplicationStatusGDSUploaded,
		"gds_path": key,
	}
	if err := s.db.Model(application).Updates(updates).Error; err != nil {
		// Bytes already reached storage: the object is orphaned until an
		// operator reconciles. Documented failure mode, not auto-repaired.
		return nil, &PersistenceError{Op: "application finalize", Err: err}
	}

	application.Status = models.ApplicationStatusGDSUploaded
	application.GDSPath = &key
	return application, nil
}

// ListByUser returns the caller's applications, newest first.
func (s *ApplicationService) ListByUser(sess models.Session, params utils.PaginationParams) ([]models.Application, int64, error) {
	query := s.db.Model(&models.Application{}).
		Where("user_id = ?", sess.UserID).
		Preload("Shuttle")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count applications: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "status"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var applications []models.Application
	if err := query.Find(&applications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch applications: %w", err)
	}

	return applications, total, nil
}

// GetApplication returns one application, restricted to the owner and
// staff.
func (s *ApplicationService) GetApplication(sess models.Session, id uuid.UUID) (*models.Application, error) {
	var application models.Application
	if err := s.db.Preload("Shuttle").First(&application, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "application"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if application.UserID != sess.UserID && !sess.IsStaff() {
		return nil, &ForbiddenError{Reason: "not the owner of this application"}
	}

	return &application, nil
}
