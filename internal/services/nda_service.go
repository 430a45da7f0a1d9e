// internal/services/nda_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ynstek/yns-backend/internal/models"
)

const pdkDownloadURLTTL = 3600 * time.Second

// NDAService manages NDA requests and the PDK download they gate. The
// signing ceremony itself happens at the e-signature provider; this
// service tracks the request's progress and issues the signed package
// URL once a request reaches APPROVED.
type NDAService struct {
	db      *gorm.DB
	storage ObjectStorage
	authz   *AuthorizationService
}

func NewNDAService(db *gorm.DB, storage ObjectStorage, authz *AuthorizationService) *NDAService {
	return &NDAService{
		db:      db,
		storage: storage,
		authz:   authz,
	}
}

// Request opens a new NDA request in PENDING. Repeat requests are
// allowed; Latest and DownloadURL only ever look at the newest one.
func (s *NDAService) Request(sess models.Session) (*models.NDARequest, error) {
	request := models.NDARequest{
		UserID: sess.UserID,
		Status: models.NDAStatusPending,
	}
	if err := s.db.Create(&request).Error; err != nil {
		return nil, &PersistenceError{Op: "nda request create", Err: err}
	}
	return &request, nil
}

// Latest returns the caller's most recent NDA request, or a NotFoundError
// if they have never requested one.
func (s *NDAService) Latest(sess models.Session) (*models.NDARequest, error) {
	var request models.NDARequest
	err := s.db.Where("user_id = ?", sess.UserID).
		Order("created_at DESC").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "nda"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &request, nil
}

// MarkSigned records completion of the e-signature envelope. Called from
// the signature provider's callback.
func (s *NDAService) MarkSigned(requestID uuid.UUID) (*models.NDARequest, error) {
	var request models.NDARequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "nda"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !request.Status.CanTransitionTo(models.NDAStatusSigned) {
		return nil, &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("nda request in status %s cannot be marked signed", request.Status),
		}
	}

	if err := s.db.Model(&request).Update("status", models.NDAStatusSigned).Error; err != nil {
		return nil, &PersistenceError{Op: "nda signed update", Err: err}
	}

	request.Status = models.NDAStatusSigned
	return &request, nil
}

// Approve is the staff counter-signature. It records who approved and
// when, and is valid from both PENDING and SIGNED.
func (s *NDAService) Approve(sess models.Session, requestID uuid.UUID) (*models.NDARequest, error) {
	if !s.authz.CanApproveNDA(sess) {
		return nil, &ForbiddenError{Reason: "staff role required to approve NDA requests"}
	}

	var request models.NDARequest
	if err := s.db.First(&request, "id = ?", requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Resource: "nda"}
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !request.Status.CanTransitionTo(models.NDAStatusApproved) {
		return nil, &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("nda request in status %s cannot be approved", request.Status),
		}
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":      models.NDAStatusApproved,
		"approved_by": sess.UserID,
		"approved_at": now,
	}
	if err := s.db.Model(&request).Updates(updates).Error; err != nil {
		return nil, &PersistenceError{Op: "nda approve", Err: err}
	}

	request.Status = models.NDAStatusApproved
	approver := sess.UserID
	request.ApprovedBy = &approver
	request.ApprovedAt = &now
	return &request, nil
}

// DownloadURL issues a one-hour signed URL for the PDK package, gated on
// the caller's newest NDA request being APPROVED. An older approved
// request superseded by a newer pending one does not grant access.
func (s *NDAService) DownloadURL(sess models.Session) (string, error) {
	request, err := s.Latest(sess)
	if err != nil {
		var notFound *NotFoundError
		if errors.As(err, &notFound) {
			return "", &ForbiddenError{Reason: "NDA approval required for PDK access"}
		}
		return "", err
	}

	if request.Status != models.NDAStatusApproved {
		return "", &ForbiddenError{Reason: "NDA approval required for PDK access"}
	}

	url, err := s.storage.SignedDownloadURL(PDKObjectKey(), pdkDownloadURLTTL)
	if err != nil {
		return "", &TransferError{Op: "pdk signed URL", Err: err}
	}

	return url, nil
}
