package services

import (
	"gorm.io/gorm"

	"github.com/nftfolio/templatepress/internal/models"
)

// SubmissionService handles the audit trail of submission attempts
type SubmissionService interface {
	CreateSubmission(sessionID, schemaName string) (*models.SubmissionRecord, error)
	MarkConfirmed(id uint, templateID string) error
	MarkFailed(id uint, message, rawDetails string) error
	GetSubmissionByID(id uint) (*models.SubmissionRecord, error)
	ListSubmissions(sessionID string) ([]models.SubmissionRecord, error)
}

type submissionService struct {
	db *gorm.DB
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(db *gorm.DB) SubmissionService {
	return &submissionService{db: db}
}

// CreateSubmission records a new pending submission attempt
func (s *submissionService) CreateSubmission(sessionID, schemaName string) (*models.SubmissionRecord, error) {
	record := &models.SubmissionRecord{
		SessionID:  sessionID,
		SchemaName: schemaName,
		Status:     models.SubmissionStatusPending,
	}
	if err := s.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// MarkConfirmed marks a submission as accepted by the ledger. templateID may
// be empty when the post-creation listing refresh failed.
func (s *submissionService) MarkConfirmed(id uint, templateID string) error {
	updates := map[string]interface{}{
		"status": models.SubmissionStatusConfirmed,
	}
	if templateID != "" {
		updates["template_id"] = templateID
	}
	return s.db.Model(&models.SubmissionRecord{}).Where("id = ?", id).Updates(updates).Error
}

// MarkFailed marks a submission as rejected, keeping the raw error payload
func (s *submissionService) MarkFailed(id uint, message, rawDetails string) error {
	return s.db.Model(&models.SubmissionRecord{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      models.SubmissionStatusFailed,
		"message":     message,
		"raw_details": rawDetails,
	}).Error
}

// GetSubmissionByID returns a submission attempt by its id
func (s *submissionService) GetSubmissionByID(id uint) (*models.SubmissionRecord, error) {
	var record models.SubmissionRecord
	if err := s.db.First(&record, id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// ListSubmissions returns all attempts of a session, newest first
func (s *submissionService) ListSubmissions(sessionID string) ([]models.SubmissionRecord, error) {
	var records []models.SubmissionRecord
	err := s.db.Where("session_id = ?", sessionID).Order("created_at DESC").Find(&records).Error
	return records, err
}
