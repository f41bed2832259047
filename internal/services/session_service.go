package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nftfolio/templatepress/internal/models"
)

const sessionTTL = 30 * time.Minute

// SessionService handles template session persistence
type SessionService interface {
	CreateSession(account, chainKey, collectionName string) (*models.TemplateSession, error)
	GetSession(id string) (*models.TemplateSession, error)
	SaveAttributes(id, schemaName string, attrs []models.SchemaAttribute) error
	DeleteSession(id string) error
}

type sessionService struct {
	db *gorm.DB
}

// NewSessionService creates a new SessionService
func NewSessionService(db *gorm.DB) SessionService {
	return &sessionService{db: db}
}

// CreateSession opens a new template session for an account on a collection
func (s *sessionService) CreateSession(account, chainKey, collectionName string) (*models.TemplateSession, error) {
	session := &models.TemplateSession{
		ID:             uuid.NewString(),
		Account:        account,
		ChainKey:       chainKey,
		CollectionName: collectionName,
		ExpiresAt:      time.Now().Add(sessionTTL),
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession returns a session by id, rejecting expired ones
func (s *sessionService) GetSession(id string) (*models.TemplateSession, error) {
	var session models.TemplateSession
	if err := s.db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, fmt.Errorf("session expired")
	}
	return &session, nil
}

// SaveAttributes persists the session's schema selection and attribute flags.
// A schema change replaces the stored set wholesale.
func (s *sessionService) SaveAttributes(id, schemaName string, attrs []models.SchemaAttribute) error {
	return s.db.Model(&models.TemplateSession{}).Where("id = ?", id).Updates(map[string]interface{}{
		"schema_name": schemaName,
		"attributes":  attrs,
	}).Error
}

// DeleteSession removes a session
func (s *sessionService) DeleteSession(id string) error {
	return s.db.Delete(&models.TemplateSession{}, "id = ?", id).Error
}
