package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"prdgen/internal/config"
	"prdgen/internal/domain"
	"prdgen/internal/domain/models"
	"prdgen/internal/domain/repositories"
	"prdgen/internal/domain/services"
)

// documentService implements the DocumentService interface
type documentService struct {
	docRepo   repositories.DocumentRepository
	chatRepo  repositories.ChatSessionRepository
	txManager repositories.TransactionManager
	logger    *slog.Logger
}

// NewDocumentService creates a new document service
func NewDocumentService(
	docRepo repositories.DocumentRepository,
	chatRepo repositories.ChatSessionRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.DocumentService {
	return &documentService{
		docRepo:   docRepo,
		chatRepo:  chatRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create creates a new document at version 1 together with its first
// snapshot. For epics the parent must be an existing product document.
func (s *documentService) Create(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if req.Kind == models.KindEpic {
		if req.ParentID == nil {
			return nil, fmt.Errorf("%w: epic requires a parent product document", domain.ErrValidation)
		}
		parent, err := s.docRepo.GetByID(ctx, *req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: parent document %s does not exist", domain.ErrValidation, *req.ParentID)
		}
		if parent.Kind != models.KindProduct {
			return nil, fmt.Errorf("%w: parent document %s is not a product document", domain.ErrValidation, parent.ID)
		}
	} else if req.ParentID != nil {
		return nil, fmt.Errorf("%w: product documents cannot have a parent", domain.ErrValidation)
	}

	now := time.Now().UTC()
	doc := &models.Document{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(req.Title),
		Content:     req.Content,
		Version:     1,
		Kind:        req.Kind,
		ParentID:    req.ParentID,
		JiraKey:     req.JiraKey,
		Status:      models.StatusDraft,
		SourceInput: req.SourceInput,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Document row and version-1 snapshot commit or roll back together.
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if err := s.docRepo.Create(txCtx, doc); err != nil {
			return err
		}
		return s.docRepo.CreateSnapshot(txCtx, &models.Snapshot{
			ID:         uuid.NewString(),
			DocumentID: doc.ID,
			Version:    1,
			Content:    doc.Content,
			CreatedAt:  now,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"kind", doc.Kind,
		"title", doc.Title,
	)

	return doc, nil
}

// Get retrieves a document by ID
func (s *documentService) Get(ctx context.Context, id string) (*models.Document, error) {
	return s.docRepo.GetByID(ctx, id)
}

// SaveVersion is the sole content-mutation path. The version counter moves
// by exactly one and the snapshot carries the new version and content; a
// failure partway must not leave the two out of sync, so both writes run in
// one transaction.
func (s *documentService) SaveVersion(ctx context.Context, id string, req *services.SaveVersionRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Content, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	var saved *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.docRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		newVersion := doc.Version + 1

		if err := s.docRepo.UpdateContent(txCtx, id, req.Content, newVersion, now); err != nil {
			return err
		}
		if err := s.docRepo.CreateSnapshot(txCtx, &models.Snapshot{
			ID:             uuid.NewString(),
			DocumentID:     id,
			Version:        newVersion,
			Content:        req.Content,
			ChangesSummary: req.ChangesSummary,
			CreatedAt:      now,
		}); err != nil {
			return err
		}

		doc.Content = req.Content
		doc.Version = newVersion
		doc.UpdatedAt = now
		saved = doc
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document version saved", "id", id, "version", saved.Version)

	return saved, nil
}

// Approve marks a document approved. The first call wins; repeated calls
// are no-ops and keep the original feedback.
func (s *documentService) Approve(ctx context.Context, id, feedback string) error {
	if err := validation.Validate(feedback, validation.Length(0, config.MaxFeedbackLength)); err != nil {
		return fmt.Errorf("%w: feedback %v", domain.ErrValidation, err)
	}

	updated, err := s.docRepo.Approve(ctx, id, feedback)
	if err != nil {
		return err
	}
	if !updated {
		// Either already approved (idempotent success) or missing.
		if _, err := s.docRepo.GetByID(ctx, id); err != nil {
			return err
		}
		return nil
	}

	s.logger.Info("document approved", "id", id)

	return nil
}

// ListAll returns all documents, most recently updated first
func (s *documentService) ListAll(ctx context.Context) ([]models.Document, error) {
	return s.docRepo.ListAll(ctx)
}

// ListByKind filters documents by tier
func (s *documentService) ListByKind(ctx context.Context, kind models.Kind) ([]models.Document, error) {
	if kind != models.KindProduct && kind != models.KindEpic {
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kind)
	}
	return s.docRepo.ListByKind(ctx, kind)
}

// ListChildren returns the epics under a product document
func (s *documentService) ListChildren(ctx context.Context, parentID string) ([]models.Document, error) {
	if _, err := s.docRepo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return s.docRepo.ListChildren(ctx, parentID)
}

// ListVersions returns the version history, most recent first
func (s *documentService) ListVersions(ctx context.Context, id string) ([]models.Snapshot, error) {
	if _, err := s.docRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.docRepo.ListSnapshots(ctx, id)
}

// ListApproved returns the curated corpus
func (s *documentService) ListApproved(ctx context.Context) ([]models.Document, error) {
	return s.docRepo.ListApproved(ctx)
}

// Stats returns total/approved/draft counts
func (s *documentService) Stats(ctx context.Context) (*models.Stats, error) {
	return s.docRepo.Stats(ctx)
}

// SaveChatSession flushes a transcript snapshot for a document
func (s *documentService) SaveChatSession(ctx context.Context, documentID string, messages []models.Message) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("%w: transcript is empty", domain.ErrValidation)
	}
	if _, err := s.docRepo.GetByID(ctx, documentID); err != nil {
		return "", err
	}

	session := &models.ChatSession{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Messages:   messages,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.chatRepo.Create(ctx, session); err != nil {
		return "", err
	}

	return session.ID, nil
}

func (s *documentService) validateCreateRequest(req *services.CreateDocumentRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Title,
			validation.Required,
			validation.Length(1, config.MaxTitleLength),
		),
		validation.Field(&req.Content, validation.Required),
		validation.Field(&req.Kind,
			validation.Required,
			validation.In(models.KindProduct, models.KindEpic),
		),
	)
}
