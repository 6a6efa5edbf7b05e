package services

import (
	"context"

	"prdgen/internal/domain/models"
)

// DocumentService handles document store business logic
type DocumentService interface {
	// Create creates a new document at version 1 together with its first
	// snapshot. Epics must reference an existing product document.
	Create(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)

	// Get retrieves a document by ID
	Get(ctx context.Context, id string) (*models.Document, error)

	// SaveVersion overwrites the document content, increments the version
	// counter by exactly one and appends a matching snapshot. The document
	// row and the snapshot commit or roll back together.
	SaveVersion(ctx context.Context, id string, req *SaveVersionRequest) (*models.Document, error)

	// Approve marks a document as part of the curated corpus. Idempotent:
	// a second call is a no-op and does not overwrite the stored feedback.
	Approve(ctx context.Context, id, feedback string) error

	// ListAll returns all documents, most recently updated first
	ListAll(ctx context.Context) ([]models.Document, error)

	// ListByKind filters documents by tier
	ListByKind(ctx context.Context, kind models.Kind) ([]models.Document, error)

	// ListChildren returns the epics under a product document
	ListChildren(ctx context.Context, parentID string) ([]models.Document, error)

	// ListVersions returns the version history, most recent first
	ListVersions(ctx context.Context, id string) ([]models.Snapshot, error)

	// ListApproved returns the approved corpus
	ListApproved(ctx context.Context) ([]models.Document, error)

	// Stats returns total/approved/draft counts
	Stats(ctx context.Context) (*models.Stats, error)

	// SaveChatSession flushes a session transcript for a document and
	// returns the new chat session id
	SaveChatSession(ctx context.Context, documentID string, messages []models.Message) (string, error)
}

// CreateDocumentRequest represents a document creation request
type CreateDocumentRequest struct {
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	SourceInput string      `json:"source_input"`
	Kind        models.Kind `json:"kind"`
	ParentID    *string     `json:"parent_id,omitempty"`
	JiraKey     *string     `json:"jira_key,omitempty"`
}

// SaveVersionRequest represents an explicit save of new content
type SaveVersionRequest struct {
	Content        string `json:"content"`
	ChangesSummary string `json:"changes_summary,omitempty"`
}
