package repositories

import (
	"context"
	"time"

	"prdgen/internal/domain/models"
)

// DocumentRepository persists documents and their version snapshots.
// Documents and snapshots form a single aggregate: a content mutation must
// write both inside one transaction (see TransactionManager).
type DocumentRepository interface {
	// Create inserts a new document row exactly as given (ID, version and
	// timestamps are assigned by the caller).
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document, or domain.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// UpdateContent overwrites content, sets the new version counter and
	// refreshes updated_at. Returns domain.ErrNotFound if the row is absent.
	UpdateContent(ctx context.Context, id, content string, version int, updatedAt time.Time) error

	// Approve marks a document approved and stores the feedback note.
	// Returns false without error when the document was already approved,
	// leaving the stored feedback untouched.
	Approve(ctx context.Context, id, feedback string) (bool, error)

	// ListAll returns all documents, most recently updated first.
	ListAll(ctx context.Context) ([]models.Document, error)

	// ListByKind filters by document kind, same ordering as ListAll.
	ListByKind(ctx context.Context, kind models.Kind) ([]models.Document, error)

	// ListChildren returns the epics whose parent_id matches, same ordering.
	ListChildren(ctx context.Context, parentID string) ([]models.Document, error)

	// ListApproved returns the curated corpus of approved documents,
	// most recently updated first.
	ListApproved(ctx context.Context) ([]models.Document, error)

	// CreateSnapshot appends an immutable version snapshot.
	CreateSnapshot(ctx context.Context, snap *models.Snapshot) error

	// ListSnapshots returns a document's snapshots, most recent version first.
	ListSnapshots(ctx context.Context, documentID string) ([]models.Snapshot, error)

	// Stats returns corpus totals.
	Stats(ctx context.Context) (*models.Stats, error)
}

// ChatSessionRepository persists flushed chat transcripts.
type ChatSessionRepository interface {
	// Create stores a transcript snapshot keyed by document id.
	Create(ctx context.Context, session *models.ChatSession) error

	// ListByDocument returns flushed transcripts for a document, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]models.ChatSession, error)
}
