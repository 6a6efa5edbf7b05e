package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"prdgen/internal/domain"
	"prdgen/internal/domain/models"
	"prdgen/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const documentColumns = `id, title, content, version, kind, parent_id, jira_key, status, is_approved, feedback, source_input, created_at, updated_at`

// Create inserts a new document row
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, r.tables.Documents, documentColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		doc.ID,
		doc.Title,
		doc.Content,
		doc.Version,
		doc.Kind,
		doc.ParentID,
		doc.JiraKey,
		doc.Status,
		doc.IsApproved,
		doc.Feedback,
		doc.SourceInput,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("%w: parent document %v does not exist", domain.ErrValidation, doc.ParentID)
		}
		return fmt.Errorf("create document: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1
	`, documentColumns, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return doc, nil
}

// UpdateContent overwrites content and bumps the version counter
func (r *PostgresDocumentRepository) UpdateContent(ctx context.Context, id, content string, version int, updatedAt time.Time) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET content = $1, version = $2, updated_at = $3
		WHERE id = $4
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, content, version, updatedAt, id)
	if err != nil {
		return fmt.Errorf("update document content: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// Approve marks a document approved. The is_approved guard makes the
// transition one-way: a second call matches no row and the stored feedback
// survives.
func (r *PostgresDocumentRepository) Approve(ctx context.Context, id, feedback string) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET is_approved = TRUE, status = $1, feedback = $2
		WHERE id = $3 AND is_approved = FALSE
	`, r.tables.Documents)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, models.StatusApproved, feedback, id)
	if err != nil {
		return false, fmt.Errorf("approve document: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// ListAll returns all documents, most recently updated first
func (r *PostgresDocumentRepository) ListAll(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		ORDER BY updated_at DESC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query)
}

// ListByKind filters documents by tier
func (r *PostgresDocumentRepository) ListByKind(ctx context.Context, kind models.Kind) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE kind = $1
		ORDER BY updated_at DESC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, kind)
}

// ListChildren returns the epics under a product document
func (r *PostgresDocumentRepository) ListChildren(ctx context.Context, parentID string) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE parent_id = $1
		ORDER BY updated_at DESC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query, parentID)
}

// ListApproved returns the curated corpus
func (r *PostgresDocumentRepository) ListApproved(ctx context.Context) ([]models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE is_approved = TRUE
		ORDER BY updated_at DESC
	`, documentColumns, r.tables.Documents)

	return r.queryDocuments(ctx, query)
}

// CreateSnapshot appends an immutable version snapshot
func (r *PostgresDocumentRepository) CreateSnapshot(ctx context.Context, snap *models.Snapshot) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, prd_id, version, content, changes_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		snap.ID,
		snap.DocumentID,
		snap.Version,
		snap.Content,
		snap.ChangesSummary,
		snap.CreatedAt,
	)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", snap.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create snapshot: %w", err)
	}

	return nil
}

// ListSnapshots returns a document's version history, most recent first
func (r *PostgresDocumentRepository) ListSnapshots(ctx context.Context, documentID string) ([]models.Snapshot, error) {
	query := fmt.Sprintf(`
		SELECT id, prd_id, version, content, changes_summary, created_at
		FROM %s
		WHERE prd_id = $1
		ORDER BY version DESC
	`, r.tables.Versions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		err := rows.Scan(
			&snap.ID,
			&snap.DocumentID,
			&snap.Version,
			&snap.Content,
			&snap.ChangesSummary,
			&snap.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// Stats returns total/approved/draft counts
func (r *PostgresDocumentRepository) Stats(ctx context.Context) (*models.Stats, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_approved)
		FROM %s
	`, r.tables.Documents)

	var stats models.Stats
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query).Scan(&stats.Total, &stats.Approved); err != nil {
		return nil, fmt.Errorf("document stats: %w", err)
	}
	stats.Drafts = stats.Total - stats.Approved

	return &stats, nil
}

func (r *PostgresDocumentRepository) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]models.Document, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, *doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}

	return documents, nil
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	var doc models.Document
	err := row.Scan(
		&doc.ID,
		&doc.Title,
		&doc.Content,
		&doc.Version,
		&doc.Kind,
		&doc.ParentID,
		&doc.JiraKey,
		&doc.Status,
		&doc.IsApproved,
		&doc.Feedback,
		&doc.SourceInput,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
