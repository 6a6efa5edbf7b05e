package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"prdgen/internal/domain"
	"prdgen/internal/domain/models"
	"prdgen/internal/domain/repositories"
)

// PostgresChatSessionRepository implements the ChatSessionRepository
// interface. Transcripts are stored as a JSONB message array.
type PostgresChatSessionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewChatSessionRepository creates a new chat session repository
func NewChatSessionRepository(config *RepositoryConfig) repositories.ChatSessionRepository {
	return &PostgresChatSessionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create stores a transcript snapshot keyed by document id
func (r *PostgresChatSessionRepository) Create(ctx context.Context, session *models.ChatSession) error {
	payload, err := json.Marshal(session.Messages)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, prd_id, messages, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.ChatSessions)

	executor := GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query, session.ID, session.DocumentID, payload, session.CreatedAt)
	if err != nil {
		if IsPgForeignKeyError(err) {
			return fmt.Errorf("document %s: %w", session.DocumentID, domain.ErrNotFound)
		}
		return fmt.Errorf("create chat session: %w", err)
	}

	return nil
}

// ListByDocument returns flushed transcripts for a document, newest first
func (r *PostgresChatSessionRepository) ListByDocument(ctx context.Context, documentID string) ([]models.ChatSession, error) {
	query := fmt.Sprintf(`
		SELECT id, prd_id, messages, created_at
		FROM %s
		WHERE prd_id = $1
		ORDER BY created_at DESC
	`, r.tables.ChatSessions)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list chat sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.ChatSession
	for rows.Next() {
		var session models.ChatSession
		var payload []byte
		if err := rows.Scan(&session.ID, &session.DocumentID, &payload, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat session: %w", err)
		}
		if err := json.Unmarshal(payload, &session.Messages); err != nil {
			return nil, fmt.Errorf("decode transcript: %w", err)
		}
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chat sessions: %w", err)
	}

	return sessions, nil
}
