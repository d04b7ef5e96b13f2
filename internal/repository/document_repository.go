package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mun-club-api/internal/models"
)

const documentColumns = `id, country_id, topic_id, uri, name, created_by, created_at`

// DocumentRepository persists delegation reference links.
type DocumentRepository struct {
	db *sqlx.DB
}

// NewDocumentRepository creates a new repository instance.
func NewDocumentRepository(db *sqlx.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// FindByID returns a document. Missing rows surface as sql.ErrNoRows.
func (r *DocumentRepository) FindByID(ctx context.Context, id string) (*models.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	var doc models.Document
	if err := r.db.GetContext(ctx, &doc, query, id); err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByCountry returns a country's documents, oldest first.
func (r *DocumentRepository) ListByCountry(ctx context.Context, countryID string) ([]models.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE country_id = $1 ORDER BY created_at ASC, id ASC`
	docs := make([]models.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, query, countryID); err != nil {
		return nil, fmt.Errorf("list country documents: %w", err)
	}
	return docs, nil
}

// ListByTopic returns every document attached under the topic, oldest first.
func (r *DocumentRepository) ListByTopic(ctx context.Context, topicID string) ([]models.Document, error) {
	const query = `SELECT ` + documentColumns + ` FROM documents WHERE topic_id = $1 ORDER BY created_at ASC, id ASC`
	docs := make([]models.Document, 0)
	if err := r.db.SelectContext(ctx, &docs, query, topicID); err != nil {
		return nil, fmt.Errorf("list topic documents: %w", err)
	}
	return docs, nil
}

// Create persists a document.
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO documents (id, country_id, topic_id, uri, name, created_by, created_at) VALUES (:id, :country_id, :topic_id, :uri, :name, :created_by, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, doc); err != nil {
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// Delete removes a document.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
