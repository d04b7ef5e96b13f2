package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mun-club-api/internal/models"
)

const topicColumns = `id, title, description, created_at, updated_at`

// TopicRepository handles persistence for topics.
type TopicRepository struct {
	db *sqlx.DB
}

// NewTopicRepository creates a new repository instance.
func NewTopicRepository(db *sqlx.DB) *TopicRepository {
	return &TopicRepository{db: db}
}

// List returns all topics, newest first and then by title.
func (r *TopicRepository) List(ctx context.Context) ([]models.Topic, error) {
	const query = `SELECT ` + topicColumns + ` FROM topics ORDER BY created_at DESC, title ASC`
	topics := make([]models.Topic, 0)
	if err := r.db.SelectContext(ctx, &topics, query); err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	return topics, nil
}

// FindByID returns a topic by id. Missing rows surface as sql.ErrNoRows.
func (r *TopicRepository) FindByID(ctx context.Context, id string) (*models.Topic, error) {
	const query = `SELECT ` + topicColumns + ` FROM topics WHERE id = $1`
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, id); err != nil {
		return nil, err
	}
	return &topic, nil
}

// FindByTitle returns the topic whose title matches exactly.
func (r *TopicRepository) FindByTitle(ctx context.Context, title string) (*models.Topic, error) {
	const query = `SELECT ` + topicColumns + ` FROM topics WHERE title = $1 LIMIT 1`
	var topic models.Topic
	if err := r.db.GetContext(ctx, &topic, query, title); err != nil {
		return nil, err
	}
	return &topic, nil
}

// Create persists a new topic.
func (r *TopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.ID == "" {
		topic.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if topic.CreatedAt.IsZero() {
		topic.CreatedAt = now
	}
	topic.UpdatedAt = now

	const query = `INSERT INTO topics (id, title, description, created_at, updated_at) VALUES (:id, :title, :description, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, topic); err != nil {
		return fmt.Errorf("create topic: %w", err)
	}
	return nil
}

// Update modifies a topic.
func (r *TopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	topic.UpdatedAt = time.Now().UTC()
	const query = `UPDATE topics SET title = :title, description = :description, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, topic); err != nil {
		return fmt.Errorf("update topic: %w", err)
	}
	return nil
}

// Delete removes a topic record.
func (r *TopicRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}

// CountDependents returns how many lessons and countries reference the topic.
func (r *TopicRepository) CountDependents(ctx context.Context, id string) (int, error) {
	const query = `SELECT (SELECT COUNT(*) FROM lessons WHERE topic_id = $1) + (SELECT COUNT(*) FROM countries WHERE topic_id = $1)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count topic dependents: %w", err)
	}
	return count, nil
}
