package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/neuronova/neuronova/internal/model"
)

// Common errors for journal repository operations.
var (
	ErrEntryNotFound = errors.New("journal entry not found")
)

// CreateJournalEntry inserts a new journal entry.
func (r *Repository) CreateJournalEntry(ctx context.Context, entry *model.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (id, user_id, title, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.UserID,
		entry.Title,
		entry.Content,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	return nil
}

// GetJournalEntry retrieves a journal entry by ID.
func (r *Repository) GetJournalEntry(ctx context.Context, id string) (*model.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, content, created_at
		FROM journal_entries
		WHERE id = $1
	`

	var entry model.JournalEntry
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Title,
		&entry.Content,
		&entry.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return &entry, nil
}

// ListJournalEntries retrieves a user's journal entries, newest first.
func (r *Repository) ListJournalEntries(ctx context.Context, userID string, limit int) ([]*model.JournalEntry, error) {
	query := `
		SELECT id, user_id, title, content, created_at
		FROM journal_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]*model.JournalEntry, 0)
	for rows.Next() {
		var entry model.JournalEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Title,
			&entry.Content,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal entries: %w", err)
	}

	return entries, nil
}

// DeleteJournalEntry removes a journal entry owned by the given user.
func (r *Repository) DeleteJournalEntry(ctx context.Context, id, userID string) error {
	query := `
		DELETE FROM journal_entries
		WHERE id = $1 AND user_id = $2
	`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}
