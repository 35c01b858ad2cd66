package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/neuronova/neuronova/internal/model"
	"github.com/neuronova/neuronova/internal/repository"
)

// Journal errors.
var (
	ErrTitleRequired   = errors.New("title is required")
	ErrContentRequired = errors.New("content is required")
	ErrTitleTooLong    = errors.New("title too long")
	ErrContentTooLong  = errors.New("content too long")
	ErrEntryNotFound   = errors.New("journal entry not found")
)

const (
	maxTitleLength   = 200
	maxContentLength = 10000
)

// JournalStore is the persistence surface the journal service needs.
type JournalStore interface {
	CreateJournalEntry(ctx context.Context, entry *model.JournalEntry) error
	GetJournalEntry(ctx context.Context, id string) (*model.JournalEntry, error)
	ListJournalEntries(ctx context.Context, userID string, limit int) ([]*model.JournalEntry, error)
	DeleteJournalEntry(ctx context.Context, id, userID string) error
}

// JournalService handles journal entries.
type JournalService struct {
	store JournalStore
}

// NewJournalService creates a new JournalService.
func NewJournalService(store JournalStore) *JournalService {
	return &JournalService{store: store}
}

// CreateEntryInput defines input for creating a journal entry.
type CreateEntryInput struct {
	Title   string
	Content string
}

// CreateEntry validates and persists a journal entry.
func (s *JournalService) CreateEntry(ctx context.Context, userID string, input CreateEntryInput) (*model.JournalEntry, error) {
	title := strings.TrimSpace(input.Title)
	content := strings.TrimSpace(input.Content)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if content == "" {
		return nil, ErrContentRequired
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(content) > maxContentLength {
		return nil, ErrContentTooLong
	}

	entry := &model.JournalEntry{
		ID:        ulid.Make().String(),
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateJournalEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("create journal entry: %w", err)
	}
	return entry, nil
}

// GetEntry returns a single journal entry owned by the user. Entries
// owned by other users report not-found.
func (s *JournalService) GetEntry(ctx context.Context, id, userID string) (*model.JournalEntry, error) {
	entry, err := s.store.GetJournalEntry(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("get journal entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// ListEntries returns the user's journal entries, newest first.
func (s *JournalService) ListEntries(ctx context.Context, userID string, limit int) ([]*model.JournalEntry, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	entries, err := s.store.ListJournalEntries(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	return entries, nil
}

// DeleteEntry removes a journal entry owned by the user.
func (s *JournalService) DeleteEntry(ctx context.Context, id, userID string) error {
	if err := s.store.DeleteJournalEntry(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("delete journal entry: %w", err)
	}
	return nil
}
