package conversation

import (
	"context"
	"errors"
	"sort"
	"sync"

	"lead-qualifier/internal/models"
)

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrConversationExists   = errors.New("conversation already exists")
)

// Repository stores conversation aggregates. Implementations hand out copies;
// mutating a returned conversation has no effect until Save.
type Repository interface {
	Create(ctx context.Context, conv *models.Conversation) error
	Get(ctx context.Context, id string) (*models.Conversation, error)
	Save(ctx context.Context, conv *models.Conversation) error
	// List returns every conversation ordered by start time.
	List(ctx context.Context) ([]*models.Conversation, error)
}

type MemoryRepository struct {
	mu    sync.RWMutex
	convs map[string]*models.Conversation
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{convs: make(map[string]*models.Conversation)}
}

func (r *MemoryRepository) Create(_ context.Context, conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.convs[conv.ID]; ok {
		return ErrConversationExists
	}
	r.convs[conv.ID] = conv.Clone()
	return nil
}

func (r *MemoryRepository) Get(_ context.Context, id string) (*models.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.convs[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return conv.Clone(), nil
}

func (r *MemoryRepository) Save(_ context.Context, conv *models.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.convs[conv.ID]; !ok {
		return ErrConversationNotFound
	}
	r.convs[conv.ID] = conv.Clone()
	return nil
}

func (r *MemoryRepository) List(_ context.Context) ([]*models.Conversation, error) {
	r.mu.RLock()
	out := make([]*models.Conversation, 0, len(r.convs))
	for _, c := range r.convs {
		out = append(out, c.Clone())
	}
	r.mu.RUnlock()

	sortByStart(out)
	return out, nil
}

func sortByStart(convs []*models.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		if convs[i].StartTime.Equal(convs[j].StartTime) {
			return convs[i].ID < convs[j].ID
		}
		return convs[i].StartTime.Before(convs[j].StartTime)
	})
}
