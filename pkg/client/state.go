package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type ViewMode string

const (
	ViewModeActive   ViewMode = "active"
	ViewModeArchived ViewMode = "archived"
)

const listCacheTTL = 30 * time.Second

// State mirrors the server's notes and categories for one view. The note
// list is a derived cache keyed by (viewMode, selectedCategory); every
// mutation flushes it so the mirror never diverges from server truth.
type State struct {
	api *Client

	mu               sync.Mutex
	listCache        *gocache.Cache
	notes            []Note
	categories       []Category
	viewMode         ViewMode
	selectedCategory string // empty means no category filter
}

func NewState(api *Client) *State {
	return &State{
		api:       api,
		listCache: gocache.New(listCacheTTL, time.Minute),
		viewMode:  ViewModeActive,
	}
}

func (s *State) Notes() []Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Note, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *State) Categories() []Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *State) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewMode
}

func (s *State) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedCategory
}

// Refresh loads the filtered note list (through the cache) and the full
// category list.
func (s *State) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

func (s *State) SetViewMode(ctx context.Context, mode ViewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewMode = mode
	return s.refreshLocked(ctx)
}

func (s *State) SetSelectedCategory(ctx context.Context, category string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedCategory = category
	return s.refreshLocked(ctx)
}

func (s *State) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	note, err := s.api.CreateNote(ctx, title, content)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCache.Flush()
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *State) UpdateNote(ctx context.Context, id uint, patch NotePatch) (*Note, error) {
	note, err := s.api.UpdateNote(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCache.Flush()
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *State) DeleteNote(ctx context.Context, id uint) error {
	if err := s.api.DeleteNote(ctx, id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCache.Flush()
	return s.refreshLocked(ctx)
}

func (s *State) ToggleArchive(ctx context.Context, id uint) (*Note, error) {
	note, err := s.api.ToggleArchive(ctx, id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCache.Flush()
	if err := s.refreshLocked(ctx); err != nil {
		return nil, err
	}
	return note, nil
}

// SetNoteCategories reconciles the note's category set to the target by
// issuing one assign or remove call per differing id, then patches the
// local mirror from the last server response. A mid-plan failure leaves
// earlier calls applied; no rollback is attempted.
func (s *State) SetNoteCategories(ctx context.Context, noteId uint, target []uint) (*Note, error) {
	s.mu.Lock()
	found := s.findNoteLocked(noteId)
	if found == nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("note %d is not in the current view", noteId)
	}
	local := *found
	current := make([]uint, 0, len(local.Categories))
	for _, c := range local.Categories {
		current = append(current, c.Id)
	}
	s.mu.Unlock()

	plan := BuildReconcilePlan(current, target)
	if plan.Empty() {
		return &local, nil
	}

	var last *Note
	for _, categoryId := range plan.ToAdd {
		note, err := s.api.AssignCategory(ctx, noteId, categoryId)
		if err != nil {
			return nil, err
		}
		last = note
	}
	for _, categoryId := range plan.ToRemove {
		note, err := s.api.RemoveCategory(ctx, noteId, categoryId)
		if err != nil {
			return nil, err
		}
		last = note
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCache.Flush()
	s.patchNoteLocked(*last)
	return last, nil
}

func (s *State) refreshLocked(ctx context.Context) error {
	key := string(s.viewMode) + "|" + s.selectedCategory

	if cached, ok := s.listCache.Get(key); ok {
		s.notes = cached.([]Note)
	} else {
		archived := s.viewMode == ViewModeArchived
		notes, err := s.api.ListNotes(ctx, NotesQuery{
			Archived: &archived,
			Category: s.selectedCategory,
		})
		if err != nil {
			return err
		}
		s.notes = notes
		s.listCache.SetDefault(key, notes)
	}

	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return err
	}
	s.categories = categories
	return nil
}

func (s *State) findNoteLocked(id uint) *Note {
	for i := range s.notes {
		if s.notes[i].Id == id {
			return &s.notes[i]
		}
	}
	return nil
}

func (s *State) patchNoteLocked(note Note) {
	for i := range s.notes {
		if s.notes[i].Id == note.Id {
			s.notes[i] = note
			return
		}
	}
}
