package service

import (
	"context"
	"encoding/json"
	"sort"
	"testing"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory fakes. The note repository interprets the same specifications
// the GORM implementation receives, so the service is exercised unchanged.

type fakeStore struct {
	notes      map[uint]*entity.Note
	categories map[uint]*entity.Category
	nextNoteId uint
	nextCatId  uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		notes:      map[uint]*entity.Note{},
		categories: map[uint]*entity.Category{},
		nextNoteId: 1,
		nextCatId:  1,
	}
}

type fakeNoteRepository struct {
	store *fakeStore
}

func (r *fakeNoteRepository) Create(ctx context.Context, note *entity.Note) error {
	note.Id = r.store.nextNoteId
	r.store.nextNoteId++
	stored := *note
	stored.Categories = append([]entity.Category{}, note.Categories...)
	r.store.notes[note.Id] = &stored
	return nil
}

func (r *fakeNoteRepository) ApplyUpdate(ctx context.Context, id uint, fields map[string]interface{}) error {
	note, ok := r.store.notes[id]
	if !ok {
		return nil
	}
	if v, ok := fields["title"]; ok {
		note.Title = v.(string)
	}
	if v, ok := fields["content"]; ok {
		note.Content = v.(string)
	}
	if v, ok := fields["archived"]; ok {
		note.Archived = v.(bool)
	}
	return nil
}

func (r *fakeNoteRepository) Delete(ctx context.Context, id uint) error {
	delete(r.store.notes, id)
	return nil
}

func (r *fakeNoteRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	matches := r.filter(specs...)
	if len(matches) == 0 {
		return nil, nil
	}
	copied := *matches[0]
	copied.Categories = append([]entity.Category{}, matches[0].Categories...)
	return &copied, nil
}

func (r *fakeNoteRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	return r.filter(specs...), nil
}

func (r *fakeNoteRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.filter(specs...))), nil
}

func (r *fakeNoteRepository) AppendCategory(ctx context.Context, noteId uint, category *entity.Category) error {
	note := r.store.notes[noteId]
	note.Categories = append(note.Categories, *category)
	return nil
}

func (r *fakeNoteRepository) RemoveCategory(ctx context.Context, noteId uint, category *entity.Category) error {
	note := r.store.notes[noteId]
	kept := note.Categories[:0]
	for _, c := range note.Categories {
		if c.Id != category.Id {
			kept = append(kept, c)
		}
	}
	note.Categories = kept
	return nil
}

func (r *fakeNoteRepository) filter(specs ...specification.Specification) []*entity.Note {
	var matches []*entity.Note
	orderDesc := false
	for _, note := range r.store.notes {
		matched := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if note.Id != s.ID {
					matched = false
				}
			case specification.ByArchived:
				if note.Archived != s.Archived {
					matched = false
				}
			case specification.ByCategoryName:
				found := false
				for _, c := range note.Categories {
					if c.Name == s.Name {
						found = true
					}
				}
				if !found {
					matched = false
				}
			}
		}
		if matched {
			matches = append(matches, note)
		}
	}
	for _, spec := range specs {
		if s, ok := spec.(specification.OrderBy); ok && s.Field == "created_at" {
			orderDesc = s.Desc
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if orderDesc {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].Id < matches[j].Id
	})
	return matches
}

type fakeCategoryRepository struct {
	store *fakeStore
}

func (r *fakeCategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	category.Id = r.store.nextCatId
	r.store.nextCatId++
	stored := *category
	r.store.categories[category.Id] = &stored
	return nil
}

func (r *fakeCategoryRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Category, error) {
	for _, spec := range specs {
		if s, ok := spec.(specification.ByID); ok {
			if category, exists := r.store.categories[s.ID]; exists {
				copied := *category
				return &copied, nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

func (r *fakeCategoryRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Category, error) {
	var all []*entity.Category
	for _, category := range r.store.categories {
		all = append(all, category)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Id < all[j].Id })
	return all, nil
}

func (r *fakeCategoryRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.categories)), nil
}

type fakeUnitOfWork struct {
	store     *fakeStore
	begun     int
	committed int
	rolled    int
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) error { u.begun++; return nil }
func (u *fakeUnitOfWork) Commit() error                   { u.committed++; return nil }
func (u *fakeUnitOfWork) Rollback() error                 { u.rolled++; return nil }

func (u *fakeUnitOfWork) NoteRepository() contract.NoteRepository {
	return &fakeNoteRepository{store: u.store}
}

func (u *fakeUnitOfWork) CategoryRepository() contract.CategoryRepository {
	return &fakeCategoryRepository{store: u.store}
}

type fakeFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type fakePublisher struct {
	published []events.NoteEvent
}

func (p *fakePublisher) Publish(ctx context.Context, payload []byte) error {
	var evt events.NoteEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return err
	}
	p.published = append(p.published, evt)
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newTestService() (INoteService, *fakeStore, *fakeUnitOfWork, *fakePublisher) {
	store := newFakeStore()
	uow := &fakeUnitOfWork{store: store}
	publisher := &fakePublisher{}
	svc := NewNoteService(&fakeFactory{uow: uow}, publisher, nopLogger{})
	return svc, store, uow, publisher
}

func assertAppErrorCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	appErr, ok := err.(*serverutils.AppError)
	require.True(t, ok, "expected *serverutils.AppError, got %T", err)
	assert.Equal(t, code, appErr.Code)
}

func TestCreateNote(t *testing.T) {
	svc, _, _, publisher := newTestService()
	ctx := context.Background()

	t.Run("defaults to unarchived with no categories", func(t *testing.T) {
		note, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "A", Content: "B"})
		require.NoError(t, err)
		assert.NotZero(t, note.Id)
		assert.False(t, note.Archived)
		assert.Empty(t, note.Categories)
		assert.False(t, note.CreatedAt.IsZero())
	})

	t.Run("publishes a created event", func(t *testing.T) {
		require.NotEmpty(t, publisher.published)
		assert.Equal(t, events.NoteCreated, publisher.published[0].Type)
	})

	t.Run("rejects blank fields", func(t *testing.T) {
		_, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "  ", Content: "B"})
		assertAppErrorCode(t, err, 400)

		_, err = svc.Create(ctx, &dto.CreateNoteRequest{Title: "A", Content: ""})
		assertAppErrorCode(t, err, 400)
	})
}

func TestToggleArchive(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	note, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "A", Content: "B"})
	require.NoError(t, err)

	t.Run("toggling twice is an involution", func(t *testing.T) {
		toggled, err := svc.ToggleArchive(ctx, note.Id)
		require.NoError(t, err)
		assert.True(t, toggled.Archived)

		toggled, err = svc.ToggleArchive(ctx, note.Id)
		require.NoError(t, err)
		assert.False(t, toggled.Archived)
	})

	t.Run("unknown note is not found", func(t *testing.T) {
		_, err := svc.ToggleArchive(ctx, 9999)
		assertAppErrorCode(t, err, 404)
	})
}

func TestUpdateNote(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	note, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "A", Content: "B"})
	require.NoError(t, err)

	t.Run("applies only supplied fields", func(t *testing.T) {
		title := "A2"
		updated, err := svc.Update(ctx, &dto.UpdateNoteRequest{Id: note.Id, Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "A2", updated.Title)
		assert.Equal(t, "B", updated.Content)
	})

	t.Run("rejects supplied blank fields", func(t *testing.T) {
		blank := "   "
		_, err := svc.Update(ctx, &dto.UpdateNoteRequest{Id: note.Id, Content: &blank})
		assertAppErrorCode(t, err, 400)
	})

	t.Run("unknown note is not found and creates nothing", func(t *testing.T) {
		title := "ghost"
		before := len(store.notes)
		_, err := svc.Update(ctx, &dto.UpdateNoteRequest{Id: 9999, Title: &title})
		assertAppErrorCode(t, err, 404)
		assert.Equal(t, before, len(store.notes))
	})
}

func TestDeleteNote(t *testing.T) {
	svc, store, uow, _ := newTestService()
	ctx := context.Background()

	note, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "A", Content: "B"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, note.Id))
	assert.NotContains(t, store.notes, note.Id)
	assert.Equal(t, 1, uow.begun)
	assert.Equal(t, 1, uow.committed)

	// Deleting again is a no-op
	require.NoError(t, svc.Delete(ctx, note.Id))
}

func TestListNotes(t *testing.T) {
	svc, store, _, _ := newTestService()
	ctx := context.Background()

	base := time.Now()
	mk := func(title string, archived bool, age time.Duration, categories ...entity.Category) uint {
		note, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: title, Content: "body"})
		require.NoError(t, err)
		stored := store.notes[note.Id]
		stored.Archived = archived
		stored.CreatedAt = base.Add(-age)
		stored.Categories = categories
		return note.Id
	}

	work := entity.Category{Id: 1, Name: "Work"}
	oldActive := mk("old-active", false, 3*time.Hour, work)
	newActive := mk("new-active", false, 1*time.Hour)
	archived := mk("archived", true, 2*time.Hour, work)

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		notes, err := svc.List(ctx, &dto.ListNotesQuery{})
		require.NoError(t, err)
		require.Len(t, notes, 3)
		assert.Equal(t, newActive, notes[0].Id)
		assert.Equal(t, archived, notes[1].Id)
		assert.Equal(t, oldActive, notes[2].Id)
	})

	t.Run("archived filter splits the lists", func(t *testing.T) {
		isArchived := true
		notes, err := svc.List(ctx, &dto.ListNotesQuery{Archived: &isArchived})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, archived, notes[0].Id)

		isArchived = false
		notes, err = svc.List(ctx, &dto.ListNotesQuery{Archived: &isArchived})
		require.NoError(t, err)
		require.Len(t, notes, 2)
		assert.Equal(t, newActive, notes[0].Id)
		assert.Equal(t, oldActive, notes[1].Id)
	})

	t.Run("category and archived filters are ANDed", func(t *testing.T) {
		isArchived := false
		name := "Work"
		notes, err := svc.List(ctx, &dto.ListNotesQuery{Archived: &isArchived, CategoryName: &name})
		require.NoError(t, err)
		require.Len(t, notes, 1)
		assert.Equal(t, oldActive, notes[0].Id)
	})
}

func TestCategories(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	t.Run("duplicate names are permitted", func(t *testing.T) {
		first, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Work"})
		require.NoError(t, err)
		second, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Work"})
		require.NoError(t, err)
		assert.NotEqual(t, first.Id, second.Id)

		all, err := svc.ListCategories(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		_, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: " "})
		assertAppErrorCode(t, err, 400)
	})
}

func TestAssignCategory(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	note, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "A", Content: "B"})
	require.NoError(t, err)
	category, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)

	t.Run("assigning twice keeps the set deduplicated", func(t *testing.T) {
		tagged, err := svc.AssignCategory(ctx, note.Id, category.Id)
		require.NoError(t, err)
		require.Len(t, tagged.Categories, 1)

		tagged, err = svc.AssignCategory(ctx, note.Id, category.Id)
		require.NoError(t, err)
		require.Len(t, tagged.Categories, 1)
		assert.Equal(t, category.Id, tagged.Categories[0].Id)
	})

	t.Run("unknown note or category is not found", func(t *testing.T) {
		_, err := svc.AssignCategory(ctx, 9999, category.Id)
		assertAppErrorCode(t, err, 404)

		_, err = svc.AssignCategory(ctx, note.Id, 9999)
		assertAppErrorCode(t, err, 404)
	})
}

func TestRemoveCategory(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()

	note, err := svc.Create(ctx, &dto.CreateNoteRequest{Title: "A", Content: "B"})
	require.NoError(t, err)
	work, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Work"})
	require.NoError(t, err)
	idle, err := svc.CreateCategory(ctx, &dto.CreateCategoryRequest{Name: "Idle"})
	require.NoError(t, err)

	_, err = svc.AssignCategory(ctx, note.Id, work.Id)
	require.NoError(t, err)

	t.Run("removes an attached category", func(t *testing.T) {
		res, err := svc.RemoveCategory(ctx, note.Id, work.Id)
		require.NoError(t, err)
		assert.Empty(t, res.Categories)
	})

	t.Run("removing an unattached but existing category is a no-op", func(t *testing.T) {
		res, err := svc.RemoveCategory(ctx, note.Id, idle.Id)
		require.NoError(t, err)
		assert.Empty(t, res.Categories)
	})

	t.Run("category missing globally is not found even if irrelevant to the note", func(t *testing.T) {
		_, err := svc.RemoveCategory(ctx, note.Id, 9999)
		assertAppErrorCode(t, err, 404)
	})

	t.Run("unknown note is not found", func(t *testing.T) {
		_, err := svc.RemoveCategory(ctx, 9999, work.Id)
		assertAppErrorCode(t, err, 404)
	})
}
