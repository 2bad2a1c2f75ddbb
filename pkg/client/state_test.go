package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is a minimal in-memory stand-in for the REST API that counts
// list fetches and records category assign/remove calls.
type fakeBackend struct {
	mu            sync.Mutex
	listCalls     int
	categoryCalls int
	lastListQuery url.Values
	assigned      []uint
	removed       []uint
	notes         map[uint]*Note
	categories    []Category
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		notes: map[uint]*Note{},
	}
}

func (b *fakeBackend) category(id uint) (Category, bool) {
	for _, c := range b.categories {
		if c.Id == id {
			return c, true
		}
	}
	return Category{}, false
}

func (b *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /notes", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.listCalls++
		b.lastListQuery = r.URL.Query()
		out := make([]*Note, 0, len(b.notes))
		for _, n := range b.notes {
			out = append(out, n)
		}
		json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("GET /notes/category", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.categoryCalls++
		json.NewEncoder(w).Encode(b.categories)
	})

	mux.HandleFunc("POST /notes", func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Title, Content string }
		json.NewDecoder(r.Body).Decode(&req)
		b.mu.Lock()
		defer b.mu.Unlock()
		note := &Note{Id: uint(len(b.notes) + 1), Title: req.Title, Content: req.Content, CreatedAt: time.Now(), Categories: []Category{}}
		b.notes[note.Id] = note
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(note)
	})

	mux.HandleFunc("POST /notes/{id}/category", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		var req struct {
			CategoryId uint `json:"categoryId"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		b.mu.Lock()
		defer b.mu.Unlock()
		b.assigned = append(b.assigned, req.CategoryId)
		note := b.notes[uint(id)]
		if c, ok := b.category(req.CategoryId); ok {
			note.Categories = append(note.Categories, c)
		}
		json.NewEncoder(w).Encode(note)
	})

	mux.HandleFunc("DELETE /notes/{id}/category/{categoryId}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.Atoi(r.PathValue("id"))
		categoryId, _ := strconv.Atoi(r.PathValue("categoryId"))

		b.mu.Lock()
		defer b.mu.Unlock()
		b.removed = append(b.removed, uint(categoryId))
		note := b.notes[uint(id)]
		kept := note.Categories[:0]
		for _, c := range note.Categories {
			if c.Id != uint(categoryId) {
				kept = append(kept, c)
			}
		}
		note.Categories = kept
		json.NewEncoder(w).Encode(note)
	})

	return mux
}

func newTestState(t *testing.T, backend *fakeBackend) *State {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)
	return NewState(New(srv.URL))
}

func TestRefreshCachesTheNoteList(t *testing.T) {
	backend := newFakeBackend()
	state := newTestState(t, backend)
	ctx := context.Background()

	require.NoError(t, state.Refresh(ctx))
	require.NoError(t, state.Refresh(ctx))

	// Second refresh hits the list cache; the category list is always live.
	assert.Equal(t, 1, backend.listCalls)
	assert.Equal(t, 2, backend.categoryCalls)
	assert.Equal(t, "false", backend.lastListQuery.Get("archived"))
}

func TestViewChangesRefetch(t *testing.T) {
	backend := newFakeBackend()
	state := newTestState(t, backend)
	ctx := context.Background()

	require.NoError(t, state.Refresh(ctx))
	require.NoError(t, state.SetViewMode(ctx, ViewModeArchived))
	assert.Equal(t, 2, backend.listCalls)
	assert.Equal(t, "true", backend.lastListQuery.Get("archived"))

	require.NoError(t, state.SetSelectedCategory(ctx, "Work"))
	assert.Equal(t, 3, backend.listCalls)
	assert.Equal(t, "Work", backend.lastListQuery.Get("category"))
}

func TestMutationInvalidatesTheCache(t *testing.T) {
	backend := newFakeBackend()
	state := newTestState(t, backend)
	ctx := context.Background()

	require.NoError(t, state.Refresh(ctx))
	assert.Equal(t, 1, backend.listCalls)

	note, err := state.CreateNote(ctx, "A", "B")
	require.NoError(t, err)
	assert.NotZero(t, note.Id)

	// The post-mutation refresh must bypass the still-fresh cache entry.
	assert.Equal(t, 2, backend.listCalls)
	assert.Len(t, state.Notes(), 1)
}

func TestSetNoteCategoriesReconciles(t *testing.T) {
	backend := newFakeBackend()
	backend.categories = []Category{{Id: 1, Name: "A"}, {Id: 2, Name: "B"}, {Id: 3, Name: "C"}}
	backend.notes[1] = &Note{
		Id: 1, Title: "n", Content: "c", CreatedAt: time.Now(),
		Categories: []Category{{Id: 1, Name: "A"}, {Id: 2, Name: "B"}},
	}
	state := newTestState(t, backend)
	ctx := context.Background()

	require.NoError(t, state.Refresh(ctx))

	note, err := state.SetNoteCategories(ctx, 1, []uint{2, 3})
	require.NoError(t, err)

	assert.Equal(t, []uint{3}, backend.assigned)
	assert.Equal(t, []uint{1}, backend.removed)

	ids := make([]uint, 0, len(note.Categories))
	for _, c := range note.Categories {
		ids = append(ids, c.Id)
	}
	assert.ElementsMatch(t, []uint{2, 3}, ids)

	// Local mirror patched in place from the last server response.
	local := state.Notes()[0]
	assert.Len(t, local.Categories, 2)
}

func TestSetNoteCategoriesNoop(t *testing.T) {
	backend := newFakeBackend()
	backend.categories = []Category{{Id: 1, Name: "A"}}
	backend.notes[1] = &Note{
		Id: 1, Title: "n", Content: "c", CreatedAt: time.Now(),
		Categories: []Category{{Id: 1, Name: "A"}},
	}
	state := newTestState(t, backend)
	ctx := context.Background()

	require.NoError(t, state.Refresh(ctx))

	_, err := state.SetNoteCategories(ctx, 1, []uint{1})
	require.NoError(t, err)
	assert.Empty(t, backend.assigned)
	assert.Empty(t, backend.removed)
}

func TestAPIErrorDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]interface{}{"code": 404, "message": "note not found"})
	}))
	defer srv.Close()

	api := New(srv.URL)
	_, err := api.ToggleArchive(context.Background(), 42)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "note not found", apiErr.Message)
}
