package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/repository/specification"
	"notekeeper-be/internal/repository/unitofwork"
	"notekeeper-be/pkg/events"
)

type INoteService interface {
	List(ctx context.Context, query *dto.ListNotesQuery) ([]*dto.NoteResponse, error)
	Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error)
	Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error)
	Delete(ctx context.Context, id uint) error
	ToggleArchive(ctx context.Context, id uint) (*dto.NoteResponse, error)

	CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error)
	ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error)
	AssignCategory(ctx context.Context, noteId, categoryId uint) (*dto.NoteResponse, error)
	RemoveCategory(ctx context.Context, noteId, categoryId uint) (*dto.NoteResponse, error)
}

type noteService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	log              logger.ILogger
}

func NewNoteService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	log logger.ILogger,
) INoteService {
	return &noteService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		log:              log,
	}
}

// List returns notes newest-first, AND-combining the archived and category
// filters when both are present.
func (c *noteService) List(ctx context.Context, query *dto.ListNotesQuery) ([]*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.WithCategories{},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if query.Archived != nil {
		specs = append(specs, specification.ByArchived{Archived: *query.Archived})
	}
	if query.CategoryName != nil {
		specs = append(specs, specification.ByCategoryName{Name: *query.CategoryName})
	}

	notes, err := uow.NoteRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.NoteResponse, 0, len(notes))
	for _, note := range notes {
		res = append(res, toNoteResponse(note))
	}
	return res, nil
}

func (c *noteService) Create(ctx context.Context, req *dto.CreateNoteRequest) (*dto.NoteResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, serverutils.NewValidationError("title must not be empty")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, serverutils.NewValidationError("content must not be empty")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	note := entity.Note{
		Title:      req.Title,
		Content:    req.Content,
		CreatedAt:  time.Now(),
		Categories: []entity.Category{},
	}

	if err := uow.NoteRepository().Create(ctx, &note); err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.NoteEvent{
		Type:       events.NoteCreated,
		NoteId:     note.Id,
		Title:      note.Title,
		OccurredAt: time.Now(),
	})

	return toNoteResponse(&note), nil
}

func (c *noteService) Update(ctx context.Context, req *dto.UpdateNoteRequest) (*dto.NoteResponse, error) {
	fields := map[string]interface{}{}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, serverutils.NewValidationError("title must not be empty")
		}
		fields["title"] = *req.Title
	}
	if req.Content != nil {
		if strings.TrimSpace(*req.Content) == "" {
			return nil, serverutils.NewValidationError("content must not be empty")
		}
		fields["content"] = *req.Content
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findNote(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	if err := uow.NoteRepository().ApplyUpdate(ctx, req.Id, fields); err != nil {
		return nil, err
	}

	updated, err := c.findNote(ctx, uow, req.Id)
	if err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.NoteEvent{
		Type:       events.NoteUpdated,
		NoteId:     note.Id,
		Title:      updated.Title,
		OccurredAt: time.Now(),
	})

	return toNoteResponse(updated), nil
}

// Delete removes the note and its category associations in one
// transaction. Deleting an unknown id is a no-op.
func (c *noteService) Delete(ctx context.Context, id uint) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	if err := uow.NoteRepository().Delete(ctx, id); err != nil {
		uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	c.publishEvent(ctx, events.NoteEvent{
		Type:       events.NoteDeleted,
		NoteId:     id,
		OccurredAt: time.Now(),
	})

	return nil
}

func (c *noteService) ToggleArchive(ctx context.Context, id uint) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findNote(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{"archived": !note.Archived}
	if err := uow.NoteRepository().ApplyUpdate(ctx, id, fields); err != nil {
		return nil, err
	}

	updated, err := c.findNote(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.NoteEvent{
		Type:       events.NoteArchiveToggle,
		NoteId:     id,
		Title:      updated.Title,
		OccurredAt: time.Now(),
	})

	return toNoteResponse(updated), nil
}

func (c *noteService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, serverutils.NewValidationError("name must not be empty")
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	category := entity.Category{
		Name: req.Name,
	}

	if err := uow.CategoryRepository().Create(ctx, &category); err != nil {
		return nil, err
	}

	return toCategoryResponse(&category), nil
}

func (c *noteService) ListCategories(ctx context.Context) ([]*dto.CategoryResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	categories, err := uow.CategoryRepository().FindAll(ctx,
		specification.OrderBy{Field: "id", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.CategoryResponse, 0, len(categories))
	for _, category := range categories {
		res = append(res, toCategoryResponse(category))
	}
	return res, nil
}

// AssignCategory tags a note. Assigning a category the note already has is
// a no-op returning the unchanged note.
func (c *noteService) AssignCategory(ctx context.Context, noteId, categoryId uint) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findNote(ctx, uow, noteId)
	if err != nil {
		return nil, err
	}

	category, err := c.findCategory(ctx, uow, categoryId)
	if err != nil {
		return nil, err
	}

	if note.HasCategory(categoryId) {
		return toNoteResponse(note), nil
	}

	if err := uow.NoteRepository().AppendCategory(ctx, noteId, category); err != nil {
		return nil, err
	}

	updated, err := c.findNote(ctx, uow, noteId)
	if err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.NoteEvent{
		Type:       events.CategoryAssigned,
		NoteId:     noteId,
		CategoryId: categoryId,
		OccurredAt: time.Now(),
	})

	return toNoteResponse(updated), nil
}

// RemoveCategory untags a note. The category must exist globally even when
// it is not attached to the note; removing an unattached category is a
// silent no-op.
func (c *noteService) RemoveCategory(ctx context.Context, noteId, categoryId uint) (*dto.NoteResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	note, err := c.findNote(ctx, uow, noteId)
	if err != nil {
		return nil, err
	}

	category, err := c.findCategory(ctx, uow, categoryId)
	if err != nil {
		return nil, err
	}

	if !note.HasCategory(categoryId) {
		return toNoteResponse(note), nil
	}

	if err := uow.NoteRepository().RemoveCategory(ctx, noteId, category); err != nil {
		return nil, err
	}

	updated, err := c.findNote(ctx, uow, noteId)
	if err != nil {
		return nil, err
	}

	c.publishEvent(ctx, events.NoteEvent{
		Type:       events.CategoryRemoved,
		NoteId:     noteId,
		CategoryId: categoryId,
		OccurredAt: time.Now(),
	})

	return toNoteResponse(updated), nil
}

func (c *noteService) findNote(ctx context.Context, uow unitofwork.UnitOfWork, id uint) (*entity.Note, error) {
	note, err := uow.NoteRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.WithCategories{},
	)
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, serverutils.NewNotFoundError("note not found")
	}
	return note, nil
}

func (c *noteService) findCategory(ctx context.Context, uow unitofwork.UnitOfWork, id uint) (*entity.Category, error) {
	category, err := uow.CategoryRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, serverutils.NewNotFoundError("category not found")
	}
	return category, nil
}

// publishEvent never fails the request; event delivery is auxiliary.
func (c *noteService) publishEvent(ctx context.Context, evt events.NoteEvent) {
	if c.publisherService == nil {
		return
	}

	payload, err := json.Marshal(evt)
	if err != nil {
		c.log.Warn("notes", "failed to marshal note event", map[string]interface{}{"error": err.Error()})
		return
	}
	if err := c.publisherService.Publish(ctx, payload); err != nil {
		c.log.Warn("notes", "failed to publish note event", map[string]interface{}{
			"type":  evt.Type,
			"error": err.Error(),
		})
	}
}

func toNoteResponse(note *entity.Note) *dto.NoteResponse {
	categories := make([]dto.CategoryResponse, 0, len(note.Categories))
	for _, c := range note.Categories {
		categories = append(categories, dto.CategoryResponse{Id: c.Id, Name: c.Name})
	}

	return &dto.NoteResponse{
		Id:         note.Id,
		Title:      note.Title,
		Content:    note.Content,
		Archived:   note.Archived,
		CreatedAt:  note.CreatedAt,
		Categories: categories,
	}
}

func toCategoryResponse(category *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		Id:   category.Id,
		Name: category.Name,
	}
}
