package controller

import (
	"strconv"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/pkg/serverutils"
	"notekeeper-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type INoteController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	ToggleArchive(ctx *fiber.Ctx) error
	CreateCategory(ctx *fiber.Ctx) error
	ListCategories(ctx *fiber.Ctx) error
	AssignCategory(ctx *fiber.Ctx) error
	RemoveCategory(ctx *fiber.Ctx) error
}

type noteController struct {
	noteService service.INoteService
}

func NewNoteController(noteService service.INoteService) INoteController {
	return &noteController{
		noteService: noteService,
	}
}

func (c *noteController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/notes")
	// Literal "category" routes must be registered before the ":id" routes.
	h.Get("category", c.ListCategories)
	h.Post("category", c.CreateCategory)
	h.Get("", c.List)
	h.Post("", c.Create)
	h.Put(":id/archive", c.ToggleArchive)
	h.Put(":id", c.Update)
	h.Post(":id/category", c.AssignCategory)
	h.Delete(":id/category/:categoryId", c.RemoveCategory)
	h.Delete(":id", c.Delete)
}

func (c *noteController) List(ctx *fiber.Ctx) error {
	query := dto.ListNotesQuery{}

	// The archived filter is matched against the literal "true"; any other
	// value counts as false, absence means no filter at all.
	if raw := ctx.Query("archived"); raw != "" {
		archived := raw == "true"
		query.Archived = &archived
	}
	if category := ctx.Query("category"); category != "" {
		query.CategoryName = &category
	}

	res, err := c.noteService.List(ctx.Context(), &query)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *noteController) Update(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateNoteRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}
	req.Id = id

	res, err := c.noteService.Update(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) Delete(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := c.noteService.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.SendStatus(fiber.StatusNoContent)
}

func (c *noteController) ToggleArchive(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	res, err := c.noteService.ToggleArchive(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) CreateCategory(ctx *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.CreateCategory(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *noteController) ListCategories(ctx *fiber.Ctx) error {
	res, err := c.noteService.ListCategories(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) AssignCategory(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	var req dto.AssignCategoryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return serverutils.NewValidationError("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.noteService.AssignCategory(ctx.Context(), id, req.CategoryId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *noteController) RemoveCategory(ctx *fiber.Ctx) error {
	id, err := parseIdParam(ctx, "id")
	if err != nil {
		return err
	}

	categoryId, err := parseIdParam(ctx, "categoryId")
	if err != nil {
		return err
	}

	res, err := c.noteService.RemoveCategory(ctx.Context(), id, categoryId)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func parseIdParam(ctx *fiber.Ctx, name string) (uint, error) {
	raw := ctx.Params(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, serverutils.NewValidationError("invalid " + name + " parameter")
	}
	return uint(id), nil
}
