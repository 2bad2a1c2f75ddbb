package dto

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

type AssignCategoryRequest struct {
	CategoryId uint `json:"categoryId" validate:"required"`
}

type CategoryResponse struct {
	Id   uint   `json:"id"`
	Name string `json:"name"`
}
