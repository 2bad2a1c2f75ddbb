package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type CategoryMapper struct{}

func NewCategoryMapper() *CategoryMapper {
	return &CategoryMapper{}
}

func (m *CategoryMapper) ToEntity(c *model.Category) *entity.Category {
	if c == nil {
		return nil
	}

	return &entity.Category{
		Id:   c.Id,
		Name: c.Name,
	}
}

func (m *CategoryMapper) ToModel(c *entity.Category) *model.Category {
	if c == nil {
		return nil
	}

	return &model.Category{
		Id:   c.Id,
		Name: c.Name,
	}
}

func (m *CategoryMapper) ToEntities(models []*model.Category) []*entity.Category {
	entities := make([]*entity.Category, 0, len(models))
	for _, c := range models {
		entities = append(entities, m.ToEntity(c))
	}
	return entities
}

// Value variants are used for the embedded category set on a note, where
// GORM hydrates values rather than pointers.

func (m *CategoryMapper) ToEntitiesValue(models []model.Category) []entity.Category {
	entities := make([]entity.Category, 0, len(models))
	for i := range models {
		entities = append(entities, *m.ToEntity(&models[i]))
	}
	return entities
}

func (m *CategoryMapper) ToModelsValue(entities []entity.Category) []model.Category {
	models := make([]model.Category, 0, len(entities))
	for i := range entities {
		models = append(models, *m.ToModel(&entities[i]))
	}
	return models
}
