package mapper

import (
	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/model"
)

type NoteMapper struct {
	categoryMapper *CategoryMapper
}

func NewNoteMapper() *NoteMapper {
	return &NoteMapper{
		categoryMapper: NewCategoryMapper(),
	}
}

func (m *NoteMapper) ToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	return &entity.Note{
		Id:         n.Id,
		Title:      n.Title,
		Content:    n.Content,
		Archived:   n.Archived,
		CreatedAt:  n.CreatedAt,
		Categories: m.categoryMapper.ToEntitiesValue(n.Categories),
	}
}

func (m *NoteMapper) ToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:         n.Id,
		Title:      n.Title,
		Content:    n.Content,
		Archived:   n.Archived,
		CreatedAt:  n.CreatedAt,
		Categories: m.categoryMapper.ToModelsValue(n.Categories),
	}
}

func (m *NoteMapper) ToEntities(models []*model.Note) []*entity.Note {
	entities := make([]*entity.Note, 0, len(models))
	for _, n := range models {
		entities = append(entities, m.ToEntity(n))
	}
	return entities
}
