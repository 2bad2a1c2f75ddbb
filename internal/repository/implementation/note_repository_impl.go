package implementation

import (
	"context"
	"errors"

	"notekeeper-be/internal/entity"
	"notekeeper-be/internal/mapper"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/repository/contract"
	"notekeeper-be/internal/repository/specification"

	"gorm.io/gorm"
)

type NoteRepositoryImpl struct {
	db             *gorm.DB
	mapper         *mapper.NoteMapper
	categoryMapper *mapper.CategoryMapper
}

func NewNoteRepository(db *gorm.DB) contract.NoteRepository {
	return &NoteRepositoryImpl{
		db:             db,
		mapper:         mapper.NewNoteMapper(),
		categoryMapper: mapper.NewCategoryMapper(),
	}
}

func (r *NoteRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *NoteRepositoryImpl) Create(ctx context.Context, note *entity.Note) error {
	m := r.mapper.ToModel(note)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*note = *r.mapper.ToEntity(m)
	return nil
}

func (r *NoteRepositoryImpl) ApplyUpdate(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Note{}).Where("id = ?", id).Updates(fields).Error
}

func (r *NoteRepositoryImpl) Delete(ctx context.Context, id uint) error {
	note := model.Note{Id: id}
	// Join rows go first so the row delete never strands associations.
	if err := r.db.WithContext(ctx).Model(&note).Association("Categories").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&note).Error
}

func (r *NoteRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	var m model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *NoteRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Note, error) {
	var models []*model.Note
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *NoteRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Note{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *NoteRepositoryImpl) AppendCategory(ctx context.Context, noteId uint, category *entity.Category) error {
	note := model.Note{Id: noteId}
	c := r.categoryMapper.ToModel(category)
	return r.db.WithContext(ctx).Model(&note).Association("Categories").Append(c)
}

func (r *NoteRepositoryImpl) RemoveCategory(ctx context.Context, noteId uint, category *entity.Category) error {
	note := model.Note{Id: noteId}
	c := r.categoryMapper.ToModel(category)
	return r.db.WithContext(ctx).Model(&note).Association("Categories").Delete(c)
}
