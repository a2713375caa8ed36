package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/library/internal/domain/category"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// categoryRepository 分类仓储实现(MySQL)
type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository 创建分类仓储
func NewCategoryRepository(db *gorm.DB) category.Repository {
	return &categoryRepository{db: db}
}

// CreateCategory 创建父分类
func (r *categoryRepository) CreateCategory(ctx context.Context, c *category.Category) error {
	model := &CategoryModel{Name: c.Name}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "分类名称已存在")
		}
		return apperrors.Wrap(err, "创建分类失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt
	return nil
}

// CreateSubcategory 创建子分类
func (r *categoryRepository) CreateSubcategory(ctx context.Context, sc *category.Subcategory) error {
	model := &SubcategoryModel{Name: sc.Name, CategoryID: sc.CategoryID}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建子分类失败")
	}

	sc.ID = model.ID
	sc.CreatedAt = model.CreatedAt
	sc.UpdatedAt = model.UpdatedAt
	return nil
}

// FindCategoryByID 根据ID查找父分类
func (r *categoryRepository) FindCategoryByID(ctx context.Context, id uint) (*category.Category, error) {
	var model CategoryModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询分类失败")
	}

	return toCategoryEntity(&model), nil
}

// FindSubcategoryByID 根据ID查找子分类
func (r *categoryRepository) FindSubcategoryByID(ctx context.Context, id uint) (*category.Subcategory, error) {
	var model SubcategoryModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, category.ErrSubcategoryNotFound
		}
		return nil, apperrors.Wrap(err, "查询子分类失败")
	}

	return toSubcategoryEntity(&model), nil
}

// ListCategories 查询全部父分类
func (r *categoryRepository) ListCategories(ctx context.Context) ([]*category.Category, error) {
	var models []CategoryModel
	if err := getDB(ctx, r.db).Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询分类列表失败")
	}

	categories := make([]*category.Category, len(models))
	for i := range models {
		categories[i] = toCategoryEntity(&models[i])
	}
	return categories, nil
}

// ListSubcategories 查询指定父分类下的全部子分类
func (r *categoryRepository) ListSubcategories(ctx context.Context, categoryID uint) ([]*category.Subcategory, error) {
	var models []SubcategoryModel
	err := getDB(ctx, r.db).
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询子分类列表失败")
	}

	subcategories := make([]*category.Subcategory, len(models))
	for i := range models {
		subcategories[i] = toSubcategoryEntity(&models[i])
	}
	return subcategories, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

func toCategoryEntity(model *CategoryModel) *category.Category {
	return &category.Category{
		ID:        model.ID,
		Name:      model.Name,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toSubcategoryEntity(model *SubcategoryModel) *category.Subcategory {
	return &category.Subcategory{
		ID:         model.ID,
		Name:       model.Name,
		CategoryID: model.CategoryID,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}
