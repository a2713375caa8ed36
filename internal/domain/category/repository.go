package category

import (
	"context"
)

// Repository 分类仓储接口
type Repository interface {
	// CreateCategory 创建父分类
	CreateCategory(ctx context.Context, c *Category) error

	// CreateSubcategory 创建子分类
	CreateSubcategory(ctx context.Context, sc *Subcategory) error

	// FindCategoryByID 根据ID查找父分类
	FindCategoryByID(ctx context.Context, id uint) (*Category, error)

	// FindSubcategoryByID 根据ID查找子分类
	FindSubcategoryByID(ctx context.Context, id uint) (*Subcategory, error)

	// ListCategories 查询全部父分类
	ListCategories(ctx context.Context) ([]*Category, error)

	// ListSubcategories 查询指定父分类下的全部子分类
	ListSubcategories(ctx context.Context, categoryID uint) ([]*Subcategory, error)
}
