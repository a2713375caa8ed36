package category

import (
	"context"

	"github.com/xiebiao/library/internal/domain/category"
)

// ManageCategoriesUseCase 分类维护用例
// 说明:分类是纯CRUD的支撑子域,没有跨聚合编排,用例只做实体→DTO转换
type ManageCategoriesUseCase struct {
	categoryService category.Service
}

// NewManageCategoriesUseCase 创建分类维护用例
func NewManageCategoriesUseCase(categoryService category.Service) *ManageCategoriesUseCase {
	return &ManageCategoriesUseCase{categoryService: categoryService}
}

// CategoryData 父分类DTO
type CategoryData struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// SubcategoryData 子分类DTO
type SubcategoryData struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	CategoryID uint   `json:"category_id"`
}

// CreateCategory 创建父分类
func (uc *ManageCategoriesUseCase) CreateCategory(ctx context.Context, name string) (*CategoryData, error) {
	c, err := uc.categoryService.CreateCategory(ctx, name)
	if err != nil {
		return nil, err
	}
	return &CategoryData{ID: c.ID, Name: c.Name}, nil
}

// CreateSubcategory 在父分类下创建子分类
func (uc *ManageCategoriesUseCase) CreateSubcategory(ctx context.Context, categoryID uint, name string) (*SubcategoryData, error) {
	sc, err := uc.categoryService.CreateSubcategory(ctx, categoryID, name)
	if err != nil {
		return nil, err
	}
	return &SubcategoryData{ID: sc.ID, Name: sc.Name, CategoryID: sc.CategoryID}, nil
}

// ListCategories 查询全部父分类
func (uc *ManageCategoriesUseCase) ListCategories(ctx context.Context) ([]CategoryData, error) {
	categories, err := uc.categoryService.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryData, len(categories))
	for i, c := range categories {
		items[i] = CategoryData{ID: c.ID, Name: c.Name}
	}
	return items, nil
}

// ListSubcategories 查询父分类下的子分类
func (uc *ManageCategoriesUseCase) ListSubcategories(ctx context.Context, categoryID uint) ([]SubcategoryData, error) {
	subcategories, err := uc.categoryService.ListSubcategories(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	items := make([]SubcategoryData, len(subcategories))
	for i, sc := range subcategories {
		items[i] = SubcategoryData{ID: sc.ID, Name: sc.Name, CategoryID: sc.CategoryID}
	}
	return items, nil
}
