package category

import (
	"context"
	"strings"
)

// Service 分类领域服务接口
// 设计说明:Resolve是图书模块依赖的核心能力(子分类→父分类派生),
// 其余是分类自身的维护操作
type Service interface {
	// Resolve 将子分类ID解析为其父分类ID
	// 子分类不存在时返回ErrSubcategoryNotFound
	Resolve(ctx context.Context, subcategoryID uint) (uint, error)

	// CreateCategory 创建父分类
	CreateCategory(ctx context.Context, name string) (*Category, error)

	// CreateSubcategory 在指定父分类下创建子分类
	CreateSubcategory(ctx context.Context, categoryID uint, name string) (*Subcategory, error)

	// ListCategories 查询全部父分类
	ListCategories(ctx context.Context) ([]*Category, error)

	// ListSubcategories 查询指定父分类下的子分类
	ListSubcategories(ctx context.Context, categoryID uint) ([]*Subcategory, error)
}

type service struct {
	repo Repository
}

// NewService 创建分类领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Resolve 子分类→父分类派生
func (s *service) Resolve(ctx context.Context, subcategoryID uint) (uint, error) {
	sc, err := s.repo.FindSubcategoryByID(ctx, subcategoryID)
	if err != nil {
		return 0, err
	}
	return sc.CategoryID, nil
}

// CreateCategory 创建父分类
func (s *service) CreateCategory(ctx context.Context, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	c := &Category{Name: name}
	if err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateSubcategory 创建子分类
// 业务规则:父分类必须存在
func (s *service) CreateSubcategory(ctx context.Context, categoryID uint, name string) (*Subcategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}
	if _, err := s.repo.FindCategoryByID(ctx, categoryID); err != nil {
		return nil, err
	}
	sc := &Subcategory{Name: name, CategoryID: categoryID}
	if err := s.repo.CreateSubcategory(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

// ListCategories 查询全部父分类
func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	return s.repo.ListCategories(ctx)
}

// ListSubcategories 查询指定父分类下的子分类
func (s *service) ListSubcategories(ctx context.Context, categoryID uint) ([]*Subcategory, error) {
	return s.repo.ListSubcategories(ctx, categoryID)
}
