package dto

// CreateCategoryRequest HTTP创建父分类请求
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"计算机"`
}

// CreateSubcategoryRequest HTTP创建子分类请求
type CreateSubcategoryRequest struct {
	Name string `json:"name" binding:"required,max=100" example:"编程语言"`
}

// CategoryResponse HTTP父分类响应
type CategoryResponse struct {
	ID   uint   `json:"id" example:"3"`
	Name string `json:"name" example:"计算机"`
}

// SubcategoryResponse HTTP子分类响应
type SubcategoryResponse struct {
	ID         uint   `json:"id" example:"12"`
	Name       string `json:"name" example:"编程语言"`
	CategoryID uint   `json:"category_id" example:"3"`
}
