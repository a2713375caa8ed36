package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appcategory "github.com/xiebiao/library/internal/application/category"
	"github.com/xiebiao/library/internal/interface/http/dto"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// CategoryHandler 分类HTTP处理器
type CategoryHandler struct {
	manageCategoriesUseCase *appcategory.ManageCategoriesUseCase
}

// NewCategoryHandler 创建分类处理器
func NewCategoryHandler(manageCategoriesUseCase *appcategory.ManageCategoriesUseCase) *CategoryHandler {
	return &CategoryHandler{manageCategoriesUseCase: manageCategoriesUseCase}
}

// CreateCategory 创建父分类
// @Summary      创建父分类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateCategoryRequest true "分类信息"
// @Success      200 {object} response.Response{data=dto.CategoryResponse}
// @Failure      400 {object} response.Response "参数错误/名称重复"
// @Router       /api/v1/categories [post]
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageCategoriesUseCase.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.CategoryResponse{ID: result.ID, Name: result.Name})
}

// CreateSubcategory 创建子分类
// @Summary      创建子分类
// @Description  在指定父分类下创建子分类,图书编目时按子分类归类
// @Tags         分类
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "父分类ID"
// @Param        request body dto.CreateSubcategoryRequest true "子分类信息"
// @Success      200 {object} response.Response{data=dto.SubcategoryResponse}
// @Failure      404 {object} response.Response "父分类不存在"
// @Router       /api/v1/categories/{id}/subcategories [post]
func (h *CategoryHandler) CreateSubcategory(c *gin.Context) {
	id, ok := parseCategoryID(c)
	if !ok {
		return
	}

	var req dto.CreateSubcategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.manageCategoriesUseCase.CreateSubcategory(c.Request.Context(), id, req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, &dto.SubcategoryResponse{
		ID:         result.ID,
		Name:       result.Name,
		CategoryID: result.CategoryID,
	})
}

// ListCategories 父分类列表
// @Summary      父分类列表
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=[]dto.CategoryResponse}
// @Router       /api/v1/categories [get]
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	result, err := h.manageCategoriesUseCase.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.CategoryResponse, len(result))
	for i, item := range result {
		items[i] = dto.CategoryResponse{ID: item.ID, Name: item.Name}
	}
	response.Success(c, items)
}

// ListSubcategories 子分类列表
// @Summary      子分类列表
// @Tags         分类
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "父分类ID"
// @Success      200 {object} response.Response{data=[]dto.SubcategoryResponse}
// @Router       /api/v1/categories/{id}/subcategories [get]
func (h *CategoryHandler) ListSubcategories(c *gin.Context) {
	id, ok := parseCategoryID(c)
	if !ok {
		return
	}

	result, err := h.manageCategoriesUseCase.ListSubcategories(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.SubcategoryResponse, len(result))
	for i, item := range result {
		items[i] = dto.SubcategoryResponse{ID: item.ID, Name: item.Name, CategoryID: item.CategoryID}
	}
	response.Success(c, items)
}

// parseCategoryID 解析路径参数中的父分类ID,失败时已写入响应
func parseCategoryID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的分类ID")
		return 0, false
	}
	return uint(id), true
}
