package category

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 分类领域错误定义
var (
	// ErrCategoryNotFound 父分类不存在
	ErrCategoryNotFound = apperrors.New(apperrors.ErrCodeCategoryNotFound, "分类不存在")

	// ErrSubcategoryNotFound 子分类不存在(图书创建/更新时引用了无效子分类)
	ErrSubcategoryNotFound = apperrors.New(apperrors.ErrCodeSubcategoryMissing, "子分类不存在")

	// ErrCategoryNameRequired 分类名称为空
	ErrCategoryNameRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "分类名称不能为空")
)
