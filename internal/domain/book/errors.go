package book

import (
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 图书领域错误定义
var (
	// ErrBookNotFound 图书不存在(含已软删除的情况)
	ErrBookNotFound = apperrors.New(apperrors.ErrCodeBookNotFound, "图书不存在")

	// ErrISBNDuplicate ISBN已被未删除的图书占用
	ErrISBNDuplicate = apperrors.New(apperrors.ErrCodeISBNDuplicate, "ISBN号已存在")

	// ErrBookOnLoan 图书有未归还的有效借阅,禁止删除
	ErrBookOnLoan = apperrors.New(apperrors.ErrCodeBookOnLoan, "图书已被借出，无法删除")

	// ErrBookAvailable 图书处于可借状态,必须先下架才能删除
	ErrBookAvailable = apperrors.New(apperrors.ErrCodeBookAvailable, "图书处于可借状态，无法删除")

	// ErrIdentifierExhausted 编号分配重试耗尽(持续撞号)
	ErrIdentifierExhausted = apperrors.New(apperrors.ErrCodeIdentifierExhausted, "图书编号分配失败，请重试")

	// 字段校验错误
	ErrNameRequired        = apperrors.New(apperrors.ErrCodeInvalidParams, "书名不能为空")
	ErrPublisherRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "出版社不能为空")
	ErrISBNRequired        = apperrors.New(apperrors.ErrCodeInvalidParams, "ISBN不能为空")
	ErrInvalidPages        = apperrors.New(apperrors.ErrCodeInvalidParams, "页数必须大于0")
	ErrSubcategoryRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "子分类不能为空")
	ErrImageTooLarge       = apperrors.New(apperrors.ErrCodeInvalidParams, "封面图片超过5MB大小限制")
	ErrUnsupportedImage    = apperrors.New(apperrors.ErrCodeInvalidParams, "封面图片格式不支持(仅限JPEG/PNG/GIF)")
)
