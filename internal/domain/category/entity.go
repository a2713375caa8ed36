package category

import (
	"time"
)

// Category 图书父分类实体
type Category struct {
	ID        uint
	Name      string // 分类名称
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Subcategory 图书子分类实体
// 设计说明:子分类必须归属于一个父分类,图书只挂在子分类上,
// 父分类信息由子分类向上派生
type Subcategory struct {
	ID         uint
	Name       string // 子分类名称
	CategoryID uint   // 所属父分类ID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
