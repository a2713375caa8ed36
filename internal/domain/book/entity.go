package book

import (
	"time"
)

// Status 图书馆藏状态
// 设计说明:
// 1. 只有AVAILABLE/UNAVAILABLE两个状态,与借阅状态解耦
// 2. "已被借出"不是馆藏状态,而是从借阅模块派生的事实
//    (图书可能因修复、盘点等与借阅无关的原因下架)
type Status string

const (
	StatusAvailable   Status = "AVAILABLE"   // 可借
	StatusUnavailable Status = "UNAVAILABLE" // 不可借
)

// Valid 判断是否为合法状态值
func (s Status) Valid() bool {
	return s == StatusAvailable || s == StatusUnavailable
}

// Book 图书实体(聚合根)
// DDD设计说明:
// 1. Book是图书聚合的根实体,包含馆藏图书的核心属性
// 2. ID在创建时随机分配且终身不变(稳定的对外引用)
// 3. CategoryID是派生字段,永远等于SubcategoryID解析出的父分类,不允许独立设置
// 4. ImagePath为空字符串表示无封面;非空时封面文件必须存在于AssetStore
// 5. AddedBy记录最近一次创建/更新该记录的操作者(用于追溯,不用于鉴权)
type Book struct {
	ID            uint
	Name          string // 书名
	Publisher     string // 出版社
	ISBN          string // ISBN号(未删除记录中全局唯一)
	Pages         int    // 页数
	ImagePath     string // 封面文件引用,空串表示无封面
	CategoryID    uint   // 父分类ID(派生自SubcategoryID)
	SubcategoryID uint   // 子分类ID
	Status        Status // 馆藏状态
	AddedBy       uint   // 最近操作者用户ID
	CreatedAt     time.Time
	UpdatedAt     time.Time
	DeletedAt     *time.Time // 软删除时间,非空表示已下架归档
}

// NewBook 创建新图书(工厂方法)
// 业务规则:新入馆图书默认UNAVAILABLE,必须经过显式上架操作才可借
// (避免录入即可借的意外默认值)
func NewBook(id uint, name, publisher, isbn string, pages int, categoryID, subcategoryID, addedBy uint) *Book {
	now := time.Now()
	return &Book{
		ID:            id,
		Name:          name,
		Publisher:     publisher,
		ISBN:          isbn,
		Pages:         pages,
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Status:        StatusUnavailable,
		AddedBy:       addedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Recategorize 重新归类(领域行为)
// 业务规则:CategoryID必须与SubcategoryID同步变更,调用方负责先解析父分类
func (b *Book) Recategorize(subcategoryID, categoryID uint) {
	b.SubcategoryID = subcategoryID
	b.CategoryID = categoryID
	b.UpdatedAt = time.Now()
}

// SetStatus 切换馆藏状态(领域行为)
// 返回值表示状态是否实际发生变化(重复设置同一状态是幂等的no-op)
func (b *Book) SetStatus(target Status) bool {
	if b.Status == target {
		return false
	}
	b.Status = target
	b.UpdatedAt = time.Now()
	return true
}

// IsDeleted 判断是否已软删除
func (b *Book) IsDeleted() bool {
	return b.DeletedAt != nil
}

// HasImage 判断是否有封面
func (b *Book) HasImage() bool {
	return b.ImagePath != ""
}

// Stats 馆藏统计
// 对应列表接口返回的各状态数量与总数
type Stats struct {
	Available   int64 // 可借数量
	Unavailable int64 // 不可借数量
	Total       int64 // 未删除总数
}
