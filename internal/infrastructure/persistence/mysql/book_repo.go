package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/library/internal/domain/book"
	apperrors "github.com/xiebiao/library/pkg/errors"
)

// bookRepository 图书仓储实现(MySQL)
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 负责domain实体与GORM模型之间的转换
// 3. 所有方法经由getDB取DB,在事务上下文中自动参与事务
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

// Create 创建图书
// 说明:ID由领域服务预先分配,这里原样写入(表已关闭自增)
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 理论上只有主键可能冲突(领域服务已查重),归类为编号冲突
			return apperrors.New(apperrors.ErrCodeDuplicateEntry, "图书编号冲突")
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书(排除软删除)
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// FindByISBN 根据ISBN查找图书(排除软删除)
func (r *bookRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).Where("isbn = ?", isbn).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "查询图书失败")
	}

	return toBookEntity(&model), nil
}

// ExistsID 判断ID是否已被占用
// 说明:Unscoped包含软删除记录,主键是全局的,
// 软删除图书的编号不可复用
func (r *bookRepository) ExistsID(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := getDB(ctx, r.db).Unscoped().Model(&BookModel{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, apperrors.Wrap(err, "查询图书编号失败")
	}
	return count > 0, nil
}

// LockByID 悲观锁查询图书(SELECT FOR UPDATE)
// 注意:必须在事务内调用,否则行锁随语句结束立即释放
func (r *bookRepository) LockByID(ctx context.Context, id uint) (*book.Book, error) {
	var model BookModel
	err := getDB(ctx, r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, book.ErrBookNotFound
		}
		return nil, apperrors.Wrap(err, "锁定图书失败")
	}

	return toBookEntity(&model), nil
}

// Update 更新图书信息
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	model := toBookModel(b)

	// 使用Save更新所有字段
	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		return apperrors.Wrap(err, "更新图书失败")
	}

	b.UpdatedAt = model.UpdatedAt
	return nil
}

// SoftDelete 软删除图书
func (r *bookRepository) SoftDelete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&BookModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}

	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}

	return nil
}

// ListAll 查询全部未删除图书,按创建时间倒序
func (r *bookRepository) ListAll(ctx context.Context) ([]*book.Book, error) {
	var models []BookModel
	err := getDB(ctx, r.db).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(models))
	for i := range models {
		books[i] = toBookEntity(&models[i])
	}
	return books, nil
}

// CountByStatus 统计各馆藏状态的未删除图书数量
func (r *bookRepository) CountByStatus(ctx context.Context) (book.Stats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := getDB(ctx, r.db).Model(&BookModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return book.Stats{}, apperrors.Wrap(err, "统计图书状态失败")
	}

	var stats book.Stats
	for _, row := range rows {
		switch book.Status(row.Status) {
		case book.StatusAvailable:
			stats.Available = row.Count
		case book.StatusUnavailable:
			stats.Unavailable = row.Count
		}
		stats.Total += row.Count
	}
	return stats, nil
}

// =========================================
// 辅助函数:模型转换
// =========================================

// toBookModel 领域实体 → GORM模型
func toBookModel(b *book.Book) *BookModel {
	model := &BookModel{
		ID:            b.ID,
		Name:          b.Name,
		Publisher:     b.Publisher,
		ISBN:          b.ISBN,
		Pages:         b.Pages,
		ImagePath:     b.ImagePath,
		CategoryID:    b.CategoryID,
		SubcategoryID: b.SubcategoryID,
		Status:        string(b.Status),
		AddedBy:       b.AddedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	if b.DeletedAt != nil {
		model.DeletedAt = gorm.DeletedAt{Time: *b.DeletedAt, Valid: true}
	}
	return model
}

// toBookEntity GORM模型 → 领域实体
func toBookEntity(model *BookModel) *book.Book {
	b := &book.Book{
		ID:            model.ID,
		Name:          model.Name,
		Publisher:     model.Publisher,
		ISBN:          model.ISBN,
		Pages:         model.Pages,
		ImagePath:     model.ImagePath,
		CategoryID:    model.CategoryID,
		SubcategoryID: model.SubcategoryID,
		Status:        book.Status(model.Status),
		AddedBy:       model.AddedBy,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
	if model.DeletedAt.Valid {
		t := model.DeletedAt.Time
		b.DeletedAt = &t
	}
	return b
}
