package book

import (
	"github.com/xiebiao/library/internal/domain/book"
)

// BookData 图书DTO
// 说明:应用层不直接返回领域实体,领域模型变更不影响API契约
type BookData struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Publisher     string `json:"publisher"`
	ISBN          string `json:"isbn"`
	Pages         int    `json:"pages"`
	ImagePath     string `json:"image_path"`
	CategoryID    uint   `json:"category_id"`
	SubcategoryID uint   `json:"subcategory_id"`
	Status        string `json:"status"`
	AddedBy       uint   `json:"added_by"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

// toBookData 领域实体 → DTO
func toBookData(b *book.Book) BookData {
	return BookData{
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
		CreatedAt:     b.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:     b.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
