package dto

// CreateBookRequest HTTP图书编目请求(multipart/form-data)
// 说明:
// 1. 封面通过表单文件字段image上传,不在此结构中
// 2. 不接受category_id,父分类由子分类派生
// 3. 不接受status,新书固定为UNAVAILABLE,需显式上架
type CreateBookRequest struct {
	Name          string `form:"name" binding:"required,max=200" example:"Go语言实战"`
	Publisher     string `form:"publisher" binding:"required,max=100" example:"人民邮电出版社"`
	ISBN          string `form:"isbn" binding:"required,max=20" example:"9787115428028"`
	Pages         int    `form:"pages" binding:"required,min=1" example:"320"`
	SubcategoryID uint   `form:"subcategory_id" binding:"required" example:"12"`
}

// UpdateBookRequest HTTP图书更新请求(multipart/form-data)
// 说明:无isbn字段,编目后ISBN不可变更;不传image时保留现有封面
type UpdateBookRequest struct {
	Name          string `form:"name" binding:"required,max=200" example:"Go语言实战(第2版)"`
	Publisher     string `form:"publisher" binding:"required,max=100" example:"人民邮电出版社"`
	Pages         int    `form:"pages" binding:"required,min=1" example:"360"`
	SubcategoryID uint   `form:"subcategory_id" binding:"required" example:"12"`
}

// BookResponse HTTP图书响应
type BookResponse struct {
	ID            uint   `json:"id" example:"1234567"`
	Name          string `json:"name" example:"Go语言实战"`
	Publisher     string `json:"publisher" example:"人民邮电出版社"`
	ISBN          string `json:"isbn" example:"9787115428028"`
	Pages         int    `json:"pages" example:"320"`
	ImagePath     string `json:"image_path" example:"IMAGES/BOOKS/1234567"`
	CategoryID    uint   `json:"category_id" example:"3"`
	SubcategoryID uint   `json:"subcategory_id" example:"12"`
	Status        string `json:"status" example:"UNAVAILABLE"`
	AddedBy       uint   `json:"added_by" example:"1"`
	CreatedAt     string `json:"created_at" example:"2024-01-15 10:30:00"`
	UpdatedAt     string `json:"updated_at" example:"2024-01-15 10:30:00"`
}

// ListBooksResponse HTTP图书列表响应
// 列表与各馆藏状态统计一次返回,供管理端总览页渲染
type ListBooksResponse struct {
	List        []BookResponse `json:"list"`
	Available   int64          `json:"available" example:"42"`
	Unavailable int64          `json:"unavailable" example:"7"`
	Total       int64          `json:"total" example:"49"`
}
