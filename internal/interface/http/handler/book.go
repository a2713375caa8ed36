package handler

import (
	"io"
	"strconv"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/library/internal/application/book"
	"github.com/xiebiao/library/internal/domain/book"
	"github.com/xiebiao/library/internal/interface/http/dto"
	"github.com/xiebiao/library/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	createBookUseCase   *appbook.CreateBookUseCase
	updateBookUseCase   *appbook.UpdateBookUseCase
	getBookUseCase      *appbook.GetBookUseCase
	listBooksUseCase    *appbook.ListBooksUseCase
	deleteBookUseCase   *appbook.DeleteBookUseCase
	changeStatusUseCase *appbook.ChangeStatusUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	createBookUseCase *appbook.CreateBookUseCase,
	updateBookUseCase *appbook.UpdateBookUseCase,
	getBookUseCase *appbook.GetBookUseCase,
	listBooksUseCase *appbook.ListBooksUseCase,
	deleteBookUseCase *appbook.DeleteBookUseCase,
	changeStatusUseCase *appbook.ChangeStatusUseCase,
) *BookHandler {
	return &BookHandler{
		createBookUseCase:   createBookUseCase,
		updateBookUseCase:   updateBookUseCase,
		getBookUseCase:      getBookUseCase,
		listBooksUseCase:    listBooksUseCase,
		deleteBookUseCase:   deleteBookUseCase,
		changeStatusUseCase: changeStatusUseCase,
	}
}

// CreateBook 图书编目
// @Summary      图书编目
// @Description  管理员录入新书,封面通过表单文件字段image上传,新书初始为UNAVAILABLE
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        name formData string true "书名"
// @Param        publisher formData string true "出版社"
// @Param        isbn formData string true "ISBN号"
// @Param        pages formData int true "页数"
// @Param        subcategory_id formData int true "子分类ID"
// @Param        image formData file false "封面图片(JPEG/PNG/GIF,≤5MB)"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      400 {object} response.Response "参数错误/ISBN已存在"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "非管理员"
// @Router       /api/v1/books [post]
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req dto.CreateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	image, err := readImageFile(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.createBookUseCase.Execute(c.Request.Context(), appbook.CreateBookRequest{
		Name:          req.Name,
		Publisher:     req.Publisher,
		ISBN:          req.ISBN,
		Pages:         req.Pages,
		SubcategoryID: req.SubcategoryID,
		Image:         image,
		ActorID:       middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// UpdateBook 更新图书
// @Summary      更新图书
// @Description  管理员整体更新图书信息,ISBN不可变更;传image时整体替换封面
// @Tags         图书
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        name formData string true "书名"
// @Param        publisher formData string true "出版社"
// @Param        pages formData int true "页数"
// @Param        subcategory_id formData int true "子分类ID"
// @Param        image formData file false "新封面图片"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [put]
func (h *BookHandler) UpdateBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	image, err := readImageFile(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.updateBookUseCase.Execute(c.Request.Context(), appbook.UpdateBookRequest{
		ID:            id,
		Name:          req.Name,
		Publisher:     req.Publisher,
		Pages:         req.Pages,
		SubcategoryID: req.SubcategoryID,
		Image:         image,
		ActorID:       middleware.MustGetUserID(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// GetBook 查询单本图书
// @Summary      查询图书
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	result, err := h.getBookUseCase.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  返回全部未删除图书(新→旧)及各馆藏状态统计
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response{data=dto.ListBooksResponse}
// @Router       /api/v1/books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	result, err := h.listBooksUseCase.Execute(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	list := make([]dto.BookResponse, len(result.Books))
	for i := range result.Books {
		list[i] = *toBookResponse(&result.Books[i])
	}

	response.Success(c, &dto.ListBooksResponse{
		List:        list,
		Available:   result.Available,
		Unavailable: result.Unavailable,
		Total:       result.Total,
	})
}

// DeleteBook 删除图书
// @Summary      删除图书
// @Description  软删除;有有效借阅返回40010,处于可借状态返回40011(须先下架)
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /api/v1/books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	if err := h.deleteBookUseCase.Execute(c.Request.Context(), id, middleware.MustGetUserID(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// SetAvailable 图书上架
// @Summary      图书上架
// @Description  切换为可借状态,重复上架幂等成功
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Router       /api/v1/books/{id}/status/available [post]
func (h *BookHandler) SetAvailable(c *gin.Context) {
	h.changeStatus(c, book.StatusAvailable)
}

// SetUnavailable 图书下架
// @Summary      图书下架
// @Description  切换为不可借状态,重复下架幂等成功
// @Tags         图书
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=dto.BookResponse}
// @Router       /api/v1/books/{id}/status/unavailable [post]
func (h *BookHandler) SetUnavailable(c *gin.Context) {
	h.changeStatus(c, book.StatusUnavailable)
}

func (h *BookHandler) changeStatus(c *gin.Context, target book.Status) {
	id, ok := parseBookID(c)
	if !ok {
		return
	}

	result, err := h.changeStatusUseCase.Execute(c.Request.Context(), id, target, middleware.MustGetUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toBookResponse(result))
}

// =========================================
// 辅助函数
// =========================================

// parseBookID 解析路径参数中的图书ID,失败时已写入响应
func parseBookID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.ErrorWithCode(c, apperrors.ErrCodeInvalidParams, "无效的图书ID")
		return 0, false
	}
	return uint(id), true
}

// readImageFile 读取表单中的封面文件,未上传时返回nil
func readImageFile(c *gin.Context) ([]byte, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		// 未携带image字段是合法的(无封面/保留现有封面)
		return nil, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, apperrors.Wrap(err, "读取封面文件失败")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.Wrap(err, "读取封面文件失败")
	}
	return data, nil
}

// toBookResponse 应用层DTO → HTTP响应
func toBookResponse(b *appbook.BookData) *dto.BookResponse {
	return &dto.BookResponse{
		ID:            b.ID,
		Name:          b.Name,
		Publisher:     b.Publisher,
		ISBN:          b.ISBN,
		Pages:         b.Pages,
		ImagePath:     b.ImagePath,
		CategoryID:    b.CategoryID,
		SubcategoryID: b.SubcategoryID,
		Status:        b.Status,
		AddedBy:       b.AddedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
