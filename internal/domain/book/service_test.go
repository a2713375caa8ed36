package book

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// =========================================
// 测试替身
// =========================================

// fakeRepo 内存仓储
type fakeRepo struct {
	books     map[uint]*Book
	deleted   map[uint]*Book // 软删除记录,ExistsID仍能看到
	createErr error
	updateErr error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		books:   make(map[uint]*Book),
		deleted: make(map[uint]*Book),
	}
}

func (r *fakeRepo) Create(_ context.Context, b *Book) error {
	if r.createErr != nil {
		return r.createErr
	}
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*Book, error) {
	b, ok := r.books[id]
	if !ok {
		return nil, ErrBookNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *fakeRepo) FindByISBN(_ context.Context, isbn string) (*Book, error) {
	for _, b := range r.books {
		if b.ISBN == isbn {
			cp := *b
			return &cp, nil
		}
	}
	return nil, ErrBookNotFound
}

func (r *fakeRepo) ExistsID(_ context.Context, id uint) (bool, error) {
	if _, ok := r.books[id]; ok {
		return true, nil
	}
	_, ok := r.deleted[id]
	return ok, nil
}

func (r *fakeRepo) LockByID(ctx context.Context, id uint) (*Book, error) {
	return r.FindByID(ctx, id)
}

func (r *fakeRepo) Update(_ context.Context, b *Book) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.books[b.ID]; !ok {
		return ErrBookNotFound
	}
	cp := *b
	r.books[b.ID] = &cp
	return nil
}

func (r *fakeRepo) SoftDelete(_ context.Context, id uint) error {
	b, ok := r.books[id]
	if !ok {
		return ErrBookNotFound
	}
	delete(r.books, id)
	r.deleted[id] = b
	return nil
}

func (r *fakeRepo) ListAll(_ context.Context) ([]*Book, error) {
	list := make([]*Book, 0, len(r.books))
	for _, b := range r.books {
		cp := *b
		list = append(list, &cp)
	}
	return list, nil
}

func (r *fakeRepo) CountByStatus(_ context.Context) (Stats, error) {
	var s Stats
	for _, b := range r.books {
		if b.Status == StatusAvailable {
			s.Available++
		} else {
			s.Unavailable++
		}
		s.Total++
	}
	return s, nil
}

// fakeAssets 内存封面存储,记录删除轨迹
type fakeAssets struct {
	stored    map[string][]byte // ref → 内容
	deleted   []string
	storeErr  error
	deleteErr error
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{stored: make(map[string][]byte)}
}

func (a *fakeAssets) Store(_ context.Context, key string, data []byte) (string, error) {
	if a.storeErr != nil {
		return "", a.storeErr
	}
	ref := "IMAGES/BOOKS/" + key
	a.stored[ref] = data
	return ref, nil
}

func (a *fakeAssets) Delete(_ context.Context, ref string) error {
	if a.deleteErr != nil {
		return a.deleteErr
	}
	delete(a.stored, ref)
	a.deleted = append(a.deleted, ref)
	return nil
}

// fakeAllocator 预设编号序列
type fakeAllocator struct {
	ids []uint
	pos int
}

func (f *fakeAllocator) Allocate() (uint, error) {
	if f.pos >= len(f.ids) {
		// 序列耗尽后循环最后一个(模拟持续撞号)
		return f.ids[len(f.ids)-1], nil
	}
	id := f.ids[f.pos]
	f.pos++
	return id, nil
}

// fakeResolver 子分类→父分类映射
type fakeResolver struct {
	mapping map[uint]uint
	missing error
}

func (f *fakeResolver) Resolve(_ context.Context, subcategoryID uint) (uint, error) {
	cat, ok := f.mapping[subcategoryID]
	if !ok {
		return 0, f.missing
	}
	return cat, nil
}

// fakeLoanGuard 有效借阅守卫
type fakeLoanGuard struct {
	active bool
	err    error
}

func (f *fakeLoanGuard) HasActiveLoan(_ context.Context, _ uint) (bool, error) {
	return f.active, f.err
}

// fakeTx 直通事务
type fakeTx struct{}

func (fakeTx) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var errSubcategoryMissing = errors.New("子分类不存在")

// jpegBytes 合法的JPEG文件头(内容嗅探按前若干字节判断格式)
func jpegBytes() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46, 0x49, 0x46}
}

type fixture struct {
	repo    *fakeRepo
	assets  *fakeAssets
	alloc   *fakeAllocator
	svc     Service
	guard   *fakeLoanGuard
	resolve *fakeResolver
}

func newFixture() *fixture {
	f := &fixture{
		repo:   newFakeRepo(),
		assets: newFakeAssets(),
		alloc:  &fakeAllocator{ids: []uint{1234567}},
		guard:  &fakeLoanGuard{},
		resolve: &fakeResolver{
			mapping: map[uint]uint{12: 3},
			missing: errSubcategoryMissing,
		},
	}
	f.svc = NewService(f.repo, f.alloc, f.assets, f.resolve, f.guard, fakeTx{})
	return f
}

func validInput() CreateBookInput {
	return CreateBookInput{
		Name:          "Go语言实战",
		Publisher:     "人民邮电出版社",
		ISBN:          "9787115428028",
		Pages:         320,
		SubcategoryID: 12,
	}
}

// =========================================
// 编目
// =========================================

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("新书初始为不可借且父分类由子分类派生", func(t *testing.T) {
		f := newFixture()

		b, err := f.svc.Create(ctx, validInput(), 1)
		require.NoError(t, err)

		assert.Equal(t, uint(1234567), b.ID, "编号来自分配器")
		assert.Equal(t, StatusUnavailable, b.Status, "新书必须显式上架")
		assert.Equal(t, uint(3), b.CategoryID, "父分类由子分类解析得出")
		assert.Equal(t, uint(12), b.SubcategoryID)
		assert.Equal(t, uint(1), b.AddedBy)
		assert.Empty(t, b.ImagePath, "未传封面时无资产")
	})

	t.Run("带封面时先写存储再落库", func(t *testing.T) {
		f := newFixture()
		input := validInput()
		input.Image = jpegBytes()

		b, err := f.svc.Create(ctx, input, 1)
		require.NoError(t, err)

		assert.Equal(t, "IMAGES/BOOKS/1234567", b.ImagePath)
		assert.True(t, bytes.Equal(f.assets.stored[b.ImagePath], input.Image))
	})

	t.Run("字段校验失败不触碰任何协作者", func(t *testing.T) {
		f := newFixture()

		cases := []struct {
			name   string
			mutate func(*CreateBookInput)
			want   error
		}{
			{"书名为空", func(in *CreateBookInput) { in.Name = "  " }, ErrNameRequired},
			{"出版社为空", func(in *CreateBookInput) { in.Publisher = "" }, ErrPublisherRequired},
			{"页数非正", func(in *CreateBookInput) { in.Pages = 0 }, ErrInvalidPages},
			{"ISBN为空", func(in *CreateBookInput) { in.ISBN = "" }, ErrISBNRequired},
			{"子分类缺失", func(in *CreateBookInput) { in.SubcategoryID = 0 }, ErrSubcategoryRequired},
		}
		for _, c := range cases {
			input := validInput()
			c.mutate(&input)
			_, err := f.svc.Create(ctx, input, 1)
			assert.ErrorIs(t, err, c.want, c.name)
		}
		assert.Empty(t, f.repo.books, "校验失败不应产生记录")
	})

	t.Run("封面格式与大小校验", func(t *testing.T) {
		f := newFixture()

		input := validInput()
		input.Image = []byte("not an image at all")
		_, err := f.svc.Create(ctx, input, 1)
		assert.ErrorIs(t, err, ErrUnsupportedImage)

		big := make([]byte, maxImageBytes+1)
		copy(big, jpegBytes())
		input.Image = big
		_, err = f.svc.Create(ctx, input, 1)
		assert.ErrorIs(t, err, ErrImageTooLarge)
	})

	t.Run("未删除图书中ISBN重复被拒绝", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Create(ctx, validInput(), 1)
		require.NoError(t, err)

		f.alloc.ids = append(f.alloc.ids, 7654321)
		_, err = f.svc.Create(ctx, validInput(), 1)
		assert.ErrorIs(t, err, ErrISBNDuplicate)
	})

	t.Run("软删除图书的ISBN允许复用", func(t *testing.T) {
		f := newFixture()
		b, err := f.svc.Create(ctx, validInput(), 1)
		require.NoError(t, err)
		require.NoError(t, f.repo.SoftDelete(ctx, b.ID))

		f.alloc.ids = append(f.alloc.ids, 7654321)
		b2, err := f.svc.Create(ctx, validInput(), 1)
		require.NoError(t, err)
		assert.Equal(t, uint(7654321), b2.ID)
	})

	t.Run("子分类不存在时编目失败", func(t *testing.T) {
		f := newFixture()
		input := validInput()
		input.SubcategoryID = 99
		_, err := f.svc.Create(ctx, input, 1)
		assert.ErrorIs(t, err, errSubcategoryMissing)
	})

	t.Run("编号撞号重试后成功", func(t *testing.T) {
		f := newFixture()
		f.repo.deleted[1111111] = &Book{ID: 1111111} // 软删除记录也占号
		f.alloc.ids = []uint{1111111, 2222222}

		b, err := f.svc.Create(ctx, validInput(), 1)
		require.NoError(t, err)
		assert.Equal(t, uint(2222222), b.ID)
	})

	t.Run("编号重试耗尽返回编号耗尽错误", func(t *testing.T) {
		f := newFixture()
		f.repo.books[1111111] = &Book{ID: 1111111}
		f.alloc.ids = []uint{1111111} // 分配器持续返回已占用编号

		_, err := f.svc.Create(ctx, validInput(), 1)
		assert.ErrorIs(t, err, ErrIdentifierExhausted)
	})

	t.Run("封面存储失败时不产生记录", func(t *testing.T) {
		f := newFixture()
		f.assets.storeErr = errors.New("disk full")
		input := validInput()
		input.Image = jpegBytes()

		_, err := f.svc.Create(ctx, input, 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeAssetStoreFailure, apperrors.GetAppError(err).Code)
		assert.Empty(t, f.repo.books)
	})

	t.Run("落库失败时回收已写入的封面", func(t *testing.T) {
		f := newFixture()
		f.repo.createErr = errors.New("db down")
		input := validInput()
		input.Image = jpegBytes()

		_, err := f.svc.Create(ctx, input, 1)
		require.Error(t, err)
		assert.Contains(t, f.assets.deleted, "IMAGES/BOOKS/1234567", "孤儿封面应被回收")
		assert.Empty(t, f.assets.stored)
	})
}

// =========================================
// 更新
// =========================================

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	seed := func(f *fixture, withImage bool) *Book {
		input := validInput()
		if withImage {
			input.Image = jpegBytes()
		}
		b, err := f.svc.Create(ctx, input, 1)
		require.NoError(t, err)
		return b
	}

	updateInput := func() UpdateBookInput {
		return UpdateBookInput{
			Name:          "Go语言实战(第2版)",
			Publisher:     "人民邮电出版社",
			Pages:         360,
			SubcategoryID: 12,
		}
	}

	t.Run("不传封面时保留现有封面", func(t *testing.T) {
		f := newFixture()
		b := seed(f, true)
		oldRef := b.ImagePath

		updated, err := f.svc.Update(ctx, b.ID, updateInput(), 2)
		require.NoError(t, err)

		assert.Equal(t, "Go语言实战(第2版)", updated.Name)
		assert.Equal(t, oldRef, updated.ImagePath, "封面不应变动")
		assert.Equal(t, uint(2), updated.AddedBy, "操作者重新记入")
		assert.Empty(t, f.assets.deleted)
	})

	t.Run("传新封面时整体替换且只留一份资产", func(t *testing.T) {
		f := newFixture()
		b := seed(f, true)
		oldRef := b.ImagePath

		input := updateInput()
		input.Image = append(jpegBytes(), 0x01)

		updated, err := f.svc.Update(ctx, b.ID, input, 2)
		require.NoError(t, err)

		assert.Contains(t, f.assets.deleted, oldRef, "旧封面已删除")
		assert.Len(t, f.assets.stored, 1, "替换后恰好一份资产")
		assert.True(t, bytes.Equal(f.assets.stored[updated.ImagePath], input.Image))
	})

	t.Run("落库失败时回收新封面", func(t *testing.T) {
		f := newFixture()
		b := seed(f, true)

		f.repo.updateErr = errors.New("db down")
		input := updateInput()
		input.Image = append(jpegBytes(), 0x02)

		_, err := f.svc.Update(ctx, b.ID, input, 2)
		require.Error(t, err)
		assert.Empty(t, f.assets.stored, "新封面应被补偿删除")
	})

	t.Run("ISBN不随更新变化", func(t *testing.T) {
		f := newFixture()
		b := seed(f, false)

		updated, err := f.svc.Update(ctx, b.ID, updateInput(), 2)
		require.NoError(t, err)
		assert.Equal(t, b.ISBN, updated.ISBN)
		assert.Equal(t, b.ID, updated.ID, "编号终身不变")
	})

	t.Run("图书不存在返回NotFound", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.Update(ctx, 9999999, updateInput(), 2)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

// =========================================
// 删除
// =========================================

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	seed := func(f *fixture) *Book {
		input := validInput()
		input.Image = jpegBytes()
		b, err := f.svc.Create(ctx, input, 1)
		require.NoError(t, err)
		return b
	}

	t.Run("下架且无借阅的图书删除成功并回收封面", func(t *testing.T) {
		f := newFixture()
		b := seed(f)

		require.NoError(t, f.svc.Delete(ctx, b.ID, 1))

		_, err := f.repo.FindByID(ctx, b.ID)
		assert.ErrorIs(t, err, ErrBookNotFound, "记录已软删除")
		assert.Contains(t, f.assets.deleted, b.ImagePath, "封面已回收")

		exists, _ := f.repo.ExistsID(ctx, b.ID)
		assert.True(t, exists, "软删除记录仍占用编号")
	})

	t.Run("存在有效借阅时拒绝删除", func(t *testing.T) {
		f := newFixture()
		b := seed(f)
		f.guard.active = true

		err := f.svc.Delete(ctx, b.ID, 1)
		assert.ErrorIs(t, err, ErrBookOnLoan)

		_, err = f.repo.FindByID(ctx, b.ID)
		assert.NoError(t, err, "记录保持原状")
	})

	t.Run("可借状态的图书必须先下架", func(t *testing.T) {
		f := newFixture()
		b := seed(f)
		_, err := f.svc.SetAvailable(ctx, b.ID, 1)
		require.NoError(t, err)

		err = f.svc.Delete(ctx, b.ID, 1)
		assert.ErrorIs(t, err, ErrBookAvailable)
	})

	t.Run("同时命中两个守卫时借阅守卫优先", func(t *testing.T) {
		f := newFixture()
		b := seed(f)
		_, err := f.svc.SetAvailable(ctx, b.ID, 1)
		require.NoError(t, err)
		f.guard.active = true

		err = f.svc.Delete(ctx, b.ID, 1)
		assert.ErrorIs(t, err, ErrBookOnLoan, "守卫按固定顺序评估")
	})

	t.Run("封面删除失败时整体失败可重试", func(t *testing.T) {
		f := newFixture()
		b := seed(f)
		f.assets.deleteErr = errors.New("storage unreachable")

		err := f.svc.Delete(ctx, b.ID, 1)
		require.Error(t, err)
		assert.Equal(t, apperrors.ErrCodeAssetStoreFailure, apperrors.GetAppError(err).Code)

		_, err = f.repo.FindByID(ctx, b.ID)
		assert.NoError(t, err, "记录未被删除,可修复存储后重试")

		// 存储恢复后重试成功
		f.assets.deleteErr = nil
		assert.NoError(t, f.svc.Delete(ctx, b.ID, 1))
	})

	t.Run("图书不存在或已删除返回NotFound", func(t *testing.T) {
		f := newFixture()
		b := seed(f)
		require.NoError(t, f.svc.Delete(ctx, b.ID, 1))

		err := f.svc.Delete(ctx, b.ID, 1)
		assert.ErrorIs(t, err, ErrBookNotFound, "重复删除等同删除不存在的图书")
	})
}

// =========================================
// 上下架
// =========================================

func TestService_SetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("上架下架往返", func(t *testing.T) {
		f := newFixture()
		b, err := f.svc.Create(ctx, validInput(), 1)
		require.NoError(t, err)

		up, err := f.svc.SetAvailable(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, up.Status)

		down, err := f.svc.SetUnavailable(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusUnavailable, down.Status)
	})

	t.Run("重复设置同一状态是幂等成功", func(t *testing.T) {
		f := newFixture()
		b, err := f.svc.Create(ctx, validInput(), 1)
		require.NoError(t, err)

		_, err = f.svc.SetUnavailable(ctx, b.ID, 1)
		require.NoError(t, err, "新书已是不可借,再下架仍成功")

		_, err = f.svc.SetAvailable(ctx, b.ID, 1)
		require.NoError(t, err)
		again, err := f.svc.SetAvailable(ctx, b.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, StatusAvailable, again.Status)
	})

	t.Run("图书不存在返回NotFound", func(t *testing.T) {
		f := newFixture()
		_, err := f.svc.SetAvailable(ctx, 9999999, 1)
		assert.ErrorIs(t, err, ErrBookNotFound)
	})
}

// =========================================
// 查询
// =========================================

func TestService_ListAll(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	f.alloc.ids = []uint{1000001, 2000002, 3000003}
	for i, isbn := range []string{"111", "222", "333"} {
		input := validInput()
		input.ISBN = isbn
		b, err := f.svc.Create(ctx, input, 1)
		require.NoError(t, err)
		if i == 0 {
			_, err = f.svc.SetAvailable(ctx, b.ID, 1)
			require.NoError(t, err)
		}
	}

	books, stats, err := f.svc.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, books, 3)
	assert.Equal(t, int64(1), stats.Available)
	assert.Equal(t, int64(2), stats.Unavailable)
	assert.Equal(t, int64(3), stats.Total)
}
