package book

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/saga"
)

// 封面图片约束
// 业务规则:只接受常见位图格式,最大5MB(沿用馆藏系统的既有限制)
const maxImageBytes = 5 << 20

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
}

// CreateBookInput 创建图书输入
// 设计说明:逐字段枚举的输入结构,未列出的字段一律不接受
// (取代"请求体整体灌入实体"的mass-assignment模式)
type CreateBookInput struct {
	Name          string
	Publisher     string
	ISBN          string
	Pages         int
	SubcategoryID uint
	Image         []byte // 可选封面,nil表示无封面
}

// UpdateBookInput 更新图书输入
// 说明:ISBN不在其中——编目后ISBN不可变更
type UpdateBookInput struct {
	Name          string
	Publisher     string
	Pages         int
	SubcategoryID uint
	Image         []byte // 可选,nil表示保留现有封面
}

// Service 图书生命周期领域服务接口
// 设计说明:
// 1. 馆藏图书的全部状态迁移规则与删除守卫集中在这里
// 2. 鉴权由接口层的管理员门禁完成,这里只接收操作者ID用于追溯
// 3. 所有写操作在事务内执行read-guard-write,并发时靠行锁串行化
type Service interface {
	// Create 编目新书
	// 业务规则:
	// - 书名/出版社非空,页数>0,ISBN必填且在未删除图书中唯一
	// - 子分类必须存在,父分类由解析结果派生
	// - 编号随机分配并查重,重试耗尽返回ErrIdentifierExhausted
	// - 有封面时先写入存储再落库,存储失败则整个操作中止
	// - 初始状态固定为UNAVAILABLE,需显式上架
	Create(ctx context.Context, input CreateBookInput, actorID uint) (*Book, error)

	// Update 更新图书
	// 业务规则:
	// - 重新校验除ISBN外的全部创建字段,重新解析父分类
	// - 传入新封面时:删旧封面→写新封面→落库,落库失败回收新封面
	// - 未传封面时保留现有封面不动
	// - 操作者重新记入AddedBy
	Update(ctx context.Context, id uint, input UpdateBookInput, actorID uint) (*Book, error)

	// Get 查询单本图书(排除软删除)
	Get(ctx context.Context, id uint) (*Book, error)

	// ListAll 查询全部未删除图书(新→旧)及各状态统计
	ListAll(ctx context.Context) ([]*Book, Stats, error)

	// Delete 删除图书(软删除)
	// 守卫顺序(先命中者生效):
	// 1. 存在有效借阅 → ErrBookOnLoan
	// 2. 状态为AVAILABLE → ErrBookAvailable(必须先下架,强制两步删除)
	// 3. 删除封面资产(如有),再软删除记录
	Delete(ctx context.Context, id uint, actorID uint) error

	// SetAvailable 上架(幂等,无前置守卫)
	SetAvailable(ctx context.Context, id uint, actorID uint) (*Book, error)

	// SetUnavailable 下架(幂等,无前置守卫)
	SetUnavailable(ctx context.Context, id uint, actorID uint) (*Book, error)
}

// service 领域服务实现
type service struct {
	repo       Repository
	ids        IDAllocator
	assets     AssetStore
	categories CategoryResolver
	loans      LoanGuard
	tx         TxRunner
}

// NewService 创建图书领域服务
func NewService(repo Repository, ids IDAllocator, assets AssetStore, categories CategoryResolver, loans LoanGuard, tx TxRunner) Service {
	return &service{
		repo:       repo,
		ids:        ids,
		assets:     assets,
		categories: categories,
		loans:      loans,
		tx:         tx,
	}
}

// Create 编目新书
func (s *service) Create(ctx context.Context, input CreateBookInput, actorID uint) (*Book, error) {
	// 1. 字段校验(不依赖外部协作者的部分先做,尽早失败)
	if err := validateFields(input.Name, input.Publisher, input.Pages, input.SubcategoryID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ISBN) == "" {
		return nil, ErrISBNRequired
	}
	if err := validateImage(input.Image); err != nil {
		return nil, err
	}

	var created *Book
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 2. ISBN唯一性检查(仅针对未删除记录,软删除图书的ISBN允许复用)
		if existing, err := s.repo.FindByISBN(txCtx, input.ISBN); err == nil && existing != nil {
			return ErrISBNDuplicate
		} else if err != nil && !errors.Is(err, ErrBookNotFound) {
			return err
		}

		// 3. 解析父分类(子分类不存在则整个操作失败)
		categoryID, err := s.categories.Resolve(txCtx, input.SubcategoryID)
		if err != nil {
			return err
		}

		// 4. 分配编号(随机抽取+查重,有限次重试)
		id, err := s.allocateID(txCtx)
		if err != nil {
			return err
		}

		b := NewBook(id, strings.TrimSpace(input.Name), strings.TrimSpace(input.Publisher),
			strings.TrimSpace(input.ISBN), input.Pages, categoryID, input.SubcategoryID, actorID)

		// 5. 写入封面(先存储后落库:存储失败时记录不会产生)
		if len(input.Image) > 0 {
			ref, err := s.assets.Store(txCtx, assetKey(id), input.Image)
			if err != nil {
				return apperrors.WrapWithCode(err, apperrors.ErrCodeAssetStoreFailure, "封面存储失败")
			}
			b.ImagePath = ref
		}

		// 6. 持久化;落库失败时回收刚写入的封面,避免孤儿资产
		if err := s.repo.Create(txCtx, b); err != nil {
			if b.HasImage() {
				_ = s.assets.Delete(txCtx, b.ImagePath)
			}
			return err
		}

		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update 更新图书
func (s *service) Update(ctx context.Context, id uint, input UpdateBookInput, actorID uint) (*Book, error) {
	if err := validateFields(input.Name, input.Publisher, input.Pages, input.SubcategoryID); err != nil {
		return nil, err
	}
	if err := validateImage(input.Image); err != nil {
		return nil, err
	}

	var updated *Book
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 行锁加载(与并发的删除/更新串行化),不存在或已删除返回NotFound
		b, err := s.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}

		// 2. 重新解析父分类(子分类可能已变更)
		categoryID, err := s.categories.Resolve(txCtx, input.SubcategoryID)
		if err != nil {
			return err
		}

		b.Name = strings.TrimSpace(input.Name)
		b.Publisher = strings.TrimSpace(input.Publisher)
		b.Pages = input.Pages
		b.Recategorize(input.SubcategoryID, categoryID)
		b.AddedBy = actorID

		// 3. 无新封面:保留现有封面,直接落库
		if len(input.Image) == 0 {
			if err := s.repo.Update(txCtx, b); err != nil {
				return err
			}
			updated = b
			return nil
		}

		// 4. 封面整体替换:删旧→写新→落库
		// 用Saga编排补偿:落库失败时回收新封面,保证替换后恰好存在一份资产
		// (唯一容忍的不一致窗口:旧封面已删、事务未提交时进程崩溃→孤儿资产,由离线清扫兜底)
		oldRef := b.ImagePath
		var newRef string
		sg := saga.NewSaga(10 * time.Second)
		sg.AddStep("删除旧封面",
			func(c context.Context) error {
				if oldRef == "" {
					return nil
				}
				if err := s.assets.Delete(c, oldRef); err != nil {
					return apperrors.WrapWithCode(err, apperrors.ErrCodeAssetStoreFailure, "删除旧封面失败")
				}
				return nil
			},
			nil, // 旧封面无法恢复
		)
		sg.AddStep("写入新封面",
			func(c context.Context) error {
				ref, err := s.assets.Store(c, assetKey(b.ID), input.Image)
				if err != nil {
					return apperrors.WrapWithCode(err, apperrors.ErrCodeAssetStoreFailure, "封面存储失败")
				}
				newRef = ref
				return nil
			},
			func(c context.Context) error {
				return s.assets.Delete(c, newRef)
			},
		)
		sg.AddStep("保存记录",
			func(c context.Context) error {
				b.ImagePath = newRef
				return s.repo.Update(c, b)
			},
			nil,
		)
		if err := sg.Execute(txCtx); err != nil {
			return err
		}

		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Get 查询单本图书
func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAll 查询全部未删除图书及各状态统计
func (s *service) ListAll(ctx context.Context) ([]*Book, Stats, error) {
	books, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, Stats{}, err
	}
	stats, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, Stats{}, err
	}
	return books, stats, nil
}

// Delete 删除图书(软删除)
// 并发说明:两个并发删除在LockByID上串行化,后到者看到已删除的记录,得到NotFound
func (s *service) Delete(ctx context.Context, id uint, actorID uint) error {
	return s.tx.Transaction(ctx, func(txCtx context.Context) error {
		// 1. 行锁加载,守卫在一致快照上评估
		b, err := s.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}

		// 2. 守卫一:有效借阅(已批准或续借中且未归还)优先拒绝
		active, err := s.loans.HasActiveLoan(txCtx, b.ID)
		if err != nil {
			return err
		}
		if active {
			return ErrBookOnLoan
		}

		// 3. 守卫二:可借状态的图书必须先下架(强制两步删除,防误删)
		if b.Status == StatusAvailable {
			return ErrBookAvailable
		}

		// 4. 先删封面再删记录;封面删除失败则整体失败,记录保持原状可重试
		if b.HasImage() {
			if err := s.assets.Delete(txCtx, b.ImagePath); err != nil {
				return apperrors.WrapWithCode(err, apperrors.ErrCodeAssetStoreFailure, "删除封面失败")
			}
		}

		// 5. 软删除(保留全部字段用于审计与误删恢复)
		return s.repo.SoftDelete(txCtx, b.ID)
	})
}

// SetAvailable 上架
func (s *service) SetAvailable(ctx context.Context, id uint, actorID uint) (*Book, error) {
	return s.setStatus(ctx, id, StatusAvailable)
}

// SetUnavailable 下架
func (s *service) SetUnavailable(ctx context.Context, id uint, actorID uint) (*Book, error) {
	return s.setStatus(ctx, id, StatusUnavailable)
}

// setStatus 无条件状态切换,重复设置同一状态是no-op成功
func (s *service) setStatus(ctx context.Context, id uint, target Status) (*Book, error) {
	var b *Book
	err := s.tx.Transaction(ctx, func(txCtx context.Context) error {
		var err error
		b, err = s.repo.LockByID(txCtx, id)
		if err != nil {
			return err
		}
		if !b.SetStatus(target) {
			return nil // 已是目标状态
		}
		return s.repo.Update(txCtx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// allocateID 分配未被占用的编号
// 说明:查重覆盖软删除记录(主键全局唯一),撞号重试上限maxAllocateRetries次
func (s *service) allocateID(ctx context.Context) (uint, error) {
	for i := 0; i < maxAllocateRetries; i++ {
		id, err := s.ids.Allocate()
		if err != nil {
			return 0, apperrors.Wrap(err, "编号生成失败")
		}
		exists, err := s.repo.ExistsID(ctx, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return id, nil
		}
	}
	return 0, ErrIdentifierExhausted
}

// =========================================
// 辅助函数:业务规则校验
// =========================================

// validateFields 创建/更新共用的字段校验
func validateFields(name, publisher string, pages int, subcategoryID uint) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}
	if strings.TrimSpace(publisher) == "" {
		return ErrPublisherRequired
	}
	if pages <= 0 {
		return ErrInvalidPages
	}
	if subcategoryID == 0 {
		return ErrSubcategoryRequired
	}
	return nil
}

// validateImage 封面字节校验
// 说明:用内容嗅探判断格式而非信任文件扩展名,nil表示未上传封面,直接通过
func validateImage(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if len(data) > maxImageBytes {
		return ErrImageTooLarge
	}
	if _, ok := allowedImageTypes[http.DetectContentType(data)]; !ok {
		return ErrUnsupportedImage
	}
	return nil
}

// assetKey 封面资产键:以图书编号命名,编号终身不变,键也稳定
func assetKey(id uint) string {
	return fmt.Sprintf("%d", id)
}
