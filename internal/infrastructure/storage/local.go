// Package storage 提供封面资产的本地磁盘存储实现
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xiebiao/library/internal/domain/book"
)

// 封面文件存放在<root>/IMAGES/BOOKS/<key>下
const coverSubdir = "IMAGES/BOOKS"

// LocalStore 本地磁盘资产存储
// 实现domain/book.AssetStore接口
// 说明:资产引用(ref)就是相对root的路径,可直接持久化到图书记录里
type LocalStore struct {
	root string
}

// NewLocalStore 创建本地存储,启动时确保目录存在
func NewLocalStore(root string) (*LocalStore, error) {
	dir := filepath.Join(root, coverSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建封面存储目录失败: %w", err)
	}
	return &LocalStore{root: root}, nil
}

// Store 写入封面文件,返回资产引用
// 说明:同key写入是整体覆盖(封面替换时复用图书编号作为key)
func (s *LocalStore) Store(ctx context.Context, key string, data []byte) (string, error) {
	// filepath.Base防止key携带路径分隔符逃出存储目录
	ref := filepath.Join(coverSubdir, filepath.Base(key))
	path := filepath.Join(s.root, ref)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入封面文件失败: %w", err)
	}
	return ref, nil
}

// Delete 删除封面文件
// 约定:文件不存在视为成功(幂等,支持补偿重试)
func (s *LocalStore) Delete(ctx context.Context, ref string) error {
	path := filepath.Join(s.root, coverSubdir, filepath.Base(ref))

	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("删除封面文件失败: %w", err)
	}
	return nil
}

// 编译期断言:LocalStore实现AssetStore
var _ book.AssetStore = (*LocalStore)(nil)
