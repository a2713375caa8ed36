package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_StoreAndDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("写入后文件落在封面目录下", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewLocalStore(root)
		require.NoError(t, err)

		ref, err := store.Store(ctx, "1234567", []byte("jpeg-data"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("IMAGES", "BOOKS", "1234567"), ref)

		data, err := os.ReadFile(filepath.Join(root, ref))
		require.NoError(t, err)
		assert.Equal(t, []byte("jpeg-data"), data)
	})

	t.Run("同key写入整体覆盖", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewLocalStore(root)
		require.NoError(t, err)

		_, err = store.Store(ctx, "1234567", []byte("old"))
		require.NoError(t, err)
		ref, err := store.Store(ctx, "1234567", []byte("new"))
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(root, ref))
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), data)
	})

	t.Run("删除后文件消失", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewLocalStore(root)
		require.NoError(t, err)

		ref, err := store.Store(ctx, "1234567", []byte("jpeg-data"))
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, ref))

		_, err = os.Stat(filepath.Join(root, ref))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("删除不存在的文件视为成功", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewLocalStore(root)
		require.NoError(t, err)

		assert.NoError(t, store.Delete(ctx, "IMAGES/BOOKS/9999999"), "补偿重试依赖删除幂等")
	})

	t.Run("key中的路径分隔符不会逃出存储目录", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewLocalStore(root)
		require.NoError(t, err)

		ref, err := store.Store(ctx, "../../etc/passwd", []byte("x"))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join("IMAGES", "BOOKS", "passwd"), ref)
	})
}
