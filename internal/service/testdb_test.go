package service

import (
	"archive/zip"
	"bytes"
	"context"
	"io/fs"
	"mime/multipart"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"recruit-hub/backend/internal/model"
	"recruit-hub/backend/internal/repository"
	"recruit-hub/backend/pkg/storage"
)

// 最小可被嗅探识别的文件内容
var (
	pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")
	zipBytes = append([]byte("PK\x03\x04"), make([]byte, 64)...)
)

// testEnv 基于内存 SQLite 与临时目录的真实仓储环境
type testEnv struct {
	db    *gorm.DB
	repo  *repository.Repository
	disk  *storage.LocalDisk
	files *attachments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库按连接隔离，固定单连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(model.All()...))

	disk, err := storage.NewLocalDisk(t.TempDir())
	require.NoError(t, err)

	return &testEnv{
		db:    db,
		repo:  repository.NewRepository(db),
		disk:  disk,
		files: newAttachments(disk, zap.NewNop()),
	}
}

func (e *testEnv) department(t *testing.T, name string) *model.Department {
	t.Helper()
	d := &model.Department{Name: name}
	require.NoError(t, e.db.Create(d).Error)
	return d
}

// exists 相对路径对应的文件是否仍在磁盘上
func (e *testEnv) exists(t *testing.T, rel string) bool {
	t.Helper()
	obj, err := e.disk.Open(context.Background(), rel)
	if err != nil {
		return false
	}
	obj.Close()
	return true
}

// fileHeaders 经由真实 multipart 解析得到 FileHeader，顺序与 names 一致
func fileHeaders(t *testing.T, field string, data []byte, names ...string) []*multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for _, name := range names {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	t.Cleanup(func() { req.MultipartForm.RemoveAll() })
	return req.MultipartForm.File[field]
}

// docxBytes 合法的空 zip 容器，按 docx 嗅探
func docxBytes(t *testing.T) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	zw := zip.NewWriter(buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<w:document/>"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// listFiles 递归列出 root 下的全部普通文件
func listFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	return files, err
}
