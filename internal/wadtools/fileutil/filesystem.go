package fileutil

import (
	"errors"
	"os"
)

// OSFileSystem は実際のOSファイルシステムを使用する実装
type OSFileSystem struct{}

// NewOSFileSystem は新しいOSFileSystemを作成します
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// FileExists はファイルが存在するか確認します
func (fs *OSFileSystem) FileExists(filename string) bool {
	return FileExists(filename)
}

// WriteFile はファイルを書き込みます
func (fs *OSFileSystem) WriteFile(filename string, data []byte, perm uint32) error {
	return os.WriteFile(filename, data, os.FileMode(perm))
}

// MkdirAll はディレクトリを作成します。既に存在する場合はエラーになりません
func (fs *OSFileSystem) MkdirAll(path string, perm uint32) error {
	return os.MkdirAll(path, os.FileMode(perm))
}

// ValidatePath はパスが現在のプラットフォームで受け付けられるか確認します
func (fs *OSFileSystem) ValidatePath(path string) error {
	return ValidatePath(path)
}

// IsInvalidFilename はエラーがファイル名の拒否によるものか判定します
func IsInvalidFilename(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrInvalidFilename) || errors.Is(err, ErrUnsafePath) {
		return true
	}
	return isInvalidFilenameErrno(err)
}
