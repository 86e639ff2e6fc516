// Package mocks はテスト用のモック実装を提供します
package mocks

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/shiroemons/go-wadtools/internal/wadtools/fileutil"
)

// MockFileSystem はテスト用のファイルシステムモック
type MockFileSystem struct {
	mu sync.Mutex

	Files map[string][]byte
	Dirs  map[string]bool

	// InvalidPath がtrueを返すパスはファイル名の拒否として扱います
	InvalidPath func(path string) bool

	// WriteErrors はパスごとの書き込みエラー
	WriteErrors map[string]error

	// MkdirErrors はパスごとのディレクトリ作成エラー
	MkdirErrors map[string]error

	Error error

	MkdirCalls []string
	WriteCalls []string
}

// NewMockFileSystem は新しいMockFileSystemを作成します
func NewMockFileSystem() *MockFileSystem {
	return &MockFileSystem{
		Files:       make(map[string][]byte),
		Dirs:        make(map[string]bool),
		WriteErrors: make(map[string]error),
		MkdirErrors: make(map[string]error),
	}
}

// FileExists はファイルが存在するか確認します
func (fs *MockFileSystem) FileExists(filename string) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, exists := fs.Files[filename]
	return exists
}

// WriteFile はファイルを書き込みます
func (fs *MockFileSystem) WriteFile(filename string, data []byte, perm uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.WriteCalls = append(fs.WriteCalls, filename)
	if fs.Error != nil {
		return fs.Error
	}
	if err, ok := fs.WriteErrors[filename]; ok {
		return err
	}
	if fs.InvalidPath != nil && fs.InvalidPath(filename) {
		return fmt.Errorf("%w: %s", fileutil.ErrInvalidFilename, filename)
	}
	fs.Files[filename] = append([]byte(nil), data...)
	return nil
}

// MkdirAll はディレクトリを作成します
func (fs *MockFileSystem) MkdirAll(path string, perm uint32) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.MkdirCalls = append(fs.MkdirCalls, path)
	if fs.Error != nil {
		return fs.Error
	}
	if err, ok := fs.MkdirErrors[path]; ok {
		return err
	}
	if fs.InvalidPath != nil && fs.InvalidPath(path) {
		return fmt.Errorf("%w: %s", fileutil.ErrInvalidFilename, path)
	}
	for p := path; ; p = filepath.Dir(p) {
		fs.Dirs[p] = true
		if filepath.Dir(p) == p {
			break
		}
	}
	return nil
}

// ValidatePath はInvalidPathで拒否されるパスにエラーを返します
func (fs *MockFileSystem) ValidatePath(path string) error {
	if fs.InvalidPath != nil && fs.InvalidPath(path) {
		return fmt.Errorf("%w: %s", fileutil.ErrInvalidFilename, path)
	}
	return nil
}
