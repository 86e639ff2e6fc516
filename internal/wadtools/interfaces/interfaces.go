// Package interfaces はwadtoolsコマンドで使用するインターフェースを定義します
package interfaces

import (
	"github.com/shiroemons/go-wadtools/pkg/wad"
)

// FileSystem はファイルシステム操作のインターフェース
type FileSystem interface {
	FileExists(filename string) bool
	WriteFile(filename string, data []byte, perm uint32) error
	MkdirAll(path string, perm uint32) error
	ValidatePath(path string) error
}

// ChunkDecoder はチャンクの展開済みデータを読み出すインターフェース
type ChunkDecoder interface {
	LoadChunkDecompressed(chunk wad.Chunk) ([]byte, error)
}

// PathResolver はパスハッシュをパスに解決するインターフェース
type PathResolver interface {
	ResolvePath(pathHash uint64) string
}

// ProgressReporter は進捗を受け取るインターフェース。fractionは0.0から1.0の値
type ProgressReporter interface {
	Report(fraction float64, message string) error
}

// Logger はログ出力のインターフェース
type Logger interface {
	Printf(format string, a ...any)
	Warnf(format string, a ...any)
}
