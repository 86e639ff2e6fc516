// Package fileutil はファイル操作とチャンクパスのユーティリティ関数を提供します
package fileutil

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	// HashtableDirEnv はハッシュテーブルの既定ディレクトリを指定する環境変数
	HashtableDirEnv = "WADTOOLS_HASHTABLE_DIR"

	// ellipsis は省略記号
	ellipsis = "…"
)

var (
	// HexChunkNamePattern は未解決のチャンク名（16桁の16進数）のパターン
	HexChunkNamePattern = regexp.MustCompile(`^[0-9a-fA-F]{16}$`)

	// HashtableFilePattern はハッシュテーブルファイルのパターン
	HashtableFilePattern = regexp.MustCompile(`(?i)\.txt$`)
)

// FileExists はファイルが存在するか確認します
func FileExists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

// FormatChunkPathHash はパスハッシュを16桁の小文字16進数に変換します
func FormatChunkPathHash(pathHash uint64) string {
	return fmt.Sprintf("%016x", pathHash)
}

// IsHexChunkPath はパスのファイル名部分が未解決のハッシュ名（16桁の16進数）か判定します
func IsHexChunkPath(chunkPath string) bool {
	return HexChunkNamePattern.MatchString(path.Base(chunkPath))
}

// HasExtension はファイル名が拡張子を持つか判定します。先頭のドットは拡張子とみなしません
func HasExtension(chunkPath string) bool {
	base := path.Base(chunkPath)
	return strings.LastIndexByte(base, '.') > 0
}

// TruncateMiddle は表示用に文字列の中央を省略して最大maxRunes文字にします
func TruncateMiddle(s string, maxRunes int) string {
	if maxRunes <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxRunes {
		return s
	}
	if maxRunes == 1 {
		return ellipsis
	}

	runes := []rune(s)
	keep := maxRunes - 1
	head := keep / 2
	tail := keep - head
	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}

// SafeJoin はbaseとtargetを結合し、結果がbaseの外に出ないことを確認します
func SafeJoin(base, target string) (string, error) {
	cleanBase := filepath.Clean(base)
	cleanTarget := filepath.Clean(filepath.FromSlash(target))

	if filepath.IsAbs(cleanTarget) {
		cleanTarget = strings.TrimPrefix(cleanTarget, filepath.VolumeName(cleanTarget))
		cleanTarget = strings.TrimLeft(cleanTarget, string(os.PathSeparator))
	}

	joined := filepath.Clean(filepath.Join(cleanBase, cleanTarget))

	prefix := cleanBase + string(os.PathSeparator)
	if strings.HasSuffix(cleanBase, string(os.PathSeparator)) {
		prefix = cleanBase
	}
	if joined != cleanBase && !strings.HasPrefix(joined, prefix) {
		return "", fmt.Errorf("%w: %s", ErrUnsafePath, target)
	}

	return joined, nil
}

// DefaultHashtableDir は既定のハッシュテーブルディレクトリを返します。見つからない場合は空文字を返します
func DefaultHashtableDir() string {
	if dir := os.Getenv(HashtableDirEnv); dir != "" {
		return dir
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	dir := filepath.Join(configDir, "wadtools", "hashtables")
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return dir
	}
	return ""
}

// FindHashtableFiles はディレクトリ内のハッシュテーブルファイルを名前順に返します
func FindHashtableFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadDirectory, dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if HashtableFilePattern.MatchString(entry.Name()) {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(files)

	return files, nil
}
