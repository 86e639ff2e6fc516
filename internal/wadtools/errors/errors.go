// Package errors はカスタムエラータイプを提供します
package errors

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrFileNotFound はファイルが見つからない場合のエラー
	ErrFileNotFound = errors.New("ファイルが見つかりません")

	// ErrInvalidArchive はアーカイブが無効な場合のエラー
	ErrInvalidArchive = errors.New("無効なアーカイブファイルです")

	// ErrParseFailure は解析に失敗した場合のエラー
	ErrParseFailure = errors.New("データの解析に失敗しました")
)

// ChunkError はチャンク単位の致命的なエラー
type ChunkError struct {
	Op   string // 実行していた操作
	Path string // 解決済みのチャンクパス
	Hash uint64 // パスハッシュ
	Err  error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *ChunkError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s (%016x): %v", e.Op, e.Path, e.Hash, e.Err)
	}
	return fmt.Sprintf("%s (%016x): %v", e.Op, e.Hash, e.Err)
}

// Unwrap は元のエラーを返します
func (e *ChunkError) Unwrap() error {
	return e.Err
}

// NewChunkError は新しいChunkErrorを作成します
func NewChunkError(op, path string, hash uint64, err error) *ChunkError {
	return &ChunkError{
		Op:   op,
		Path: path,
		Hash: hash,
		Err:  err,
	}
}

// ParseError は解析関連のエラー
type ParseError struct {
	File string // ファイル名
	Line int    // 行番号（1始まり、0は行に依存しないエラー）
	Err  error  // 元のエラー
}

// Error はエラーメッセージを返します
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%dの解析エラー: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%sの解析エラー: %v", e.File, e.Err)
}

// Unwrap は元のエラーを返します
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError は新しいParseErrorを作成します
func NewParseError(file string, line int, err error) *ParseError {
	return &ParseError{
		File: file,
		Line: line,
		Err:  err,
	}
}
