package extractor

import "errors"

var (
	// ErrDecompress はチャンクの展開に失敗した場合のエラー
	ErrDecompress = errors.New("チャンクの展開に失敗しました")

	// ErrWriteChunk はチャンクの書き込みに失敗した場合のエラー
	ErrWriteChunk = errors.New("チャンクの書き込みに失敗しました")
)
