package wad

import "errors"

var (
	// ErrInvalidMagic はWADファイルでない場合のエラー
	ErrInvalidMagic = errors.New("WADファイルではありません")

	// ErrUnsupportedVersion はサポートされていないバージョンの場合のエラー
	ErrUnsupportedVersion = errors.New("サポートされていないWADバージョンです")

	// ErrTruncated はファイルが途中で終わっている場合のエラー
	ErrTruncated = errors.New("WADファイルが途中で終わっています")

	// ErrInvalidTOC はチャンクテーブルが壊れている場合のエラー
	ErrInvalidTOC = errors.New("チャンクテーブルが無効です")

	// ErrDuplicateChunk は同じパスハッシュのチャンクが複数ある場合のエラー
	ErrDuplicateChunk = errors.New("パスハッシュが重複しています")

	// ErrUnsupportedCompression はサポートされていない格納形式の場合のエラー
	ErrUnsupportedCompression = errors.New("サポートされていない格納形式です")

	// ErrChunkTooLarge は展開後のサイズが上限を超える場合のエラー
	ErrChunkTooLarge = errors.New("チャンクの展開後サイズが上限を超えています")

	// ErrSizeMismatch は展開後のサイズが一致しない場合のエラー
	ErrSizeMismatch = errors.New("展開後のサイズが一致しません")

	// ErrChecksumMismatch はチャンクのチェックサムが一致しない場合のエラー
	ErrChecksumMismatch = errors.New("チャンクのチェックサムが一致しません")
)
