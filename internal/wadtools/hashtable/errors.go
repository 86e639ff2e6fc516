package hashtable

import "errors"

var (
	// ErrMissingPath はハッシュの後にパスがない行のエラー
	ErrMissingPath = errors.New("パスがありません")

	// ErrInvalidHash はハッシュが16進数として解釈できない場合のエラー
	ErrInvalidHash = errors.New("ハッシュが不正です")

	// ErrOpenFile はハッシュテーブルファイルを開けない場合のエラー
	ErrOpenFile = errors.New("ハッシュテーブルファイルを開けませんでした")
)
