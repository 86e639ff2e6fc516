package fileutil

import "errors"

var (
	// ErrCreateDirectory は出力先ディレクトリの作成に失敗した場合のエラー
	ErrCreateDirectory = errors.New("出力先ディレクトリの作成に失敗しました")

	// ErrReadDirectory はディレクトリ内のファイル一覧を取得できない場合のエラー
	ErrReadDirectory = errors.New("ディレクトリ内のファイル一覧を取得できませんでした")

	// ErrInvalidFilename はファイルシステムがファイル名を受け付けない場合のエラー
	ErrInvalidFilename = errors.New("ファイル名が無効です")

	// ErrUnsafePath はパスが出力先ディレクトリの外を指す場合のエラー
	ErrUnsafePath = errors.New("出力先ディレクトリの外を指すパスです")
)
