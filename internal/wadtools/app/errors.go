package app

import "errors"

var (
	// ErrLoadHashtable はハッシュテーブルの読み込みに失敗した場合のエラー
	ErrLoadHashtable = errors.New("ハッシュテーブルの読み込みに失敗しました")

	// ErrExtract は抽出処理が中断した場合のエラー
	ErrExtract = errors.New("抽出処理が中断しました")

	// ErrUnknownCommand は実行できないコマンドのエラー
	ErrUnknownCommand = errors.New("不明なコマンドです")
)
