// Package models はwadtoolsコマンドで使用するデータモデルを定義します
package models

// ExtractStats は抽出処理の集計結果を表します
type ExtractStats struct {
	Written     int    // 書き出したチャンク数（フォールバックを含む）
	Filtered    int    // パスフィルタで除外したチャンク数
	TypeSkipped int    // 種別フィルタで除外したチャンク数
	Fallbacks   int    // ハッシュ名で書き出したチャンク数
	Unresolved  int    // パスが解決できなかったチャンク数（パスフィルタ通過分）
	Bytes       uint64 // 書き出した合計バイト数
}

// ListEntry はチャンク一覧の1行を表します
type ListEntry struct {
	PathHash         uint64
	Path             string
	Compression      string
	CompressedSize   uint32
	UncompressedSize uint32
	Resolved         bool
}
