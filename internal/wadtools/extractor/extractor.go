// Package extractor はWADアーカイブのチャンクをディレクトリツリーに書き出します
package extractor

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"sort"

	"github.com/shiroemons/go-wadtools/internal/wadtools/config"
	apperrors "github.com/shiroemons/go-wadtools/internal/wadtools/errors"
	"github.com/shiroemons/go-wadtools/internal/wadtools/fileutil"
	"github.com/shiroemons/go-wadtools/internal/wadtools/filter"
	"github.com/shiroemons/go-wadtools/internal/wadtools/interfaces"
	"github.com/shiroemons/go-wadtools/internal/wadtools/models"
	"github.com/shiroemons/go-wadtools/pkg/leaguefile"
	"github.com/shiroemons/go-wadtools/pkg/wad"
)

const (
	dirPerm  = 0755
	filePerm = 0644
)

// Extractor はチャンクを展開・判別して書き出します。
// デコーダはExtractの実行中Extractorが占有します。並行呼び出しには対応しません
type Extractor struct {
	decoder  interfaces.ChunkDecoder
	resolver interfaces.PathResolver
	filter   *filter.Filter
	fs       interfaces.FileSystem
	logger   interfaces.Logger
	progress interfaces.ProgressReporter

	stats        models.ExtractStats
	rejectedDirs map[string]bool
}

// Options はExtractorの設定オプション
type Options struct {
	Filter     *filter.Filter
	FileSystem interfaces.FileSystem
	Logger     interfaces.Logger
	Progress   interfaces.ProgressReporter
}

// New は新しいExtractorを作成します
func New(decoder interfaces.ChunkDecoder, resolver interfaces.PathResolver, opts Options) *Extractor {
	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	var logger interfaces.Logger = opts.Logger
	if logger == nil {
		logger = config.NewDebugLogger(false)
	}

	return &Extractor{
		decoder:  decoder,
		resolver: resolver,
		filter:   opts.Filter,
		fs:       fs,
		logger:   logger,
		progress: opts.Progress,
	}
}

// Stats は直近のExtractの集計結果を返します
func (e *Extractor) Stats() models.ExtractStats {
	return e.stats
}

// Extract はチャンクをdestination以下に書き出し、書き出したチャンク数を返します。
// チャンクはハッシュ順に処理され、キャンセルはチャンクの間でのみ確認されます
func (e *Extractor) Extract(ctx context.Context, chunks map[uint64]wad.Chunk, destination string) (int, error) {
	e.stats = models.ExtractStats{}
	e.rejectedDirs = make(map[string]bool)

	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	default:
	}

	sorted := wad.SortChunks(chunks)

	if err := e.prepareDirectories(sorted, destination); err != nil {
		return 0, err
	}

	total := len(sorted)
	for i, chunk := range sorted {
		// コンテキストのキャンセルチェック
		select {
		case <-ctx.Done():
			return e.stats.Written, ctx.Err()
		default:
		}

		chunkPath := e.resolver.ResolvePath(chunk.PathHash)

		// スキップするチャンクも含めて進捗を進める
		if err := e.report(float64(i)/float64(total), chunkPath); err != nil {
			return e.stats.Written, err
		}

		if !e.filter.MatchesPath(chunkPath) {
			e.stats.Filtered++
			continue
		}
		if fileutil.IsHexChunkPath(chunkPath) {
			e.stats.Unresolved++
		}

		if err := e.extractChunk(chunk, chunkPath, destination); err != nil {
			return e.stats.Written, err
		}
	}

	if err := e.report(1.0, "展開完了"); err != nil {
		return e.stats.Written, err
	}

	e.logger.Printf("%d 個のチャンクを書き出しました（フィルタ除外: %d、種別除外: %d、ハッシュ名: %d）\n",
		e.stats.Written, e.stats.Filtered, e.stats.TypeSkipped, e.stats.Fallbacks)

	return e.stats.Written, nil
}

// prepareDirectories はパスフィルタを通過するチャンクの親ディレクトリを作成します。
// 既に存在するディレクトリはエラーになりません
func (e *Extractor) prepareDirectories(chunks []wad.Chunk, destination string) error {
	if err := e.fs.MkdirAll(destination, dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %w", fileutil.ErrCreateDirectory, destination, err)
	}

	dirs := make(map[string]bool)
	for _, chunk := range chunks {
		chunkPath := e.resolver.ResolvePath(chunk.PathHash)
		if !e.filter.MatchesPath(chunkPath) {
			continue
		}
		if dir := parentDir(chunkPath); dir != "" {
			dirs[dir] = true
		}
	}

	sortedDirs := make([]string, 0, len(dirs))
	for dir := range dirs {
		sortedDirs = append(sortedDirs, dir)
	}
	sort.Strings(sortedDirs)

	for _, dir := range sortedDirs {
		target, err := fileutil.SafeJoin(destination, dir)
		if err == nil {
			err = e.fs.ValidatePath(target)
		}
		if err == nil {
			err = e.fs.MkdirAll(target, dirPerm)
		}
		if err == nil {
			continue
		}

		if !fileutil.IsInvalidFilename(err) {
			return fmt.Errorf("%w: %s: %w", fileutil.ErrCreateDirectory, target, err)
		}
		e.rejectedDirs[dir] = true
		e.logger.Printf("ディレクトリを作成できないためスキップします: %s: %v\n", dir, err)
	}

	return nil
}

// extractChunk は1つのチャンクを展開して書き出します
func (e *Extractor) extractChunk(chunk wad.Chunk, chunkPath, destination string) error {
	data, err := e.decoder.LoadChunkDecompressed(chunk)
	if err != nil {
		return apperrors.NewChunkError("チャンクの展開", chunkPath, chunk.PathHash, fmt.Errorf("%w: %w", ErrDecompress, err))
	}

	kind := leaguefile.Identify(data)
	if !e.filter.MatchesKind(kind) {
		e.logger.Printf("種別が対象外のためスキップします: %s (%s)\n", chunkPath, kind)
		e.stats.TypeSkipped++
		return nil
	}

	finalPath := e.finalChunkPath(chunkPath, kind)

	err = e.writeChunk(destination, finalPath, data)
	if err == nil {
		e.stats.Written++
		e.stats.Bytes += uint64(len(data))
		return nil
	}

	if !fileutil.IsInvalidFilename(err) {
		return apperrors.NewChunkError("チャンクの書き込み", chunkPath, chunk.PathHash, fmt.Errorf("%w: %s: %w", ErrWriteChunk, finalPath, err))
	}

	return e.writeHashedChunk(chunk, chunkPath, finalPath, destination, data, kind)
}

// writeChunk はfinalPathにデータを書き込みます。ディレクトリは作成しません
func (e *Extractor) writeChunk(destination, finalPath string, data []byte) error {
	if e.rejectedDirs[parentDir(finalPath)] {
		return fmt.Errorf("%w: %s", fileutil.ErrInvalidFilename, parentDir(finalPath))
	}

	target, err := fileutil.SafeJoin(destination, finalPath)
	if err != nil {
		return err
	}
	if err := e.fs.ValidatePath(target); err != nil {
		return err
	}
	return e.fs.WriteFile(target, data, filePerm)
}

// writeHashedChunk はパスハッシュから作ったファイル名で出力先の直下に書き込みます。
// エラーには解決済みのchunkPathを記録します
func (e *Extractor) writeHashedChunk(chunk wad.Chunk, chunkPath, finalPath, destination string, data []byte, kind leaguefile.Kind) error {
	hashedPath := fileutil.FormatChunkPathHash(chunk.PathHash)
	if ext, ok := kind.Extension(); ok {
		hashedPath += "." + ext
	}

	e.logger.Warnf("ファイル名が無効なためハッシュ名で書き出します (chunk_path: %s, hashed_path: %s)", finalPath, hashedPath)

	if err := e.fs.WriteFile(filepath.Join(destination, hashedPath), data, filePerm); err != nil {
		return apperrors.NewChunkError("チャンクの書き込み", chunkPath, chunk.PathHash, fmt.Errorf("%w: %s: %w", ErrWriteChunk, hashedPath, err))
	}

	e.stats.Written++
	e.stats.Fallbacks++
	e.stats.Bytes += uint64(len(data))
	return nil
}

// finalChunkPath は拡張子のないパスに判別した種別の拡張子を付けます。
// 種別が不明な場合はファイル名の先頭にドットを付けます。親ディレクトリは変わりません
func (e *Extractor) finalChunkPath(chunkPath string, kind leaguefile.Kind) string {
	if fileutil.HasExtension(chunkPath) {
		return chunkPath
	}

	ext, ok := kind.Extension()
	if !ok {
		e.logger.Warnf("チャンクの種別が不明なため先頭に '.' を付けます (chunk_path: %s)", chunkPath)
		return withFileName(chunkPath, "."+path.Base(chunkPath))
	}
	return withFileName(chunkPath, path.Base(chunkPath)+"."+ext)
}

// parentDir はチャンクパスの親ディレクトリを返します。親がない場合は空文字を返します
func parentDir(chunkPath string) string {
	dir := path.Dir(chunkPath)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}

// withFileName はチャンクパスのファイル名部分を置き換えます
func withFileName(chunkPath, name string) string {
	if dir := parentDir(chunkPath); dir != "" {
		return dir + "/" + name
	}
	return name
}

// report は進捗を通知します。通知先のエラーはキャンセル以外は警告にとどめます
func (e *Extractor) report(fraction float64, message string) error {
	if e.progress == nil {
		return nil
	}

	err := e.progress.Report(fraction, message)
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	e.logger.Printf("進捗の通知に失敗しました: %v\n", err)
	return nil
}
