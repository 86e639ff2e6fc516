// Package app はアプリケーションのメインロジックを実装します
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/shiroemons/go-wadtools/internal/wadtools/config"
	apperrors "github.com/shiroemons/go-wadtools/internal/wadtools/errors"
	"github.com/shiroemons/go-wadtools/internal/wadtools/extractor"
	"github.com/shiroemons/go-wadtools/internal/wadtools/fileutil"
	"github.com/shiroemons/go-wadtools/internal/wadtools/filter"
	"github.com/shiroemons/go-wadtools/internal/wadtools/hashtable"
	"github.com/shiroemons/go-wadtools/internal/wadtools/interfaces"
	"github.com/shiroemons/go-wadtools/internal/wadtools/models"
	"github.com/shiroemons/go-wadtools/internal/wadtools/progress"
	"github.com/shiroemons/go-wadtools/pkg/wad"
)

// ProgressFactory はチャンク数から進捗の通知先を作成します。nilを返すと進捗を表示しません
type ProgressFactory func(total int) interfaces.ProgressReporter

// App はアプリケーションのメインロジックを管理します
type App struct {
	config   *config.Config
	logger   *config.DebugLogger
	fs       interfaces.FileSystem
	out      io.Writer
	progress ProgressFactory
}

// Options はAppの設定オプション
type Options struct {
	FileSystem interfaces.FileSystem
	Logger     *config.DebugLogger
	Output     io.Writer
	Progress   ProgressFactory
}

// New は新しいAppを作成します
func New(cfg *config.Config) *App {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions は新しいAppをオプション付きで作成します
func NewWithOptions(cfg *config.Config, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = config.NewDebugLogger(cfg.DebugMode)
	}

	// デフォルトのファイルシステムを設定
	fs := opts.FileSystem
	if fs == nil {
		fs = fileutil.NewOSFileSystem()
	}

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	// デフォルトは端末の場合のみ進捗バーを表示
	progressFactory := opts.Progress
	if progressFactory == nil {
		progressFactory = defaultProgress
	}

	return &App{
		config:   cfg,
		logger:   logger,
		fs:       fs,
		out:      out,
		progress: progressFactory,
	}
}

func defaultProgress(total int) interfaces.ProgressReporter {
	if !progress.IsTerminal() {
		return nil
	}
	return progress.New(total)
}

// Run は設定されたコマンドを実行します
func (a *App) Run(ctx context.Context) error {
	// コンテキストのキャンセルチェック
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	switch a.config.Command {
	case config.CommandExtract:
		return a.runExtract(ctx)
	case config.CommandList:
		return a.runList(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, a.config.Command)
	}
}

// runExtract はアーカイブのチャンクを出力ディレクトリに書き出します
func (a *App) runExtract(ctx context.Context) error {
	// 読み込みエラーは抽出を始める前に報告する
	table, err := a.loadHashtable()
	if err != nil {
		return err
	}

	f, err := a.buildFilter(a.config.FilterTypes)
	if err != nil {
		return err
	}

	w, err := a.openWad()
	if err != nil {
		return err
	}
	defer w.Close()

	decoder := w.Decoder()
	defer decoder.Close()
	decoder.SetVerifyChecksums(a.config.VerifyChecksums)

	chunks := w.Chunks()

	var reporter interfaces.ProgressReporter
	if !a.config.NoProgress {
		reporter = a.progress(len(chunks))
	}
	// 警告が進捗行に重ならないよう出力前に行を消す
	if line, ok := reporter.(config.LineClearer); ok {
		a.logger.SetLine(line)
		defer a.logger.SetLine(nil)
	}

	a.logger.Printf("フィルタ: %s\n", f)
	a.logger.Printf("%d 個のチャンクを %s に抽出します...\n", len(chunks), a.config.OutputDir)

	e := extractor.New(decoder, table, extractor.Options{
		Filter:     f,
		FileSystem: a.fs,
		Logger:     a.logger,
		Progress:   reporter,
	})

	written, err := e.Extract(ctx, chunks, a.config.OutputDir)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExtract, err)
	}

	stats := e.Stats()
	fmt.Fprintf(a.out, "%d 個のチャンクを抽出しました（%s）\n", written, humanize.Bytes(stats.Bytes))
	if stats.Unresolved > 0 {
		fmt.Fprintf(a.out, "%d 個のチャンクはパスが未解決のためハッシュ名です\n", stats.Unresolved)
	}
	if stats.Fallbacks > 0 {
		fmt.Fprintf(a.out, "%d 個のチャンクをハッシュ名で書き出しました\n", stats.Fallbacks)
	}
	return nil
}

// runList はアーカイブのチャンク一覧を表示します
func (a *App) runList(ctx context.Context) error {
	table, err := a.loadHashtable()
	if err != nil {
		return err
	}

	f, err := a.buildFilter(nil)
	if err != nil {
		return err
	}

	w, err := a.openWad()
	if err != nil {
		return err
	}
	defer w.Close()

	entries := listEntries(w.SortedChunks(), table, f)

	major, minor := w.Version()
	fmt.Fprintf(a.out, "WAD %d.%d: %s（チェックサム: %016x）\n", major, minor, a.config.InputPath, w.Checksum())
	fmt.Fprintln(a.out, "----------------------------")
	fmt.Fprintf(a.out, "%-16s %-10s %10s %10s  %s\n", "ハッシュ", "形式", "圧縮", "元サイズ", "パス")
	fmt.Fprintln(a.out, "----------------------------")

	unresolved := 0
	for _, entry := range entries {
		// コンテキストのキャンセルチェック
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !entry.Resolved {
			unresolved++
		}
		fmt.Fprintf(a.out, "%016x %-10s %10s %10s  %s\n",
			entry.PathHash,
			entry.Compression,
			humanize.Bytes(uint64(entry.CompressedSize)),
			humanize.Bytes(uint64(entry.UncompressedSize)),
			entry.Path)
	}

	fmt.Fprintln(a.out, "----------------------------")
	fmt.Fprintf(a.out, "%d 個のチャンク（未解決: %d）\n", len(entries), unresolved)
	return nil
}

// listEntries はパスフィルタを通過するチャンクの一覧を作成します
func listEntries(chunks []wad.Chunk, table *hashtable.Hashtable, f *filter.Filter) []models.ListEntry {
	var entries []models.ListEntry
	for _, chunk := range chunks {
		chunkPath := table.ResolvePath(chunk.PathHash)
		if !f.MatchesPath(chunkPath) {
			continue
		}
		_, resolved := table.Lookup(chunk.PathHash)
		entries = append(entries, models.ListEntry{
			PathHash:         chunk.PathHash,
			Path:             chunkPath,
			Compression:      chunk.Compression.String(),
			CompressedSize:   chunk.CompressedSize,
			UncompressedSize: chunk.UncompressedSize,
			Resolved:         resolved,
		})
	}
	return entries
}

// loadHashtable はハッシュテーブルディレクトリと個別ファイルを順に読み込みます。
// 後から読み込んだものが優先されます
func (a *App) loadHashtable() (*hashtable.Hashtable, error) {
	table := hashtable.New()

	if dir := a.config.HashtableDir; dir != "" {
		count, err := table.AddFromDir(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadHashtable, err)
		}
		a.logger.Printf("ハッシュテーブルディレクトリ %s から %d 件読み込みました\n", dir, count)
	}

	for _, file := range a.config.HashtableFiles {
		if !a.fs.FileExists(file) {
			return nil, fmt.Errorf("%w: %w: %s", ErrLoadHashtable, apperrors.ErrFileNotFound, file)
		}
		count, err := table.AddFromFile(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadHashtable, err)
		}
		a.logger.Printf("ハッシュテーブル %s から %d 件読み込みました\n", file, count)
	}

	if table.Len() == 0 {
		a.logger.Warnf("ハッシュテーブルが空のため、すべてのチャンクをハッシュ名で扱います")
	}
	return table, nil
}

// buildFilter はパスのパターンと種別の許可リストからフィルタを作成します
func (a *App) buildFilter(kindNames []string) (*filter.Filter, error) {
	kinds, err := filter.ParseKinds(kindNames)
	if err != nil {
		return nil, err
	}
	return filter.New(a.config.FilterPattern, kinds)
}

// openWad は入力ファイルをWADアーカイブとして開きます
func (a *App) openWad() (*wad.Wad, error) {
	if !a.fs.FileExists(a.config.InputPath) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrFileNotFound, a.config.InputPath)
	}

	w, err := wad.Open(a.config.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", apperrors.ErrInvalidArchive, a.config.InputPath, err)
	}

	major, minor := w.Version()
	a.logger.Printf("WAD %d.%d を開きました: %s（%d チャンク）\n", major, minor, a.config.InputPath, len(w.Chunks()))
	return w, nil
}
