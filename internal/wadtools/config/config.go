// Package config はwadtoolsコマンドの設定管理を行います
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shiroemons/go-wadtools/internal/wadtools/fileutil"
)

const Version = "0.1.0"

const (
	// CommandExtract はチャンクを書き出すサブコマンド
	CommandExtract = "extract"

	// CommandList はチャンク一覧を表示するサブコマンド
	CommandList = "list"
)

var (
	// ErrNoCommand はサブコマンドが指定されていない場合のエラー
	ErrNoCommand = errors.New("サブコマンドが指定されていません")

	// ErrUnknownCommand は不明なサブコマンドのエラー
	ErrUnknownCommand = errors.New("不明なサブコマンドです")

	// ErrMissingInput は入力ファイルが指定されていない場合のエラー
	ErrMissingInput = errors.New("入力WADファイルが指定されていません")
)

// Config はアプリケーションの設定を保持します
type Config struct {
	Command         string
	InputPath       string
	OutputDir       string
	HashtableFiles  []string
	HashtableDir    string
	FilterPattern   string
	FilterTypes     []string
	VerifyChecksums bool
	NoProgress      bool
	DebugMode       bool
	ShowVersion     bool
}

// stringList は繰り返し指定できる文字列フラグ
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	*s = append(*s, value)
	return nil
}

// Usage はコマンド全体の使用方法を出力します
func Usage(w io.Writer) {
	fmt.Fprintln(w, "使用方法: wadtools <command> [オプション]")
	fmt.Fprintln(w, "コマンド:")
	fmt.Fprintln(w, "  extract\tWADアーカイブのチャンクを書き出します")
	fmt.Fprintln(w, "  list\tWADアーカイブのチャンク一覧を表示します")
	fmt.Fprintln(w, "  --version, -v\tバージョン情報を表示します")
}

// ParseFlags はコマンドライン引数（プログラム名を除く）を解析して設定を返します
func ParseFlags(args []string, output io.Writer) (*Config, error) {
	config := &Config{HashtableDir: fileutil.DefaultHashtableDir()}

	if len(args) == 0 {
		Usage(output)
		return nil, ErrNoCommand
	}

	switch args[0] {
	case "--version", "-version", "-v":
		config.ShowVersion = true
		return config, nil
	case CommandExtract, CommandList:
		config.Command = args[0]
	default:
		Usage(output)
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, args[0])
	}

	fs := flag.NewFlagSet(config.Command, flag.ContinueOnError)
	fs.SetOutput(output)

	// 入力ファイル
	fs.StringVar(&config.InputPath, "input", "", "path to the .wad.client archive")
	fs.StringVar(&config.InputPath, "i", "", "path to the .wad.client archive (shorthand)")

	// ハッシュテーブル
	var hashtables stringList
	fs.Var(&hashtables, "hashtable", "hashtable file (repeatable, later files override earlier ones)")
	fs.Var(&hashtables, "H", "hashtable file (shorthand)")
	fs.StringVar(&config.HashtableDir, "hashtable-dir", config.HashtableDir, "directory of hashtable .txt files (env "+fileutil.HashtableDirEnv+")")

	// パスフィルタ
	fs.StringVar(&config.FilterPattern, "filter", "", "regex matched against resolved chunk paths (case-insensitive)")
	fs.StringVar(&config.FilterPattern, "f", "", "regex matched against resolved chunk paths (shorthand)")

	// デバッグモード
	fs.BoolVar(&config.DebugMode, "debug", false, "enable debug output")
	fs.BoolVar(&config.DebugMode, "d", false, "enable debug output (shorthand)")

	var filterTypes string
	if config.Command == CommandExtract {
		// 出力ディレクトリ
		fs.StringVar(&config.OutputDir, "output", ".", "output directory for extracted chunks")
		fs.StringVar(&config.OutputDir, "o", ".", "output directory for extracted chunks (shorthand)")

		// 種別フィルタ
		fs.StringVar(&filterTypes, "filter-type", "", "comma-separated file kinds to extract (e.g. png,texture)")
		fs.StringVar(&filterTypes, "T", "", "comma-separated file kinds to extract (shorthand)")

		fs.BoolVar(&config.VerifyChecksums, "verify-checksums", false, "verify chunk checksums (WAD 3.1 and later)")
		fs.BoolVar(&config.NoProgress, "no-progress", false, "disable the progress bar")
	}

	if err := fs.Parse(args[1:]); err != nil {
		return nil, err
	}

	// 位置引数を入力ファイルとして受け付ける
	if config.InputPath == "" && fs.NArg() > 0 {
		config.InputPath = fs.Arg(0)
	}
	if config.InputPath == "" {
		fs.Usage()
		return nil, ErrMissingInput
	}

	config.HashtableFiles = hashtables
	config.FilterTypes = splitList(filterTypes)

	return config, nil
}

// splitList はカンマ区切りの値を空要素を除いて分割します
func splitList(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

// HandleVersion はバージョン表示を処理します
func HandleVersion(showVersion bool) {
	if showVersion {
		fmt.Printf("wadtools version %s\n", Version)
		os.Exit(0)
	}
}

// LineClearer は端末に描画中の行を消せる出力先
type LineClearer interface {
	Clear()
}

// DebugLogger はデバッグ出力と警告出力を管理します
type DebugLogger struct {
	enabled bool
	out     io.Writer
	errOut  io.Writer
	line    LineClearer
}

// NewDebugLogger は標準出力と標準エラーに書き込むDebugLoggerを作成します
func NewDebugLogger(enabled bool) *DebugLogger {
	return NewDebugLoggerWithWriter(enabled, os.Stdout, os.Stderr)
}

// NewDebugLoggerWithWriter は出力先を指定してDebugLoggerを作成します
func NewDebugLoggerWithWriter(enabled bool, out, errOut io.Writer) *DebugLogger {
	return &DebugLogger{enabled: enabled, out: out, errOut: errOut}
}

// SetLine は出力の前に消す進捗行を設定します。nilで解除します
func (d *DebugLogger) SetLine(line LineClearer) {
	d.line = line
}

// Printf はデバッグモードが有効な場合のみメッセージを表示します
func (d *DebugLogger) Printf(format string, a ...any) {
	if d.enabled {
		d.clearLine()
		fmt.Fprintf(d.out, format, a...)
	}
}

// Warnf は警告メッセージを常にエラー出力へ表示します
func (d *DebugLogger) Warnf(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasSuffix(msg, "\n") {
		msg += "\n"
	}
	d.clearLine()
	fmt.Fprint(d.errOut, "警告: "+msg)
}

func (d *DebugLogger) clearLine() {
	if d.line != nil {
		d.line.Clear()
	}
}
