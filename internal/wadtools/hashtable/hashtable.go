// Package hashtable はパスハッシュからチャンクパスへの対応表を読み込みます。
//
// ハッシュテーブルファイルは1行に1エントリで、16進数のハッシュと
// パスを空白で区切って記述します。
//
//	a7b2c3d4e5f60718 assets/characters/aatrox/skins/base/aatrox.skn
//
// 空行は無視されます。UTF-8（BOMあり・なし）とUTF-16（BOMあり）に対応します。
package hashtable

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/remeh/sizedwaitgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "github.com/shiroemons/go-wadtools/internal/wadtools/errors"
	"github.com/shiroemons/go-wadtools/internal/wadtools/fileutil"
)

// maxLineSize は1行の最大バイト数
const maxLineSize = 1024 * 1024

// Hashtable はパスハッシュとパスの対応表です。
// 読み込みが終わった後は読み取り専用で、複数のgoroutineから安全に参照できます。
type Hashtable struct {
	entries map[uint64]string
}

// New は空のHashtableを作成します
func New() *Hashtable {
	return &Hashtable{entries: make(map[uint64]string)}
}

// Len は登録されているエントリ数を返します
func (h *Hashtable) Len() int {
	return len(h.entries)
}

// ResolvePath はハッシュに対応するパスを返します。
// 登録されていない場合は16桁の小文字16進数を返します
func (h *Hashtable) ResolvePath(pathHash uint64) string {
	if p, ok := h.entries[pathHash]; ok {
		return p
	}
	return fileutil.FormatChunkPathHash(pathHash)
}

// Lookup はハッシュが登録されている場合のみパスを返します
func (h *Hashtable) Lookup(pathHash uint64) (string, bool) {
	p, ok := h.entries[pathHash]
	return p, ok
}

// AddFromReader はreaderからエントリを読み込みます。既存のハッシュは上書きされます。
// 不正な行があった場合は何も登録せずに*errors.ParseErrorを返します
func (h *Hashtable) AddFromReader(name string, r io.Reader) (int, error) {
	entries, err := parse(name, r)
	if err != nil {
		return 0, err
	}
	h.merge(entries)
	return len(entries), nil
}

// AddFromFile はファイルからエントリを読み込みます
func (h *Hashtable) AddFromFile(filename string) (int, error) {
	entries, err := parseFile(filename)
	if err != nil {
		return 0, err
	}
	h.merge(entries)
	return len(entries), nil
}

// AddFromDir はディレクトリ内のハッシュテーブルファイルを並列に解析し、
// ファイル名順に登録します。後のファイルが前のファイルを上書きします
func (h *Hashtable) AddFromDir(dir string) (int, error) {
	files, err := fileutil.FindHashtableFiles(dir)
	if err != nil {
		return 0, err
	}

	results := make([][]entry, len(files))
	errs := make([]error, len(files))

	wg := sizedwaitgroup.New(runtime.NumCPU())
	for i, file := range files {
		wg.Add()
		go func(i int, file string) {
			defer wg.Done()
			results[i], errs[i] = parseFile(file)
		}(i, file)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return 0, err
		}
	}

	total := 0
	for _, entries := range results {
		h.merge(entries)
		total += len(entries)
	}
	return total, nil
}

// entry は1行分のエントリ
type entry struct {
	hash uint64
	path string
}

func (h *Hashtable) merge(entries []entry) {
	for _, e := range entries {
		h.entries[e.hash] = e.path
	}
}

func parseFile(filename string) ([]entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFile, err)
	}
	defer f.Close()

	return parse(filename, f)
}

// parse はBOMに従って文字コードを判定しながら行単位で解析します
func parse(name string, r io.Reader) ([]entry, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	scanner := bufio.NewScanner(transform.NewReader(r, decoder))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var entries []entry
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		e, err := parseLine(line)
		if err != nil {
			return nil, apperrors.NewParseError(name, lineNo, fmt.Errorf("%w: %w", apperrors.ErrParseFailure, err))
		}
		entries = append(entries, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewParseError(name, 0, fmt.Errorf("%w: %w", apperrors.ErrParseFailure, err))
	}

	return entries, nil
}

// parseLine は "<hex> <path>" 形式の1行を解析します。パスには空白を含められます
func parseLine(line string) (entry, error) {
	line = strings.TrimLeft(line, " \t")
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return entry{}, fmt.Errorf("%w: %q", ErrMissingPath, line)
	}

	hexPart := line[:i]
	pathPart := strings.TrimLeft(line[i:], " \t/")
	if pathPart == "" || pathPart == "." || pathPart == ".." {
		return entry{}, fmt.Errorf("%w: %q", ErrMissingPath, line)
	}

	hash, err := strconv.ParseUint(strings.TrimPrefix(hexPart, "0x"), 16, 64)
	if err != nil {
		return entry{}, fmt.Errorf("%w: %q", ErrInvalidHash, hexPart)
	}

	return entry{hash: hash, path: pathPart}, nil
}
