package hashtable

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/shiroemons/go-wadtools/internal/wadtools/errors"
	"github.com/shiroemons/go-wadtools/internal/wadtools/fileutil"
)

func TestHashtable_ResolvePath(t *testing.T) {
	h := New()
	if _, err := h.AddFromReader("test.txt", strings.NewReader("0000000000000abc a/b.bin\n")); err != nil {
		t.Fatalf("AddFromReader failed: %v", err)
	}

	if got := h.ResolvePath(0xabc); got != "a/b.bin" {
		t.Errorf("ResolvePath(0xabc) = %s; want a/b.bin", got)
	}

	// 未登録のハッシュは16桁の16進数になる
	for _, hash := range []uint64{0, 0x1, 0xDEADBEEF, ^uint64(0)} {
		first := h.ResolvePath(hash)
		second := h.ResolvePath(hash)
		if first != second {
			t.Errorf("ResolvePath(%x) is not deterministic: %s != %s", hash, first, second)
		}
		if first != fileutil.FormatChunkPathHash(hash) || len(first) != 16 || strings.ToLower(first) != first {
			t.Errorf("ResolvePath(%x) = %s; want 16 lowercase hex digits", hash, first)
		}
	}
}

func TestHashtable_Overwrite(t *testing.T) {
	h := New()
	if _, err := h.AddFromReader("first.txt", strings.NewReader("1 old/path.bin\n2 keep.bin\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := h.AddFromReader("second.txt", strings.NewReader("1 new/path.bin\n")); err != nil {
		t.Fatal(err)
	}

	if got := h.ResolvePath(1); got != "new/path.bin" {
		t.Errorf("ResolvePath(1) = %s; want new/path.bin", got)
	}
	if got := h.ResolvePath(2); got != "keep.bin" {
		t.Errorf("ResolvePath(2) = %s; want keep.bin", got)
	}
	if h.Len() != 2 {
		t.Errorf("Len() = %d; want 2", h.Len())
	}
}

func TestHashtable_AddFromReader(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		hash     uint64
		expected string
		count    int
	}{
		{"空白区切り", "00000000000000ff data/a.bin\n", 0xff, "data/a.bin", 1},
		{"タブ区切り", "ff\tdata/a.bin\n", 0xff, "data/a.bin", 1},
		{"CRLF", "ff data/a.bin\r\n", 0xff, "data/a.bin", 1},
		{"空白を含むパス", "ff data/my file.bin\n", 0xff, "data/my file.bin", 1},
		{"空行を無視", "\n\nff a.bin\n   \n", 0xff, "a.bin", 1},
		{"大文字の16進数", "00000000000000FF a.bin", 0xff, "a.bin", 1},
		{"先頭のスラッシュを除去", "ff /a/b.bin", 0xff, "a/b.bin", 1},
		{"UTF-8 BOM", "\ufeffff a.bin\n", 0xff, "a.bin", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			count, err := h.AddFromReader("test.txt", strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("AddFromReader failed: %v", err)
			}
			if count != tt.count {
				t.Errorf("count = %d; want %d", count, tt.count)
			}
			if got := h.ResolvePath(tt.hash); got != tt.expected {
				t.Errorf("ResolvePath(%x) = %q; want %q", tt.hash, got, tt.expected)
			}
		})
	}
}

func TestHashtable_UTF16(t *testing.T) {
	// UTF-16LE（BOMあり）の "ff a.bin\n"
	data := []byte{0xFF, 0xFE}
	for _, r := range "ff a.bin\n" {
		data = append(data, byte(r), 0)
	}

	h := New()
	if _, err := h.AddFromReader("utf16.txt", strings.NewReader(string(data))); err != nil {
		t.Fatalf("AddFromReader failed: %v", err)
	}
	if got := h.ResolvePath(0xff); got != "a.bin" {
		t.Errorf("ResolvePath(0xff) = %q; want a.bin", got)
	}
}

func TestHashtable_MalformedLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		line    int
		wantErr error
	}{
		{"パスなし", "ff a.bin\n1234\n", 2, ErrMissingPath},
		{"不正な16進数", "xyz a.bin\n", 1, ErrInvalidHash},
		{"64ビットを超える", "1ffffffffffffffff a.bin\n", 1, ErrInvalidHash},
		{"スラッシュのみのパス", "ff a.bin\n00000000000000ff /\n", 2, ErrMissingPath},
		{"ドットのみのパス", "ff .\n", 1, ErrMissingPath},
		{"親ディレクトリのみのパス", "ff /..\n", 1, ErrMissingPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			_, err := h.AddFromReader("bad.txt", strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}

			var parseErr *apperrors.ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Expected *ParseError, got %T", err)
			}
			if parseErr.File != "bad.txt" || parseErr.Line != tt.line {
				t.Errorf("ParseError location = %s:%d; want bad.txt:%d", parseErr.File, parseErr.Line, tt.line)
			}
			if !errors.Is(err, tt.wantErr) || !errors.Is(err, apperrors.ErrParseFailure) {
				t.Errorf("Expected %v wrapped in ErrParseFailure, got %v", tt.wantErr, err)
			}

			// 失敗したソースからは何も登録されない
			if h.Len() != 0 {
				t.Errorf("Len() = %d after failed load; want 0", h.Len())
			}
		})
	}
}

func TestHashtable_AddFromFile(t *testing.T) {
	h := New()
	if _, err := h.AddFromFile(filepath.Join(t.TempDir(), "missing.txt")); !errors.Is(err, ErrOpenFile) {
		t.Errorf("Expected ErrOpenFile, got %v", err)
	}
}

func TestHashtable_AddFromDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"hashes.a.txt": "1 a/one.bin\n2 a/two.bin\n",
		"hashes.b.txt": "2 b/two.bin\n3 b/three.bin\n",
		"notes.md":     "this is not a hashtable",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	h := New()
	count, err := h.AddFromDir(dir)
	if err != nil {
		t.Fatalf("AddFromDir failed: %v", err)
	}
	if count != 4 {
		t.Errorf("count = %d; want 4", count)
	}

	// ファイル名順に登録されるため、後のファイルが優先される
	expected := map[uint64]string{1: "a/one.bin", 2: "b/two.bin", 3: "b/three.bin"}
	for hash, want := range expected {
		if got := h.ResolvePath(hash); got != want {
			t.Errorf("ResolvePath(%d) = %s; want %s", hash, got, want)
		}
	}
}

func TestHashtable_AddFromDirMalformed(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "good.txt"), []byte("1 a.bin\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.txt"), []byte("zz a.bin\n"), 0644); err != nil {
		t.Fatal(err)
	}

	h := New()
	if _, err := h.AddFromDir(dir); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("Expected ErrInvalidHash, got %v", err)
	}
	if h.Len() != 0 {
		t.Errorf("Len() = %d after failed load; want 0", h.Len())
	}
}
