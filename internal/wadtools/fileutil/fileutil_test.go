package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatChunkPathHash(t *testing.T) {
	tests := []struct {
		input    uint64
		expected string
	}{
		{0, "0000000000000000"},
		{0xABC, "0000000000000abc"},
		{0xDEADBEEFCAFEBABE, "deadbeefcafebabe"},
		{^uint64(0), "ffffffffffffffff"},
	}

	for _, test := range tests {
		result := FormatChunkPathHash(test.input)
		if result != test.expected {
			t.Errorf("FormatChunkPathHash(%x) = %s; want %s", test.input, result, test.expected)
		}
		if len(result) != 16 {
			t.Errorf("FormatChunkPathHash(%x) length = %d; want 16", test.input, len(result))
		}
	}
}

func TestIsHexChunkPath(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"0123456789abcdef", true},
		{"data/0123456789ABCDEF", true},
		{"0123456789abcdef.png", false},
		{"0123456789abcde", false},   // 15桁
		{"0123456789abcdef0", false}, // 17桁
		{"assets/icons/play", false},
		{"ghijklmnopqrstuv", false},
	}

	for _, test := range tests {
		result := IsHexChunkPath(test.input)
		if result != test.expected {
			t.Errorf("IsHexChunkPath(%s) = %v; want %v", test.input, result, test.expected)
		}
	}
}

func TestHasExtension(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"a/b.bin", true},
		{"a/b.tar.gz", true},
		{"a/b", false},
		{"a.dir/b", false},
		{".hidden", false},
		{"a/.hidden", false},
		{"0123456789abcdef", false},
	}

	for _, test := range tests {
		result := HasExtension(test.input)
		if result != test.expected {
			t.Errorf("HasExtension(%s) = %v; want %v", test.input, result, test.expected)
		}
	}
}

func TestTruncateMiddle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"短い文字列はそのまま", "abc", 10, "abc"},
		{"ちょうどの長さ", "abcdef", 6, "abcdef"},
		{"中央を省略", "abcdefghij", 5, "ab…ij"},
		{"奇数長", "abcdefghij", 6, "ab…hij"},
		{"マルチバイト", "あいうえおかきくけこ", 5, "あい…けこ"},
		{"最大1文字", "abcdef", 1, "…"},
		{"最大0文字", "abcdef", 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := TruncateMiddle(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("TruncateMiddle(%q, %d) = %q; want %q", tt.input, tt.max, result, tt.expected)
			}
			if tt.max > 0 && utf8.RuneCountInString(result) > tt.max {
				t.Errorf("TruncateMiddle(%q, %d) is longer than max", tt.input, tt.max)
			}
		})
	}
}

func TestSafeJoin(t *testing.T) {
	base := filepath.Join(t.TempDir(), "base")

	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"file.txt", filepath.Join(base, "file.txt"), false},
		{"sub/dir/../file.txt", filepath.Join(base, "sub", "file.txt"), false},
		{"assets/characters/aatrox/skin0.bin", filepath.Join(base, "assets", "characters", "aatrox", "skin0.bin"), false},
		{"../../evil", "", true},
		{"..", "", true},
		{"../evil.txt", "", true},
		{"/absolute/file", filepath.Join(base, "absolute", "file"), false},
	}

	for _, tt := range tests {
		got, err := SafeJoin(base, tt.target)
		if tt.wantErr {
			if !errors.Is(err, ErrUnsafePath) {
				t.Errorf("expected ErrUnsafePath for target %q, got path %q err %v", tt.target, got, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for target %q: %v", tt.target, err)
		} else if got != tt.want {
			t.Errorf("SafeJoin(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestFindHashtableFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"hashes.lcu.txt", "hashes.game.txt", "README.md", "extra.TXT"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.txt"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := FindHashtableFiles(dir)
	if err != nil {
		t.Fatalf("FindHashtableFiles failed: %v", err)
	}

	var names []string
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	want := "extra.TXT,hashes.game.txt,hashes.lcu.txt"
	if got := strings.Join(names, ","); got != want {
		t.Errorf("FindHashtableFiles() = %s; want %s", got, want)
	}

	if _, err := FindHashtableFiles(filepath.Join(dir, "missing")); !errors.Is(err, ErrReadDirectory) {
		t.Errorf("Expected ErrReadDirectory, got %v", err)
	}
}

func TestDefaultHashtableDir(t *testing.T) {
	t.Setenv(HashtableDirEnv, "/custom/hashes")
	if got := DefaultHashtableDir(); got != "/custom/hashes" {
		t.Errorf("DefaultHashtableDir() = %s; want /custom/hashes", got)
	}
}
