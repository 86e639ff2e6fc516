//go:build windows

package fileutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows"
)

// maxComponentLength はパス要素の最大文字数
const maxComponentLength = 255

// reservedNames は拡張子の有無にかかわらず使用できないデバイス名
var reservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidatePath はパスが現在のプラットフォームで受け付けられるか確認します
func ValidatePath(path string) error {
	path = strings.TrimPrefix(path, filepath.VolumeName(path))

	for _, component := range strings.FieldsFunc(path, func(r rune) bool { return r == '\\' || r == '/' }) {
		if component == "." || component == ".." {
			continue
		}
		if len([]rune(component)) > maxComponentLength {
			return fmt.Errorf("%w: ファイル名が長すぎます (%d 文字)", ErrInvalidFilename, len([]rune(component)))
		}
		if strings.ContainsAny(component, `<>:"|?*`) {
			return fmt.Errorf("%w: 使用できない文字を含みます: %s", ErrInvalidFilename, component)
		}
		for _, r := range component {
			if r < 0x20 {
				return fmt.Errorf("%w: 制御文字を含みます: %q", ErrInvalidFilename, component)
			}
		}
		if strings.HasSuffix(component, ".") || strings.HasSuffix(component, " ") {
			return fmt.Errorf("%w: 末尾がドットまたは空白です: %s", ErrInvalidFilename, component)
		}
		stem := component
		if i := strings.IndexByte(stem, '.'); i >= 0 {
			stem = stem[:i]
		}
		if reservedNames[strings.ToUpper(stem)] {
			return fmt.Errorf("%w: 予約されたデバイス名です: %s", ErrInvalidFilename, component)
		}
	}
	return nil
}

// isInvalidFilenameErrno はファイル名の拒否を表すエラーコードか判定します
func isInvalidFilenameErrno(err error) bool {
	return errors.Is(err, windows.ERROR_INVALID_NAME) ||
		errors.Is(err, windows.ERROR_FILENAME_EXCED_RANGE) ||
		errors.Is(err, windows.ERROR_BAD_PATHNAME)
}
