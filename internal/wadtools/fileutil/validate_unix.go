//go:build unix

package fileutil

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sys/unix"
)

const (
	// maxComponentLength はパス要素の最大バイト数（NAME_MAX）
	maxComponentLength = 255

	// maxPathLength はパス全体の最大バイト数（PATH_MAX）
	maxPathLength = 4096
)

// ValidatePath はパスが現在のプラットフォームで受け付けられるか確認します
func ValidatePath(path string) error {
	if strings.IndexByte(path, 0) >= 0 {
		return fmt.Errorf("%w: NUL文字を含みます", ErrInvalidFilename)
	}
	if len(path) >= maxPathLength {
		return fmt.Errorf("%w: パスが長すぎます (%d バイト)", ErrInvalidFilename, len(path))
	}
	for _, component := range strings.Split(path, "/") {
		if len(component) > maxComponentLength {
			return fmt.Errorf("%w: ファイル名が長すぎます (%d バイト)", ErrInvalidFilename, len(component))
		}
	}
	return nil
}

// isInvalidFilenameErrno はファイル名の拒否を表すerrnoか判定します
func isInvalidFilenameErrno(err error) bool {
	return errors.Is(err, unix.ENAMETOOLONG) || errors.Is(err, unix.EILSEQ)
}
