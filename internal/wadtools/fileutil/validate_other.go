//go:build !unix && !windows

package fileutil

import (
	"fmt"
	"strings"
)

// maxComponentLength はパス要素の最大バイト数
const maxComponentLength = 255

// ValidatePath はパスが現在のプラットフォームで受け付けられるか確認します
func ValidatePath(path string) error {
	for _, component := range strings.Split(path, "/") {
		if len(component) > maxComponentLength {
			return fmt.Errorf("%w: ファイル名が長すぎます (%d バイト)", ErrInvalidFilename, len(component))
		}
	}
	return nil
}

// isInvalidFilenameErrno はファイル名の拒否を表すエラーか判定します
func isInvalidFilenameErrno(err error) bool {
	return false
}
