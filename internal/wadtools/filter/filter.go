// Package filter はチャンクを解決済みパスとファイル種別で絞り込みます
package filter

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/shiroemons/go-wadtools/pkg/leaguefile"
)

// DefaultMatchTimeout は1回のパス照合にかけられる最大時間
const DefaultMatchTimeout = 100 * time.Millisecond

var (
	// ErrFilter はフィルタの構築に失敗した場合のエラー
	ErrFilter = errors.New("フィルタの構築に失敗しました")

	// ErrUnknownKind は不明なファイル種別が指定された場合のエラー
	ErrUnknownKind = errors.New("不明なファイル種別です")
)

// caseFlagPattern はパターン中のインラインフラグ（例: (?i) (?-i) (?i:...)）を検出します
var caseFlagPattern = regexp.MustCompile(`\(\?[a-zA-Z]*-?[a-zA-Z]*[:)]`)

// Filter はパス述語と種別述語の論理積です。どちらも未設定なら全チャンクが通過します
type Filter struct {
	pattern *regexp2.Regexp
	kinds   map[leaguefile.Kind]bool
}

// New はパターンと種別の許可リストからFilterを作成します。
// patternが空ならパス述語なし、kindsが空なら種別述語なしになります
func New(pattern string, kinds []leaguefile.Kind) (*Filter, error) {
	f := &Filter{}

	if pattern != "" {
		re, err := regexp2.Compile(withCaseInsensitive(pattern), regexp2.None)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFilter, err)
		}
		re.MatchTimeout = DefaultMatchTimeout
		f.pattern = re
	}

	if len(kinds) > 0 {
		f.kinds = make(map[leaguefile.Kind]bool, len(kinds))
		for _, k := range kinds {
			f.kinds[k] = true
		}
	}

	return f, nil
}

// ParseKinds は種別名または拡張子のリストをKindに変換します
func ParseKinds(names []string) ([]leaguefile.Kind, error) {
	kinds := make([]leaguefile.Kind, 0, len(names))
	for _, name := range names {
		k, ok := leaguefile.ParseKind(name)
		if !ok {
			return nil, fmt.Errorf("%w: %w: %s", ErrFilter, ErrUnknownKind, name)
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

// withCaseInsensitive は大文字小文字のフラグが明示されていなければ (?i) を付加します
func withCaseInsensitive(pattern string) string {
	for _, flag := range caseFlagPattern.FindAllString(pattern, -1) {
		if strings.ContainsRune(flag, 'i') {
			return pattern
		}
	}
	return "(?i)" + pattern
}

// HasPathPredicate はパス述語が設定されているか返します
func (f *Filter) HasPathPredicate() bool {
	return f != nil && f.pattern != nil
}

// HasKindPredicate は種別述語が設定されているか返します
func (f *Filter) HasKindPredicate() bool {
	return f != nil && len(f.kinds) > 0
}

// MatchesPath は解決済みパスがパス述語を満たすか判定します。
// タイムアウトなどの照合エラーは不一致として扱います
func (f *Filter) MatchesPath(resolvedPath string) bool {
	if !f.HasPathPredicate() {
		return true
	}
	ok, err := f.pattern.MatchString(resolvedPath)
	if err != nil {
		return false
	}
	return ok
}

// MatchesKind は種別が許可リストに含まれるか判定します
func (f *Filter) MatchesKind(kind leaguefile.Kind) bool {
	if !f.HasKindPredicate() {
		return true
	}
	return f.kinds[kind]
}

// Matches はパス述語と種別述語の両方を満たすか判定します
func (f *Filter) Matches(resolvedPath string, kind leaguefile.Kind) bool {
	return f.MatchesPath(resolvedPath) && f.MatchesKind(kind)
}

// String はフィルタの内容を表示用に返します
func (f *Filter) String() string {
	if f == nil {
		return "<none>"
	}
	var parts []string
	if f.pattern != nil {
		parts = append(parts, "pattern="+f.pattern.String())
	}
	if len(f.kinds) > 0 {
		var names []string
		for k := range f.kinds {
			names = append(names, k.String())
		}
		sort.Strings(names)
		parts = append(parts, "kinds="+strings.Join(names, ","))
	}
	if len(parts) == 0 {
		return "<none>"
	}
	return strings.Join(parts, " ")
}
