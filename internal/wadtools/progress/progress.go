// Package progress は端末に抽出の進捗バーを表示します
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/shiroemons/go-wadtools/internal/wadtools/fileutil"
)

const (
	// maxBarWidth は広い端末でバーが長くなりすぎないための上限
	maxBarWidth  = 40
	defaultWidth = 80
	updatePeriod = time.Second / 10
)

// Bar は1行の進捗バーです。Reportは抽出処理と同じgoroutineから呼び出します
type Bar struct {
	out   io.Writer
	total int
	width func() int
	now   func() time.Time

	lastPrint    time.Time
	lastPrintStr string
	finished     bool
}

// New は標準エラーに描画するBarを作成します。totalはチャンク数です
func New(total int) *Bar {
	fd := int(os.Stderr.Fd())
	return NewWithWriter(os.Stderr, total, func() int {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
		return defaultWidth
	})
}

// NewWithWriter は出力先と幅を指定してBarを作成します
func NewWithWriter(out io.Writer, total int, width func() int) *Bar {
	return &Bar{
		out:   out,
		total: total,
		width: width,
		now:   time.Now,
	}
}

// IsTerminal は標準エラーが端末か判定します
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}

// Report は進捗を描画します。完了（1.0）以外は一定間隔でのみ描画します
func (b *Bar) Report(fraction float64, message string) error {
	if b.finished {
		return nil
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	now := b.now()
	done := fraction >= 1
	if !done && !b.lastPrint.IsZero() && now.Sub(b.lastPrint) < updatePeriod {
		return nil
	}
	b.lastPrint = now

	out := b.render(fraction, message)
	if out != b.lastPrintStr {
		// 前の行を消してから描画する
		if _, err := fmt.Fprintf(b.out, "\r\033[K%s", out); err != nil {
			return err
		}
		b.lastPrintStr = out
	}

	if done {
		b.finished = true
		_, err := fmt.Fprint(b.out, "\n")
		return err
	}
	return nil
}

// Clear は描画中の行を消します。次のReportは間隔に関係なく描画されます
func (b *Bar) Clear() {
	if b.finished || b.lastPrintStr == "" {
		return
	}
	fmt.Fprint(b.out, "\r\033[K")
	b.lastPrintStr = ""
	b.lastPrint = time.Time{}
}

// render は進捗バーの1行を組み立てます
func (b *Bar) render(fraction float64, message string) string {
	pos := int(fraction*float64(b.total) + 0.5)
	counter := fmt.Sprintf(" %6.2f%% %s/%s ", fraction*100, humanize.Comma(int64(pos)), humanize.Comma(int64(b.total)))

	width := b.width()
	barWidth := width/2 - 2 // 2 for the surrounding []
	if barWidth > maxBarWidth {
		barWidth = maxBarWidth
	}
	if barWidth < 0 {
		barWidth = 0
	}

	filled := int(fraction * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", barWidth-filled) + "]"

	remaining := width - len(bar) - len(counter) - 1
	return bar + counter + fileutil.TruncateMiddle(message, remaining)
}
