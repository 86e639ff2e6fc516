package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"
)

// newTestBar は時刻を手動で進められるBarを作成します
func newTestBar(total, width int) (*Bar, *bytes.Buffer, *time.Time) {
	var buf bytes.Buffer
	clock := time.Unix(0, 0)
	b := NewWithWriter(&buf, total, func() int { return width })
	b.now = func() time.Time { return clock }
	return b, &buf, &clock
}

func TestBar_Render(t *testing.T) {
	b, _, _ := newTestBar(2000, 80)

	out := b.render(0.5, "assets/characters/aatrox/skins/base/aatrox.skn")
	if !strings.HasPrefix(out, "[") {
		t.Errorf("render should start with bar: %q", out)
	}
	if !strings.Contains(out, " 50.00% 1,000/2,000 ") {
		t.Errorf("render should contain percentage and counts: %q", out)
	}
	if utf8.RuneCountInString(out) > 80 {
		t.Errorf("render is wider than terminal: %d", utf8.RuneCountInString(out))
	}
}

func TestBar_TruncatesMessage(t *testing.T) {
	b, _, _ := newTestBar(10, 60)

	out := b.render(0.1, strings.Repeat("a", 100)+"/end.bin")
	if !strings.Contains(out, "…") {
		t.Errorf("long message should be truncated: %q", out)
	}
	if !strings.HasSuffix(out, "end.bin") {
		t.Errorf("truncated message should keep the tail: %q", out)
	}
}

func TestBar_Report(t *testing.T) {
	b, buf, clock := newTestBar(3, 80)

	if err := b.Report(0, "a.bin"); err != nil {
		t.Fatal(err)
	}
	first := buf.Len()
	if first == 0 {
		t.Fatal("first report should be drawn")
	}

	// 間隔内の報告は描画しない
	if err := b.Report(1.0/3, "b.bin"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != first {
		t.Error("report within update period should be throttled")
	}

	*clock = clock.Add(time.Second)
	if err := b.Report(2.0/3, "c.bin"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "c.bin") {
		t.Error("report after update period should be drawn")
	}

	// 完了は間隔に関係なく描画し、改行で終える
	if err := b.Report(1, "done"); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "done\n") {
		t.Errorf("final report should end with newline: %q", buf.String())
	}

	// 完了後は何も描画しない
	n := buf.Len()
	if err := b.Report(1, "again"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != n {
		t.Error("reports after completion should be ignored")
	}
}

func TestBar_Clear(t *testing.T) {
	b, buf, _ := newTestBar(4, 80)

	// 描画前のClearは何も出力しない
	b.Clear()
	if buf.Len() != 0 {
		t.Errorf("Clear before first report should not write: %q", buf.String())
	}

	if err := b.Report(0.25, "a.bin"); err != nil {
		t.Fatal(err)
	}
	b.Clear()
	if !strings.HasSuffix(buf.String(), "\r\033[K") {
		t.Errorf("Clear should erase the current line: %q", buf.String())
	}

	// 同じ内容でも間隔内でも再描画される
	n := buf.Len()
	if err := b.Report(0.25, "a.bin"); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == n || !strings.HasSuffix(buf.String(), "a.bin") {
		t.Errorf("report after Clear should redraw: %q", buf.String()[n:])
	}

	// 完了後のClearは何もしない
	if err := b.Report(1, "done"); err != nil {
		t.Fatal(err)
	}
	n = buf.Len()
	b.Clear()
	if buf.Len() != n {
		t.Error("Clear after completion should not write")
	}
}
