package view

import (
	"strings"
	"testing"

	"gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/share"
)

func TestAliveTiles_DrawnTileLast(t *testing.T) {
	drawn := share.Tile{Type: share.Man1, ID: 1}
	info := mahjong.PlayerImage{
		AliveTiles:    []share.Tile{{Type: share.Red}, drawn, {Type: share.Pin5}},
		LastDrawnTile: &drawn,
	}
	out := AliveTiles(info)
	if !strings.HasSuffix(strings.TrimSpace(stripANSI(out)), "1万") {
		t.Fatalf("drawn tile should be rendered last: %q", stripANSI(out))
	}
	if !strings.HasPrefix(stripANSI(out), "5筒 中") {
		t.Fatalf("rest of the hand should be sorted: %q", stripANSI(out))
	}
}

func TestFormatAction(t *testing.T) {
	action := mahjong.NewPlayerAction(share.SeatSouth, mahjong.Peng, share.Tile{Type: share.So3}, share.Tile{Type: share.So3, ID: 1})
	out := stripANSI(FormatAction(action))
	for _, want := range []string{"南", "PENG", "3索 3索"} {
		if !strings.Contains(out, want) {
			t.Fatalf("%q should contain %q", out, want)
		}
	}
	if got := stripANSI(FormatAction(mahjong.NewAutoAction(mahjong.Liuju))); !strings.Contains(got, "LIUJU") {
		t.Fatalf("auto action should render its type: %q", got)
	}
}

// stripANSI 去掉终端颜色控制符
func stripANSI(s string) string {
	var b strings.Builder
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEscape = true
		case inEscape && r == 'm':
			inEscape = false
		case !inEscape:
			b.WriteRune(r)
		}
	}
	return b.String()
}
