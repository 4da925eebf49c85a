package view

import (
	"strings"

	"gomahjong/framework/game/engines/mahjong"
	"gomahjong/framework/game/share"

	"github.com/charmbracelet/lipgloss"
)

var (
	manStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#D7263D"))
	pinStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#1B98E0"))
	soStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#2E933C"))
	honorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F4F4F9")).Bold(true)
	flowerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F49D37"))
	drawnStyle  = lipgloss.NewStyle().Underline(true)
	actionStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1, 0, 1)
)

func tileStyle(t share.TileType) lipgloss.Style {
	switch t.Suit() {
	case share.SuitMan:
		return manStyle
	case share.SuitPin:
		return pinStyle
	case share.SuitSo:
		return soStyle
	case share.SuitHonor:
		return honorStyle
	default:
		return flowerStyle
	}
}

// FormatTile 单张牌
func FormatTile(t share.Tile) string {
	return tileStyle(t.Type).Render(t.Type.String())
}

// FormatTiles 按固定顺序输出一组牌
func FormatTiles(tiles []share.Tile) string {
	sorted := share.SortedTiles(tiles)
	parts := make([]string, len(sorted))
	for i, t := range sorted {
		parts[i] = FormatTile(t)
	}
	return strings.Join(parts, " ")
}

// AliveTiles 手牌，最新摸到的牌放在最后并加下划线
func AliveTiles(info mahjong.PlayerImage) string {
	tiles := info.AliveTiles
	if info.LastDrawnTile == nil {
		return FormatTiles(tiles)
	}
	rest, ok := share.RemoveTiles(tiles, *info.LastDrawnTile)
	if !ok {
		return FormatTiles(tiles)
	}
	drawn := drawnStyle.Render(FormatTile(*info.LastDrawnTile))
	if len(rest) == 0 {
		return drawn
	}
	return FormatTiles(rest) + "  " + drawn
}

// FormatAction 动作：座位、类型、牌
func FormatAction(action mahjong.Action) string {
	var b strings.Builder
	if action.Seat.Valid() {
		b.WriteString(action.Seat.String())
		b.WriteByte(' ')
	}
	if action.Type != nil {
		b.WriteString(actionStyle.Render(action.Type.Name()))
	}
	if len(action.Tiles) > 0 {
		b.WriteByte(' ')
		b.WriteString(FormatTiles(action.Tiles))
	}
	return b.String()
}

// FormatActions 一组候选动作
func FormatActions(actions []mahjong.Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = FormatAction(a)
	}
	return strings.Join(parts, ", ")
}
