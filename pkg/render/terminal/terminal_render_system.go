// Package terminal 把烟花场景画到 tcell 字符终端上
package terminal

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/game"
	"github.com/gonewx/fireworks/pkg/systems"
)

// starColor 背景星星的颜色
var starColor = color.RGBA{R: 0xe8, G: 0xee, B: 0xff, A: 0xff}

// RenderSystem 把粒子画到终端字符网格上
//
// 模拟坐标按 (Width/cols, Height/rows) 缩放到单元格；
// 亮度通过把颜色向黑色混合来表现，字符形状区分粒子类型。
type RenderSystem struct {
	screen tcell.Screen
	pool   *game.ParticlePool
	stars  *systems.StarfieldSystem

	// CellWidth/CellHeight 每个单元格对应的模拟像素
	CellWidth  float64
	CellHeight float64
}

// NewRenderSystem 创建终端渲染系统
func NewRenderSystem(screen tcell.Screen, pool *game.ParticlePool, stars *systems.StarfieldSystem) *RenderSystem {
	return &RenderSystem{
		screen:     screen,
		pool:       pool,
		stars:      stars,
		CellWidth:  8,
		CellHeight: 16,
	}
}

// Viewport 返回终端尺寸对应的模拟视口（像素）
func (s *RenderSystem) Viewport() (float64, float64) {
	cols, rows := s.screen.Size()
	return float64(cols) * s.CellWidth, float64(rows) * s.CellHeight
}

// Draw 清屏并绘制星空与粒子（不调用 Show）
func (s *RenderSystem) Draw() {
	s.screen.Clear()
	cols, rows := s.screen.Size()

	if s.stars != nil {
		for i, star := range s.stars.Stars() {
			a := s.stars.StarAlpha(i)
			if a < 0.08 {
				continue
			}
			glyph := '.'
			if star.Class == components.StarBright {
				glyph = '+'
			}
			s.put(cols, rows, star.X, star.Y, glyph, starColor, a)
		}
	}

	s.pool.ForEachAttached(func(h components.VisualHandle, v *components.Visual) {
		if v.Alpha <= 0.02 {
			return
		}
		s.put(cols, rows, v.X, v.Y, Glyph(h.Kind, v), v.Color, v.Alpha)
	})
}

// DrawText 在指定行列写入一行文本
func (s *RenderSystem) DrawText(col, row int, text string, style tcell.Style) {
	for i, r := range []rune(text) {
		s.screen.SetContent(col+i, row, r, nil, style)
	}
}

func (s *RenderSystem) put(cols, rows int, x, y float64, glyph rune, c color.RGBA, alpha float64) {
	col := int(x / s.CellWidth)
	row := int(y / s.CellHeight)
	if col < 0 || col >= cols || row < 0 || row >= rows {
		return
	}
	style := tcell.StyleDefault.Foreground(Dim(c, alpha)).Background(tcell.ColorBlack)
	s.screen.SetContent(col, row, glyph, nil, style)
}

// Glyph 根据粒子类型选择字符；尾迹按方向选择线条字符
func Glyph(kind components.ParticleKind, v *components.Visual) rune {
	switch kind {
	case components.KindTrail:
		// Rotation 0° 指向屏幕下方，折算到 [0, 180)
		deg := math.Mod(v.Rotation, 180)
		if deg < 0 {
			deg += 180
		}
		switch {
		case deg < 22.5 || deg >= 157.5:
			return '|'
		case deg < 67.5:
			return '/'
		case deg < 112.5:
			return '-'
		default:
			return '\\'
		}
	case components.KindHead:
		return '@'
	default:
		if v.Width >= 3 {
			return '*'
		}
		return '·'
	}
}

// Dim 按亮度把颜色向黑色混合
func Dim(c color.RGBA, alpha float64) tcell.Color {
	a := math.Max(0, math.Min(1, alpha))
	return tcell.NewRGBColor(int32(float64(c.R)*a), int32(float64(c.G)*a), int32(float64(c.B)*a))
}
