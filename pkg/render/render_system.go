// Package render 用 ebiten 绘制烟花场景
//
// 只依赖模拟层暴露的视觉句柄、星空和 Backdrop，模拟核心不引用本包。
package render

import (
	"image"
	"image/color"
	"math"

	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/game"
	"github.com/gonewx/fireworks/pkg/systems"
	"github.com/gonewx/fireworks/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// 夜空与月光遮罩的颜色
var (
	nightColor    = color.RGBA{R: 0x05, G: 0x06, B: 0x12, A: 0xff}
	moonwashColor = color.RGBA{R: 0x9f, G: 0xb8, B: 0xff, A: 0xff}
	starColor     = color.RGBA{R: 0xe8, G: 0xee, B: 0xff, A: 0xff}
)

// glowTextureSize 光晕贴图边长（像素）
const glowTextureSize = 64

// RenderSystem 使用 ebiten 绘制星空和粒子
//
// 只读取粒子池中的视觉句柄，不接触模拟状态：
//   - 点状粒子：加法混合的光晕贴图 + 实心圆核心
//   - 尾迹：沿 Rotation 反方向延伸 Height 像素的线段
type RenderSystem struct {
	pool  *game.ParticlePool
	stars *systems.StarfieldSystem
	glow  *ebiten.Image
}

// NewRenderSystem 创建渲染系统
func NewRenderSystem(pool *game.ParticlePool, stars *systems.StarfieldSystem) *RenderSystem {
	return &RenderSystem{
		pool:  pool,
		stars: stars,
		glow:  ebiten.NewImageFromImage(newGlowImage(glowTextureSize)),
	}
}

// Draw 绘制完整的一帧
func (s *RenderSystem) Draw(screen *ebiten.Image, backdrop systems.Backdrop) {
	screen.Fill(nightColor)

	bounds := screen.Bounds()
	w, h := float32(bounds.Dx()), float32(bounds.Dy())

	if backdrop.Moonwash > 0 {
		a := 0.35 * utils.EaseInOutCubic(backdrop.Moonwash)
		vector.DrawFilledRect(screen, 0, 0, w, h, premultiply(moonwashColor, a), false)
	}

	s.drawStars(screen)

	for _, f := range backdrop.Flashes {
		s.drawFlash(screen, f)
	}

	s.pool.ForEachAttached(func(h components.VisualHandle, v *components.Visual) {
		if v.Alpha <= 0 {
			return
		}
		if h.Kind == components.KindTrail {
			s.drawTrail(screen, v)
			return
		}
		s.drawDot(screen, v)
	})
}

func (s *RenderSystem) drawStars(screen *ebiten.Image) {
	if s.stars == nil {
		return
	}
	for i, star := range s.stars.Stars() {
		a := s.stars.StarAlpha(i)
		if a <= 0 {
			continue
		}
		r := float32(1.0)
		switch star.Class {
		case components.StarSmall:
			r = 0.7
		case components.StarBright:
			r = 1.5
		}
		vector.DrawFilledCircle(screen, float32(star.X), float32(star.Y), r, premultiply(starColor, a), true)
	}
}

// drawTrail 尾迹从粒子位置向运动反方向延伸
func (s *RenderSystem) drawTrail(screen *ebiten.Image, v *components.Visual) {
	x0, y0, x1, y1 := TrailSegment(v)
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1),
		float32(math.Max(1, v.Width)), premultiply(v.Color, v.Alpha), true)
}

func (s *RenderSystem) drawDot(screen *ebiten.Image, v *components.Visual) {
	if v.Glow > 0 {
		op := &ebiten.DrawImageOptions{}
		scale := v.Glow * 2 / glowTextureSize
		op.GeoM.Translate(-glowTextureSize/2, -glowTextureSize/2)
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate(v.X, v.Y)
		op.ColorScale.ScaleWithColor(v.Color)
		op.ColorScale.ScaleAlpha(float32(v.Alpha * 0.55))
		op.Blend = ebiten.BlendLighter
		screen.DrawImage(s.glow, op)
	}
	r := float32(math.Max(0.5, v.Width/2))
	vector.DrawFilledCircle(screen, float32(v.X), float32(v.Y), r, premultiply(v.Color, v.Alpha), true)
}

func (s *RenderSystem) drawFlash(screen *ebiten.Image, f systems.Flash) {
	eased := utils.EaseOutQuad(f.Progress)
	a := (1 - eased) * 0.45
	if a <= 0 {
		return
	}
	r := float32(f.Radius * (0.3 + 0.7*eased))
	vector.StrokeCircle(screen, float32(f.X), float32(f.Y), r, 2, premultiply(f.Color, a), true)
}

// TrailSegment 计算尾迹线段的两个端点
//
// Rotation = atan2(vy, vx) + 90°，尾端位于运动方向的反方向 Height 处。
func TrailSegment(v *components.Visual) (x0, y0, x1, y1 float64) {
	theta := (v.Rotation - 90) * math.Pi / 180
	return v.X, v.Y, v.X - math.Cos(theta)*v.Height, v.Y - math.Sin(theta)*v.Height
}

// premultiply 返回按透明度预乘的颜色（ebiten 使用预乘 alpha）
func premultiply(c color.RGBA, a float64) color.RGBA {
	a = utils.Clamp01(a)
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(255 * a),
	}
}

// newGlowImage 生成径向衰减的白色光晕贴图
func newGlowImage(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-c, float64(y)+0.5-c
			d := math.Sqrt(dx*dx+dy*dy) / c
			a := utils.Smoothstep(1 - d)
			v := uint8(255 * a * a)
			img.SetRGBA(x, y, color.RGBA{R: v, G: v, B: v, A: v})
		}
	}
	return img
}
