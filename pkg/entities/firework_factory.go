package entities

import (
	"image/color"
	"math"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/ecs"
	"github.com/gonewx/fireworks/pkg/game"
)

// FireworkFactory 创建火箭实体以及它们的粒子
//
// 所有随机决策都从注入的 Source 读取，固定种子即可复现整场烟花。
type FireworkFactory struct {
	em        *ecs.EntityManager
	particles *game.ParticleRegistry
	cfg       *config.FireworksConfig
	src       particle.Source
}

// NewFireworkFactory 创建工厂
func NewFireworkFactory(em *ecs.EntityManager, particles *game.ParticleRegistry, cfg *config.FireworksConfig, src particle.Source) *FireworkFactory {
	return &FireworkFactory{
		em:        em,
		particles: particles,
		cfg:       cfg,
		src:       src,
	}
}

// RocketParams 一枚火箭的初始参数
type RocketParams struct {
	OriginX, OriginY float64
	BurstAtY         float64
	VX, VY           float64
	PaletteIndex     int
	Tier             components.SizeTier
	Glow             float64
}

// RandomRocketParams 在视口内随机生成火箭参数
//
// 采样顺序：发射点 X/Y、爆炸高度、水平/竖直速度、调色板、尺寸档位、亮度。
// 视口为 0 时所有位置退化为 0，不会出现除零。
func (f *FireworkFactory) RandomRocketParams(width, height float64) RocketParams {
	sc := f.cfg.Spawn

	originX := sc.OriginX.Scaled(width).Sample(f.src)
	originY := height * sc.OriginY.Sample(f.src)
	apexY := height * sc.ApexY.Sample(f.src)

	vx := sc.VelocityX.Sample(f.src)
	vy := -sc.Speed.Sample(f.src)

	paletteIndex := particle.RandomIndex(f.src, len(f.cfg.PaletteColors()))
	tier := PickSizeTier(f.src, f.cfg.Tiers)

	return RocketParams{
		OriginX:      originX,
		OriginY:      originY,
		BurstAtY:     apexY,
		VX:           vx,
		VY:           vy,
		PaletteIndex: paletteIndex,
		Tier:         tier,
		Glow:         sc.Glow.Sample(f.src),
	}
}

// NewFirework 随机生成一枚火箭（含尾迹和头部粒子）
func (f *FireworkFactory) NewFirework(width, height float64, now time.Duration) ecs.EntityID {
	return f.SpawnRocket(f.RandomRocketParams(width, height), now)
}

// SpawnRocket 按给定参数创建火箭实体，并立即生成一个尾迹粒子和一个头部粒子
//
// 返回:
//   - ecs.EntityID: 火箭实体 ID
func (f *FireworkFactory) SpawnRocket(params RocketParams, now time.Duration) ecs.EntityID {
	palettes := f.cfg.PaletteColors()
	if params.PaletteIndex < 0 || params.PaletteIndex >= len(palettes) {
		params.PaletteIndex = 0
	}
	palette := palettes[params.PaletteIndex]

	id := f.em.CreateEntity()
	f.em.AddComponent(id, &components.PositionComponent{X: params.OriginX, Y: params.OriginY})
	f.em.AddComponent(id, &components.VelocityComponent{VX: params.VX, VY: params.VY})
	f.em.AddComponent(id, &components.RocketComponent{
		State:        components.RocketAscending,
		OriginX:      params.OriginX,
		OriginY:      params.OriginY,
		BurstAtY:     params.BurstAtY,
		PaletteIndex: params.PaletteIndex,
		Palette:      palette,
		Tier:         params.Tier,
		Glow:         params.Glow,
		Born:         now,
	})

	f.spawnTrail(id, params, palette)
	f.spawnHead(id, params, palette)
	return id
}

// spawnTrail 尾迹：沿火箭路径渐隐的细长条，受重力影响较小
func (f *FireworkFactory) spawnTrail(id ecs.EntityID, params RocketParams, palette []color.RGBA) {
	tc := f.cfg.Trail
	tp := params.Tier.Particle

	col := pickColor(f.src, palette)
	length := tc.Length.Sample(f.src) * tp
	width := clamp(tc.Width*tp, tc.WidthMin, tc.WidthMax)

	p := f.particles.NewParticle(components.KindTrail)
	p.EntityID = id
	p.X, p.Y = params.OriginX, params.OriginY
	p.VX, p.VY = params.VX*tc.VelocityScale, params.VY*tc.VelocityScale
	p.Life = tc.Life * params.Tier.Life
	p.Size = length
	p.Opacity = tc.Opacity
	p.Drag = tc.Drag
	p.Color = col

	f.dress(p, width, length, 0)
	f.particles.Add(p)
}

// spawnHead 头部：火箭前端的亮点，受完整重力
func (f *FireworkFactory) spawnHead(id ecs.EntityID, params RocketParams, palette []color.RGBA) {
	hc := f.cfg.Head
	tp := params.Tier.Particle

	col := pickColor(f.src, palette)
	size := hc.Size * tp
	glow := clamp(hc.Glow*tp, hc.GlowMin, hc.GlowMax)

	p := f.particles.NewParticle(components.KindHead)
	p.EntityID = id
	p.X, p.Y = params.OriginX, params.OriginY
	p.VX, p.VY = params.VX, params.VY
	p.Life = hc.Life * params.Tier.Life
	p.Size = size
	p.Opacity = hc.Opacity
	p.Drag = hc.Drag
	p.Color = col

	f.dress(p, size, size, glow)
	f.particles.Add(p)
}

// dress 写入句柄的静态视觉属性；位置和透明度由粒子系统每帧更新
func (f *FireworkFactory) dress(p *components.Particle, width, height, glow float64) {
	v := f.particles.Pool().Visual(p.Handle)
	if v == nil {
		return
	}
	v.X, v.Y = p.X, p.Y
	v.Alpha = 0
	v.Width = width
	v.Height = height
	v.Glow = glow
	v.Color = p.Color
}

func pickColor(src particle.Source, palette []color.RGBA) color.RGBA {
	if len(palette) == 0 {
		return color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	}
	return palette[particle.RandomIndex(src, len(palette))]
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// floorCount 向下取整为数量；加一个极小量吸收浮点误差（如 0.82+0.18 略小于 1）
func floorCount(v float64) int {
	n := int(math.Floor(v + 1e-9))
	if n < 0 {
		return 0
	}
	return n
}
