package entities

import (
	"math"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/ecs"
)

// BurstResult 一次爆炸生成的粒子统计
type BurstResult struct {
	Sparks  int // 请求的火花数
	Ring    int // 请求的光环粒子数
	Dropped int // 因活跃粒子上限被丢弃的数量
}

// Total 请求的粒子总数
func (r BurstResult) Total() int {
	return r.Sparks + r.Ring
}

// SpawnBurst 让火箭在当前位置爆炸
//
// 生成两组 spark 类型的粒子：
//   - 火花：随机角度、随机速度、独立寿命和透明度，约 35% 闪烁
//   - 光环：均匀角度、同一颜色、全部闪烁，速度受火箭 glow 影响
//
// 火箭状态切换为 Burst 并记录爆炸时间；非 Ascending 状态的火箭不会重复爆炸。
func (f *FireworkFactory) SpawnBurst(id ecs.EntityID, now time.Duration) (BurstResult, bool) {
	rocket, ok := ecs.GetComponent[*components.RocketComponent](f.em, id)
	if !ok || rocket.State != components.RocketAscending {
		return BurstResult{}, false
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](f.em, id)
	if !ok {
		return BurstResult{}, false
	}

	rocket.State = components.RocketBurst
	dropsBefore := f.particles.Dropped()

	tier := rocket.Tier
	ps, rs, ls := tier.Particle, tier.Radius, tier.Life

	sc := f.cfg.Burst.Sparks
	core := floorCount(float64(sc.CoreCount) * sc.CoreScale.Factor(rs))
	extra := floorCount(float64(sc.ExtraCount) * sc.ExtraScale.Factor(rs))
	sparkCount := core + int(f.src.Float64()*float64(extra))

	baseColor := pickColor(f.src, rocket.Palette)
	speed := sc.Speed.Scaled(rs)
	jitterScale := sc.VelocityJitterScale.Factor(rs)

	for i := 0; i < sparkCount; i++ {
		a := f.src.Float64() * math.Pi * 2
		v := speed.Sample(f.src) * sc.SpeedJitter.Sample(f.src)

		col := pickColor(f.src, rocket.Palette)
		glow := clamp(sc.Glow.Sample(f.src)*ps, sc.GlowMin, sc.GlowMax)
		size := sc.Size.Sample(f.src) * ps

		p := f.particles.NewParticle(components.KindSpark)
		p.EntityID = id
		p.X, p.Y = pos.X, pos.Y
		p.VX = math.Cos(a)*v + particle.RandomInRange(f.src, -sc.VelocityJitter, sc.VelocityJitter)*jitterScale
		p.VY = math.Sin(a)*v + particle.RandomInRange(f.src, -sc.VelocityJitter, sc.VelocityJitter)*jitterScale
		p.Life = sc.Life.Sample(f.src) * ls
		p.Size = size
		p.Opacity = sc.Opacity.Sample(f.src)
		p.Drag = sc.Drag
		p.Twinkle = particle.Chance(f.src, sc.TwinkleChance)
		p.Color = col

		f.dress(p, size, size, glow)
		f.particles.Add(p)
	}

	rc := f.cfg.Burst.Ring
	ringBase := rc.BaseCount + int(f.src.Float64()*float64(rc.ExtraCount))
	ringCount := floorCount(float64(ringBase) * rc.CountScale.Factor(rs))
	ringSpeed := rc.Speed.Scaled(rs)
	ringGlow := clamp(rc.Glow*ps, rc.GlowMin, rc.GlowMax)

	for i := 0; i < ringCount; i++ {
		a := float64(i) / float64(ringCount) * math.Pi * 2
		v := ringSpeed.Sample(f.src) * rocket.Glow
		size := rc.Size.Sample(f.src) * ps

		p := f.particles.NewParticle(components.KindSpark)
		p.EntityID = id
		p.X, p.Y = pos.X, pos.Y
		p.VX = math.Cos(a) * v
		p.VY = math.Sin(a) * v
		p.Life = rc.Life.Sample(f.src) * ls
		p.Size = size
		p.Opacity = rc.Opacity.Sample(f.src)
		p.Drag = rc.Drag
		p.Twinkle = true
		p.Color = baseColor

		f.dress(p, size, size, ringGlow)
		f.particles.Add(p)
	}

	rocket.BurstTime = now

	return BurstResult{
		Sparks:  sparkCount,
		Ring:    ringCount,
		Dropped: f.particles.Dropped() - dropsBefore,
	}, true
}
