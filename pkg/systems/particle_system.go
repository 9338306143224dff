package systems

import (
	"math"

	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/game"
)

// ParticleSystem 推进所有活跃粒子并写入它们的视觉句柄
//
// 每个粒子每帧：
//  1. age += dt；age >= life 时立即归还句柄并标记死亡
//  2. 速度乘以 drag^(60·dt)，与帧率无关
//  3. 竖直速度叠加按类型缩放的重力（trail 较弱）
//  4. 位置积分，计算本帧透明度（渐隐、闪烁、溶解增强）
//  5. trail 额外计算朝向角
//
// 死亡粒子的清理由 FrameLoop 在帧末统一进行。
type ParticleSystem struct {
	particles *game.ParticleRegistry
	physics   *config.PhysicsConfig
}

// NewParticleSystem 创建粒子系统
func NewParticleSystem(particles *game.ParticleRegistry, physics *config.PhysicsConfig) *ParticleSystem {
	return &ParticleSystem{
		particles: particles,
		physics:   physics,
	}
}

// ParticleFrame 单个粒子一帧的渲染结果
type ParticleFrame struct {
	Alpha    float64
	Rotation float64 // 度，仅 trail 有效
}

// Update 推进所有粒子，返回本帧过期的数量
func (ps *ParticleSystem) Update(ctx TickContext) int {
	pool := ps.particles.Pool()
	expired := 0

	for _, p := range ps.particles.Live() {
		if p.Dead {
			continue
		}

		frame, alive := IntegrateParticle(p, ctx.DT, ctx.Dissolve, ps.physics)
		if !alive {
			ps.particles.Kill(p)
			expired++
			continue
		}

		v := pool.Visual(p.Handle)
		if v == nil {
			continue
		}
		v.X, v.Y = p.X, p.Y
		v.Alpha = frame.Alpha
		v.Rotation = frame.Rotation
	}
	return expired
}

// IntegrateParticle 推进单个粒子 dt 秒
//
// 返回本帧渲染数据，以及粒子是否仍然存活（age < life）。
// 负的 dt 按 0 处理。
func IntegrateParticle(p *components.Particle, dt float64, dissolve bool, phys *config.PhysicsConfig) (ParticleFrame, bool) {
	if dt < 0 {
		dt = 0
	}

	p.Age += dt
	if p.Age >= p.Life {
		return ParticleFrame{}, false
	}

	drag := p.Drag
	if drag == 0 {
		drag = phys.AirDrag
	}
	decay := math.Pow(drag, phys.ReferenceFPS*dt)
	p.VX *= decay
	p.VY *= decay

	if p.Kind == components.KindTrail {
		p.VY += phys.Gravity * dt * phys.TrailGravityFactor
	} else {
		p.VY += phys.Gravity * dt * phys.ParticleGravityFactor
	}

	p.X += p.VX * dt
	p.Y += p.VY * dt

	frame := ParticleFrame{
		Alpha: FrameOpacity(p, dissolve, phys),
	}
	if p.Kind == components.KindTrail {
		frame.Rotation = math.Atan2(p.VY, p.VX)*180/math.Pi + 90
	}
	return frame, true
}

// FrameOpacity 计算粒子当前的透明度
//
// alpha = (1 - age/life) × [闪烁调制] × opacity × boost，结果限制在 [0, 1]。
// 溶解模式下 boost = DissolveBoost，否则为 1。
func FrameOpacity(p *components.Particle, dissolve bool, phys *config.PhysicsConfig) float64 {
	if p.Life <= 0 {
		return 0
	}
	alpha := 1 - p.Age/p.Life

	if p.Twinkle {
		tw := phys.Twinkle
		alpha *= tw.Base + tw.Amplitude*math.Sin(p.Age*tw.Frequency+p.X*tw.PositionPhase)
	}

	boost := 1.0
	if dissolve {
		boost = phys.DissolveBoost
	}
	return math.Max(0, math.Min(1, alpha*p.Opacity*boost))
}
