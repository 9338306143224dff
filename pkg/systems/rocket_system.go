package systems

import (
	"time"

	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/ecs"
	"github.com/gonewx/fireworks/pkg/entities"
)

// RocketSystem 驱动火箭状态机
//
// 状态转换：
//   - Ascending: 受部分重力和每帧阻力影响上升；到达爆炸高度或上升速度衰减到阈值以下时爆炸
//   - Burst: 仅作为计时器保留，爆炸 BurstDwell 秒后标记死亡并销毁实体
//
// 火箭的粒子与实体生命周期无关，实体销毁不会影响仍在飞行的粒子。
type RocketSystem struct {
	em      *ecs.EntityManager
	factory *entities.FireworkFactory
	physics *config.PhysicsConfig
	dwell   time.Duration
	onBurst func(BurstEvent)

	bursts int
}

// NewRocketSystem 创建火箭系统
func NewRocketSystem(em *ecs.EntityManager, factory *entities.FireworkFactory, cfg *config.FireworksConfig) *RocketSystem {
	return &RocketSystem{
		em:      em,
		factory: factory,
		physics: &cfg.Physics,
		dwell:   config.Seconds(cfg.Spawn.BurstDwell),
	}
}

// OnBurst 注册爆炸回调（传 nil 取消）
func (s *RocketSystem) OnBurst(fn func(BurstEvent)) {
	s.onBurst = fn
}

// Bursts 返回累计爆炸次数
func (s *RocketSystem) Bursts() int {
	return s.bursts
}

// Update 推进所有火箭，返回本帧爆炸的数量
func (s *RocketSystem) Update(ctx TickContext) int {
	burstCount := 0
	ids := ecs.GetEntitiesWith3[
		*components.RocketComponent,
		*components.PositionComponent,
		*components.VelocityComponent,
	](s.em)

	for _, id := range ids {
		rocket, _ := ecs.GetComponent[*components.RocketComponent](s.em, id)
		if rocket.Dead {
			continue
		}

		switch rocket.State {
		case components.RocketAscending:
			pos, _ := ecs.GetComponent[*components.PositionComponent](s.em, id)
			vel, _ := ecs.GetComponent[*components.VelocityComponent](s.em, id)
			if s.ascend(ctx, rocket, pos, vel) {
				result, ok := s.factory.SpawnBurst(id, ctx.Now)
				if !ok {
					continue
				}
				burstCount++
				s.bursts++
				if s.onBurst != nil {
					s.onBurst(BurstEvent{
						Entity:       id,
						X:            pos.X,
						Y:            pos.Y,
						Sparks:       result.Sparks,
						Ring:         result.Ring,
						Dropped:      result.Dropped,
						Tier:         rocket.Tier,
						PaletteIndex: rocket.PaletteIndex,
						At:           ctx.Now,
					})
				}
			}

		case components.RocketBurst:
			if ctx.Now-rocket.BurstTime > s.dwell {
				rocket.Dead = true
				s.em.DestroyEntity(id)
			}
		}
	}
	return burstCount
}

// ascend 积分一帧上升运动，返回是否应当爆炸
func (s *RocketSystem) ascend(ctx TickContext, rocket *components.RocketComponent, pos *components.PositionComponent, vel *components.VelocityComponent) bool {
	dt := ctx.DT

	vel.VY += s.physics.Gravity * dt * s.physics.RocketGravityFactor
	vel.VX *= s.physics.RocketDrag
	vel.VY *= s.physics.RocketDrag

	pos.X += vel.VX * dt
	pos.Y += vel.VY * dt

	return pos.Y <= rocket.BurstAtY || vel.VY > s.physics.BurstVelocityThreshold
}
