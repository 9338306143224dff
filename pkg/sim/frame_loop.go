package sim

import (
	"log"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/ecs"
	"github.com/gonewx/fireworks/pkg/entities"
	"github.com/gonewx/fireworks/pkg/game"
	"github.com/gonewx/fireworks/pkg/systems"
)

// FrameLoop 每个显示帧调用一次 Tick 的模拟主循环
//
// 每帧顺序：
//  1. SpawnSystem 按累加器生成火箭（含尾迹和头部粒子）
//  2. RocketSystem 推进火箭状态机，爆炸时生成火花和光环
//  3. ParticleSystem 推进所有粒子
//  4. 回收死亡粒子和实体
//
// 冻结时 Tick 不做任何模拟，只重置时间基准，解冻后不会补帧。
// 模拟时钟只在实际推进时增长，火箭的爆炸停留时间按模拟时钟计算。
type FrameLoop struct {
	cfg *config.FireworksConfig

	em       *ecs.EntityManager
	pool     *game.ParticlePool
	registry *game.ParticleRegistry
	factory  *entities.FireworkFactory

	spawner *systems.SpawnSystem
	rockets *systems.RocketSystem
	physics *systems.ParticleSystem

	running  bool
	spawning bool
	frozen   bool
	dissolve bool

	width, height float64

	last    time.Duration
	hasLast bool
	clock   time.Duration
	ticks   int
}

// FrameStats 单帧的执行结果
type FrameStats struct {
	Advanced bool    // 是否实际推进了模拟
	DT       float64 // 实际使用的时间步长（秒）
	Spawned  int
	Bursts   int
	Expired  int
	Purged   int
}

// LoopStats 循环的累计统计
type LoopStats struct {
	Clock   time.Duration
	Ticks   int
	Live    int
	Rockets int
	Dropped int
	Spawned int
	Bursts  int
	Pool    game.PoolStats
}

// ParticleView 渲染层读取的单个粒子视图
type ParticleView struct {
	Kind components.ParticleKind
	components.Visual
}

// NewFrameLoop 创建模拟循环（初始为停止状态、不生成火箭）
func NewFrameLoop(cfg *config.FireworksConfig, src particle.Source) *FrameLoop {
	em := ecs.NewEntityManager()
	pool := game.NewParticlePool()
	registry := game.NewParticleRegistry(pool, cfg.Spawn.MaxActiveParticles, cfg.Spawn.StrictParticleCap)
	factory := entities.NewFireworkFactory(em, registry, cfg, src)

	return &FrameLoop{
		cfg:      cfg,
		em:       em,
		pool:     pool,
		registry: registry,
		factory:  factory,
		spawner:  systems.NewSpawnSystem(factory, &cfg.Spawn),
		rockets:  systems.NewRocketSystem(em, factory, cfg),
		physics:  systems.NewParticleSystem(registry, &cfg.Physics),
	}
}

// Start 启动循环（幂等）；时间基准被重置，启动后的第一帧 dt = 0
func (l *FrameLoop) Start() {
	if l.running {
		return
	}
	l.running = true
	l.hasLast = false
	log.Printf("[FrameLoop] started")
}

// Stop 停止循环，之后的 Tick 不做任何事
func (l *FrameLoop) Stop() {
	if !l.running {
		return
	}
	l.running = false
	log.Printf("[FrameLoop] stopped after %d ticks", l.ticks)
}

// Running 循环是否在运行
func (l *FrameLoop) Running() bool {
	return l.running
}

// SetSpawning 开关火箭生成
func (l *FrameLoop) SetSpawning(on bool) {
	l.spawning = on
}

// SetFrozen 冻结/解冻模拟
func (l *FrameLoop) SetFrozen(on bool) {
	l.frozen = on
}

// SetDissolve 开关溶解效果
func (l *FrameLoop) SetDissolve(on bool) {
	l.dissolve = on
}

// Spawning 是否正在生成火箭
func (l *FrameLoop) Spawning() bool { return l.spawning }

// Frozen 是否冻结
func (l *FrameLoop) Frozen() bool { return l.frozen }

// Dissolve 是否处于溶解效果中
func (l *FrameLoop) Dissolve() bool { return l.dissolve }

// SetViewport 更新视口尺寸，负值按 0 处理
func (l *FrameLoop) SetViewport(width, height float64) {
	l.width = max(0, width)
	l.height = max(0, height)
}

// Viewport 返回视口尺寸
func (l *FrameLoop) Viewport() (float64, float64) {
	return l.width, l.height
}

// OnBurst 注册爆炸回调，回调在 Tick 内同步执行
func (l *FrameLoop) OnBurst(fn func(systems.BurstEvent)) {
	l.rockets.OnBurst(fn)
}

// ClearAll 立即释放所有粒子并删除所有实体
func (l *FrameLoop) ClearAll() {
	particles := l.registry.ClearAll()
	rockets := l.em.Count()
	l.em.Clear()
	l.spawner.Reset()
	log.Printf("[FrameLoop] cleared %d particles, %d rockets", particles, rockets)
}

// Tick 推进一帧
//
// now 是单调时间戳；dt = now - 上一帧，限制在 [0, MaxFrameDelta]。
func (l *FrameLoop) Tick(now time.Duration) FrameStats {
	if !l.running {
		return FrameStats{}
	}
	if l.frozen {
		l.last = now
		l.hasLast = true
		return FrameStats{}
	}

	var dt time.Duration
	if l.hasLast {
		dt = now - l.last
	}
	l.last = now
	l.hasLast = true

	dt = min(max(dt, 0), l.cfg.FrameDelta())
	l.clock += dt
	l.ticks++

	ctx := systems.TickContext{
		Now:      l.clock,
		DT:       dt.Seconds(),
		Spawning: l.spawning,
		Frozen:   l.frozen,
		Dissolve: l.dissolve,
		Width:    l.width,
		Height:   l.height,
	}

	stats := FrameStats{Advanced: true, DT: ctx.DT}
	stats.Spawned = l.spawner.Update(ctx)
	stats.Bursts = l.rockets.Update(ctx)
	stats.Expired = l.physics.Update(ctx)

	stats.Purged = l.registry.Compact()
	l.em.RemoveMarkedEntities()
	return stats
}

// Clock 返回模拟时钟
func (l *FrameLoop) Clock() time.Duration {
	return l.clock
}

// Visuals 按活跃粒子顺序把视觉状态追加到 dst
func (l *FrameLoop) Visuals(dst []ParticleView) []ParticleView {
	for _, p := range l.registry.Live() {
		if p.Dead {
			continue
		}
		v := l.pool.Visual(p.Handle)
		if v == nil {
			continue
		}
		dst = append(dst, ParticleView{Kind: p.Kind, Visual: *v})
	}
	return dst
}

// Pool 返回粒子池（渲染层直接遍历句柄）
func (l *FrameLoop) Pool() *game.ParticlePool {
	return l.pool
}

// Registry 返回活跃粒子集合
func (l *FrameLoop) Registry() *game.ParticleRegistry {
	return l.registry
}

// Entities 返回实体管理器
func (l *FrameLoop) Entities() *ecs.EntityManager {
	return l.em
}

// Factory 返回火箭工厂
func (l *FrameLoop) Factory() *entities.FireworkFactory {
	return l.factory
}

// Stats 返回当前统计快照
func (l *FrameLoop) Stats() LoopStats {
	return LoopStats{
		Clock:   l.clock,
		Ticks:   l.ticks,
		Live:    l.registry.Len(),
		Rockets: len(ecs.GetEntitiesWith1[*components.RocketComponent](l.em)),
		Dropped: l.registry.Dropped(),
		Spawned: l.spawner.Total(),
		Bursts:  l.rockets.Bursts(),
		Pool:    l.pool.Stats(),
	}
}
