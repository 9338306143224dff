package systems

import (
	"log"

	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/entities"
)

// SpawnSystem 按固定速率生成火箭
//
// 维护一个小数累加器：每帧增加 dt*Rate，每满 1 生成一枚火箭，
// 单帧最多生成 MaxPerFrame 枚；累加器上限 AccumulatorCap，防止长时间停顿后集中补发。
type SpawnSystem struct {
	factory     *entities.FireworkFactory
	cfg         *config.SpawnConfig
	accumulator float64
	total       int
}

// NewSpawnSystem 创建生成系统
func NewSpawnSystem(factory *entities.FireworkFactory, cfg *config.SpawnConfig) *SpawnSystem {
	return &SpawnSystem{
		factory: factory,
		cfg:     cfg,
	}
}

// Update 按需生成火箭，返回本帧生成数量
func (s *SpawnSystem) Update(ctx TickContext) int {
	// FrameLoop 冻结时不会调用到这里；Frozen 检查服务于直接驱动 SpawnSystem 的调用方
	if !ctx.Spawning || ctx.Frozen {
		return 0
	}

	s.accumulator += ctx.DT * s.cfg.Rate

	spawned := 0
	for s.accumulator >= 1 && spawned < s.cfg.MaxPerFrame {
		s.accumulator--
		s.factory.NewFirework(ctx.Width, ctx.Height, ctx.Now)
		spawned++
		s.total++
	}
	if s.accumulator > s.cfg.AccumulatorCap {
		s.accumulator = s.cfg.AccumulatorCap
	}

	if spawned > 0 && s.total%100 == 0 {
		log.Printf("[SpawnSystem] %d rockets spawned so far", s.total)
	}
	return spawned
}

// Accumulator 返回当前累加器的值
func (s *SpawnSystem) Accumulator() float64 {
	return s.accumulator
}

// Total 返回累计生成的火箭数
func (s *SpawnSystem) Total() int {
	return s.total
}

// Reset 清空累加器
func (s *SpawnSystem) Reset() {
	s.accumulator = 0
}
