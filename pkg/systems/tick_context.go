package systems

import (
	"time"

	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/ecs"
)

// TickContext 每帧开始时读取一次的全局状态
//
// 模拟只依赖 (上一帧状态, TickContext)，系统内部不读取任何外部可变状态。
type TickContext struct {
	// Now 模拟时钟（只在实际推进模拟时增长）
	Now time.Duration

	// DT 本帧时间步长（秒），已限制在 [0, MaxFrameDelta]
	DT float64

	Spawning bool
	Frozen   bool
	Dissolve bool

	// Width/Height 视口尺寸（像素）
	Width  float64
	Height float64
}

// BurstEvent 火箭爆炸事件
type BurstEvent struct {
	Entity       ecs.EntityID
	X, Y         float64
	Sparks       int
	Ring         int
	Dropped      int
	Tier         components.SizeTier
	PaletteIndex int
	At           time.Duration
}
