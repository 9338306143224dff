package components

import (
	"image/color"
	"time"
)

// RocketState 火箭状态
type RocketState int

const (
	// RocketAscending 上升阶段（初始状态）
	RocketAscending RocketState = iota
	// RocketBurst 已爆炸，实体仅作为计时器保留
	RocketBurst
)

// String 返回状态名称（用于日志）
func (s RocketState) String() string {
	switch s {
	case RocketAscending:
		return "ascending"
	case RocketBurst:
		return "burst"
	default:
		return "unknown"
	}
}

// RocketComponent 火箭实体的状态机数据
//
// 位置和速度分别存放在 PositionComponent / VelocityComponent 中。
// 状态只会 Ascending → Burst 单向转换一次；Burst 之后停留 BurstDwell 秒被标记 Dead。
//
// This is a pure data component following ECS principles - it contains no methods.
type RocketComponent struct {
	State RocketState

	OriginX, OriginY float64 // 发射点
	BurstAtY         float64 // 到达此高度（Y 更小）即爆炸

	PaletteIndex int
	Palette      []color.RGBA
	Tier         SizeTier
	Glow         float64 // 光环速度倍数（ring 粒子使用）

	Born      time.Duration // 创建时间戳（单调时钟）
	BurstTime time.Duration // 爆炸时间戳，仅在 Burst 状态有效
	Dead      bool
}
