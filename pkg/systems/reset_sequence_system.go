package systems

import (
	"log"

	"github.com/gonewx/fireworks/pkg/config"
)

// ResetStep 重置动画的时间点
type ResetStep int

const (
	// ResetDim 星空变暗
	ResetDim ResetStep = iota
	// ResetDark 星空完全隐藏
	ResetDark
	// ResetClear 清空所有粒子和实体、归零秒表
	ResetClear
	// ResetFinish 重建星空、结束溶解
	ResetFinish
)

// String 返回步骤名称（用于日志）
func (s ResetStep) String() string {
	switch s {
	case ResetDim:
		return "dim"
	case ResetDark:
		return "dark"
	case ResetClear:
		return "clear"
	case ResetFinish:
		return "finish"
	default:
		return "unknown"
	}
}

// ResetSequenceSystem 多阶段重置动画
//
// 用帧时间推进的阶段机代替链式定时器：Begin 之后，每次 Update 返回本帧跨过的步骤，
// 由调用方执行对应动作。进行中再次 Begin 会被忽略。
type ResetSequenceSystem struct {
	cfg     *config.ResetConfig
	active  bool
	elapsed float64
	next    int
}

// NewResetSequenceSystem 创建重置动画系统
func NewResetSequenceSystem(cfg *config.ResetConfig) *ResetSequenceSystem {
	return &ResetSequenceSystem{cfg: cfg}
}

// Begin 开始重置；已在进行中返回 false
func (s *ResetSequenceSystem) Begin() bool {
	if s.active {
		log.Printf("[ResetSequence] reset already in progress, ignored")
		return false
	}
	s.active = true
	s.elapsed = 0
	s.next = 0
	return true
}

// Active 是否正在重置
func (s *ResetSequenceSystem) Active() bool {
	return s.active
}

// Elapsed 重置开始后经过的时间（秒）
func (s *ResetSequenceSystem) Elapsed() float64 {
	return s.elapsed
}

// Update 推进 dt 秒，按顺序返回本帧到达的步骤
func (s *ResetSequenceSystem) Update(dt float64) []ResetStep {
	if !s.active {
		return nil
	}
	if dt > 0 {
		s.elapsed += dt
	}

	schedule := [...]float64{
		s.cfg.DimAt,
		s.cfg.DarkAt,
		s.cfg.ClearAt,
		s.cfg.ClearAt + s.cfg.FinishDelay,
	}

	var steps []ResetStep
	for s.next < len(schedule) && s.elapsed >= schedule[s.next] {
		steps = append(steps, ResetStep(s.next))
		s.next++
	}
	if s.next >= len(schedule) {
		s.active = false
	}
	return steps
}
