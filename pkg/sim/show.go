package sim

import (
	"image/color"
	"log"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/game"
	"github.com/gonewx/fireworks/pkg/systems"
)

// flashDuration 爆炸闪光的持续时间（秒）
const flashDuration = 0.35

// Show 烟花秒表的完整表现层状态
//
// 把秒表、控制按钮规则、星空、重置动画和模拟循环组合在一起。
// 所有方法都在同一个帧循环里调用，不需要加锁。
type Show struct {
	cfg       *config.FireworksConfig
	loop      *FrameLoop
	stopwatch *game.Stopwatch
	stars     *systems.StarfieldSystem
	reset     *systems.ResetSequenceSystem

	moonwash      bool
	moonwashLevel float64
	flashes       []systems.Flash

	listeners []func(systems.BurstEvent)

	last    time.Duration
	hasLast bool
}

// NewShow 创建表现层；模拟循环立即启动但不生成火箭
func NewShow(cfg *config.FireworksConfig, src particle.Source) *Show {
	s := &Show{
		cfg:       cfg,
		loop:      NewFrameLoop(cfg, src),
		stopwatch: game.NewStopwatch(),
		stars:     systems.NewStarfieldSystem(&cfg.Stars, src),
		reset:     systems.NewResetSequenceSystem(&cfg.Reset),
	}
	s.loop.OnBurst(s.handleBurst)
	s.loop.Start()
	return s
}

// OnBurst 追加一个爆炸监听器（音效等）
func (s *Show) OnBurst(fn func(systems.BurstEvent)) {
	s.listeners = append(s.listeners, fn)
}

// SetViewport 更新视口；尺寸变化时重建星空
func (s *Show) SetViewport(width, height float64) {
	w, h := s.loop.Viewport()
	s.loop.SetViewport(width, height)
	if w != width || h != height || len(s.stars.Stars()) == 0 {
		s.stars.Rebuild(width, height)
	}
}

// Controls 当前各按钮是否可用
func (s *Show) Controls() game.ControlState {
	return game.ComputeControls(s.stopwatch.Running(), s.loop.Frozen(), s.stopwatch.LapCount(), s.reset.Active())
}

// Start 开始（或从冻结中恢复）
func (s *Show) Start(now time.Duration) bool {
	if !s.Controls().Start {
		return false
	}
	s.loop.SetFrozen(false)
	s.loop.SetDissolve(false)
	s.stars.SetOpacity(s.cfg.Stars.ShowOpacity)
	s.stopwatch.Start(now)
	s.loop.SetSpawning(true)
	s.loop.Start()
	log.Printf("[Show] start at %s", game.FormatTime(s.stopwatch.Elapsed(now)))
	return true
}

// Stop 暂停秒表并冻结画面
func (s *Show) Stop(now time.Duration) bool {
	if !s.Controls().Stop {
		return false
	}
	s.stopwatch.Stop(now)
	s.loop.SetFrozen(true)
	log.Printf("[Show] stop at %s", game.FormatTime(s.stopwatch.Elapsed(now)))
	return true
}

// Lap 记录一圈；不允许计圈时返回 false
func (s *Show) Lap(now time.Duration) (game.Lap, bool) {
	if !s.Controls().Lap {
		return game.Lap{}, false
	}
	lap := s.stopwatch.AddLap(now)
	log.Printf("[Show] %s", lap)
	return lap, true
}

// ClearLaps 清除计圈记录
func (s *Show) ClearLaps() bool {
	if !s.Controls().ClearLaps {
		return false
	}
	s.stopwatch.ClearLaps()
	return true
}

// Reset 开始多阶段重置动画；进行中再次调用被忽略
func (s *Show) Reset(now time.Duration) bool {
	if !s.Controls().Reset || !s.reset.Begin() {
		return false
	}
	s.stopwatch.Stop(now)
	s.loop.SetFrozen(false)
	s.loop.SetSpawning(false)
	s.loop.SetDissolve(true)
	s.moonwash = true
	s.stars.SetOpacity(s.cfg.Reset.StarOpacity)
	log.Printf("[Show] reset begin")
	return true
}

// Resetting 重置动画是否在进行中
func (s *Show) Resetting() bool {
	return s.reset.Active()
}

// Update 推进一帧：重置动画、星空、闪光，然后驱动模拟循环
func (s *Show) Update(now time.Duration) FrameStats {
	var elapsed time.Duration
	if s.hasLast {
		elapsed = max(now-s.last, 0)
	}
	dt := min(elapsed, s.cfg.FrameDelta()).Seconds()
	s.last = now
	s.hasLast = true

	// 重置时间线按墙钟推进，慢帧不会拉长各阶段
	for _, step := range s.reset.Update(elapsed.Seconds()) {
		s.applyResetStep(step)
	}
	s.stars.Update(dt)
	s.updateMoonwash(dt)
	if !s.loop.Frozen() {
		s.updateFlashes(dt)
	}

	return s.loop.Tick(now)
}

func (s *Show) applyResetStep(step systems.ResetStep) {
	log.Printf("[Show] reset step: %s", step)
	switch step {
	case systems.ResetDim:
		s.stars.SetOpacity(s.cfg.Reset.DimStarOpacity)
	case systems.ResetDark:
		s.stars.SetOpacity(0)
	case systems.ResetClear:
		s.loop.ClearAll()
		s.flashes = s.flashes[:0]
		s.moonwash = false
		s.stopwatch.ClearLaps()
		s.stopwatch.Reset()
		s.loop.SetSpawning(false)
		s.loop.SetFrozen(false)
	case systems.ResetFinish:
		w, h := s.loop.Viewport()
		s.stars.Rebuild(w, h)
		s.stars.SetOpacity(0)
		s.loop.SetDissolve(false)
	}
}

func (s *Show) updateMoonwash(dt float64) {
	rate := 1.0
	if d := s.cfg.Stars.TransitionDuration; d > 0 {
		rate = dt / d
	}
	if s.moonwash {
		s.moonwashLevel = min(1, s.moonwashLevel+rate)
	} else {
		s.moonwashLevel = max(0, s.moonwashLevel-rate)
	}
}

func (s *Show) updateFlashes(dt float64) {
	kept := s.flashes[:0]
	for _, f := range s.flashes {
		f.Progress += dt / flashDuration
		if f.Progress < 1 {
			kept = append(kept, f)
		}
	}
	s.flashes = kept
}

func (s *Show) handleBurst(e systems.BurstEvent) {
	c := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	if palettes := s.cfg.PaletteColors(); e.PaletteIndex >= 0 && e.PaletteIndex < len(palettes) && len(palettes[e.PaletteIndex]) > 0 {
		c = palettes[e.PaletteIndex][0]
	}
	s.flashes = append(s.flashes, systems.Flash{
		X:      e.X,
		Y:      e.Y,
		Radius: 120 * e.Tier.Radius,
		Color:  c,
	})
	for _, fn := range s.listeners {
		fn(e)
	}
}

// Backdrop 渲染层需要的背景参数
func (s *Show) Backdrop() systems.Backdrop {
	return systems.Backdrop{
		Moonwash: s.moonwashLevel,
		Flashes:  s.flashes,
	}
}

// Elapsed 秒表读数
func (s *Show) Elapsed(now time.Duration) time.Duration {
	return s.stopwatch.Elapsed(now)
}

// Laps 计圈记录，最新的在前
func (s *Show) Laps() []game.Lap {
	return s.stopwatch.Laps()
}

// Running 秒表是否在计时
func (s *Show) Running() bool {
	return s.stopwatch.Running()
}

// Loop 返回模拟循环
func (s *Show) Loop() *FrameLoop {
	return s.loop
}

// Stars 返回星空系统
func (s *Show) Stars() *systems.StarfieldSystem {
	return s.stars
}
