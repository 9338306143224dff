package systems

import (
	"math"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/entities"
	"github.com/gonewx/fireworks/pkg/utils"
)

// StarfieldSystem 背景星空图层
//
// 图层透明度通过 SetOpacity 平滑过渡（曲线来自配置的关键帧字符串），
// 每颗星在图层透明度之上再叠加自己的基础透明度和周期闪烁。
type StarfieldSystem struct {
	cfg *config.StarsConfig
	src particle.Source

	stars         []components.Star
	width, height float64
	clock         float64

	opacity   float64
	from      float64
	target    float64
	elapsed   float64
	keyframes []particle.Keyframe
	interp    string
}

// NewStarfieldSystem 创建星空系统，初始图层透明度为 ShowOpacity
func NewStarfieldSystem(cfg *config.StarsConfig, src particle.Source) *StarfieldSystem {
	_, _, keyframes, interp := particle.ParseValue(cfg.Transition)
	if keyframes == nil {
		keyframes = []particle.Keyframe{{Time: 0, Value: 0}, {Time: 1, Value: 1}}
	}
	return &StarfieldSystem{
		cfg:       cfg,
		src:       src,
		opacity:   cfg.ShowOpacity,
		from:      cfg.ShowOpacity,
		target:    cfg.ShowOpacity,
		keyframes: keyframes,
		interp:    interp,
	}
}

// Rebuild 按视口尺寸重新生成所有星星
func (s *StarfieldSystem) Rebuild(width, height float64) {
	s.width, s.height = width, height
	s.stars = entities.BuildStars(s.src, *s.cfg, width, height)
}

// SetOpacity 开始向 target 过渡；目标不变时忽略
func (s *StarfieldSystem) SetOpacity(target float64) {
	if target == s.target {
		return
	}
	s.from = s.opacity
	s.target = target
	s.elapsed = 0
	if s.cfg.TransitionDuration <= 0 {
		s.opacity = target
	}
}

// Opacity 当前图层透明度
func (s *StarfieldSystem) Opacity() float64 {
	return s.opacity
}

// Target 目标图层透明度
func (s *StarfieldSystem) Target() float64 {
	return s.target
}

// Stars 返回当前的星星列表
func (s *StarfieldSystem) Stars() []components.Star {
	return s.stars
}

// Update 推进过渡和闪烁
func (s *StarfieldSystem) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	s.clock += dt

	if s.opacity == s.target {
		return
	}
	s.elapsed += dt
	duration := s.cfg.TransitionDuration
	if duration <= 0 || s.elapsed >= duration {
		s.opacity = s.target
		return
	}
	ratio := particle.EvaluateKeyframes(s.keyframes, s.elapsed/duration, s.interp)
	s.opacity = utils.Lerp(s.from, s.target, ratio)
}

// StarAlpha 第 i 颗星当前的透明度
func (s *StarfieldSystem) StarAlpha(i int) float64 {
	if i < 0 || i >= len(s.stars) {
		return 0
	}
	star := s.stars[i]
	period := s.cfg.TwinklePeriod
	twinkle := 1.0
	if period > 0 {
		phase := (s.clock + star.Delay) / period * 2 * math.Pi
		twinkle = 0.55 + 0.45*(0.5+0.5*math.Sin(phase))
	}
	return utils.Clamp01(star.Opacity * s.opacity * twinkle)
}
