package game

import (
	"fmt"
	"time"
)

// Lap 一次计圈记录
type Lap struct {
	Index   int           // 从 1 开始
	Elapsed time.Duration // 计圈时的总时长
	Split   time.Duration // 与上一圈的间隔
}

// Stopwatch 秒表与计圈
//
// 所有方法都接收调用方提供的单调时间戳 now，秒表本身不读取系统时钟，
// 因此与模拟循环共用同一个时间源。
type Stopwatch struct {
	running bool
	t0      time.Duration // 本次开始计时的时间戳
	acc     time.Duration // 之前各段累计时长

	laps    []Lap
	lastLap time.Duration
}

// NewStopwatch 创建归零的秒表
func NewStopwatch() *Stopwatch {
	return &Stopwatch{}
}

// Running 是否正在计时
func (s *Stopwatch) Running() bool {
	return s.running
}

// Start 开始计时（已在计时则忽略）
func (s *Stopwatch) Start(now time.Duration) {
	if s.running {
		return
	}
	s.running = true
	s.t0 = now
}

// Stop 暂停计时并累计本段时长（未计时则忽略）
func (s *Stopwatch) Stop(now time.Duration) {
	if !s.running {
		return
	}
	s.running = false
	if now > s.t0 {
		s.acc += now - s.t0
	}
}

// Reset 停止并归零（不清除计圈）
func (s *Stopwatch) Reset() {
	s.running = false
	s.acc = 0
	s.t0 = 0
}

// Elapsed 返回 now 时刻的总时长
func (s *Stopwatch) Elapsed(now time.Duration) time.Duration {
	if s.running && now > s.t0 {
		return s.acc + (now - s.t0)
	}
	return s.acc
}

// AddLap 记录一圈并返回记录
//
// 计圈由调用方决定是否允许（见 ComputeControls），这里只保证 Split 不为负。
func (s *Stopwatch) AddLap(now time.Duration) Lap {
	elapsed := s.Elapsed(now)
	split := elapsed - s.lastLap
	if split < 0 {
		split = 0
	}
	s.lastLap = elapsed
	lap := Lap{Index: len(s.laps) + 1, Elapsed: elapsed, Split: split}
	s.laps = append(s.laps, lap)
	return lap
}

// ClearLaps 清除所有计圈
func (s *Stopwatch) ClearLaps() {
	s.laps = s.laps[:0]
	s.lastLap = 0
}

// Laps 返回计圈记录，最新的在前
func (s *Stopwatch) Laps() []Lap {
	out := make([]Lap, len(s.laps))
	for i, lap := range s.laps {
		out[len(s.laps)-1-i] = lap
	}
	return out
}

// LapCount 返回计圈数
func (s *Stopwatch) LapCount() int {
	return len(s.laps)
}

// FormatTime 将时长格式化为 mm:ss.hh（百分之一秒，向下取整）
//
// 负值按 0 处理；分钟数超过 99 时继续增长位数。
func FormatTime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalHundredths := int64(d / (10 * time.Millisecond))
	hh := totalHundredths % 100
	totalSeconds := totalHundredths / 100
	ss := totalSeconds % 60
	mm := totalSeconds / 60
	return fmt.Sprintf("%02d:%02d.%02d", mm, ss, hh)
}

// String 渲染计圈行，例如 "Lap 2  00:06.00  +00:03.00"
func (l Lap) String() string {
	return fmt.Sprintf("Lap %d  %s  +%s", l.Index, FormatTime(l.Elapsed), FormatTime(l.Split))
}
