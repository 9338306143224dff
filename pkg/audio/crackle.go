package audio

import (
	"math"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gopxl/beep"
)

// CrackleGenerator 烟花爆炸后的噼啪声
//
// 随机稀疏的脉冲，每个脉冲按指数衰减，整体音量随时间线性减弱。
// 播放完 total 个采样后结束。
type CrackleGenerator struct {
	sr    beep.SampleRate
	src   particle.Source
	pos   int
	total int

	density float64 // 每秒脉冲数
	gain    float64
	level   float64
	decay   float64
}

// NewCrackleGenerator 创建噼啪声生成器
func NewCrackleGenerator(sr beep.SampleRate, src particle.Source, duration time.Duration, density, gain float64) *CrackleGenerator {
	return &CrackleGenerator{
		sr:      sr,
		src:     src,
		total:   sr.N(duration),
		density: density,
		gain:    gain,
		// 每个脉冲约 4ms 衰减到 1/e
		decay: math.Exp(-1 / (0.004 * float64(sr))),
	}
}

func (g *CrackleGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	chance := g.density / float64(g.sr)
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		envelope := 1 - float64(g.pos)/float64(g.total)
		if g.src.Float64() < chance {
			g.level = 0.4 + 0.6*g.src.Float64()
		}
		sample := g.level * (g.src.Float64()*2 - 1) * envelope * g.gain
		sample = math.Max(-1, math.Min(1, sample))

		samples[i][0] = sample
		samples[i][1] = sample
		g.level *= g.decay
		g.pos++
	}
	return len(samples), true
}

func (g *CrackleGenerator) Err() error {
	return nil
}

// ThumpGenerator 爆炸瞬间的低频闷响：频率下滑的正弦波，快速衰减
type ThumpGenerator struct {
	sr    beep.SampleRate
	pos   int
	total int
	freq  float64
	gain  float64
	phase float64
}

// NewThumpGenerator 创建闷响生成器
func NewThumpGenerator(sr beep.SampleRate, freq float64, duration time.Duration, gain float64) *ThumpGenerator {
	return &ThumpGenerator{
		sr:    sr,
		total: sr.N(duration),
		freq:  freq,
		gain:  gain,
	}
}

func (g *ThumpGenerator) Stream(samples [][2]float64) (n int, ok bool) {
	if g.pos >= g.total {
		return 0, false
	}
	for i := range samples {
		if g.pos >= g.total {
			return i, true
		}
		progress := float64(g.pos) / float64(g.total)
		freq := g.freq * (1 - 0.5*progress)
		g.phase += 2 * math.Pi * freq / float64(g.sr)

		envelope := (1 - progress) * (1 - progress)
		sample := g.gain * envelope * math.Sin(g.phase)

		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *ThumpGenerator) Err() error {
	return nil
}
