package audio

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/systems"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// maxVoices 同时播放的爆炸声上限，超出的爆炸静音
const maxVoices = 8

// SoundManager 烟花音效
//
// 爆炸事件在模拟线程上同步到达，声音在 speaker 的播放线程里合成，
// 所以 mixer 的修改都在 speaker.Lock 之下进行。
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	rng         *rand.Rand
	volume      float64
	initialized bool
}

// NewSoundManager 创建音效管理器（尚未打开音频设备）
func NewSoundManager(seed int64) *SoundManager {
	return &SoundManager{
		mixer:  &beep.Mixer{},
		rng:    particle.NewSource(seed),
		volume: 0.6,
	}
}

// Initialize 打开音频设备
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	log.Printf("[Audio] speaker initialized at %d Hz", sampleRate)
	return nil
}

// Cleanup 停止所有声音并关闭音频设备
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	sm.initialized = false
}

// SetVolume 设置主音量 0..1
func (sm *SoundManager) SetVolume(v float64) {
	sm.mu.Lock()
	sm.volume = math.Max(0, math.Min(1, v))
	sm.mu.Unlock()
}

// PlayBurst 播放一次爆炸（闷响 + 噼啪声）
func (sm *SoundManager) PlayBurst(e systems.BurstEvent) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := BurstSound(sampleRate, particle.NewSource(sm.rng.Int63()|1), e)
	sm.add(newVolume(s, sm.volume))
}

// PlayLap 计圈提示音
func (sm *SoundManager) PlayLap() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	sine, err := generators.SineTone(sampleRate, 880)
	if err != nil {
		log.Printf("[Audio] failed to create lap tone: %v", err)
		return
	}
	sm.add(newVolume(beep.Take(sampleRate.N(60*time.Millisecond), sine), sm.volume*0.3))
}

func (sm *SoundManager) add(s beep.Streamer) {
	speaker.Lock()
	defer speaker.Unlock()
	if sm.mixer.Len() >= maxVoices {
		return
	}
	sm.mixer.Add(s)
}

// BurstSound 根据爆炸规模合成声音
//
// 火花越多噼啪声越长越密，档位半径越大闷响越低越响。
func BurstSound(sr beep.SampleRate, src particle.Source, e systems.BurstEvent) beep.Streamer {
	size := math.Min(1, float64(e.Sparks+e.Ring)/220)
	radius := e.Tier.Radius
	if radius <= 0 {
		radius = 1
	}

	thump := NewThumpGenerator(sr, 90/radius, 180*time.Millisecond, math.Min(0.8, 0.45*radius))
	crackleLen := time.Duration((0.5 + 0.9*size) * float64(time.Second))
	crackle := NewCrackleGenerator(sr, src, crackleLen, 60+float64(e.Ring)*2, 0.35)

	// 噼啪声在闷响之后约 80ms 开始
	delayed := beep.Seq(beep.Silence(sr.N(80*time.Millisecond)), crackle)
	return beep.Mix(thump, delayed)
}

// newVolume 按线性音量包装；音量为 0 时静音
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
