package config

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// FireworksConfig 烟花模拟的全部可调参数
//
// 默认值与 data/fireworks.yaml 保持一致；运行时可以通过 --config 指定覆盖文件，
// 覆盖文件只需要写出想修改的字段，其余字段沿用默认值。
//
// 配置文件位置: data/fireworks.yaml
type FireworksConfig struct {
	// Physics 物理常量（重力、阻力、闪烁）
	Physics PhysicsConfig `yaml:"physics"`

	// Spawn 火箭生成节奏与容量上限
	Spawn SpawnConfig `yaml:"spawn"`

	// Palettes 调色板列表，每个调色板是一组 "#rrggbb" 颜色
	Palettes [][]string `yaml:"palettes"`

	// Tiers 尺寸档位，按 Weight 累计概率抽取
	Tiers []TierConfig `yaml:"tiers"`

	// Trail 火箭尾迹粒子
	Trail TrailConfig `yaml:"trail"`

	// Head 火箭头部粒子
	Head HeadConfig `yaml:"head"`

	// Burst 爆炸参数（火花 + 光环）
	Burst BurstConfig `yaml:"burst"`

	// Reset 重置动画各阶段的时间点
	Reset ResetConfig `yaml:"reset"`

	// Stars 背景星空
	Stars StarsConfig `yaml:"stars"`

	// Director 自动演示脚本
	Director DirectorConfig `yaml:"director"`

	// palettes 解析后的调色板缓存，由 Validate 填充
	palettes [][]color.RGBA
}

// PhysicsConfig 物理常量
type PhysicsConfig struct {
	// Gravity 重力加速度（像素/秒²，向下为正）
	Gravity float64 `yaml:"gravity"`

	// AirDrag 粒子未指定阻力时使用的默认每帧阻力
	AirDrag float64 `yaml:"airDrag"`

	// ReferenceFPS 阻力按 drag^(ReferenceFPS*dt) 换算成与帧率无关的衰减
	ReferenceFPS float64 `yaml:"referenceFPS"`

	// RocketGravityFactor 上升中的火箭只受部分重力
	RocketGravityFactor float64 `yaml:"rocketGravityFactor"`

	// RocketDrag 火箭每次更新的速度衰减
	RocketDrag float64 `yaml:"rocketDrag"`

	// TrailGravityFactor 尾迹粒子的重力系数
	TrailGravityFactor float64 `yaml:"trailGravityFactor"`

	// ParticleGravityFactor 其余粒子的重力系数
	ParticleGravityFactor float64 `yaml:"particleGravityFactor"`

	// BurstVelocityThreshold 火箭竖直速度大于该值（即上升变慢）时立即爆炸
	BurstVelocityThreshold float64 `yaml:"burstVelocityThreshold"`

	// DissolveBoost 溶解模式下的透明度放大系数
	DissolveBoost float64 `yaml:"dissolveBoost"`

	// Twinkle 闪烁调制
	Twinkle TwinkleConfig `yaml:"twinkle"`
}

// TwinkleConfig 闪烁调制: alpha *= Base + Amplitude*sin(age*Frequency + x*PositionPhase)
type TwinkleConfig struct {
	Base          float64 `yaml:"base"`
	Amplitude     float64 `yaml:"amplitude"`
	Frequency     float64 `yaml:"frequency"`
	PositionPhase float64 `yaml:"positionPhase"`
}

// SpawnConfig 火箭生成参数
//
// OriginX 为视口宽度的比例，OriginY/ApexY 为视口高度的比例。
type SpawnConfig struct {
	// Rate 每秒生成的火箭数
	Rate float64 `yaml:"rate"`

	// MaxPerFrame 单帧最多生成的火箭数
	MaxPerFrame int `yaml:"maxPerFrame"`

	// AccumulatorCap 生成累加器的上限，防止长时间积压
	AccumulatorCap float64 `yaml:"accumulatorCap"`

	// MaxActiveParticles 活跃粒子上限
	MaxActiveParticles int `yaml:"maxActiveParticles"`

	// StrictParticleCap 为 true 时尾迹和头部粒子同样受上限约束
	StrictParticleCap bool `yaml:"strictParticleCap"`

	// MaxFrameDelta 单帧最大时间步长（秒）
	MaxFrameDelta float64 `yaml:"maxFrameDelta"`

	// BurstDwell 爆炸后火箭实体保留的时长（秒）
	BurstDwell float64 `yaml:"burstDwell"`

	OriginX   particle.Range `yaml:"originX"`
	OriginY   particle.Range `yaml:"originY"`
	ApexY     particle.Range `yaml:"apexY"`
	VelocityX particle.Range `yaml:"velocityX"`

	// Speed 初始上升速度（取负值作为 VY）
	Speed particle.Range `yaml:"speed"`

	// Glow 火箭整体亮度系数，影响光环速度
	Glow particle.Range `yaml:"glow"`
}

// TierConfig 尺寸档位
type TierConfig struct {
	Name string `yaml:"name"`

	// Weight 抽中概率，所有档位之和应为 1
	Weight float64 `yaml:"weight"`

	Particle particle.Range `yaml:"particle"`
	Radius   particle.Range `yaml:"radius"`
	Life     particle.Range `yaml:"life"`
}

// TrailConfig 尾迹粒子参数（乘以档位 particle/life 系数）
type TrailConfig struct {
	Length        particle.Range `yaml:"length"`
	Width         float64        `yaml:"width"`
	WidthMin      float64        `yaml:"widthMin"`
	WidthMax      float64        `yaml:"widthMax"`
	VelocityScale float64        `yaml:"velocityScale"`
	Life          float64        `yaml:"life"`
	Opacity       float64        `yaml:"opacity"`
	Drag          float64        `yaml:"drag"`
}

// HeadConfig 头部粒子参数
type HeadConfig struct {
	Size    float64 `yaml:"size"`
	Glow    float64 `yaml:"glow"`
	GlowMin float64 `yaml:"glowMin"`
	GlowMax float64 `yaml:"glowMax"`
	Life    float64 `yaml:"life"`
	Opacity float64 `yaml:"opacity"`
	Drag    float64 `yaml:"drag"`
}

// Scale 线性系数 Base + PerRadius*r，r 为档位的 radius 系数
type Scale struct {
	Base      float64 `yaml:"base"`
	PerRadius float64 `yaml:"perRadius"`
}

// Factor 计算给定半径系数下的缩放值
func (s Scale) Factor(r float64) float64 {
	return s.Base + s.PerRadius*r
}

// BurstConfig 爆炸参数
type BurstConfig struct {
	Sparks SparkConfig `yaml:"sparks"`
	Ring   RingConfig  `yaml:"ring"`
}

// SparkConfig 爆炸火花
//
// 数量 = floor(CoreCount*CoreScale(r)) + int(rand*floor(ExtraCount*ExtraScale(r)))
type SparkConfig struct {
	CoreCount  int   `yaml:"coreCount"`
	CoreScale  Scale `yaml:"coreScale"`
	ExtraCount int   `yaml:"extraCount"`
	ExtraScale Scale `yaml:"extraScale"`

	// Speed 速度范围（乘以 r）
	Speed particle.Range `yaml:"speed"`

	// SpeedJitter 速度的二次随机系数
	SpeedJitter particle.Range `yaml:"speedJitter"`

	// VelocityJitter 每个分量额外叠加的随机偏移
	VelocityJitter      float64 `yaml:"velocityJitter"`
	VelocityJitterScale Scale   `yaml:"velocityJitterScale"`

	Size          particle.Range `yaml:"size"`
	Glow          particle.Range `yaml:"glow"`
	GlowMin       float64        `yaml:"glowMin"`
	GlowMax       float64        `yaml:"glowMax"`
	Life          particle.Range `yaml:"life"`
	Opacity       particle.Range `yaml:"opacity"`
	Drag          float64        `yaml:"drag"`
	TwinkleChance float64        `yaml:"twinkleChance"`
}

// RingConfig 爆炸光环（均匀分布、同色、必定闪烁）
//
// 数量 = floor((BaseCount + int(rand*ExtraCount)) * CountScale(r))
type RingConfig struct {
	BaseCount  int   `yaml:"baseCount"`
	ExtraCount int   `yaml:"extraCount"`
	CountScale Scale `yaml:"countScale"`

	// Speed 速度范围（乘以 r 和火箭 glow）
	Speed   particle.Range `yaml:"speed"`
	Size    particle.Range `yaml:"size"`
	Glow    float64        `yaml:"glow"`
	GlowMin float64        `yaml:"glowMin"`
	GlowMax float64        `yaml:"glowMax"`
	Life    particle.Range `yaml:"life"`
	Opacity particle.Range `yaml:"opacity"`
	Drag    float64        `yaml:"drag"`
}

// ResetConfig 重置动画时间线（秒，自重置开始计时；FinishDelay 自清场开始计时）
type ResetConfig struct {
	StarOpacity    float64 `yaml:"starOpacity"`
	DimAt          float64 `yaml:"dimAt"`
	DimStarOpacity float64 `yaml:"dimStarOpacity"`
	DarkAt         float64 `yaml:"darkAt"`
	ClearAt        float64 `yaml:"clearAt"`
	FinishDelay    float64 `yaml:"finishDelay"`
}

// StarsConfig 背景星空
type StarsConfig struct {
	Count int `yaml:"count"`

	// HeightFraction 星星只分布在视口上方的这一比例内
	HeightFraction float64 `yaml:"heightFraction"`

	// SmallChance/NormalChance 为累计概率，其余为亮星
	SmallChance  float64 `yaml:"smallChance"`
	NormalChance float64 `yaml:"normalChance"`

	Delay   particle.Range `yaml:"delay"`
	Opacity particle.Range `yaml:"opacity"`

	// TwinklePeriod 单颗星闪烁周期（秒）
	TwinklePeriod float64 `yaml:"twinklePeriod"`

	// Transition 星空图层透明度过渡曲线（归一化时间, 透明度比例）
	Transition string `yaml:"transition"`

	// TransitionDuration 图层透明度过渡时长（秒）
	TransitionDuration float64 `yaml:"transitionDuration"`

	// ShowOpacity 开始演示时的图层透明度
	ShowOpacity float64 `yaml:"showOpacity"`
}

// DirectorConfig 自动演示时间表（秒，自每轮开始计时）
type DirectorConfig struct {
	StartAt  float64 `yaml:"startAt"`
	StopAt   float64 `yaml:"stopAt"`
	ResumeAt float64 `yaml:"resumeAt"`
	LapEvery float64 `yaml:"lapEvery"`
	ResetAt  float64 `yaml:"resetAt"`
}

// DefaultFireworksConfig 返回内置默认配置
func DefaultFireworksConfig() *FireworksConfig {
	cfg := &FireworksConfig{
		Physics: PhysicsConfig{
			Gravity:                140,
			AirDrag:                0.992,
			ReferenceFPS:           60,
			RocketGravityFactor:    0.25,
			RocketDrag:             0.996,
			TrailGravityFactor:     0.15,
			ParticleGravityFactor:  0.92,
			BurstVelocityThreshold: -60,
			DissolveBoost:          1.9,
			Twinkle: TwinkleConfig{
				Base:          0.65,
				Amplitude:     0.35,
				Frequency:     12,
				PositionPhase: 0.01,
			},
		},
		Spawn: SpawnConfig{
			Rate:               6,
			MaxPerFrame:        2,
			AccumulatorCap:     3,
			MaxActiveParticles: 1200,
			MaxFrameDelta:      0.033,
			BurstDwell:         2.6,
			OriginX:            particle.R(0.12, 0.88),
			OriginY:            particle.R(0.86, 0.93),
			ApexY:              particle.R(0.18, 0.42),
			VelocityX:          particle.R(-45, 45),
			Speed:              particle.R(520, 720),
			Glow:               particle.R(0.75, 1.15),
		},
		Palettes: [][]string{
			{"#ff6a2a", "#ff3b3b", "#ff4fa6", "#ff8a2e", "#ff2d6d", "#ff5f3d"},
			{"#ffd34a", "#fff06a", "#42ff9a", "#2dff6b", "#a64bff", "#6b2dff"},
			{"#ff2f3a", "#ff3b6e", "#3b7bff", "#2dd6ff", "#7a2dff", "#b22dff"},
		},
		Tiers: []TierConfig{
			{Name: "small", Weight: 0.20, Particle: particle.R(0.75, 0.90), Radius: particle.R(0.80, 0.92), Life: particle.R(0.92, 1.00)},
			{Name: "normal", Weight: 0.60, Particle: particle.R(0.95, 1.10), Radius: particle.R(0.95, 1.10), Life: particle.R(0.98, 1.08)},
			{Name: "large", Weight: 0.17, Particle: particle.R(1.25, 1.55), Radius: particle.R(1.25, 1.55), Life: particle.R(1.08, 1.20)},
			{Name: "huge", Weight: 0.03, Particle: particle.R(1.65, 2.10), Radius: particle.R(1.70, 2.30), Life: particle.R(1.15, 1.30)},
		},
		Trail: TrailConfig{
			Length:        particle.R(16, 26),
			Width:         2,
			WidthMin:      2,
			WidthMax:      5,
			VelocityScale: 0.12,
			Life:          0.9,
			Opacity:       0.75,
			Drag:          0.98,
		},
		Head: HeadConfig{
			Size:    3.2,
			Glow:    18,
			GlowMin: 14,
			GlowMax: 42,
			Life:    1.8,
			Opacity: 1,
			Drag:    0.992,
		},
		Burst: BurstConfig{
			Sparks: SparkConfig{
				CoreCount:           110,
				CoreScale:           Scale{Base: 0.78, PerRadius: 0.22},
				ExtraCount:          60,
				ExtraScale:          Scale{Base: 0.82, PerRadius: 0.18},
				Speed:               particle.R(120, 480),
				SpeedJitter:         particle.R(0.75, 1.30),
				VelocityJitter:      18,
				VelocityJitterScale: Scale{Base: 0.9, PerRadius: 0.15},
				Size:                particle.R(1.8, 3.4),
				Glow:                particle.R(10, 18),
				GlowMin:             10,
				GlowMax:             36,
				Life:                particle.R(1.2, 2.25),
				Opacity:             particle.R(0.75, 1),
				Drag:                0.985,
				TwinkleChance:       0.35,
			},
			Ring: RingConfig{
				BaseCount:  44,
				ExtraCount: 24,
				CountScale: Scale{Base: 0.80, PerRadius: 0.20},
				Speed:      particle.R(260, 360),
				Size:       particle.R(2.2, 3.9),
				Glow:       16,
				GlowMin:    12,
				GlowMax:    42,
				Life:       particle.R(1.05, 1.70),
				Opacity:    particle.R(0.75, 1),
				Drag:       0.988,
			},
		},
		Reset: ResetConfig{
			StarOpacity:    0.55,
			DimAt:          0.42,
			DimStarOpacity: 0.10,
			DarkAt:         0.98,
			ClearAt:        1.55,
			FinishDelay:    0.65,
		},
		Stars: StarsConfig{
			Count:              140,
			HeightFraction:     0.75,
			SmallChance:        0.6,
			NormalChance:       0.9,
			Delay:              particle.R(0, 2.8),
			Opacity:            particle.R(0.35, 0.90),
			TwinklePeriod:      2.8,
			Transition:         "EaseOut 0,0 1,1",
			TransitionDuration: 0.4,
			ShowOpacity:        0.95,
		},
		Director: DirectorConfig{
			StartAt:  0,
			StopAt:   9,
			ResumeAt: 11,
			LapEvery: 3,
			ResetAt:  20,
		},
	}
	// 默认值必然合法，这里只为填充调色板缓存
	_ = cfg.Validate()
	return cfg
}

// LoadFireworksConfig 从文件加载配置
//
// 参数:
//   - path: 配置文件路径（如 "data/fireworks.yaml"）
//
// 返回:
//   - *FireworksConfig: 以默认值为底、叠加文件内容后的配置
//   - error: 读取、解析或验证失败时返回错误
func LoadFireworksConfig(path string) (*FireworksConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fireworks config: %w", err)
	}
	return ParseFireworksConfig(data)
}

// LoadEmbeddedFireworksConfig 读取嵌入的 data/fireworks.yaml
//
// path 非空时改为从磁盘读取 path，用于 --config 覆盖。
// 未嵌入配置文件时（命令行工具）返回 DefaultFireworksConfig。
func LoadEmbeddedFireworksConfig(path string) (*FireworksConfig, error) {
	if path != "" {
		return LoadFireworksConfig(path)
	}
	if !embedded.Exists(embedded.DefaultConfigPath) {
		log.Printf("[Config] %s not embedded, using built-in defaults", embedded.DefaultConfigPath)
		return DefaultFireworksConfig(), nil
	}
	data, err := embedded.ReadFile(embedded.DefaultConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded fireworks config: %w", err)
	}
	return ParseFireworksConfig(data)
}

// ParseFireworksConfig 解析 YAML 数据（嵌入资源和测试使用）
func ParseFireworksConfig(data []byte) (*FireworksConfig, error) {
	cfg := DefaultFireworksConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse fireworks config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fireworks config: %w", err)
	}
	return cfg, nil
}

// Validate 验证配置有效性，并解析调色板
//
// 检查内容：
//   - 所有范围 Min <= Max
//   - 阻力系数在 (0, 1] 内
//   - 至少一个调色板，颜色为合法的十六进制
//   - 档位权重为正且总和约为 1
//   - 重置时间线单调递增
func (c *FireworksConfig) Validate() error {
	if c.Physics.ReferenceFPS <= 0 {
		return fmt.Errorf("physics.referenceFPS must be > 0, got %g", c.Physics.ReferenceFPS)
	}
	for name, drag := range map[string]float64{
		"physics.airDrag":    c.Physics.AirDrag,
		"physics.rocketDrag": c.Physics.RocketDrag,
		"trail.drag":         c.Trail.Drag,
		"head.drag":          c.Head.Drag,
		"burst.sparks.drag":  c.Burst.Sparks.Drag,
		"burst.ring.drag":    c.Burst.Ring.Drag,
	} {
		if drag <= 0 || drag > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %g", name, drag)
		}
	}

	if c.Spawn.Rate < 0 {
		return fmt.Errorf("spawn.rate must be >= 0, got %g", c.Spawn.Rate)
	}
	if c.Spawn.MaxPerFrame < 0 {
		return fmt.Errorf("spawn.maxPerFrame must be >= 0, got %d", c.Spawn.MaxPerFrame)
	}
	if c.Spawn.MaxActiveParticles <= 0 {
		return fmt.Errorf("spawn.maxActiveParticles must be > 0, got %d", c.Spawn.MaxActiveParticles)
	}
	if c.Spawn.MaxFrameDelta <= 0 {
		return fmt.Errorf("spawn.maxFrameDelta must be > 0, got %g", c.Spawn.MaxFrameDelta)
	}

	ranges := map[string]particle.Range{
		"spawn.originX":            c.Spawn.OriginX,
		"spawn.originY":            c.Spawn.OriginY,
		"spawn.apexY":              c.Spawn.ApexY,
		"spawn.velocityX":          c.Spawn.VelocityX,
		"spawn.speed":              c.Spawn.Speed,
		"spawn.glow":               c.Spawn.Glow,
		"trail.length":             c.Trail.Length,
		"burst.sparks.speed":       c.Burst.Sparks.Speed,
		"burst.sparks.speedJitter": c.Burst.Sparks.SpeedJitter,
		"burst.sparks.size":        c.Burst.Sparks.Size,
		"burst.sparks.glow":        c.Burst.Sparks.Glow,
		"burst.sparks.life":        c.Burst.Sparks.Life,
		"burst.sparks.opacity":     c.Burst.Sparks.Opacity,
		"burst.ring.speed":         c.Burst.Ring.Speed,
		"burst.ring.size":          c.Burst.Ring.Size,
		"burst.ring.life":          c.Burst.Ring.Life,
		"burst.ring.opacity":       c.Burst.Ring.Opacity,
		"stars.delay":              c.Stars.Delay,
		"stars.opacity":            c.Stars.Opacity,
	}
	for name, r := range ranges {
		if !r.Valid() {
			return fmt.Errorf("%s range invalid: min(%g) > max(%g)", name, r.Min, r.Max)
		}
	}

	if len(c.Palettes) == 0 {
		return fmt.Errorf("at least one palette is required")
	}
	palettes := make([][]color.RGBA, len(c.Palettes))
	for i, hexes := range c.Palettes {
		if len(hexes) == 0 {
			return fmt.Errorf("palette %d is empty", i)
		}
		palettes[i] = make([]color.RGBA, len(hexes))
		for j, hex := range hexes {
			col, err := ParseHexColor(hex)
			if err != nil {
				return fmt.Errorf("palette %d color %d: %w", i, j, err)
			}
			palettes[i][j] = col
		}
	}

	if len(c.Tiers) == 0 {
		return fmt.Errorf("at least one size tier is required")
	}
	total := 0.0
	for _, tier := range c.Tiers {
		if tier.Weight <= 0 {
			return fmt.Errorf("tier %q weight must be > 0, got %g", tier.Name, tier.Weight)
		}
		if !tier.Particle.Valid() || !tier.Radius.Valid() || !tier.Life.Valid() {
			return fmt.Errorf("tier %q has an invalid range", tier.Name)
		}
		total += tier.Weight
	}
	if total < 0.999 || total > 1.001 {
		return fmt.Errorf("tier weights must sum to 1, got %g", total)
	}

	if c.Burst.Sparks.CoreCount < 0 || c.Burst.Sparks.ExtraCount < 0 ||
		c.Burst.Ring.BaseCount < 0 || c.Burst.Ring.ExtraCount < 0 {
		return fmt.Errorf("burst counts must be >= 0")
	}

	r := c.Reset
	if !(r.DimAt >= 0 && r.DimAt <= r.DarkAt && r.DarkAt <= r.ClearAt) || r.FinishDelay < 0 {
		return fmt.Errorf("reset timeline must be ordered: dimAt(%g) <= darkAt(%g) <= clearAt(%g), finishDelay(%g) >= 0",
			r.DimAt, r.DarkAt, r.ClearAt, r.FinishDelay)
	}

	if c.Stars.Count < 0 {
		return fmt.Errorf("stars.count must be >= 0, got %d", c.Stars.Count)
	}
	if c.Stars.SmallChance > c.Stars.NormalChance {
		return fmt.Errorf("stars.smallChance(%g) must be <= stars.normalChance(%g)",
			c.Stars.SmallChance, c.Stars.NormalChance)
	}

	d := c.Director
	if d.LapEvery <= 0 || !(d.StartAt <= d.StopAt && d.StopAt <= d.ResumeAt && d.ResumeAt <= d.ResetAt) {
		return fmt.Errorf("director schedule must be ordered with lapEvery > 0")
	}

	c.palettes = palettes
	return nil
}

// PaletteColors 返回解析后的调色板
func (c *FireworksConfig) PaletteColors() [][]color.RGBA {
	if c.palettes == nil {
		if err := c.Validate(); err != nil {
			return nil
		}
	}
	return c.palettes
}

// FrameDelta 单帧最大步长
func (c *FireworksConfig) FrameDelta() time.Duration {
	return Seconds(c.Spawn.MaxFrameDelta)
}

// Seconds 将配置中的秒数转换为 time.Duration
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// ParseHexColor 解析 "#rgb" 或 "#rrggbb" 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
