// Package app 提供桌面端的 ebiten 包装
//
// 把 sim.Show、渲染系统、音效和自动演示组合成一个 ebiten.Game。
// 调用 NewApp 之前必须先调用 embedded.Init()。
package app

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/audio"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/render"
	"github.com/gonewx/fireworks/pkg/sim"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 覆盖内置 data/fireworks.yaml 的配置文件，为空使用内置配置
	ConfigPath string
	// Seed 随机种子，0 表示按时钟取种子
	Seed int64
	// Autoplay 按时间表自动操作秒表；关闭时启动后一直放烟花
	Autoplay bool
	// Mute 不打开音频设备
	Mute bool
}

// App 实现 ebiten.Game
type App struct {
	cfg      *config.FireworksConfig
	show     *sim.Show
	director *sim.Director
	renderer *render.RenderSystem
	sound    *audio.SoundManager

	epoch         time.Time
	width, height int
	showHUD       bool
}

// NewApp 加载配置并创建应用
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	fc, err := config.LoadEmbeddedFireworksConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log.Printf("[Config] loaded fireworks config (palettes=%d, tiers=%d)", len(fc.Palettes), len(fc.Tiers))

	show := sim.NewShow(fc, particle.NewSource(cfg.Seed))
	a := &App{
		cfg:      fc,
		show:     show,
		renderer: render.NewRenderSystem(show.Loop().Pool(), show.Stars()),
		epoch:    time.Now(),
		showHUD:  true,
	}

	if cfg.Autoplay {
		a.director = sim.NewDirector(&fc.Director, show)
	} else {
		show.Start(0)
	}

	if !cfg.Mute {
		a.sound = audio.NewSoundManager(cfg.Seed)
		if err := a.sound.Initialize(); err != nil {
			// 没有声音也能运行
			log.Printf("[App] audio disabled: %v", err)
			a.sound = nil
		} else {
			show.OnBurst(a.sound.PlayBurst)
		}
	}

	return a, nil
}

// now 自启动以来的单调时间
func (a *App) now() time.Duration {
	return time.Since(a.epoch)
}

// Update 每个 tick 调用一次
func (a *App) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		ebiten.SetFullscreen(!ebiten.IsFullscreen())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF1) {
		a.showHUD = !a.showHUD
	}

	now := a.now()
	if a.director != nil {
		for _, action := range a.director.Update(now) {
			if action == sim.ActionLap && a.sound != nil {
				a.sound.PlayLap()
			}
		}
	}
	a.show.Update(now)
	return nil
}

// Draw 绘制一帧
func (a *App) Draw(screen *ebiten.Image) {
	a.renderer.Draw(screen, a.show.Backdrop())
	if !a.showHUD {
		return
	}
	for i, line := range HUDLines(a.show, a.now()) {
		ebitenutil.DebugPrintAt(screen, line, 12, 10+i*16)
	}
}

// Layout 逻辑屏幕与窗口同尺寸，窗口变化时同步更新模拟视口
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != a.width || outsideHeight != a.height {
		a.width, a.height = outsideWidth, outsideHeight
		a.show.SetViewport(float64(outsideWidth), float64(outsideHeight))
		log.Printf("[App] viewport %dx%d", outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// Close 释放音频设备
func (a *App) Close() {
	if a.sound != nil {
		a.sound.Cleanup()
	}
}
