// Package main 终端版烟花秒表
//
// 用 tcell 把粒子画成字符，节奏由内置时间表驱动。
//
// Usage:
//
//	go run ./cmd/fireworks-tui [flags]
//
// Flags:
//
//	--verbose          把日志写到 --log 指定的文件
//	--log <path>       日志文件（默认 fireworks-tui.log）
//	--config <path>    覆盖默认配置
//	--seed <n>         随机种子（0 = 按时钟）
//	--mute             不播放声音
//
// Esc / Ctrl+C / q 退出。
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/audio"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/game"
	"github.com/gonewx/fireworks/pkg/render/terminal"
	"github.com/gonewx/fireworks/pkg/sim"
)

var (
	verboseFlag = flag.Bool("verbose", false, "Enable verbose logging to --log")
	logFlag     = flag.String("log", "fireworks-tui.log", "Log file used with --verbose")
	configFlag  = flag.String("config", "", "Fireworks config YAML (default: built-in)")
	seedFlag    = flag.Int64("seed", 0, "Random seed (0 = from clock)")
	muteFlag    = flag.Bool("mute", false, "Disable audio")
)

type tui struct {
	screen   tcell.Screen
	show     *sim.Show
	director *sim.Director
	renderer *terminal.RenderSystem
	sound    *audio.SoundManager
	epoch    time.Time
}

func newTUI(cfg *config.FireworksConfig) (*tui, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("failed to init screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))

	show := sim.NewShow(cfg, particle.NewSource(*seedFlag))
	t := &tui{
		screen:   screen,
		show:     show,
		director: sim.NewDirector(&cfg.Director, show),
		renderer: terminal.NewRenderSystem(screen, show.Loop().Pool(), show.Stars()),
		epoch:    time.Now(),
	}
	t.resize()

	if !*muteFlag {
		t.sound = audio.NewSoundManager(*seedFlag)
		if err := t.sound.Initialize(); err != nil {
			log.Printf("[TUI] audio disabled: %v", err)
			t.sound = nil
		} else {
			show.OnBurst(t.sound.PlayBurst)
		}
	}
	return t, nil
}

func (t *tui) resize() {
	w, h := t.renderer.Viewport()
	t.show.SetViewport(w, h)
	log.Printf("[TUI] viewport %.0fx%.0f", w, h)
}

func (t *tui) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventResize:
		t.screen.Sync()
		t.resize()
	}
	return true
}

func (t *tui) frame() {
	now := time.Since(t.epoch)
	for _, action := range t.director.Update(now) {
		if action == sim.ActionLap && t.sound != nil {
			t.sound.PlayLap()
		}
	}
	t.show.Update(now)

	t.renderer.Draw()
	hud := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	t.renderer.DrawText(1, 0, game.FormatTime(t.show.Elapsed(now)), hud)
	for i, lap := range t.show.Laps() {
		if i == 3 {
			break
		}
		t.renderer.DrawText(1, 1+i, lap.String(), hud.Foreground(tcell.ColorGray))
	}
	t.screen.Show()
}

func (t *tui) run() {
	ticker := time.NewTicker(16 * time.Millisecond)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	stop := make(chan struct{})
	defer close(stop)
	go pollEvents(t.screen, events, stop)

	for {
		select {
		case ev := <-events:
			if !t.handleEvent(ev) {
				return
			}
		case <-ticker.C:
			t.frame()
		}
	}
}

func (t *tui) cleanup() {
	if t.sound != nil {
		t.sound.Cleanup()
	}
	t.screen.Fini()
}

func main() {
	flag.Parse()

	// 日志会破坏终端画面，只写文件
	log.SetOutput(io.Discard)
	if *verboseFlag {
		f, err := os.Create(*logFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	cfg, err := config.LoadEmbeddedFireworksConfig(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	t, err := newTUI(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer t.cleanup()

	t.run()
}
