// Package main 烟花秒表桌面版
//
// Usage:
//
//	go run . [flags]
//
// Flags:
//
//	--verbose          输出详细日志
//	--config <path>    覆盖内置 data/fireworks.yaml
//	--seed <n>         随机种子（0 = 按时钟）
//	--autoplay         按时间表自动开始/暂停/计圈/重置（默认开启）
//	--mute             不播放声音
//
// Keys:
//
//	F1   显示/隐藏状态文字
//	F11  切换全屏
package main

import (
	"flag"
	"log"

	"github.com/gonewx/fireworks/pkg/app"
	"github.com/gonewx/fireworks/pkg/embedded"
	"github.com/hajimehoshi/ebiten/v2"
)

var (
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
	configFlag   = flag.String("config", "", "Override the embedded fireworks config with a YAML file")
	seedFlag     = flag.Int64("seed", 0, "Random seed (0 = from clock)")
	autoplayFlag = flag.Bool("autoplay", true, "Drive the stopwatch from the built-in timeline")
	muteFlag     = flag.Bool("mute", false, "Disable audio")
)

func main() {
	flag.Parse()

	embedded.Init(dataFS)

	a, err := app.NewApp(app.Config{
		Verbose:    *verboseFlag,
		ConfigPath: *configFlag,
		Seed:       *seedFlag,
		Autoplay:   *autoplayFlag,
		Mute:       *muteFlag,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	ebiten.SetWindowSize(1024, 640)
	ebiten.SetWindowTitle("Fireworks Stopwatch")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(a); err != nil {
		log.Fatal(err)
	}
}
