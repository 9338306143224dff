// Package main 无界面的烟花负载统计工具
//
// 以固定 60Hz 时间戳运行模拟循环，每秒输出一次活跃粒子、火箭、
// 粒子池空闲链表和被丢弃的火花数，用于调整配置里的上限和速率。
//
// Usage:
//
//	go run ./cmd/fxstat [flags]
//
// Flags:
//
//	--frames <n>       运行帧数（默认 3600，即 60 秒）
//	--seed <n>         随机种子（默认 1）
//	--config <path>    覆盖默认配置
//	--width/--height   视口尺寸
//	--verbose          输出模拟内部日志
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/sim"
	"github.com/gonewx/fireworks/pkg/systems"
)

var (
	framesFlag  = flag.Int("frames", 3600, "Number of 60Hz frames to simulate")
	seedFlag    = flag.Int64("seed", 1, "Random seed")
	configFlag  = flag.String("config", "", "Fireworks config YAML (default: built-in)")
	widthFlag   = flag.Float64("width", 1280, "Viewport width")
	heightFlag  = flag.Float64("height", 720, "Viewport height")
	verboseFlag = flag.Bool("verbose", false, "Enable verbose simulation logging")
)

const tickRate = 60

func main() {
	flag.Parse()

	out := log.New(os.Stdout, "", 0)
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	cfg, err := config.LoadEmbeddedFireworksConfig(*configFlag)
	if err != nil {
		out.Fatalf("Failed to load config: %v", err)
	}

	loop := sim.NewFrameLoop(cfg, particle.NewSource(*seedFlag))
	loop.SetViewport(*widthFlag, *heightFlag)
	loop.SetSpawning(true)
	loop.Start()

	peak := 0
	sparks, ring := 0, 0
	loop.OnBurst(func(e systems.BurstEvent) {
		sparks += e.Sparks
		ring += e.Ring
	})

	out.Printf("%6s %7s %7s %7s %s", "time", "live", "rockets", "dropped", "free(trail/head/spark)")
	frame := time.Second / tickRate
	for i := 1; i <= *framesFlag; i++ {
		loop.Tick(time.Duration(i) * frame)
		st := loop.Stats()
		peak = max(peak, st.Live)

		if i%tickRate == 0 {
			out.Printf("%6s %7d %7d %7d %s", fmt.Sprintf("%ds", i/tickRate), st.Live, st.Rockets, st.Dropped, freeLists(st))
		}
	}

	st := loop.Stats()
	out.Printf("")
	out.Printf("simulated   %v", st.Clock)
	out.Printf("rockets     %d spawned, %d burst", st.Spawned, st.Bursts)
	out.Printf("particles   peak %d live (cap %d), %d sparks + %d ring requested, %d dropped",
		peak, cfg.Spawn.MaxActiveParticles, sparks, ring, st.Dropped)
	out.Printf("pool        %d acquired, %d released, %d double releases",
		st.Pool.Acquired, st.Pool.Released, st.Pool.DoubleRelease)
}

func freeLists(st sim.LoopStats) string {
	return fmt.Sprintf("%d/%d/%d",
		st.Pool.Free[components.KindTrail],
		st.Pool.Free[components.KindHead],
		st.Pool.Free[components.KindSpark])
}
