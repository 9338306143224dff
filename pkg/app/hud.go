package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/gonewx/fireworks/pkg/game"
	"github.com/gonewx/fireworks/pkg/sim"
)

// maxHUDLaps HUD 上最多显示的计圈行数
const maxHUDLaps = 5

// HUDLines 生成左上角的状态文字：秒表、按钮状态、计圈、粒子统计
func HUDLines(show *sim.Show, now time.Duration) []string {
	lines := []string{game.FormatTime(show.Elapsed(now))}

	c := show.Controls()
	lines = append(lines, controlLine(c))

	laps := show.Laps()
	for i, lap := range laps {
		if i == maxHUDLaps {
			lines = append(lines, fmt.Sprintf("... %d more", len(laps)-maxHUDLaps))
			break
		}
		lines = append(lines, lap.String())
	}

	st := show.Loop().Stats()
	lines = append(lines, fmt.Sprintf("particles %d  rockets %d  dropped %d", st.Live, st.Rockets, st.Dropped))
	if show.Resetting() {
		lines = append(lines, "resetting...")
	}
	return lines
}

func controlLine(c game.ControlState) string {
	var b strings.Builder
	item := func(name string, on bool) {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		if on {
			b.WriteString("[" + name + "]")
		} else {
			b.WriteString(" " + name + " ")
		}
	}
	item("start", c.Start)
	item("stop", c.Stop)
	item("lap", c.Lap)
	item("clear", c.ClearLaps)
	item("reset", c.Reset)
	return b.String()
}
