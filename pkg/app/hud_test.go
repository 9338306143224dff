package app

import (
	"strings"
	"testing"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/game"
	"github.com/gonewx/fireworks/pkg/sim"
)

func TestHUDLines(t *testing.T) {
	show := sim.NewShow(config.DefaultFireworksConfig(), particle.NewSource(1))
	show.SetViewport(800, 600)

	lines := HUDLines(show, 0)
	if lines[0] != "00:00.00" {
		t.Errorf("timer line = %q, want 00:00.00", lines[0])
	}

	show.Start(0)
	for i := 1; i <= 7; i++ {
		show.Lap(time.Duration(i) * time.Second)
	}

	lines = HUDLines(show, 8*time.Second)
	if lines[0] != "00:08.00" {
		t.Errorf("timer line = %q, want 00:08.00", lines[0])
	}
	if !strings.HasPrefix(lines[2], "Lap 7 ") {
		t.Errorf("newest lap should come first, got %q", lines[2])
	}
	if got := lines[2+maxHUDLaps]; got != "... 2 more" {
		t.Errorf("overflow line = %q", got)
	}
}

func TestControlLine(t *testing.T) {
	got := controlLine(game.ControlState{Start: true, Reset: true})
	want := "[start]  stop   lap   clear  [reset]"
	if got != want {
		t.Errorf("controlLine = %q, want %q", got, want)
	}
}
