package sim

import (
	"testing"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/systems"
)

func newTestShow(seed int64) *Show {
	s := NewShow(config.DefaultFireworksConfig(), particle.NewSource(seed))
	s.SetViewport(800, 600)
	return s
}

// advance 以 16ms 帧推进 Show 直到 until，返回 until
func advance(s *Show, from, until time.Duration) time.Duration {
	for now := from + frame; now <= until; now += frame {
		s.Update(now)
	}
	return until
}

func TestShow_Boot(t *testing.T) {
	s := newTestShow(1)

	if !s.Loop().Running() {
		t.Error("loop should run from boot")
	}
	if s.Loop().Spawning() {
		t.Error("no rockets before Start")
	}
	if len(s.Stars().Stars()) == 0 {
		t.Error("stars should be built on first viewport")
	}
	c := s.Controls()
	if !c.Start || c.Stop || c.Lap || c.ClearLaps || !c.Reset {
		t.Errorf("boot controls = %+v", c)
	}
}

func TestShow_StartStopLap(t *testing.T) {
	s := newTestShow(2)

	if !s.Start(0) {
		t.Fatal("Start() = false")
	}
	if s.Start(0) {
		t.Error("second Start() while running should be refused")
	}
	now := advance(s, 0, 3*time.Second)

	lap, ok := s.Lap(now)
	if !ok || lap.Index != 1 || lap.Elapsed != 3*time.Second || lap.Split != 3*time.Second {
		t.Errorf("first lap = %+v (ok=%v)", lap, ok)
	}
	now = advance(s, now, 5*time.Second)
	lap, _ = s.Lap(now)
	if lap.Split != 2*time.Second {
		t.Errorf("second split = %v, want 2s", lap.Split)
	}

	if !s.Stop(now) {
		t.Fatal("Stop() = false")
	}
	if !s.Loop().Frozen() {
		t.Error("Stop should freeze the loop")
	}
	if _, ok := s.Lap(now); ok {
		t.Error("lap should be refused while stopped")
	}

	now = advance(s, now, 8*time.Second)
	if got := s.Elapsed(now); got != 5*time.Second {
		t.Errorf("elapsed while stopped = %v, want 5s", got)
	}

	s.Start(now)
	if s.Loop().Frozen() {
		t.Error("Start should unfreeze")
	}
	if got := s.Elapsed(now + time.Second); got != 6*time.Second {
		t.Errorf("elapsed after resume = %v, want 6s", got)
	}

	laps := s.Laps()
	if len(laps) != 2 || laps[0].Index != 2 {
		t.Errorf("laps should be newest first, got %+v", laps)
	}
	if !s.ClearLaps() || len(s.Laps()) != 0 {
		t.Error("ClearLaps failed")
	}
	if s.ClearLaps() {
		t.Error("ClearLaps with no laps should be refused")
	}
}

func TestShow_ResetSequence(t *testing.T) {
	s := newTestShow(3)
	s.Start(0)
	now := advance(s, 0, 2*time.Second)
	s.Lap(now)

	if s.Loop().Stats().Live == 0 {
		t.Fatal("expected particles before reset")
	}

	if !s.Reset(now) {
		t.Fatal("Reset() = false")
	}
	if s.Reset(now) {
		t.Error("second Reset() during the sequence should be ignored")
	}
	c := s.Controls()
	if c.Lap || c.ClearLaps || c.Reset {
		t.Errorf("controls during reset = %+v", c)
	}
	if !s.Loop().Dissolve() || s.Loop().Spawning() || s.Running() {
		t.Error("reset should stop spawning and the stopwatch and start dissolving")
	}

	now = advance(s, now, now+time.Second)
	if !s.Loop().Dissolve() {
		t.Error("dissolve should last until the sequence finishes")
	}
	if s.Backdrop().Moonwash <= 0 {
		t.Error("moonwash should be visible during reset")
	}

	now = advance(s, now, now+2*time.Second)
	if s.Resetting() {
		t.Fatal("reset sequence should have finished")
	}
	if s.Loop().Dissolve() {
		t.Error("dissolve should end with the sequence")
	}
	if got := s.Loop().Stats(); got.Live != 0 || got.Rockets != 0 {
		t.Errorf("after reset live=%d rockets=%d", got.Live, got.Rockets)
	}
	if len(s.Laps()) != 0 || s.Elapsed(now) != 0 {
		t.Error("reset should clear laps and zero the stopwatch")
	}
	if s.Stars().Target() != 0 {
		t.Errorf("star layer target = %v, want 0", s.Stars().Target())
	}
	if s.Backdrop().Moonwash != 0 {
		t.Errorf("moonwash = %v, want 0", s.Backdrop().Moonwash)
	}

	s.Start(now)
	if s.Stars().Target() != 0.95 {
		t.Errorf("Start should bring stars back, target = %v", s.Stars().Target())
	}
}

// 慢帧（远超 33ms）时重置阶段仍按实际经过的时间推进
func TestShow_ResetFollowsWallClock(t *testing.T) {
	s := newTestShow(5)
	s.Start(0)
	now := advance(s, 0, time.Second)
	s.Update(now)

	if !s.Reset(now) {
		t.Fatal("Reset() = false")
	}

	// 0.5s 一帧：越过 Dim（0.42s），未到 Dark（0.98s）
	now += 500 * time.Millisecond
	s.Update(now)
	if !s.Resetting() {
		t.Fatal("sequence should still be running after 0.5s")
	}
	if got := s.Stars().Target(); got != s.cfg.Reset.DimStarOpacity {
		t.Errorf("star target after 0.5s = %v, want %v", got, s.cfg.Reset.DimStarOpacity)
	}

	// 再一帧 1.8s：总计 2.3s，越过 Clear（1.55s）和 Finish（2.2s）
	now += 1800 * time.Millisecond
	s.Update(now)
	if s.Resetting() {
		t.Error("sequence should have finished after 2.3s of wall-clock time")
	}
	if s.Loop().Dissolve() {
		t.Error("dissolve should be off once the sequence finishes")
	}
	if got := s.Loop().Stats(); got.Live != 0 {
		t.Errorf("live = %d after reset, want 0", got.Live)
	}
}

func TestShow_BurstListeners(t *testing.T) {
	s := newTestShow(4)
	count := 0
	s.OnBurst(func(systems.BurstEvent) { count++ })

	s.Start(0)
	advance(s, 0, 5*time.Second)

	if count == 0 {
		t.Fatal("listener never called")
	}
	if count != s.Loop().Stats().Bursts {
		t.Errorf("listener calls = %d, bursts = %d", count, s.Loop().Stats().Bursts)
	}
	for _, f := range s.Backdrop().Flashes {
		if f.Progress < 0 || f.Progress >= 1 {
			t.Errorf("flash progress %v out of range", f.Progress)
		}
	}
}
