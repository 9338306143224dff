package sim

import (
	"testing"
	"time"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/systems"
)

const frame = 16 * time.Millisecond

func newRunningLoop(t *testing.T, cfg *config.FireworksConfig, seed int64) *FrameLoop {
	t.Helper()
	l := NewFrameLoop(cfg, particle.NewSource(seed))
	l.SetViewport(800, 600)
	l.SetSpawning(true)
	l.Start()
	return l
}

// run 以固定帧间隔推进 n 帧，返回最后一帧的时间戳
func run(l *FrameLoop, from time.Duration, n int) time.Duration {
	now := from
	for i := 0; i < n; i++ {
		now += frame
		l.Tick(now)
	}
	return now
}

func TestFrameLoop_FrozenHasNoBacklog(t *testing.T) {
	l := newRunningLoop(t, config.DefaultFireworksConfig(), 1)
	now := run(l, 0, 120)

	before := l.Visuals(nil)
	if len(before) == 0 {
		t.Fatal("expected live particles after 2s of spawning")
	}
	clock := l.Clock()

	l.SetFrozen(true)
	for i := 0; i < 30; i++ {
		now += 200 * time.Millisecond
		if stats := l.Tick(now); stats.Advanced {
			t.Fatal("frozen tick advanced the simulation")
		}
	}

	after := l.Visuals(nil)
	if len(after) != len(before) {
		t.Fatalf("particle count changed while frozen: %d -> %d", len(before), len(after))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("particle %d changed while frozen: %+v -> %+v", i, before[i], after[i])
		}
	}
	if l.Clock() != clock {
		t.Errorf("clock moved while frozen: %v -> %v", clock, l.Clock())
	}

	l.SetFrozen(false)
	stats := l.Tick(now + frame)
	if !stats.Advanced || stats.DT != frame.Seconds() {
		t.Errorf("first tick after unfreeze dt = %v, want %v", stats.DT, frame.Seconds())
	}
	if l.Clock() != clock+frame {
		t.Errorf("clock = %v, want %v", l.Clock(), clock+frame)
	}
}

func TestFrameLoop_DeltaClamp(t *testing.T) {
	l := newRunningLoop(t, config.DefaultFireworksConfig(), 2)

	tests := []struct {
		name string
		now  time.Duration
		want float64
	}{
		{"first tick after start", 10 * time.Second, 0},
		{"normal frame", 10*time.Second + frame, frame.Seconds()},
		{"long pause", 15 * time.Second, 0.033},
		{"clock went backwards", 14 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.Tick(tt.now).DT; got != tt.want {
				t.Errorf("dt = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameLoop_StartStop(t *testing.T) {
	l := NewFrameLoop(config.DefaultFireworksConfig(), particle.NewSource(3))
	if l.Running() {
		t.Fatal("new loop should be stopped")
	}
	if l.Tick(time.Second).Advanced {
		t.Error("stopped loop should not advance")
	}

	l.Start()
	l.Start()
	l.Tick(time.Second)
	l.Tick(time.Second + frame)
	if l.Stats().Ticks != 2 {
		t.Errorf("ticks = %d, want 2", l.Stats().Ticks)
	}

	l.Stop()
	if l.Tick(2 * time.Second).Advanced {
		t.Error("loop should not advance after Stop")
	}

	// 重新启动后第一帧 dt 为 0
	l.Start()
	if dt := l.Tick(5 * time.Second).DT; dt != 0 {
		t.Errorf("dt after restart = %v, want 0", dt)
	}
}

func TestFrameLoop_ClearAll(t *testing.T) {
	l := newRunningLoop(t, config.DefaultFireworksConfig(), 4)
	run(l, 0, 200)

	if l.Stats().Live == 0 || l.Stats().Rockets == 0 {
		t.Fatalf("expected particles and rockets, got %+v", l.Stats())
	}

	l.ClearAll()
	stats := l.Stats()
	if stats.Live != 0 || stats.Rockets != 0 {
		t.Errorf("after ClearAll: live=%d rockets=%d", stats.Live, stats.Rockets)
	}
	for k := components.ParticleKind(0); k < components.KindCount; k++ {
		if n := l.Pool().InUse(k); n != 0 {
			t.Errorf("%s handles still in use: %d", k, n)
		}
	}
	if stats.Pool.DoubleRelease != 0 {
		t.Errorf("double releases = %d", stats.Pool.DoubleRelease)
	}
}

func TestFrameLoop_StrictCapNeverExceeded(t *testing.T) {
	cfg := config.DefaultFireworksConfig()
	cfg.Spawn.MaxActiveParticles = 150
	cfg.Spawn.StrictParticleCap = true
	l := newRunningLoop(t, cfg, 5)

	now := time.Duration(0)
	for i := 0; i < 600; i++ {
		now += frame
		l.Tick(now)
		if live := l.Registry().Len(); live > 150 {
			t.Fatalf("tick %d: live = %d exceeds cap", i, live)
		}
	}
	if l.Stats().Dropped == 0 {
		t.Error("expected dropped sparks under a tight cap")
	}
}

func TestFrameLoop_HandlesNeverShared(t *testing.T) {
	l := newRunningLoop(t, config.DefaultFireworksConfig(), 6)

	now := time.Duration(0)
	for i := 0; i < 300; i++ {
		now += frame
		l.Tick(now)

		seen := make(map[components.VisualHandle]bool)
		for _, p := range l.Registry().Live() {
			if seen[p.Handle] {
				t.Fatalf("tick %d: handle %+v shared by two live particles", i, p.Handle)
			}
			seen[p.Handle] = true
		}
	}
}

func TestFrameLoop_Deterministic(t *testing.T) {
	a := newRunningLoop(t, config.DefaultFireworksConfig(), 42)
	b := newRunningLoop(t, config.DefaultFireworksConfig(), 42)
	run(a, 0, 240)
	run(b, 0, 240)

	va, vb := a.Visuals(nil), b.Visuals(nil)
	if len(va) != len(vb) {
		t.Fatalf("particle counts differ: %d vs %d", len(va), len(vb))
	}
	for i := range va {
		if va[i] != vb[i] {
			t.Fatalf("particle %d differs: %+v vs %+v", i, va[i], vb[i])
		}
	}
}

func TestFrameLoop_OnBurst(t *testing.T) {
	l := newRunningLoop(t, config.DefaultFireworksConfig(), 7)

	var events []systems.BurstEvent
	l.OnBurst(func(e systems.BurstEvent) { events = append(events, e) })
	run(l, 0, 400)

	if len(events) == 0 {
		t.Fatal("no bursts in 6.4s of spawning")
	}
	if len(events) != l.Stats().Bursts {
		t.Errorf("events = %d, Stats().Bursts = %d", len(events), l.Stats().Bursts)
	}
	seen := make(map[int]bool)
	for _, e := range events {
		if seen[int(e.Entity)] {
			t.Errorf("rocket %d burst twice", e.Entity)
		}
		seen[int(e.Entity)] = true
	}
}

func TestFrameLoop_ZeroViewport(t *testing.T) {
	l := NewFrameLoop(config.DefaultFireworksConfig(), particle.NewSource(8))
	l.SetViewport(-10, 0)
	l.SetSpawning(true)
	l.Start()
	run(l, 0, 120)

	if w, h := l.Viewport(); w != 0 || h != 0 {
		t.Errorf("viewport = (%v, %v), want (0, 0)", w, h)
	}
	if l.Stats().Spawned == 0 {
		t.Error("rockets should still spawn on an empty viewport")
	}
}
