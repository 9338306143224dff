package entities

import (
	"math"
	"testing"

	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
	"github.com/gonewx/fireworks/pkg/ecs"
	"github.com/gonewx/fireworks/pkg/game"
)

// sequenceSource 按顺序返回预设值，用完后一直返回最后一个
type sequenceSource struct {
	values []float64
	i      int
}

func (s *sequenceSource) Float64() float64 {
	if len(s.values) == 0 {
		return 0
	}
	v := s.values[s.i]
	if s.i < len(s.values)-1 {
		s.i++
	}
	return v
}

type testRig struct {
	em       *ecs.EntityManager
	registry *game.ParticleRegistry
	cfg      *config.FireworksConfig
	factory  *FireworkFactory
}

func newTestRig(src particle.Source, maxActive int) *testRig {
	cfg := config.DefaultFireworksConfig()
	em := ecs.NewEntityManager()
	registry := game.NewParticleRegistry(game.NewParticlePool(), maxActive, false)
	return &testRig{
		em:       em,
		registry: registry,
		cfg:      cfg,
		factory:  NewFireworkFactory(em, registry, cfg, src),
	}
}

func unitTier() components.SizeTier {
	return components.SizeTier{Name: "normal", Particle: 1, Radius: 1, Life: 1}
}

func TestPickSizeTier(t *testing.T) {
	tiers := config.DefaultFireworksConfig().Tiers

	tests := []struct {
		r    float64
		want string
	}{
		{0.0, "small"},
		{0.19, "small"},
		{0.205, "normal"},
		{0.79, "normal"},
		{0.805, "large"},
		{0.965, "large"},
		{0.975, "huge"},
		{0.999999, "huge"},
	}

	for _, tt := range tests {
		src := &sequenceSource{values: []float64{tt.r, 0.5}}
		got := PickSizeTier(src, tiers)
		if got.Name != tt.want {
			t.Errorf("PickSizeTier(r=%v) = %s, want %s", tt.r, got.Name, tt.want)
		}
	}

	// 系数落在档位范围内
	src := particle.NewSource(3)
	for i := 0; i < 500; i++ {
		tier := PickSizeTier(src, tiers)
		for _, tc := range tiers {
			if tc.Name != tier.Name {
				continue
			}
			if !tc.Particle.Contains(tier.Particle) || !tc.Radius.Contains(tier.Radius) || !tc.Life.Contains(tier.Life) {
				t.Fatalf("tier %s scales out of range: %+v", tier.Name, tier)
			}
		}
	}

	if got := PickSizeTier(src, nil); got.Radius != 1 {
		t.Errorf("empty tier table should yield unit scales, got %+v", got)
	}
}

func TestSpawnRocket_CreatesTrailAndHead(t *testing.T) {
	rig := newTestRig(particle.NewSource(1), 1200)

	params := RocketParams{
		OriginX: 100, OriginY: 800, BurstAtY: 200,
		VX: 10, VY: -600,
		PaletteIndex: 1,
		Tier:         components.SizeTier{Name: "large", Particle: 1.5, Radius: 1.4, Life: 1.1},
		Glow:         1,
	}
	id := rig.factory.SpawnRocket(params, 0)

	rocket, ok := ecs.GetComponent[*components.RocketComponent](rig.em, id)
	if !ok {
		t.Fatal("rocket component missing")
	}
	if rocket.State != components.RocketAscending || rocket.BurstAtY != 200 {
		t.Errorf("rocket = %+v", rocket)
	}
	if len(rocket.Palette) != 6 {
		t.Errorf("palette length = %d, want 6", len(rocket.Palette))
	}
	pos, _ := ecs.GetComponent[*components.PositionComponent](rig.em, id)
	if pos.X != 100 || pos.Y != 800 {
		t.Errorf("position = %+v", pos)
	}

	if rig.registry.Len() != 2 {
		t.Fatalf("live particles = %d, want 2", rig.registry.Len())
	}

	trail, head := rig.registry.Live()[0], rig.registry.Live()[1]
	if trail.Kind != components.KindTrail || head.Kind != components.KindHead {
		t.Fatalf("kinds = %v, %v", trail.Kind, head.Kind)
	}
	if trail.EntityID != id || head.EntityID != id {
		t.Error("particles should reference their rocket")
	}
	if math.Abs(trail.VY-(-600*0.12)) > 1e-9 || math.Abs(trail.VX-1.2) > 1e-9 {
		t.Errorf("trail velocity = (%v, %v)", trail.VX, trail.VY)
	}
	if math.Abs(trail.Life-0.9*1.1) > 1e-9 {
		t.Errorf("trail life = %v", trail.Life)
	}
	if trail.Size < 16*1.5 || trail.Size >= 26*1.5 {
		t.Errorf("trail length = %v", trail.Size)
	}
	if head.VY != -600 || head.Opacity != 1 {
		t.Errorf("head = %+v", head)
	}

	v := rig.registry.Pool().Visual(head.Handle)
	if math.Abs(v.Glow-27) > 1e-9 {
		t.Errorf("head glow = %v, want clamp(18*1.5) = 27", v.Glow)
	}
	tv := rig.registry.Pool().Visual(trail.Handle)
	if tv.Width != 3 || tv.Height != trail.Size {
		t.Errorf("trail visual = %vx%v", tv.Width, tv.Height)
	}
}

func TestRandomRocketParams_WithinViewport(t *testing.T) {
	rig := newTestRig(particle.NewSource(11), 1200)

	for i := 0; i < 200; i++ {
		params := rig.factory.RandomRocketParams(1000, 800)
		if params.OriginX < 120 || params.OriginX >= 880 {
			t.Fatalf("originX = %v", params.OriginX)
		}
		if params.OriginY < 800*0.86 || params.OriginY >= 800*0.93 {
			t.Fatalf("originY = %v", params.OriginY)
		}
		if params.BurstAtY < 800*0.18 || params.BurstAtY >= 800*0.42 {
			t.Fatalf("burstAtY = %v", params.BurstAtY)
		}
		if params.VY > -520 || params.VY <= -720 {
			t.Fatalf("vy = %v", params.VY)
		}
		if params.PaletteIndex < 0 || params.PaletteIndex > 2 {
			t.Fatalf("palette = %d", params.PaletteIndex)
		}
	}

	// 零视口不会出错
	params := rig.factory.RandomRocketParams(0, 0)
	if params.OriginX != 0 || params.OriginY != 0 || params.BurstAtY != 0 {
		t.Errorf("zero viewport params = %+v", params)
	}
}

func TestSpawnBurst_CountsAtUnitRadius(t *testing.T) {
	for seed := int64(1); seed <= 40; seed++ {
		rig := newTestRig(particle.NewSource(seed), 100000)
		id := rig.factory.SpawnRocket(RocketParams{OriginX: 100, OriginY: 200, Tier: unitTier(), Glow: 1}, 0)

		result, ok := rig.factory.SpawnBurst(id, 0)
		if !ok {
			t.Fatalf("seed %d: burst refused", seed)
		}
		if result.Sparks < 110 || result.Sparks > 169 {
			t.Errorf("seed %d: spark count %d not in [110, 169]", seed, result.Sparks)
		}
		if result.Ring < 44 || result.Ring > 68 {
			t.Errorf("seed %d: ring count %d not in [44, 68]", seed, result.Ring)
		}
		if result.Dropped != 0 {
			t.Errorf("seed %d: dropped %d below cap", seed, result.Dropped)
		}
		if got := rig.registry.CountKind(components.KindSpark); got != result.Total() {
			t.Errorf("seed %d: live sparks %d, want %d", seed, got, result.Total())
		}
	}
}

func TestSpawnBurst_Deterministic(t *testing.T) {
	run := func() BurstResult {
		rig := newTestRig(particle.NewSource(99), 100000)
		id := rig.factory.NewFirework(1280, 720, 0)
		result, _ := rig.factory.SpawnBurst(id, 0)
		return result
	}
	if a, b := run(), run(); a != b {
		t.Errorf("same seed produced %+v and %+v", a, b)
	}
}

func TestSpawnBurst_RingSharesColorAndTwinkles(t *testing.T) {
	rig := newTestRig(particle.NewSource(5), 100000)
	id := rig.factory.SpawnRocket(RocketParams{OriginX: 300, OriginY: 300, Tier: unitTier(), Glow: 1}, 0)
	result, _ := rig.factory.SpawnBurst(id, 0)

	live := rig.registry.Live()
	ring := live[len(live)-result.Ring:]
	for i, p := range ring {
		if !p.Twinkle {
			t.Fatalf("ring particle %d should twinkle", i)
		}
		if p.Color != ring[0].Color {
			t.Fatalf("ring particle %d color %v differs from %v", i, p.Color, ring[0].Color)
		}
		if p.Kind != components.KindSpark {
			t.Fatalf("ring particle kind = %v", p.Kind)
		}
	}

	// 光环角度均匀：第 1 个粒子沿 +X 方向
	if ring[0].VY > 1e-9 || ring[0].VX <= 0 {
		t.Errorf("first ring particle velocity = (%v, %v)", ring[0].VX, ring[0].VY)
	}
}

func TestSpawnBurst_OnlyOnce(t *testing.T) {
	rig := newTestRig(particle.NewSource(8), 100000)
	id := rig.factory.SpawnRocket(RocketParams{Tier: unitTier(), Glow: 1}, 0)

	if _, ok := rig.factory.SpawnBurst(id, 5); !ok {
		t.Fatal("first burst should succeed")
	}
	live := rig.registry.Len()
	if _, ok := rig.factory.SpawnBurst(id, 6); ok {
		t.Error("second burst should be refused")
	}
	if rig.registry.Len() != live {
		t.Error("refused burst must not add particles")
	}

	rocket, _ := ecs.GetComponent[*components.RocketComponent](rig.em, id)
	if rocket.State != components.RocketBurst || rocket.BurstTime != 5 {
		t.Errorf("rocket after burst = %+v", rocket)
	}

	if _, ok := rig.factory.SpawnBurst(ecs.EntityID(12345), 0); ok {
		t.Error("burst of unknown entity should be refused")
	}
}

func TestSpawnBurst_RespectsCap(t *testing.T) {
	rig := newTestRig(particle.NewSource(21), 50)
	id := rig.factory.SpawnRocket(RocketParams{Tier: unitTier(), Glow: 1}, 0)

	result, _ := rig.factory.SpawnBurst(id, 0)
	if rig.registry.Len() != 50 {
		t.Errorf("live = %d, want cap 50", rig.registry.Len())
	}
	if result.Dropped != result.Total()-48 {
		t.Errorf("dropped = %d, want %d", result.Dropped, result.Total()-48)
	}
	pool := rig.registry.Pool()
	if pool.InUse(components.KindSpark) != 48 {
		t.Errorf("spark handles in use = %d, want 48", pool.InUse(components.KindSpark))
	}
}
