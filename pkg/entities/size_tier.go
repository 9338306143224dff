package entities

import (
	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
)

// PickSizeTier 按累计概率表抽取尺寸档位
//
// 先用一次随机数选出档位，再依次采样 particle、radius、life 三个系数。
// 浮点误差导致累计权重略小于 1 时落到最后一个档位。
func PickSizeTier(src particle.Source, tiers []config.TierConfig) components.SizeTier {
	if len(tiers) == 0 {
		return components.SizeTier{Name: "default", Particle: 1, Radius: 1, Life: 1}
	}

	r := src.Float64()
	chosen := tiers[len(tiers)-1]
	cumulative := 0.0
	for _, tier := range tiers {
		cumulative += tier.Weight
		if r < cumulative {
			chosen = tier
			break
		}
	}

	return components.SizeTier{
		Name:     chosen.Name,
		Particle: chosen.Particle.Sample(src),
		Radius:   chosen.Radius.Sample(src),
		Life:     chosen.Life.Sample(src),
	}
}
