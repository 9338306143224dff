package entities

import (
	"github.com/gonewx/fireworks/internal/particle"
	"github.com/gonewx/fireworks/pkg/components"
	"github.com/gonewx/fireworks/pkg/config"
)

// BuildStars 生成背景星空
//
// 星星分布在视口上方 HeightFraction 的区域内，尺寸等级按累计概率抽取。
func BuildStars(src particle.Source, cfg config.StarsConfig, width, height float64) []components.Star {
	stars := make([]components.Star, 0, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		r := src.Float64()
		class := components.StarBright
		switch {
		case r < cfg.SmallChance:
			class = components.StarSmall
		case r < cfg.NormalChance:
			class = components.StarNormal
		}

		stars = append(stars, components.Star{
			X:       src.Float64() * width,
			Y:       src.Float64() * height * cfg.HeightFraction,
			Class:   class,
			Delay:   cfg.Delay.Sample(src),
			Opacity: cfg.Opacity.Sample(src),
		})
	}
	return stars
}
