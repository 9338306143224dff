package systems

import "image/color"

// Flash 爆炸瞬间的扩散闪光
type Flash struct {
	X, Y     float64
	Radius   float64
	Color    color.RGBA
	Progress float64 // 0..1
}

// Backdrop 每帧由表现层提供的背景参数
type Backdrop struct {
	// Moonwash 月光遮罩强度 0..1（重置动画期间）
	Moonwash float64
	Flashes  []Flash
}
