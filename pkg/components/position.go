package components

// PositionComponent 世界坐标（像素，Y 轴向下）
type PositionComponent struct {
	X, Y float64
}

// VelocityComponent 速度（像素/秒，负 VY 表示向上）
type VelocityComponent struct {
	VX, VY float64
}
