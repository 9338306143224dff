package components

// StarClass 背景星星的尺寸等级
type StarClass int

const (
	StarSmall  StarClass = iota // 较暗的小星
	StarNormal                  // 普通
	StarBright                  // 亮星
)

// Star 背景星空中的一颗星
type Star struct {
	X, Y    float64
	Class   StarClass
	Delay   float64 // 闪烁相位偏移（秒）
	Opacity float64 // 基础透明度
}
