//go:build !mobile

// Package mobile 的普通构建占位；真正的绑定在 mobile.go，仅 -tags mobile 时编译。
package mobile

// Dummy 是一个空导出函数，确保包在非移动端构建时也能被引用
func Dummy() {}
