//go:build mobile

// Package mobile 提供 ebitenmobile 绑定入口
//
// 此文件仅在使用 -tags mobile 构建时编译。构建前先把 data/fireworks.yaml
// 复制到 mobile/data/ 下：
//
//	mkdir -p mobile/data && cp data/fireworks.yaml mobile/data/
//	ebitenmobile bind -target android -tags mobile -androidapi 23 -javapkg com.gonewx.fireworks -o build/android/fireworks.aar ./mobile
package mobile

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2/mobile"

	"github.com/gonewx/fireworks/pkg/app"
	"github.com/gonewx/fireworks/pkg/embedded"
)

func init() {
	embedded.Init(dataFS)

	// 移动端没有命令行参数，始终自动演示
	gameApp, err := app.NewApp(app.Config{
		Verbose:  true,
		Autoplay: true,
	})
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	mobile.SetGame(gameApp)
}

// Dummy 是一个空导出函数，确保包被 ebitenmobile 正确识别
func Dummy() {}
