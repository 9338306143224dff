package main

import "github.com/gdamore/tcell/v2"

// pollEvents 把终端事件转发到 events，直到屏幕关闭或 stop 被关闭
//
// 主循环退出后不再读取 events，发送时同时等待 stop，避免阻塞在已满的缓冲上。
func pollEvents(screen tcell.Screen, events chan<- tcell.Event, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}

		ev := screen.PollEvent()
		if ev == nil {
			return
		}

		select {
		case events <- ev:
		case <-stop:
			return
		}
	}
}
