package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen init failed: %v", err)
	}
	return screen
}

func TestPollEvents_Forwards(t *testing.T) {
	screen := newTestScreen(t)
	defer screen.Fini()

	events := make(chan tcell.Event, 1)
	stop := make(chan struct{})
	defer close(stop)
	go pollEvents(screen, events, stop)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case ev := <-events:
		key, ok := ev.(*tcell.EventKey)
		if !ok || key.Rune() != 'q' {
			t.Errorf("got event %#v, want key 'q'", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("event was not forwarded")
	}
}

// 主循环退出后没有读者，转发协程必须在 stop 关闭时返回
func TestPollEvents_ReturnsWhenReaderGone(t *testing.T) {
	screen := newTestScreen(t)
	defer screen.Fini()

	// 无缓冲且无人读取：转发会一直阻塞在发送上
	events := make(chan tcell.Event)
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		pollEvents(screen, events, stop)
		close(done)
	}()

	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)
	time.Sleep(20 * time.Millisecond)
	close(stop)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pollEvents did not return after stop")
	}
}

func TestPollEvents_ReturnsOnFini(t *testing.T) {
	screen := newTestScreen(t)

	events := make(chan tcell.Event, 1)
	stop := make(chan struct{})
	defer close(stop)
	done := make(chan struct{})
	go func() {
		pollEvents(screen, events, stop)
		close(done)
	}()

	screen.Fini()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pollEvents did not return after Fini")
	}
}
