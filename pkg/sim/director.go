package sim

import (
	"log"
	"time"

	"github.com/gonewx/fireworks/pkg/config"
)

// Action 自动演示执行的动作
type Action string

const (
	ActionStart  Action = "start"
	ActionStop   Action = "stop"
	ActionResume Action = "resume"
	ActionLap    Action = "lap"
	ActionReset  Action = "reset"
)

type cue struct {
	at     float64
	action Action
}

// Director 没有输入设备时按时间表操作 Show
//
// 每轮从 0 秒开始：StartAt 开始，StopAt 暂停，ResumeAt 继续，ResetAt 重置；
// 计时中每隔 LapEvery 秒计一圈。重置动画结束后开始下一轮。
// 同一时刻的时间表动作先于计圈执行。
type Director struct {
	cfg  *config.DirectorConfig
	show *Show

	cues    []cue
	next    int
	nextLap float64
	elapsed float64
	waiting bool

	last    time.Duration
	hasLast bool
	rounds  int
}

// NewDirector 创建自动演示
func NewDirector(cfg *config.DirectorConfig, show *Show) *Director {
	d := &Director{
		cfg:  cfg,
		show: show,
		cues: []cue{
			{cfg.StartAt, ActionStart},
			{cfg.StopAt, ActionStop},
			{cfg.ResumeAt, ActionResume},
			{cfg.ResetAt, ActionReset},
		},
	}
	d.rewind()
	return d
}

func (d *Director) rewind() {
	d.elapsed = 0
	d.next = 0
	d.nextLap = d.cfg.StartAt + d.cfg.LapEvery
	d.waiting = false
}

// Rounds 已完成的轮数
func (d *Director) Rounds() int {
	return d.rounds
}

// Update 推进时间表，返回本次执行的动作（按时间顺序）
func (d *Director) Update(now time.Duration) []Action {
	if d.hasLast && now > d.last {
		d.elapsed += (now - d.last).Seconds()
	}
	d.last = now
	d.hasLast = true

	if d.waiting {
		if d.show.Resetting() {
			return nil
		}
		d.rounds++
		log.Printf("[Director] round %d finished", d.rounds)
		d.rewind()
	}

	var done []Action
	for {
		cueAt := -1.0
		if d.next < len(d.cues) {
			cueAt = d.cues[d.next].at
		}
		lapDue := d.nextLap < d.cfg.ResetAt && d.nextLap <= d.elapsed

		if cueAt >= 0 && cueAt <= d.elapsed && (!lapDue || cueAt <= d.nextLap) {
			action := d.cues[d.next].action
			d.next++
			if d.perform(now, action) {
				done = append(done, action)
			}
			if action == ActionReset {
				d.waiting = true
				return done
			}
			continue
		}
		if lapDue {
			d.nextLap += d.cfg.LapEvery
			if d.perform(now, ActionLap) {
				done = append(done, ActionLap)
			}
			continue
		}
		return done
	}
}

func (d *Director) perform(now time.Duration, action Action) bool {
	var ok bool
	switch action {
	case ActionStart, ActionResume:
		ok = d.show.Start(now)
	case ActionStop:
		ok = d.show.Stop(now)
	case ActionLap:
		_, ok = d.show.Lap(now)
	case ActionReset:
		ok = d.show.Reset(now)
	}
	if ok {
		log.Printf("[Director] %s at %.2fs", action, d.elapsed)
	}
	return ok
}
