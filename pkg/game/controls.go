package game

// ControlState 各个控制按钮是否可用
type ControlState struct {
	Start     bool
	Stop      bool
	Lap       bool
	ClearLaps bool
	Reset     bool
}

// ComputeControls 根据当前状态计算按钮可用性
//
// 规则：
//   - Start: 未计时时可用
//   - Stop: 计时中可用
//   - Lap: 计时中且未冻结时可用
//   - ClearLaps: 有计圈记录时可用
//   - 重置动画进行中 Lap/ClearLaps/Reset 全部锁定
func ComputeControls(running, frozen bool, lapCount int, resetting bool) ControlState {
	state := ControlState{
		Start:     !running,
		Stop:      running,
		Lap:       running && !frozen,
		ClearLaps: lapCount > 0,
		Reset:     true,
	}
	if resetting {
		state.Lap = false
		state.ClearLaps = false
		state.Reset = false
	}
	return state
}
