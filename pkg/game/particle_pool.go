package game

import (
	"log"

	"github.com/gonewx/fireworks/pkg/components"
)

// ParticlePool 粒子视觉句柄池
//
// 每种粒子类型（trail/head/spark）一个索引化的 arena 和一条空闲链表：
//   - Acquire 优先弹出同类型已释放的槽位，否则在 arena 末尾追加新槽位
//   - Release 将槽位重置为屏幕外、透明度 0 的状态并压回空闲链表
//
// 句柄只是 (kind, index)，因此获取/释放都是索引操作，不会产生逐粒子的堆分配。
//
// 注意：Visual() 返回的指针在下一次 Acquire 之后可能失效（arena 扩容），
// 调用方不要跨 Acquire 持有。
type ParticlePool struct {
	arenas [components.KindCount][]components.Visual
	free   [components.KindCount][]int
	inUse  [components.KindCount][]bool

	acquired      int
	released      int
	doubleRelease int
}

// NewParticlePool 创建空的粒子池
func NewParticlePool() *ParticlePool {
	return &ParticlePool{}
}

// Acquire 获取一个指定类型的视觉句柄
//
// 空闲链表为空时分配新槽位；池本身没有上限，实际规模受活跃粒子上限约束。
func (p *ParticlePool) Acquire(kind components.ParticleKind) components.VisualHandle {
	k := int(kind)

	var idx int
	if n := len(p.free[k]); n > 0 {
		idx = p.free[k][n-1]
		p.free[k] = p.free[k][:n-1]
	} else {
		idx = len(p.arenas[k])
		p.arenas[k] = append(p.arenas[k], offscreenVisual())
		p.inUse[k] = append(p.inUse[k], false)
	}

	p.inUse[k][idx] = true
	v := &p.arenas[k][idx]
	v.Attached = true
	p.acquired++

	return components.VisualHandle{Kind: kind, Index: idx}
}

// Release 归还句柄
//
// 句柄被重置为不可见并回到对应类型的空闲链表。
// 重复释放或无效句柄会被忽略并记录日志，返回 false。
func (p *ParticlePool) Release(h components.VisualHandle) bool {
	if !p.valid(h) {
		log.Printf("[ParticlePool] WARNING: release of invalid handle %s#%d", h.Kind, h.Index)
		return false
	}
	k := int(h.Kind)
	if !p.inUse[k][h.Index] {
		p.doubleRelease++
		log.Printf("[ParticlePool] WARNING: double release of handle %s#%d", h.Kind, h.Index)
		return false
	}

	p.inUse[k][h.Index] = false
	p.arenas[k][h.Index] = offscreenVisual()
	p.free[k] = append(p.free[k], h.Index)
	p.released++
	return true
}

// Visual 返回句柄对应的视觉状态，无效句柄返回 nil
func (p *ParticlePool) Visual(h components.VisualHandle) *components.Visual {
	if !p.valid(h) {
		return nil
	}
	return &p.arenas[int(h.Kind)][h.Index]
}

// FreeCount 返回某类型空闲链表的长度
func (p *ParticlePool) FreeCount(kind components.ParticleKind) int {
	return len(p.free[int(kind)])
}

// Allocated 返回某类型 arena 的总槽位数（包括空闲的）
func (p *ParticlePool) Allocated(kind components.ParticleKind) int {
	return len(p.arenas[int(kind)])
}

// InUse 返回某类型当前被占用的句柄数
func (p *ParticlePool) InUse(kind components.ParticleKind) int {
	return len(p.arenas[int(kind)]) - len(p.free[int(kind)])
}

// ForEachAttached 按类型、索引顺序遍历所有被占用的视觉状态
func (p *ParticlePool) ForEachAttached(fn func(h components.VisualHandle, v *components.Visual)) {
	for k := 0; k < int(components.KindCount); k++ {
		for i := range p.arenas[k] {
			if p.inUse[k][i] {
				fn(components.VisualHandle{Kind: components.ParticleKind(k), Index: i}, &p.arenas[k][i])
			}
		}
	}
}

// PoolStats 粒子池统计
type PoolStats struct {
	Allocated     [components.KindCount]int
	Free          [components.KindCount]int
	Acquired      int
	Released      int
	DoubleRelease int
}

// Stats 返回当前统计快照
func (p *ParticlePool) Stats() PoolStats {
	s := PoolStats{
		Acquired:      p.acquired,
		Released:      p.released,
		DoubleRelease: p.doubleRelease,
	}
	for k := 0; k < int(components.KindCount); k++ {
		s.Allocated[k] = len(p.arenas[k])
		s.Free[k] = len(p.free[k])
	}
	return s
}

func (p *ParticlePool) valid(h components.VisualHandle) bool {
	if h.Kind < 0 || h.Kind >= components.KindCount {
		return false
	}
	return h.Index >= 0 && h.Index < len(p.arenas[int(h.Kind)])
}

// offscreenVisual 已释放槽位的状态：屏幕外且完全透明
func offscreenVisual() components.Visual {
	return components.Visual{
		X: components.OffscreenCoord,
		Y: components.OffscreenCoord,
	}
}
