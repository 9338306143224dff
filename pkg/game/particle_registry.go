package game

import (
	"github.com/gonewx/fireworks/pkg/components"
)

// ParticleRegistry 活跃粒子集合
//
// 负责粒子的创建、上限检查与回收：
//   - NewParticle 从池中取句柄并复用已回收的 Particle 结构体
//   - Add 在达到上限时丢弃 spark 粒子（句柄立即归还），trail/head 默认豁免
//   - Compact 在帧末清除已死亡的粒子
//
// StrictCap 为 true 时所有类型都受上限约束。
type ParticleRegistry struct {
	pool      *ParticlePool
	live      []*components.Particle
	spare     []*components.Particle
	maxActive int
	strictCap bool
	dropped   int
}

// NewParticleRegistry 创建活跃粒子集合
func NewParticleRegistry(pool *ParticlePool, maxActive int, strictCap bool) *ParticleRegistry {
	return &ParticleRegistry{
		pool:      pool,
		live:      make([]*components.Particle, 0, maxActive),
		maxActive: maxActive,
		strictCap: strictCap,
	}
}

// Pool 返回底层粒子池
func (r *ParticleRegistry) Pool() *ParticlePool {
	return r.pool
}

// NewParticle 创建一个持有新句柄的粒子（尚未加入活跃集合）
func (r *ParticleRegistry) NewParticle(kind components.ParticleKind) *components.Particle {
	var p *components.Particle
	if n := len(r.spare); n > 0 {
		p = r.spare[n-1]
		r.spare = r.spare[:n-1]
		*p = components.Particle{}
	} else {
		p = &components.Particle{}
	}
	p.Kind = kind
	p.Handle = r.pool.Acquire(kind)
	return p
}

// Add 将粒子加入活跃集合
//
// 达到上限时，spark 粒子（StrictCap 下为任意粒子）被立即释放，返回 false。
func (r *ParticleRegistry) Add(p *components.Particle) bool {
	if len(r.live) >= r.maxActive && (p.Kind == components.KindSpark || r.strictCap) {
		r.dispose(p)
		r.dropped++
		return false
	}
	r.live = append(r.live, p)
	return true
}

// Kill 标记粒子死亡并归还句柄；结构体在 Compact 时回收
func (r *ParticleRegistry) Kill(p *components.Particle) {
	if p.Dead {
		return
	}
	p.Dead = true
	r.pool.Release(p.Handle)
}

// Compact 移除所有死亡粒子，返回移除数量
func (r *ParticleRegistry) Compact() int {
	kept := r.live[:0]
	removed := 0
	for _, p := range r.live {
		if p.Dead {
			r.spare = append(r.spare, p)
			removed++
			continue
		}
		kept = append(kept, p)
	}
	// 清除尾部引用，避免旧指针残留
	for i := len(kept); i < len(r.live); i++ {
		r.live[i] = nil
	}
	r.live = kept
	return removed
}

// ClearAll 同步释放所有活跃粒子，返回释放数量
func (r *ParticleRegistry) ClearAll() int {
	n := len(r.live)
	for _, p := range r.live {
		r.Kill(p)
	}
	r.Compact()
	return n
}

// Live 返回活跃粒子切片（只读，下一次 Add/Compact 后失效）
func (r *ParticleRegistry) Live() []*components.Particle {
	return r.live
}

// Len 返回活跃粒子数
func (r *ParticleRegistry) Len() int {
	return len(r.live)
}

// CountKind 返回某类型的活跃粒子数
func (r *ParticleRegistry) CountKind(kind components.ParticleKind) int {
	n := 0
	for _, p := range r.live {
		if p.Kind == kind && !p.Dead {
			n++
		}
	}
	return n
}

// Dropped 返回因上限被丢弃的粒子总数
func (r *ParticleRegistry) Dropped() int {
	return r.dropped
}

// MaxActive 返回活跃粒子上限
func (r *ParticleRegistry) MaxActive() int {
	return r.maxActive
}

func (r *ParticleRegistry) dispose(p *components.Particle) {
	p.Dead = true
	r.pool.Release(p.Handle)
	r.spare = append(r.spare, p)
}
