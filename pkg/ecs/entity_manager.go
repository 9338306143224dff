package ecs

import "reflect"

// EntityID 是实体的唯一标识符
// 0 保留为无效 ID，粒子用它表示"没有来源实体"
type EntityID uint64

// InvalidEntity 表示不存在的实体
const InvalidEntity EntityID = 0

// EntityManager 管理所有实体和组件
//
// 组件按类型分列存储（类型 -> 实体 -> 组件），查询时先取最小的一列再逐个过滤。
// 查询结果按实体创建顺序返回，保证同一随机种子下的模拟可复现。
// 销毁是延迟的：DestroyEntity 只做标记，RemoveMarkedEntities 在帧末统一清理。
type EntityManager struct {
	nextID uint64

	alive  map[EntityID]struct{}
	order  []EntityID
	stores map[reflect.Type]map[EntityID]interface{}

	pending []EntityID
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1,
		alive:  make(map[EntityID]struct{}),
		order:  make([]EntityID, 0, 64),
		stores: make(map[reflect.Type]map[EntityID]interface{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.alive[id] = struct{}{}
	em.order = append(em.order, id)
	return id
}

// DestroyEntity 标记实体待删除(不立即删除)
func (em *EntityManager) DestroyEntity(id EntityID) {
	em.pending = append(em.pending, id)
}

// Exists 检查实体是否仍然存活
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.alive[id]
	return ok
}

// AddComponent 为实体添加组件；同类型组件会被替换，不存在的实体忽略
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	if !em.Exists(id) {
		return
	}
	t := reflect.TypeOf(component)
	store, ok := em.stores[t]
	if !ok {
		store = make(map[EntityID]interface{})
		em.stores[t] = store
	}
	store[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if store, ok := em.stores[componentType]; ok {
		delete(store, id)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	comp, ok := em.stores[componentType][id]
	return comp, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.stores[componentType][id]
	return ok
}

// RemoveMarkedEntities 清理所有标记删除的实体
// 返回实际删除的实体数量（重复标记只计一次）
func (em *EntityManager) RemoveMarkedEntities() int {
	if len(em.pending) == 0 {
		return 0
	}

	removed := 0
	for _, id := range em.pending {
		if _, ok := em.alive[id]; !ok {
			continue
		}
		delete(em.alive, id)
		for _, store := range em.stores {
			delete(store, id)
		}
		removed++
	}
	em.pending = em.pending[:0]

	if removed > 0 {
		kept := em.order[:0]
		for _, id := range em.order {
			if _, ok := em.alive[id]; ok {
				kept = append(kept, id)
			}
		}
		em.order = kept
	}
	return removed
}

// Clear 立即删除所有实体（不经过待删除队列）
// ID 计数器不回退，旧 ID 永远不会被复用
func (em *EntityManager) Clear() {
	clear(em.alive)
	clear(em.stores)
	em.order = em.order[:0]
	em.pending = em.pending[:0]
}

// Count 返回存活实体数量
func (em *EntityManager) Count() int {
	return len(em.order)
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（按创建顺序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)
	if len(componentTypes) == 0 {
		return append(result, em.order...)
	}

	stores := make([]map[EntityID]interface{}, 0, len(componentTypes))
	for _, t := range componentTypes {
		store := em.stores[t]
		if len(store) == 0 {
			return result
		}
		stores = append(stores, store)
	}

	for _, id := range em.order {
		match := true
		for _, store := range stores {
			if _, ok := store[id]; !ok {
				match = false
				break
			}
		}
		if match {
			result = append(result, id)
		}
	}
	return result
}
