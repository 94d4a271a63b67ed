package portable

import "github.com/wippyai/typeinfo/schema"

// Retain returns a table holding only the types selected by keep and the
// types needed to express them. Ids are reassigned in depth-first
// post-order: a type's dependencies get lower ids than the type itself,
// except along cycles. onRetained, if not nil, is called with each old id
// and its new id in ascending new-id order.
func (r *Registry) Retain(keep func(id uint32) bool, onRetained func(oldID, newID uint32)) *Registry {
	res := &idResolver{
		reg:      r,
		mapping:  make(map[uint32]uint32),
		visiting: make(map[uint32]bool),
	}
	for id := range r.types {
		if keep(uint32(id)) {
			res.visit(uint32(id))
		}
	}

	types := make([]Type, len(res.order))
	for newID, oldID := range res.order {
		if onRetained != nil {
			onRetained(oldID, uint32(newID))
		}
		types[newID] = schema.MapType(r.types[oldID], func(ref uint32) uint32 {
			return res.mapping[ref]
		}, nil)
	}
	return &Registry{types: types}
}

// idResolver assigns new ids to the types reachable from a set of roots.
type idResolver struct {
	reg      *Registry
	mapping  map[uint32]uint32
	visiting map[uint32]bool
	order    []uint32
}

func (res *idResolver) visit(id uint32) {
	if _, done := res.mapping[id]; done || res.visiting[id] {
		return
	}
	ty, ok := res.reg.Resolve(id)
	if !ok {
		return
	}
	res.visiting[id] = true
	for _, ref := range schema.Refs(*ty) {
		res.visit(ref)
	}
	delete(res.visiting, id)
	res.mapping[id] = uint32(len(res.order))
	res.order = append(res.order, id)
}
