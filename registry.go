package txtree

import "weak"

// registry is the ordered set of a context's direct children.
// It holds weak handles only, so a transactable that is no longer referenced
// by the application drops out of the tree on its own.
type registry struct {
	order []weak.Pointer[Context]
	index map[weak.Pointer[Context]]struct{}
}

func (r *registry) register(c *Context) {
	h := weak.Make(c)
	if r.index == nil {
		r.index = make(map[weak.Pointer[Context]]struct{})
	}
	if _, ok := r.index[h]; ok {
		panic("txtree: context registered twice")
	}
	r.index[h] = struct{}{}
	r.order = append(r.order, h)
}

func (r *registry) unregister(c *Context) {
	h := weak.Make(c)
	if _, ok := r.index[h]; !ok {
		panic("txtree: unregistering a context that is not registered")
	}
	delete(r.index, h)
	for i, e := range r.order {
		if e == h {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

func (r *registry) contains(c *Context) bool {
	_, ok := r.index[weak.Make(c)]
	return ok
}

// live returns the children that are still reachable, in registration order,
// and prunes the entries of collected ones.
func (r *registry) live() []*Context {
	if len(r.order) == 0 {
		return nil
	}
	out := make([]*Context, 0, len(r.order))
	kept := r.order[:0]
	for _, h := range r.order {
		c := h.Value()
		if c == nil {
			delete(r.index, h)
			continue
		}
		kept = append(kept, h)
		out = append(out, c)
	}
	clear(r.order[len(kept):])
	r.order = kept
	return out
}

func (r *registry) len() int {
	return len(r.live())
}
