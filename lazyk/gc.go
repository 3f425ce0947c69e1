package lazyk

import "github.com/golang/glog"

// collect sweeps every node unreachable from the current stream root
// and resets the allocation cursor. The reduction-and-advance pattern
// consumes the output one cell at a time, so the probe graphs built for
// already-emitted bytes become garbage after each advance.
func (r *Runner) collect() {
	h := r.heap
	marked := make([]bool, len(h.nodes))
	queue := []addr{r.start}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		if marked[a] {
			continue
		}
		marked[a] = true
		switch n := h.get(a); n.kind {
		case kindApply:
			queue = append(queue, n.lhs, n.rhs)
		case kindLink:
			queue = append(queue, n.lhs)
		}
	}
	freed := 0
	for i := programAreaEnd; int(i) < len(h.nodes); i++ {
		if !marked[i] && h.nodes[i].kind != kindFree {
			h.nodes[i] = node{kind: kindFree}
			freed++
		}
	}
	h.fresh = programAreaEnd
	glog.V(1).Infof("collected %d of %d nodes", freed, len(h.nodes))
}

// stats counts live and free slots, for the debug console.
func (h *heap) stats() (live int, free int) {
	for i := range h.nodes {
		if h.nodes[i].kind == kindFree {
			free++
		} else {
			live++
		}
	}
	return live, free
}
