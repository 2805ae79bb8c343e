package discovery

import "context"

// breadthFirst expands the graph one layer at a time. Nodes created while
// expanding layer n belong to layer n+1 and are expanded only after the
// whole of layer n.
func (t *traversal) breadthFirst(ctx context.Context, depthLimit int) error {
	frontier := []int{0}

	for layer := 0; layer < depthLimit && len(frontier) > 0 && !t.full(); layer++ {
		t.log.Debugf("Expanding layer %d (%d nodes)", layer, len(frontier))

		var next []int
		for _, current := range frontier {
			if err := ctx.Err(); err != nil {
				return err
			}

			created, err := t.expand(ctx, current, layer+1)
			if err != nil {
				return err
			}
			next = append(next, created...)
			if t.full() {
				return nil
			}
		}
		frontier = next
	}
	return nil
}

// expand probes every step of one node and returns the nodes it created.
func (t *traversal) expand(ctx context.Context, current, layer int) ([]int, error) {
	var created []int
	for _, st := range t.steps(t.nodes[current].Type) {
		ids, err := t.probe(ctx, current, st)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			index, err := t.visit(ctx, current, st, id, layer)
			if err != nil {
				return nil, err
			}
			if index >= 0 {
				created = append(created, index)
			}
			if t.full() {
				return created, nil
			}
		}
	}
	return created, nil
}
