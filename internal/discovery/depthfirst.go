package discovery

import "context"

// frame is one pending expansion on the depth-first work-stack. It holds
// exactly what a recursive call would keep in its locals, so popping and
// resuming frames reproduces recursive call order without using the
// goroutine stack.
type frame struct {
	index   int
	depth   int
	steps   []step
	next    int      // next step to probe
	current step     // step the pending ids belong to
	pending []string // candidate ids not yet visited
}

func (t *traversal) newFrame(index, depth int) *frame {
	return &frame{
		index: index,
		depth: depth,
		steps: t.steps(t.nodes[index].Type),
	}
}

// depthFirst expands from the seed, fully expanding each newly created node
// before the next candidate of its referrer is visited.
func (t *traversal) depthFirst(ctx context.Context) error {
	stack := []*frame{t.newFrame(0, 0)}

	for len(stack) > 0 && !t.full() {
		if err := ctx.Err(); err != nil {
			return err
		}

		f := stack[len(stack)-1]

		if len(f.pending) == 0 {
			if f.next >= len(f.steps) {
				stack = stack[:len(stack)-1]
				continue
			}
			st := f.steps[f.next]
			f.next++

			ids, err := t.probe(ctx, f.index, st)
			if err != nil {
				return err
			}
			f.current = st
			f.pending = ids
			continue
		}

		id := f.pending[0]
		f.pending = f.pending[1:]

		index, err := t.visit(ctx, f.index, f.current, id, f.depth+1)
		if err != nil {
			return err
		}
		if index >= 0 {
			stack = append(stack, t.newFrame(index, f.depth+1))
		}
	}
	return nil
}
