package crawl

import "context"

type frame struct {
	url   string
	depth int
}

// dfsSequential expands one child subtree completely before the next
// sibling. It walks an explicit stack instead of recursing, pushing
// children in reverse so they pop in document order.
func (r *run) dfsSequential(ctx context.Context) {
	stack := []frame{{url: r.c.baseURL}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !r.claim(f.url, f.depth) {
			continue
		}
		html, ok := r.fetch(ctx, f.url, f.depth)
		if !ok {
			continue
		}
		children := r.process(f.url, f.depth, html)
		if f.depth >= r.c.cfg.MaxDepth {
			continue
		}
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, frame{url: children[i], depth: f.depth + 1})
		}
	}
}

// bfsSequential expands every depth-d URL before any depth-(d+1) URL
// using a FIFO queue seeded with the base URL.
func (r *run) bfsSequential(ctx context.Context) {
	queue := []frame{{url: r.c.baseURL}}
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]

		if !r.claim(f.url, f.depth) {
			continue
		}
		html, ok := r.fetch(ctx, f.url, f.depth)
		if !ok {
			continue
		}
		children := r.process(f.url, f.depth, html)
		if f.depth >= r.c.cfg.MaxDepth {
			continue
		}
		for _, child := range children {
			queue = append(queue, frame{url: child, depth: f.depth + 1})
		}
	}
}
