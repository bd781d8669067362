package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/specialistvlad/mashgo/internal/ctxlog"
)

// Result is the completion report of one job.
type Result struct {
	ID      int
	Name    string
	Err     error
	Elapsed time.Duration
}

// Group tracks outstanding jobs.
type Group struct {
	ctx  context.Context
	done chan Result

	mu          sync.Mutex
	nextID      int
	outstanding int
}

// NewGroup creates a group whose jobs inherit the values of ctx but not its
// cancellation, so a job outlives the command that started it.
func NewGroup(ctx context.Context) *Group {
	return &Group{
		ctx:  context.WithoutCancel(ctx),
		done: make(chan Result, 64),
	}
}

// Go starts fn in a new goroutine and returns its job id. A panic inside fn
// is reported as the job's error.
func (g *Group) Go(name string, fn func(ctx context.Context) error) int {
	g.mu.Lock()
	g.nextID++
	id := g.nextID
	g.outstanding++
	g.mu.Unlock()

	ctx := ctxlog.With(g.ctx, "job", id)
	ctxlog.FromContext(ctx).Debug("Job started.", "name", name)

	go func() {
		start := time.Now()
		res := Result{ID: id, Name: name}
		defer func() {
			if r := recover(); r != nil {
				res.Err = fmt.Errorf("job %d panicked: %v", id, r)
			}
			res.Elapsed = time.Since(start)
			g.done <- res
		}()
		res.Err = fn(ctx)
	}()
	return id
}

// Outstanding returns the number of started jobs that have not been drained.
func (g *Group) Outstanding() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.outstanding
}

// Drain waits for every outstanding job and calls report once per job, in
// completion order. It returns how many jobs were drained.
func (g *Group) Drain(report func(Result)) int {
	drained := 0
	for g.Outstanding() > 0 {
		res := <-g.done
		g.mu.Lock()
		g.outstanding--
		g.mu.Unlock()

		ctxlog.FromContext(g.ctx).Debug("Job finished.", "job", res.ID, "name", res.Name, "elapsed", res.Elapsed, "error", res.Err)
		if report != nil {
			report(res)
		}
		drained++
	}
	return drained
}
