// Package notify runs best-effort side effects. A task's failure is logged
// and never reaches the code that started it.
package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 5 * time.Second

type Group struct {
	log     logrus.FieldLogger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewGroup(log logrus.FieldLogger, timeout time.Duration) *Group {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Group{log: log, timeout: timeout}
}

// Go runs fn in its own goroutine. fn gets a context that keeps the values
// of ctx, ignores its cancellation and expires after the group timeout.
func (g *Group) Go(ctx context.Context, name string, fn func(ctx context.Context) error) {
	detached := context.WithoutCancel(ctx)

	g.wg.Add(1)
	go func() {
		defer g.wg.Done()

		taskCtx, cancel := context.WithTimeout(detached, g.timeout)
		defer cancel()

		if err := g.run(taskCtx, fn); err != nil {
			g.log.WithError(err).WithField("task", name).Warn("best-effort task failed")
		}
	}()
}

// Wait blocks until every started task has returned.
func (g *Group) Wait() {
	g.wg.Wait()
}

func (g *Group) run(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}
