package service

import (
	"context"
	"sync"
	"time"
)

var timeNow = time.Now

// group runs submissions in the background under one cancellable context.
type group struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newGroup() *group {
	ctx, cancel := context.WithCancel(context.Background())
	return &group{ctx: ctx, cancel: cancel}
}

func (g *group) Go(fn func(ctx context.Context)) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		fn(g.ctx)
	}()
}

// Wait blocks until every started submission has returned.
func (g *group) Wait() {
	g.wg.Wait()
}

// Close cancels in-flight submissions and waits for them.
func (g *group) Close() {
	g.cancel()
	g.wg.Wait()
}

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
