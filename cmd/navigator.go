package cmd

import (
	"context"
	"time"
)

// loginNavigator stands in for client-side routing. A redirect is recorded
// and the command reports it once its own output is done.
type loginNavigator struct {
	done chan string
}

func newLoginNavigator() *loginNavigator {
	return &loginNavigator{done: make(chan string, 1)}
}

func (n *loginNavigator) Navigate(path string) {
	select {
	case n.done <- path:
	default:
	}
}

// Wait blocks until a redirect happened or the timeout elapsed and returns
// the target path, empty when nothing fired.
func (n *loginNavigator) Wait(ctx context.Context, timeout time.Duration) string {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case path := <-n.done:
		return path
	case <-timer.C:
		return ""
	case <-ctx.Done():
		return ""
	}
}
