package async_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/utils/async"
)

func TestDispatcherWait(t *testing.T) {
	d := async.NewDispatcher()
	var count atomic.Int32

	for range 5 {
		d.Dispatch(context.Background(), func(ctx context.Context) error {
			count.Add(1)
			return nil
		})
	}
	d.Dispatch(context.Background(), func(ctx context.Context) error {
		count.Add(1)
		return errors.New("failed")
	})
	d.Dispatch(context.Background(), func(ctx context.Context) error {
		count.Add(1)
		panic("boom")
	})

	gt.NoError(t, d.Wait(context.Background())).Required()
	gt.Value(t, count.Load()).Equal(int32(7))
}

func TestDispatcherDetachedContext(t *testing.T) {
	d := async.NewDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var handlerErr atomic.Value
	d.Dispatch(ctx, func(ctx context.Context) error {
		handlerErr.Store(ctx.Err() == nil)
		return nil
	})

	gt.NoError(t, d.Wait(context.Background())).Required()
	gt.Value(t, handlerErr.Load()).Equal(true)
}

func TestDispatcherWaitTimeout(t *testing.T) {
	d := async.NewDispatcher()
	release := make(chan struct{})
	d.Dispatch(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	gt.Value(t, d.Wait(ctx)).NotNil()

	close(release)
	gt.NoError(t, d.Wait(context.Background()))
}
