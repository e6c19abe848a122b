package poll_test

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hikaya/spotwatch/internal/adapters/poll"
	"github.com/hikaya/spotwatch/internal/domain/tracker"
	"github.com/hikaya/spotwatch/internal/domain/types"
	"github.com/hikaya/spotwatch/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

// stubRunner counts invocations and signals the first one.
type stubRunner struct {
	calls  atomic.Int32
	first  chan struct{}
	totals types.Totals
	err    error
}

func newStubRunner(totals types.Totals, err error) *stubRunner {
	return &stubRunner{first: make(chan struct{}), totals: totals, err: err}
}

func (r *stubRunner) Track(_ context.Context) (types.Totals, error) {
	if r.calls.Add(1) == 1 {
		close(r.first)
	}
	return r.totals, r.err
}

func waitFirst(r *stubRunner) bool {
	select {
	case <-r.first:
		return true
	case <-time.After(5 * time.Second):
		return false
	}
}

func TestPollerLifecycle(t *testing.T) {
	Convey("Given a poller around a healthy runner", t, func() {
		ctx := context.Background()
		runner := newStubRunner(types.Totals{Top50: 100, Top8: 20}, nil)

		var got atomic.Value
		p := poll.New(runner,
			poll.WithInterval(time.Hour), // only the immediate run should fire
			poll.WithTotalsCallback(func(t types.Totals) { got.Store(t) }),
		)

		Convey("When the poller starts", func() {
			So(p.Start(ctx), ShouldBeNil)
			defer func() { So(p.Stop(), ShouldBeNil) }()

			Convey("Then the first cycle runs immediately", func() {
				So(waitFirst(runner), ShouldBeTrue)
			})

			Convey("Then the totals callback receives the cycle result", func() {
				So(waitFirst(runner), ShouldBeTrue)
				// The callback runs right after Track returns; give it a beat.
				deadline := time.Now().Add(2 * time.Second)
				for got.Load() == nil && time.Now().Before(deadline) {
					time.Sleep(10 * time.Millisecond)
				}
				So(got.Load(), ShouldResemble, types.Totals{Top50: 100, Top8: 20})
			})

			Convey("Then starting twice is a no-op", func() {
				So(p.Start(ctx), ShouldBeNil)
			})
		})

		Convey("When the poller is stopped before starting", func() {
			Convey("Then Stop is a harmless no-op", func() {
				So(p.Stop(), ShouldBeNil)
			})
		})
	})
}

func TestPollerSkipsFailedCycles(t *testing.T) {
	Convey("Given a runner whose feed is unavailable", t, func() {
		ctx := context.Background()
		runner := newStubRunner(types.Totals{}, fmt.Errorf("%w: auth refused", tracker.ErrActivityUnavailable))

		called := make(chan struct{}, 1)
		p := poll.New(runner,
			poll.WithInterval(time.Hour),
			poll.WithTotalsCallback(func(types.Totals) { called <- struct{}{} }),
		)

		Convey("When a cycle runs", func() {
			So(p.Start(ctx), ShouldBeNil)
			defer func() { So(p.Stop(), ShouldBeNil) }()
			So(waitFirst(runner), ShouldBeTrue)

			Convey("Then the totals callback is never invoked", func() {
				select {
				case <-called:
					So("callback fired", ShouldBeEmpty)
				case <-time.After(200 * time.Millisecond):
					// expected: failed cycles publish nothing
				}
			})
		})
	})
}
