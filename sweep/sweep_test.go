package sweep

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
)

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeExpired() int {
	p.calls.Add(1)
	return 1
}

func TestJanitorSweepsOnTick(t *testing.T) {
	mock := clock.NewMock()
	p := &countingPurger{}

	j := Start(p, time.Minute, mock)
	defer j.Stop()

	// the ticker goroutine needs to be waiting before time moves
	time.Sleep(10 * time.Millisecond)
	mock.Add(time.Minute)
	assert.Eventually(t, func() bool { return p.calls.Load() >= 1 }, time.Second, 5*time.Millisecond)

	mock.Add(2 * time.Minute)
	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestJanitorStop(t *testing.T) {
	mock := clock.NewMock()
	p := &countingPurger{}

	j := Start(p, time.Second, mock)
	j.Stop()
	j.Stop()

	mock.Add(10 * time.Second)
	assert.Equal(t, int32(0), p.calls.Load())
}
