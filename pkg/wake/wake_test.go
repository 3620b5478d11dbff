package wake

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRequestFiresOnce(t *testing.T) {
	var calls int32
	trig := New("AA:BB:CC:DD:EE:FF", func(id string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})

	var wg sync.WaitGroup
	for _, name := range []string{"Notch", "Jeb_", "Dinnerbone"} {
		wg.Add(1)
		go func(n string) {
			defer wg.Done()
			trig.Request(n)
		}(name)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.True(t, trig.Waking())
}

func TestRequestAfterCooldownFiresAgain(t *testing.T) {
	var calls int32
	trig := New("AA:BB:CC:DD:EE:FF", func(id string) error {
		atomic.AddInt32(&calls, 1)
		return nil
	})
	trig.sometimes.Interval = 10 * time.Millisecond

	trig.Request("Notch")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	time.Sleep(20 * time.Millisecond)
	trig.Request("Jeb_")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestWakeErrorDoesNotPanic(t *testing.T) {
	trig := New("AA:BB:CC:DD:EE:FF", func(id string) error {
		return assert.AnError
	})
	assert.NotPanics(t, func() { trig.Request("Notch") })
	assert.True(t, trig.Waking())
}
