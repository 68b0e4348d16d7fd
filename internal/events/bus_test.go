package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type sessionEnded struct {
	reason string
}

func TestBus_PublishSubscribe(t *testing.T) {
	bus := NewBus[sessionEnded]()

	var got []string
	unsubscribe := bus.Subscribe(func(ev sessionEnded) {
		got = append(got, ev.reason)
	})

	bus.Publish(sessionEnded{reason: "expired"})
	unsubscribe()
	unsubscribe()
	bus.Publish(sessionEnded{reason: "ignored"})

	assert.Equal(t, []string{"expired"}, got)
}

func TestBus_NilAndZeroValue(t *testing.T) {
	var nilBus *Bus[int]
	assert.NotPanics(t, func() { nilBus.Publish(1) })

	var zero Bus[int]
	count := 0
	zero.Subscribe(func(int) { count++ })
	zero.Subscribe(func(int) { count++ })
	zero.Publish(7)
	assert.Equal(t, 2, count)
}

func TestBus_ConcurrentPublish(t *testing.T) {
	bus := NewBus[int]()
	var (
		mu  sync.Mutex
		sum int
	)
	bus.Subscribe(func(n int) {
		mu.Lock()
		sum += n
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			bus.Publish(n)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1275, sum)
}
