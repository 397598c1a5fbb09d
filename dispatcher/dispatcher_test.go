package dispatcher

import (
	"sync"
	"testing"
)

func TestFIFOOrderWithinOneSubmitter(t *testing.T) {
	d := New(nil)
	defer d.Shutdown()
	d.OnReady()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(5)
	for i := 0; i < 5; i++ {
		i := i
		d.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want ascending 0..4", order)
		}
	}
}

func TestPreInitBufferDrainsInOrderOnReady(t *testing.T) {
	d := New(nil)
	defer d.Shutdown()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		i := i
		d.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
	}

	d.OnReady()
	wg.Wait()

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want ascending 0..2", order)
		}
	}
}

func TestPreInitOverflowDropsOldest(t *testing.T) {
	d := New(nil)
	defer d.Shutdown()

	for i := 0; i < preInitCapacity+10; i++ {
		d.Submit(func() {})
	}

	if got := d.PreInitOverflowCount(); got != 10 {
		t.Fatalf("PreInitOverflowCount() = %d, want 10", got)
	}
}

func TestFenceWaitsForPriorTasks(t *testing.T) {
	d := New(nil)
	defer d.Shutdown()
	d.OnReady()

	var done bool
	d.Submit(func() { done = true })
	d.Fence()

	if !done {
		t.Fatal("Fence() must not return before prior tasks complete")
	}
}

func TestShutdownDrainsRemainingTasks(t *testing.T) {
	d := New(nil)
	d.OnReady()

	var ran bool
	d.Submit(func() { ran = true })
	d.Shutdown()

	if !ran {
		t.Fatal("Shutdown() must run tasks still queued at the time it's called")
	}
}
