// Package dispatcher implements the single-writer task queue described in
// spec.md §4.5: every recording call, experiment update, ping send and
// test-only read is submitted as a Task and runs on one logical worker
// goroutine, so the storage engine (package storage) never needs its own
// locking beyond what a single writer already gives it for free, and the
// host may call the public API from any thread without races.
//
// Grounded directly on prometheus-pushgateway's storage.DiskMetricStore.loop()
// (_examples/prometheus-pushgateway/storage/diskmetricstore.go): the same
// "select over a work channel and a drain channel" shape, generalized from
// "apply one WriteRequest" to "run one arbitrary closure". Pushgateway has
// no pre-init buffering (no notion of "not ready yet"); that piece is new,
// grounded on spec.md §4.5's bounded-capacity, oldest-drop overflow
// description.
package dispatcher

import (
	"sync"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

const (
	// preInitCapacity bounds the queue of tasks submitted before
	// OnReady is called (spec.md §4.5).
	preInitCapacity = 100
	// liveQueueCapacity is generous headroom for the drained/live
	// queue, mirroring DiskMetricStore's writeQueueCapacity = 1000.
	liveQueueCapacity = 1000
)

// Task is a unit of work run on the dispatcher's single worker goroutine.
type Task func()

// Dispatcher is the single-writer task queue. The zero value is not ready
// to use; construct with New.
type Dispatcher struct {
	logger log.Logger

	mu          sync.Mutex
	ready       bool
	preInit     []Task
	preInitDrop uint64 // PreInitTaskOverflow counter (spec.md §4.5)

	tasks chan Task
	drain chan struct{}
	done  chan struct{}
}

// New returns a Dispatcher with its worker goroutine already running; it
// buffers tasks until OnReady is called.
func New(logger log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	d := &Dispatcher{
		logger: logger,
		tasks:  make(chan Task, liveQueueCapacity),
		drain:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	go d.loop()
	return d
}

// Submit enqueues a task. Before OnReady has been called, tasks accumulate
// in a bounded pre-init buffer; once full, the oldest buffered task is
// dropped and PreInitOverflowCount is incremented (spec.md §4.5). After
// OnReady, tasks go straight to the live queue in submission order.
func (d *Dispatcher) Submit(t Task) {
	d.mu.Lock()
	if !d.ready {
		if len(d.preInit) >= preInitCapacity {
			d.preInit = d.preInit[1:]
			d.preInitDrop++
			level.Warn(d.logger).Log("msg", "pre-init task queue full, dropping oldest task")
		}
		d.preInit = append(d.preInit, t)
		d.mu.Unlock()
		return
	}
	d.mu.Unlock()
	d.tasks <- t
}

// OnReady drains the pre-init buffer into the live queue in submission
// order, then marks the dispatcher ready so further Submit calls go
// straight to the live queue (spec.md §4.5 "on_ready_to_send_pings").
func (d *Dispatcher) OnReady() {
	d.mu.Lock()
	buffered := d.preInit
	d.preInit = nil
	d.ready = true
	d.mu.Unlock()

	for _, t := range buffered {
		d.tasks <- t
	}
}

// PreInitOverflowCount returns how many pre-init tasks were dropped for
// overflow, for the internal PreInitTaskOverflow counter and tests.
func (d *Dispatcher) PreInitOverflowCount() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.preInitDrop
}

// Fence submits a no-op task and blocks until it — and therefore every
// task submitted before it — has completed. This is the synchronous,
// happens-before guarantee spec.md §4.5 and §9 call for in test mode,
// implemented without any async runtime.
func (d *Dispatcher) Fence() {
	done := make(chan struct{})
	d.Submit(func() { close(done) })
	<-done
}

// Shutdown stops accepting new work conceptually (callers must stop
// calling Submit themselves), drains whatever remains in the live queue,
// then stops the worker goroutine. It blocks until drained.
func (d *Dispatcher) Shutdown() {
	close(d.drain)
	<-d.done
}

func (d *Dispatcher) loop() {
	for {
		select {
		case t := <-d.tasks:
			t()
		case <-d.drain:
			for {
				select {
				case t := <-d.tasks:
					t()
				default:
					close(d.done)
					return
				}
			}
		}
	}
}

// QueueDepth reports the number of tasks currently waiting in the live
// queue, for the self-instrumentation gauge in package core.
func (d *Dispatcher) QueueDepth() int {
	return len(d.tasks)
}
