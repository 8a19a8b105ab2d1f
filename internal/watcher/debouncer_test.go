package watcher

import (
	"testing"
	"time"
)

const testInterval = 50 * time.Millisecond

func expectTrigger(t *testing.T, d *Debouncer, timeout time.Duration) {
	t.Helper()
	select {
	case <-d.Trigger():
	case <-time.After(timeout):
		t.Fatal("timed out waiting for trigger")
	}
}

func expectQuiet(t *testing.T, d *Debouncer, window time.Duration) {
	t.Helper()
	select {
	case <-d.Trigger():
		t.Fatal("unexpected trigger")
	case <-time.After(window):
	}
}

func Test_Debouncer_SinglePoke(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Poke()

	expectTrigger(t, d, 500*time.Millisecond)
}

func Test_Debouncer_BurstCollapsesToOneTrigger(t *testing.T) {
	d := NewDebouncer(testInterval)

	// A burst of pokes within the window must produce exactly one trigger
	for i := 0; i < 5; i++ {
		d.Poke()
		time.Sleep(5 * time.Millisecond)
	}

	expectTrigger(t, d, 500*time.Millisecond)
	expectQuiet(t, d, 3*testInterval)
}

func Test_Debouncer_PokeResetsWindow(t *testing.T) {
	d := NewDebouncer(100 * time.Millisecond)

	d.Poke()
	time.Sleep(60 * time.Millisecond)
	d.Poke()

	// 60ms after the second poke the original window has long expired, but
	// the reset one has not
	expectQuiet(t, d, 60*time.Millisecond)
	expectTrigger(t, d, 500*time.Millisecond)
}

func Test_Debouncer_NoPokeNoTrigger(t *testing.T) {
	d := NewDebouncer(testInterval)

	expectQuiet(t, d, 3*testInterval)
}

func Test_Debouncer_StopCancelsPending(t *testing.T) {
	d := NewDebouncer(testInterval)

	d.Poke()
	d.Stop()

	expectQuiet(t, d, 3*testInterval)
}
