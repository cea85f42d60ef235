package route

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebouncer_DeliversLastValue(t *testing.T) {
	got := make(chan string, 4)
	d := NewDebouncer(30*time.Millisecond, func(v string) { got <- v })

	d.Trigger("Ik")
	d.Trigger("Ike")
	d.Trigger("Ikeja")

	select {
	case v := <-got:
		assert.Equal(t, "Ikeja", v)
	case <-time.After(time.Second):
		t.Fatal("debounced value never delivered")
	}

	select {
	case v := <-got:
		t.Fatalf("unexpected extra delivery %q", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncer_SeparateWindows(t *testing.T) {
	got := make(chan int, 4)
	d := NewDebouncer(10*time.Millisecond, func(v int) { got <- v })

	d.Trigger(1)
	assert.Equal(t, 1, <-got)
	d.Trigger(2)
	assert.Equal(t, 2, <-got)
}

func TestDebouncer_Stop(t *testing.T) {
	got := make(chan int, 1)
	d := NewDebouncer(20*time.Millisecond, func(v int) { got <- v })

	d.Trigger(1)
	d.Stop()
	d.Trigger(2)

	select {
	case v := <-got:
		t.Fatalf("delivery after Stop: %d", v)
	case <-time.After(80 * time.Millisecond):
	}
}
