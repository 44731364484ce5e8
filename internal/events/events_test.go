package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOnDispatchOff(t *testing.T) {
	var e Emitter
	var calls []string
	offA := e.On(Input, func() { calls = append(calls, "a") })
	e.On(Input, func() { calls = append(calls, "b") })

	e.Dispatch(Input)
	offA()
	offA()
	e.Dispatch(Input)
	e.Dispatch(Resize)

	assert.Equal(t, []string{"a", "b", "b"}, calls)
	assert.Equal(t, 1, e.Count(Input))
}

func TestRemoveDuringDispatch(t *testing.T) {
	var e Emitter
	n := 0
	var off func()
	off = e.On(Load, func() { n++; off() })
	e.Dispatch(Load)
	e.Dispatch(Load)
	assert.Equal(t, 1, n)
}
