package session

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshQueue_DrainsInEnqueueOrder(t *testing.T) {
	var q RefreshQueue
	var order []int
	var tokens []string

	for i := 0; i < 5; i++ {
		i := i
		q.Push(func(token string, err error) {
			order = append(order, i)
			tokens = append(tokens, token)
		})
	}
	assert.Equal(t, 5, q.Len())

	q.Drain("T2", nil)

	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
	assert.Equal(t, []string{"T2", "T2", "T2", "T2", "T2"}, tokens)
	assert.Equal(t, 0, q.Len())
}

func TestRefreshQueue_DrainWithErrorAndOnlyOnce(t *testing.T) {
	var q RefreshQueue
	boom := errors.New("refresh rejected")
	var got []error

	q.Push(func(_ string, err error) { got = append(got, err) })
	q.Push(func(_ string, err error) { got = append(got, err) })

	q.Drain("", boom)
	q.Drain("", nil)

	assert.Equal(t, []error{boom, boom}, got)
}

func TestRefreshQueue_PushDuringDrainWaitsForNextCycle(t *testing.T) {
	var q RefreshQueue
	var calls []string

	q.Push(func(token string, _ error) {
		calls = append(calls, "first:"+token)
		q.Push(func(token string, _ error) { calls = append(calls, "late:"+token) })
	})

	q.Drain("T2", nil)
	assert.Equal(t, []string{"first:T2"}, calls)
	assert.Equal(t, 1, q.Len())

	q.Drain("T3", nil)
	assert.Equal(t, []string{"first:T2", "late:T3"}, calls)
}

func TestRefreshQueue_Detach(t *testing.T) {
	var q RefreshQueue
	var got []string

	q.Push(func(token string, _ error) { got = append(got, "first "+token) })
	q.Push(func(token string, _ error) { got = append(got, "second "+token) })

	detached := q.Detach()
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 2, detached.Len())

	q.Push(func(token string, _ error) { got = append(got, "later "+token) })
	detached.Drain("T2", nil)
	assert.Equal(t, []string{"first T2", "second T2"}, got)

	q.Drain("T3", nil)
	assert.Equal(t, []string{"first T2", "second T2", "later T3"}, got)
}
