package calc

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolRunsEveryJob(t *testing.T) {
	for _, workers := range []int{0, 1, 3, 16} {
		out := make([]int, 100)
		err := NewPool(workers).Run(context.Background(), len(out), func(i int) {
			out[i] = i * i
		})
		require.NoError(t, err)
		for i, v := range out {
			assert.Equal(t, i*i, v)
		}
	}
}

func TestPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	err := NewPool(2).Run(ctx, 50, func(int) { atomic.AddInt32(&calls, 1) })
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestNewPoolDefaultsToNumCPU(t *testing.T) {
	assert.Positive(t, NewPool(0).Workers())
	assert.Equal(t, 4, NewPool(4).Workers())
}
