package browser

import (
	"context"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquirePageHonorsDeadlineOnSaturatedPool(t *testing.T) {
	t.Parallel()

	m := &Manager{pagePool: rod.NewPagePool(1)}
	<-m.pagePool // occupy the only slot so acquisition must queue

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	page, err := m.acquirePage(ctx)

	require.Nil(t, page)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second, "must not wait for a free slot past the deadline")
}

func TestAcquirePageHonorsCancellation(t *testing.T) {
	t.Parallel()

	m := &Manager{pagePool: rod.NewPagePool(1)}
	<-m.pagePool

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	page, err := m.acquirePage(ctx)

	require.Nil(t, page)
	assert.ErrorIs(t, err, context.Canceled)
}
