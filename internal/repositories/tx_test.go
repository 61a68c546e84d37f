package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit_WithoutTransactionRunsNow(t *testing.T) {
	ctx := context.Background()
	ran := 0

	AfterCommit(ctx, func(context.Context) { ran++ })

	assert.False(t, InTx(ctx))
	assert.Equal(t, 1, ran)
}

func TestAfterCommit_DeferredUntilCommit(t *testing.T) {
	state := &txState{}
	ctx := context.WithValue(context.Background(), txKey{}, state)

	var order []string
	AfterCommit(ctx, func(context.Context) { order = append(order, "invalidate user") })
	AfterCommit(ctx, func(context.Context) { order = append(order, "invalidate settings") })

	assert.True(t, InTx(ctx))
	assert.Empty(t, order)

	state.commit(context.Background())
	assert.Equal(t, []string{"invalidate user", "invalidate settings"}, order)

	state.commit(context.Background())
	assert.Len(t, order, 2)
}

func TestAfterCommit_RolledBackStateNeverRuns(t *testing.T) {
	state := &txState{}
	ctx := context.WithValue(context.Background(), txKey{}, state)
	ran := false

	AfterCommit(ctx, func(context.Context) { ran = true })

	// WithTx only calls commit when the transaction function succeeds.
	assert.False(t, ran)
	assert.Len(t, state.afterCommit, 1)
}
