package viewdata

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDependentLoader_DeliversLatest(t *testing.T) {
	loader := NewDependentLoader(func(ctx context.Context, key int64) ([]string, error) {
		return []string{"sections-for-block"}, nil
	})

	value, ok, err := loader.Load(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"sections-for-block"}, value)
}

func TestDependentLoader_DiscardsSupersededResponse(t *testing.T) {
	started := make(chan int64, 2)
	release := make(chan struct{})

	loader := NewDependentLoader(func(ctx context.Context, key int64) (int64, error) {
		started <- key
		if key == 1 {
			// The first selection's response arrives late
			<-release
		}
		return key * 10, nil
	})

	type result struct {
		value int64
		ok    bool
	}
	firstDone := make(chan result, 1)

	go func() {
		v, ok, _ := loader.Load(context.Background(), 1)
		firstDone <- result{v, ok}
	}()
	<-started

	// The user picks a different block before the first fetch returns
	v, ok, err := loader.Load(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(20), v)

	close(release)
	first := <-firstDone
	assert.False(t, first.ok, "superseded fetch must not publish")
	assert.Zero(t, first.value)
}

func TestDependentLoader_CancelledLoadNeverPublishes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	loader := NewDependentLoader(func(ctx context.Context, key int64) (int64, error) {
		cancel()
		return key, nil
	})

	_, ok, err := loader.Load(ctx, 7)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDependentLoader_PropagatesFetchError(t *testing.T) {
	loader := NewDependentLoader(func(ctx context.Context, key string) (int, error) {
		return 0, assert.AnError
	})

	_, ok, err := loader.Load(context.Background(), "x")
	assert.False(t, ok)
	assert.ErrorIs(t, err, assert.AnError)
}
