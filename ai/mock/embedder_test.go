package mock

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	first, err := embedder.EmbedText(ctx, "cotton shirt")
	require.NoError(t, err)
	second, err := embedder.EmbedText(ctx, "cotton shirt")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 384)

	other, err := embedder.EmbedText(ctx, "wool sweater")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestMockEmbedder_UnitNorm(t *testing.T) {
	embedder := NewMockEmbedder()

	vector, err := embedder.EmbedText(context.Background(), "denim jacket")
	require.NoError(t, err)

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sumSquares), 1e-3)
}

func TestMockEmbedder_ConcurrentCalls(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	const workers = 16
	const callsPerWorker = 8

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerWorker; j++ {
				_, err := embedder.EmbedText(ctx, "summer dress")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, workers*callsPerWorker, embedder.CallCount())
}

func TestMockEmbedder_Reset(t *testing.T) {
	embedder := NewMockEmbedder()
	ctx := context.Background()

	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	_, err := embedder.EmbedText(ctx, "anything")
	require.NoError(t, err)
	require.Equal(t, 1, embedder.CallCount())

	embedder.Reset()
	assert.Equal(t, 0, embedder.CallCount())
	assert.Nil(t, embedder.EmbedTextFunc)
}
