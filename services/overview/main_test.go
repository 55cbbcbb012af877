package overview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMutationsOverview(t *testing.T) {
	fetch := func(ctx context.Context, keyword string) (map[string]int, error) {
		return map[string]int{keyword: 1}, nil
	}

	results, err := GetMutationsOverview(context.Background(), fetch)
	require.NoError(t, err)
	assert.Len(t, results, len(Keywords))
	assert.Equal(t, map[string]int{"chromosome.keyword": 1}, results["chromosomes"])

	t.Run("should fail when any distribution fails", func(t *testing.T) {
		boom := errors.New("boom")
		failing := func(ctx context.Context, keyword string) (map[string]int, error) {
			if keyword == "sampleId.keyword" {
				return nil, boom
			}
			return map[string]int{}, nil
		}

		_, err := GetMutationsOverview(context.Background(), failing)
		assert.ErrorIs(t, err, boom)
	})
}
