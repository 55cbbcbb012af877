package overview

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// BucketsFetcher returns document counts per value of a keyword field
type BucketsFetcher func(ctx context.Context, keyword string) (map[string]int, error)

// distributions reported by the overview, by result key
var Keywords = map[string]string{
	"chromosomes":    "chromosome.keyword",
	"genes":          "gene.hugoGeneSymbol.keyword",
	"sampleIDs":      "sampleId.keyword",
	"studyIDs":       "studyId.keyword",
	"mutationTypes":  "mutationType.keyword",
	"mutationStatus": "mutationStatus.keyword",
}

// GetMutationsOverview fetches every distribution concurrently; the
// first failure cancels the rest.
func GetMutationsOverview(ctx context.Context, fetch BucketsFetcher) (map[string]map[string]int, error) {
	resultsMap := map[string]map[string]int{}
	resultsMux := sync.Mutex{}

	g, gctx := errgroup.WithContext(ctx)
	for key, keyword := range Keywords {
		key, keyword := key, keyword
		g.Go(func() error {
			counts, err := fetch(gctx, keyword)
			if err != nil {
				return err
			}

			resultsMux.Lock()
			resultsMap[key] = counts
			resultsMux.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resultsMap, nil
}
