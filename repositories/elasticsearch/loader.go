package elasticsearch

import (
	"context"

	"mutations/api/models"
	"mutations/api/models/indexes"

	"github.com/elastic/go-elasticsearch/v7"
)

// MutationsLoader loads a study's mutations from the mutations index
type MutationsLoader struct {
	Config *models.Config
	Client *elasticsearch.Client
}

func (l *MutationsLoader) LoadMutations(ctx context.Context, studyId string, sampleIds []string) ([]indexes.Mutation, error) {
	return GetMutations(ctx, l.Config, l.Client, studyId, sampleIds, "", l.Config.Elasticsearch.MaxRecords)
}
