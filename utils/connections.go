package utils

import (
	"fmt"
	"time"

	"mutations/api/models"

	"github.com/cenkalti/backoff"
	"github.com/elastic/go-elasticsearch/v7"
)

func CreateEsConnection(cfg *models.Config) (*elasticsearch.Client, error) {
	var (
		clusterURLs  = []string{cfg.Elasticsearch.Url}
		retryBackoff = backoff.NewExponentialBackOff()
	)

	esCfg := elasticsearch.Config{
		Addresses: clusterURLs,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,

		RetryOnStatus: []int{502, 503, 504, 429},

		// Configure the backoff function
		//
		RetryBackoff: func(i int) time.Duration {
			if i == 1 {
				retryBackoff.Reset()
			}
			return retryBackoff.NextBackOff()
		},

		// Retry up to 5 attempts
		//
		MaxRetries: 5,
	}

	es7Client, err := elasticsearch.NewClient(esCfg)
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}

	fmt.Printf("Using ES7 Client Version %s\n", elasticsearch.Version)

	return es7Client, nil
}
