package elasticsearch

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"mutations/api/models"
	"mutations/api/models/indexes"
	"mutations/api/utils"

	"github.com/Jeffail/gabs"
	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"github.com/mitchellh/mapstructure"
)

const mutationsIndex = indexes.MutationsIndex

func GetMutations(ctx context.Context, cfg *models.Config, es *elasticsearch.Client,
	studyId string, sampleIds []string, chromosome string, size int) ([]indexes.Mutation, error) {

	if size <= 0 || size > cfg.Elasticsearch.MaxRecords {
		size = cfg.Elasticsearch.MaxRecords
	}

	// overall query structure
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{{
					"bool": map[string]interface{}{
						"must": buildMustMap(studyId, sampleIds, chromosome),
					}},
				},
			},
		},
		"size": size,
		"sort": []map[string]interface{}{
			{"chromosome.keyword": map[string]string{"order": "asc"}},
			{"startPosition": map[string]string{"order": "asc"}},
		},
	}

	buf, err := encode(cfg, query)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Query Start: %s\n", time.Now())

	if cfg.Debug {
		http.DefaultTransport.(*http.Transport).TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	// Perform the search request.
	res, searchErr := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(mutationsIndex),
		es.Search.WithBody(buf),
		es.Search.WithTrackTotalHits(true),
	)

	result, err := readResult(cfg, res, searchErr, "get mutations")
	if err != nil {
		return nil, err
	}

	fmt.Printf("Query End: %s\n", time.Now())

	mutations, err := DecodeMutationHits(result)
	if err != nil {
		return nil, err
	}

	reportTruncation(studyId, TotalHits(result), len(mutations))

	return mutations, nil
}

// reportTruncation logs when the size cap left matching records behind
func reportTruncation(studyId string, total int, returned int) bool {
	if total <= returned {
		return false
	}
	fmt.Printf("[%s] - Study %s : returning %d of %d matching mutations (MUTATIONS_ES_MAX_RECORDS reached)\n",
		time.Now(), studyId, returned, total)
	return true
}

func CountMutations(ctx context.Context, cfg *models.Config, es *elasticsearch.Client,
	studyId string, sampleIds []string, chromosome string) (int, error) {

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{{
					"bool": map[string]interface{}{
						"must": buildMustMap(studyId, sampleIds, chromosome),
					}},
				},
			},
		},
	}

	buf, err := encode(cfg, query)
	if err != nil {
		return 0, err
	}

	res, countErr := es.Count(
		es.Count.WithContext(ctx),
		es.Count.WithIndex(mutationsIndex),
		es.Count.WithBody(buf),
	)

	result, err := readResult(cfg, res, countErr, "count mutations")
	if err != nil {
		return 0, err
	}

	parsed, err := gabs.Consume(result)
	if err != nil {
		return 0, err
	}

	count, ok := parsed.Path("count").Data().(float64)
	if !ok {
		return 0, fmt.Errorf("failed to count mutations: no count in response")
	}
	return int(count), nil
}

// GetMutationsBucketsByKeyword aggregates document counts per value of
// a keyword field, optionally within one study
func GetMutationsBucketsByKeyword(ctx context.Context, cfg *models.Config, es *elasticsearch.Client,
	keyword string, studyId string) (map[string]interface{}, error) {

	aggMap := map[string]interface{}{
		"size": "0",
		"aggs": map[string]interface{}{
			"items": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": keyword,
					"size":  "10000", // increases the number of buckets returned (default is 10)
					"order": map[string]string{
						"_key": "asc",
					},
				},
			},
			"latest_created": map[string]interface{}{
				"max": map[string]interface{}{
					"field": "createdTime",
				},
			},
		},
	}

	if studyId != "" {
		aggMap["query"] = map[string]interface{}{
			"match": map[string]interface{}{
				"studyId.keyword": studyId,
			},
		}
	}

	buf, err := encode(cfg, aggMap)
	if err != nil {
		return nil, err
	}

	res, searchErr := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(mutationsIndex),
		es.Search.WithBody(buf),
		es.Search.WithTrackTotalHits(true),
	)

	return readResult(cfg, res, searchErr, "get buckets by keyword")
}

func DeleteMutationsByStudyId(ctx context.Context, cfg *models.Config, es *elasticsearch.Client, studyId string) (map[string]interface{}, error) {
	query := map[string]interface{}{
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"studyId.keyword": studyId,
			},
		},
	}

	buf, err := encode(cfg, query)
	if err != nil {
		return nil, err
	}

	// Perform the delete request.
	deleteRes, deleteErr := es.DeleteByQuery(
		[]string{mutationsIndex},
		buf,
		es.DeleteByQuery.WithContext(ctx),
	)

	return readResult(cfg, deleteRes, deleteErr, "delete mutations")
}

// EnsureMutationsIndex creates the mutations index with its mapping
// unless it already exists
func EnsureMutationsIndex(ctx context.Context, cfg *models.Config, es *elasticsearch.Client) error {
	existsRes, err := es.Indices.Exists([]string{mutationsIndex}, es.Indices.Exists.WithContext(ctx))
	if err != nil {
		return err
	}
	existsRes.Body.Close()

	if existsRes.StatusCode == http.StatusOK {
		return nil
	}

	buf, err := encode(cfg, map[string]interface{}{"mappings": indexes.MUTATION_INDEX_MAPPING})
	if err != nil {
		return err
	}

	createRes, err := es.Indices.Create(
		mutationsIndex,
		es.Indices.Create.WithBody(buf),
		es.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return err
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		return fmt.Errorf("failed to create index '%s': %s", mutationsIndex, createRes.String())
	}

	fmt.Printf("Created index '%s'\n", mutationsIndex)
	return nil
}

/*
	Decodes the `hits.hits[]._source` documents of a search response.

	Numbers arrive as float64 and timestamps as strings, hence the
	weakly typed decoding with a time hook.
*/
func DecodeMutationHits(result map[string]interface{}) ([]indexes.Mutation, error) {
	mutations := []indexes.Mutation{}

	parsed, err := gabs.Consume(result)
	if err != nil {
		return nil, err
	}

	hits := parsed.Path("hits.hits")
	if hits.Data() == nil {
		return mutations, nil
	}

	children, err := hits.Children()
	if err != nil {
		return nil, fmt.Errorf("unexpected hits in response: %w", err)
	}

	for _, hit := range children {
		var m indexes.Mutation
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339),
			Result:           &m,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(hit.Path("_source").Data()); err != nil {
			return nil, fmt.Errorf("decoding mutation: %w", err)
		}
		mutations = append(mutations, m)
	}

	return mutations, nil
}

// BucketCounts flattens the `items` terms aggregation into key -> doc count
// TotalHits reads hits.total, in either its object or legacy numeric form;
// -1 when absent.
func TotalHits(result map[string]interface{}) int {
	parsed, err := gabs.Consume(result)
	if err != nil {
		return -1
	}

	total := parsed.Path("hits.total")
	if value, ok := total.Path("value").Data().(float64); ok {
		return int(value)
	}
	if value, ok := total.Data().(float64); ok {
		return int(value)
	}
	return -1
}

func BucketCounts(result map[string]interface{}) (map[string]int, error) {
	counts := map[string]int{}

	parsed, err := gabs.Consume(result)
	if err != nil {
		return nil, err
	}

	buckets := parsed.Path("aggregations.items.buckets")
	if buckets.Data() == nil {
		return counts, nil
	}

	children, err := buckets.Children()
	if err != nil {
		return nil, fmt.Errorf("unexpected buckets in response: %w", err)
	}

	for _, bucket := range children {
		key := fmt.Sprint(bucket.Path("key").Data())
		docCount, _ := bucket.Path("doc_count").Data().(float64)
		counts[key] = int(docCount)
	}
	return counts, nil
}

// -- internal use only --

func buildMustMap(studyId string, sampleIds []string, chromosome string) []map[string]interface{} {
	mustMap := []map[string]interface{}{}

	if studyId != "" {
		mustMap = append(mustMap, map[string]interface{}{
			"term": map[string]interface{}{
				"studyId.keyword": studyId,
			},
		})
	}

	if len(sampleIds) > 0 {
		mustMap = append(mustMap, map[string]interface{}{
			"terms": map[string]interface{}{
				"sampleId.keyword": sampleIds,
			},
		})
	}

	if chromosome != "" {
		mustMap = append(mustMap, map[string]interface{}{
			"term": map[string]interface{}{
				"chromosome.keyword": chromosome,
			},
		})
	}

	return mustMap
}

func encode(cfg *models.Config, query map[string]interface{}) (*bytes.Buffer, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		fmt.Printf("Error encoding query: %s\n", err)
		return nil, err
	}

	if cfg.Debug {
		// view the outbound elasticsearch query
		fmt.Println(buf.String())
	}
	return &buf, nil
}

func readResult(cfg *models.Config, res *esapi.Response, requestErr error, action string) (map[string]interface{}, error) {
	if requestErr != nil {
		fmt.Printf("Error getting response: %s\n", requestErr)
		return nil, requestErr
	}
	defer res.Body.Close()

	resultString := res.String()
	if cfg.Debug {
		fmt.Println(resultString)
	}

	// Known bug: response comes back with a preceding '[200 OK] ' which needs trimming
	bracketString, jsonBodyString := utils.GetLeadingStringInBetweenSquareBrackets(resultString)
	if !strings.Contains(bracketString, "200") {
		return nil, fmt.Errorf("failed to %s: got '%s'", action, bracketString)
	}

	result := make(map[string]interface{})
	if umErr := json.Unmarshal([]byte(jsonBodyString), &result); umErr != nil {
		fmt.Printf("Error unmarshalling response: %s\n", umErr)
		return nil, umErr
	}

	return result, nil
}
