package mutations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"mutations/api/contexts"
	"mutations/api/models"
	s "mutations/api/models/constants/sort"
	"mutations/api/models/dtos"
	"mutations/api/models/indexes"
	"mutations/api/models/ingest"
	"mutations/api/services"
	"mutations/api/services/columns"
	"mutations/api/services/datasets"

	"github.com/google/uuid"
	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct{}

func mutation(sampleId string, chrom string, pos int, proteinChange string) indexes.Mutation {
	return indexes.Mutation{
		StudyId: "msk_impact", SampleId: sampleId, Chromosome: chrom, StartPosition: pos, EndPosition: pos,
		ReferenceAllele: "A", VariantAllele: "G", ProteinChange: proteinChange,
		MutationType:  "Missense_Mutation",
		TumorAltCount: 1, TumorRefCount: 1,
		NormalAltCount: indexes.NoCount, NormalRefCount: indexes.NoCount,
	}
}

func (fakeLoader) LoadMutations(ctx context.Context, studyId string, sampleIds []string) ([]indexes.Mutation, error) {
	if studyId == "broken" {
		return nil, errors.New("index unavailable")
	}
	return []indexes.Mutation{
		mutation("S1", "7", 140453136, "V600E"),
		mutation("S2", "7", 140453136, "V600E"),
		mutation("S1", "12", 25398284, "G12V"),
		mutation("S3", "17", 7577120, "R273H"),
	}, nil
}

func newContext(target string, studyId string) (*contexts.MutationsContext, *httptest.ResponseRecorder) {
	var cfg models.Config
	cfg.Api.DefaultPageSize = 2
	cfg.Api.SampleColorsCommaSep = "#000,#fff"

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()

	return &contexts.MutationsContext{
		Context:        e.NewContext(req, rec),
		Config:         &cfg,
		DatasetService: datasets.NewDatasetService(&cfg, fakeLoader{}),
		QueryParameters: contexts.QueryParameters{
			StudyId:       studyId,
			SortDirection: s.Ascending,
		},
	}, rec
}

func TestGetMutationsTable(t *testing.T) {
	mc, rec := newContext("/mutations/table", "msk_impact")
	require.NoError(t, GetMutationsTable(mc))
	require.Equal(t, http.StatusOK, rec.Code)

	var res dtos.MutationTableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Size)
	assert.Len(t, res.Rows, 2)
	assert.Equal(t, "V600E", res.Rows[0].Cells["proteinChange"])

	t.Run("should narrow rows to the chromosome", func(t *testing.T) {
		mc, rec := newContext("/mutations/table", "msk_impact")
		mc.Chromosome = "17"
		require.NoError(t, GetMutationsTable(mc))

		var res dtos.MutationTableResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, 1, res.Total)
		assert.Equal(t, "R273H", res.Rows[0].Cells["proteinChange"])
	})

	t.Run("should sort, filter and page", func(t *testing.T) {
		mc, rec := newContext("/mutations/table?sortBy=tumors&filter=missense&page=2&size=1", "msk_impact")
		mc.SortDirection = s.Descending
		require.NoError(t, GetMutationsTable(mc))

		var res dtos.MutationTableResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, 3, res.Total)
		assert.Equal(t, 2, res.Page)
		require.Len(t, res.Rows, 1)
	})

	t.Run("should show requested hidden columns", func(t *testing.T) {
		mc, rec := newContext("/mutations/table?show=cosmic", "msk_impact")
		require.NoError(t, GetMutationsTable(mc))

		var res dtos.MutationTableResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Contains(t, res.Rows[0].Cells, "cosmic")
	})

	t.Run("should reject bad requests", func(t *testing.T) {
		for _, target := range []string{
			"/mutations/table?page=zero",
			"/mutations/table?size=-1",
			"/mutations/table?sortBy=chromosome",
			"/mutations/table?sortBy=nope",
			"/mutations/table?show=sampleId",
		} {
			mc, rec := newContext(target, "msk_impact")
			require.NoError(t, GetMutationsTable(mc))
			assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		}
	})

	t.Run("should report load and render failures", func(t *testing.T) {
		mc, rec := newContext("/mutations/table", "broken")
		require.NoError(t, GetMutationsTable(mc))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		mc, rec = newContext("/mutations/table", "msk_impact")
		mc.ColumnConfigs = []columns.ColumnConfig{{Key: "oncokb"}}
		require.NoError(t, GetMutationsTable(mc))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetMutationsColumns(t *testing.T) {
	mc, rec := newContext("/mutations/columns", "msk_impact")
	require.NoError(t, GetMutationsColumns(mc))
	require.Equal(t, http.StatusOK, rec.Code)

	var res dtos.ColumnsResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Results)
	assert.Equal(t, "tumors", res.Results[0].Key)

	sampleColors := res.Results[0].Props["sampleColors"].(map[string]interface{})
	assert.Equal(t, "#000", sampleColors["S1"])
	assert.Equal(t, "#000", sampleColors["S3"])
}

func TestGetMutationsRows(t *testing.T) {
	mc, rec := newContext("/mutations/rows", "msk_impact")
	require.NoError(t, GetMutationsRows(mc))
	require.Equal(t, http.StatusOK, rec.Code)

	var res dtos.MutationRowsResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 3, res.Count)
	assert.Len(t, res.Results[0].Mutations, 2)
	assert.Equal(t, "7_140453136_140453136_A_G", res.Results[0].Key)
}

func TestMutationsIngest(t *testing.T) {
	for _, target := range []string{
		"/mutations/ingestion/run",
		"/mutations/ingestion/run?fileNames=,",
		"/mutations/ingestion/run?fileNames=../secrets.maf",
		"/mutations/ingestion/run?fileNames=/etc/passwd",
	} {
		mc, rec := newContext(target, "msk_impact")
		require.NoError(t, MutationsIngest(mc))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestGetAllMutationIngestionRequests(t *testing.T) {
	request := &ingest.MutationIngestRequest{Id: uuid.New(), Filename: "a.maf", State: ingest.Done}

	mc, rec := newContext("/mutations/ingestion/requests", "")
	mc.IngestionService = &services.IngestionService{
		IngestRequestMap: map[string]*ingest.MutationIngestRequest{request.Id.String(): request},
	}
	require.NoError(t, GetAllMutationIngestionRequests(mc))

	var res []ingest.MutationIngestRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.Len(t, res, 1)
	assert.Equal(t, request.Id, res[0].Id)
}
