package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"mutations/api/contexts"
	s "mutations/api/models/constants/sort"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, target string, mw echo.MiddlewareFunc) (*contexts.MutationsContext, *httptest.ResponseRecorder, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	mc := &contexts.MutationsContext{Context: e.NewContext(req, rec)}

	var reached *contexts.MutationsContext
	err := mw(func(c echo.Context) error {
		reached = c.(*contexts.MutationsContext)
		return c.NoContent(http.StatusOK)
	})(mc)

	if reached != nil {
		require.Same(t, mc, reached)
	}
	return reached, rec, err
}

func TestMandateStudyIdAttribute(t *testing.T) {
	mc, rec, err := serve(t, "/?studyId=%20msk_impact%20", MandateStudyIdAttribute)
	require.NoError(t, err)
	require.NotNil(t, mc)
	assert.Equal(t, "msk_impact", mc.StudyId)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, target := range []string{"/", "/?studyId=", "/?studyId=a,b"} {
		mc, rec, err := serve(t, target, MandateStudyIdAttribute)
		assert.NoError(t, err)
		assert.Nil(t, mc, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestOptionalStudyIdAttribute(t *testing.T) {
	mc, _, err := serve(t, "/?studyId=msk_impact", OptionalStudyIdAttribute)
	require.NoError(t, err)
	assert.Equal(t, "msk_impact", mc.StudyId)

	mc, _, err = serve(t, "/", OptionalStudyIdAttribute)
	require.NoError(t, err)
	assert.Empty(t, mc.StudyId)
}

func TestCalibrateOptionalSampleIdsPluralAttribute(t *testing.T) {
	mc, _, err := serve(t, "/?ids=P-01,%20P-02,,P-01", CalibrateOptionalSampleIdsPluralAttribute)
	require.NoError(t, err)
	assert.Equal(t, []string{"P-01", "P-02"}, mc.SampleIds)

	mc, _, err = serve(t, "/", CalibrateOptionalSampleIdsPluralAttribute)
	require.NoError(t, err)
	assert.Empty(t, mc.SampleIds)
}

func TestValidateOptionalChromosomeAttribute(t *testing.T) {
	mc, _, err := serve(t, "/?chromosome=chrx", ValidateOptionalChromosomeAttribute)
	require.NoError(t, err)
	assert.Equal(t, "X", mc.Chromosome)

	mc, _, err = serve(t, "/", ValidateOptionalChromosomeAttribute)
	require.NoError(t, err)
	assert.Empty(t, mc.Chromosome)

	t.Run("should reject unknown chromosomes", func(t *testing.T) {
		mc, _, err := serve(t, "/?chromosome=23", ValidateOptionalChromosomeAttribute)
		assert.Nil(t, mc)

		httpErr, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	})
}

func TestValidatePotentialSortDirection(t *testing.T) {
	mc, _, err := serve(t, "/", ValidatePotentialSortDirection)
	require.NoError(t, err)
	assert.Equal(t, s.Ascending, mc.SortDirection)

	mc, _, err = serve(t, "/?sortDirection=DESC", ValidatePotentialSortDirection)
	require.NoError(t, err)
	assert.Equal(t, s.Descending, mc.SortDirection)

	mc, rec, err := serve(t, "/?sortDirection=sideways", ValidatePotentialSortDirection)
	assert.NoError(t, err)
	assert.Nil(t, mc)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
