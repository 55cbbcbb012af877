package formatters

import (
	"testing"

	"mutations/api/models/indexes"
	"mutations/api/services/columns"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func call(sampleId string, proteinChange string, alt int, ref int) indexes.Mutation {
	return indexes.Mutation{
		SampleId:        sampleId,
		Chromosome:      "7",
		StartPosition:   140453136,
		EndPosition:     140453136,
		ReferenceAllele: "A",
		VariantAllele:   "T",
		ProteinChange:   proteinChange,
		TumorAltCount:   alt,
		TumorRefCount:   ref,
		NormalAltCount:  indexes.NoCount,
		NormalRefCount:  indexes.NoCount,
		Data:            map[string]interface{}{"cosmic": 412},
	}
}

var sampleProps = columns.Props{
	"sampleOrder":      []string{"S2", "S1", "S3"},
	"sampleLabels":     map[string]string{"S1": "2", "S2": "1", "S3": "3"},
	"sampleColors":     map[string]string{"S1": "#fff", "S2": "#000"},
	"sampleTumorType":  map[string]string{"S1": "Melanoma"},
	"sampleCancerType": map[string]string{"S1": "Skin"},
}

func mustSort(t *testing.T, sort columns.SortFunc[indexes.Mutation], a []indexes.Mutation, b []indexes.Mutation, props columns.Props) int {
	t.Helper()
	cmp, err := sort(a, b, props)
	require.NoError(t, err)
	return cmp
}

func TestProteinChange(t *testing.T) {
	row := []indexes.Mutation{call("S1", "V600E", 1, 1), call("S2", "V600E", 1, 1), call("S3", "V600K", 1, 1), call("S4", "", 1, 1)}

	v, err := ProteinChange(row, nil)
	assert.NoError(t, err)
	assert.Equal(t, "V600E, V600K", v)
}

func TestTumors(t *testing.T) {
	row := []indexes.Mutation{call("S1", "V600E", 1, 1), call("S9", "V600E", 1, 1), call("S2", "V600E", 1, 1)}

	v, err := Tumors(row, sampleProps)
	require.NoError(t, err)

	cells := v.([]SampleCell)
	require.Len(t, cells, 3)
	assert.Equal(t, SampleCell{SampleId: "S2", Label: "1", Color: "#000"}, cells[0])
	assert.Equal(t, SampleCell{SampleId: "S1", Label: "2", Color: "#fff", TumorType: "Melanoma", CancerType: "Skin"}, cells[1])
	assert.Equal(t, "S9", cells[2].Label)

	t.Run("should fail on malformed props", func(t *testing.T) {
		_, err := Tumors(row, columns.Props{"sampleLabels": 12})
		assert.Error(t, err)
	})
}

func TestSortTumors(t *testing.T) {
	one := []indexes.Mutation{call("S3", "", 1, 1)}
	onePrior := []indexes.Mutation{call("S2", "", 1, 1)}
	two := []indexes.Mutation{call("S1", "", 1, 1), call("S3", "", 1, 1)}

	assert.Equal(t, -1, mustSort(t, SortTumors, one, two, sampleProps))
	assert.Equal(t, 1, mustSort(t, SortTumors, one, onePrior, sampleProps))
	assert.Equal(t, 0, mustSort(t, SortTumors, one, one, sampleProps))

	t.Run("should fail on malformed props", func(t *testing.T) {
		_, err := SortTumors(one, two, columns.Props{"sampleLabels": 12})
		assert.Error(t, err)
	})
}

func TestAlleleFreq(t *testing.T) {
	row := []indexes.Mutation{call("S1", "", 1, 3), call("S2", "", 2, 1), call("S3", "", indexes.NoCount, 3)}

	v, err := AlleleFreq(row, sampleProps)
	require.NoError(t, err)
	assert.Equal(t, []SampleValue{
		{SampleId: "S2", Value: 0.67},
		{SampleId: "S1", Value: 0.25},
	}, v)

	t.Run("should read normal counts when configured", func(t *testing.T) {
		v, err := AlleleFreq(row, columns.Props{"altField": "normalAltCount", "refField": "normalRefCount"})
		assert.NoError(t, err)
		assert.Empty(t, v)
	})

	t.Run("should sort by mean frequency", func(t *testing.T) {
		low := []indexes.Mutation{call("S1", "", 1, 9)}
		high := []indexes.Mutation{call("S1", "", 9, 1)}
		none := []indexes.Mutation{call("S1", "", 0, 0)}

		assert.Equal(t, -1, mustSort(t, SortAlleleFreq, low, high, nil))
		assert.Equal(t, 1, mustSort(t, SortAlleleFreq, high, low, nil))
		assert.Equal(t, -1, mustSort(t, SortAlleleFreq, none, low, nil))
	})

	t.Run("should fail to sort on malformed props", func(t *testing.T) {
		_, err := SortAlleleFreq(row, row, columns.Props{"altField": map[string]interface{}{"tumor": 1}})
		assert.Error(t, err)
	})
}

func TestAlleleCount(t *testing.T) {
	row := []indexes.Mutation{call("S1", "", 4, 10), call("S2", "", 7, 20)}

	v, err := AlleleCount(row, columns.Props{"dataField": "tumorAltCount", "sampleOrder": []interface{}{"S2", "S1"}})
	require.NoError(t, err)
	assert.Equal(t, []SampleValue{{SampleId: "S2", Value: 7}, {SampleId: "S1", Value: 4}}, v)

	v, err = AlleleCount(row, columns.Props{"dataField": "normalAltCount"})
	assert.NoError(t, err)
	assert.Empty(t, v)

	_, err = AlleleCount(row, columns.Props{})
	assert.Error(t, err)
}

func TestOptionalField(t *testing.T) {
	row := []indexes.Mutation{call("S1", "", 1, 1)}

	v, err := OptionalField(row, columns.Props{"dataField": "cosmic"})
	assert.NoError(t, err)
	assert.Equal(t, 412, v)

	v, err = OptionalField(row, columns.Props{"dataField": "oncokb"})
	assert.NoError(t, err)
	assert.Equal(t, "", v)

	_, err = OptionalField(row, columns.Props{})
	assert.Error(t, err)
}
