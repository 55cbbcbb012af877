package mvc

import (
	"mutations/api/contexts"
	"mutations/api/models/indexes"
	"mutations/api/services/datasets"
	"mutations/api/services/mutationtable"

	"github.com/ahmetb/go-linq"
	"github.com/labstack/echo"
)

func RetrieveCommonElements(c echo.Context) (*contexts.MutationsContext, string, []string, string) {
	mc := c.(*contexts.MutationsContext)

	return mc, mc.StudyId, mc.SampleIds, mc.Chromosome
}

/*
	Loads the grouped rows of the requested study (from the dataset
	cache) and the column registry describing them.

	The optional chromosome narrows the rows, not the samples: sample
	labels and colors stay stable across chromosomes.
*/
func RetrieveTable(c echo.Context) (*mutationtable.Registry, [][]indexes.Mutation, *datasets.Snapshot, error) {
	mc, studyId, sampleIds, chromosome := RetrieveCommonElements(c)

	snapshot, err := mc.DatasetService.Get(c.Request().Context(), studyId, sampleIds)
	if err != nil {
		return nil, nil, nil, err
	}

	rows := snapshot.Rows
	if chromosome != "" {
		rows = [][]indexes.Mutation{}
		linq.From(snapshot.Rows).
			WhereT(func(row []indexes.Mutation) bool {
				return len(row) > 0 && row[0].Chromosome == chromosome
			}).
			ToSlice(&rows)
	}

	sc := mutationtable.NewSampleContext(sampleIds, snapshot.Mutations,
		mutationtable.ParsePalette(mc.Config.Api.SampleColorsCommaSep))

	reg, err := mutationtable.NewRegistry(sc, mc.ColumnConfigs)
	if err != nil {
		return nil, nil, nil, err
	}

	return reg, rows, snapshot, nil
}
