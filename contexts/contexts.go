package contexts

import (
	"mutations/api/models"
	"mutations/api/models/constants"
	"mutations/api/services"
	"mutations/api/services/columns"
	"mutations/api/services/datasets"

	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	//  an elasticsearch client and other variables
	MutationsContext struct {
		echo.Context
		Es7Client        *es7.Client
		Config           *models.Config
		IngestionService *services.IngestionService
		DatasetService   *datasets.DatasetService
		ColumnConfigs    []columns.ColumnConfig

		// Calibrated by middleware
		QueryParameters
	}

	QueryParameters struct {
		StudyId       string
		SampleIds     []string
		Chromosome    string
		SortDirection constants.SortDirection
	}
)
