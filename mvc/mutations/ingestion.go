package mutations

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"mutations/api/contexts"
	"mutations/api/models/dtos/errors"
	"mutations/api/utils"

	"github.com/labstack/echo"
)

func MutationsIngest(c echo.Context) error {
	fmt.Printf("[%s] - MutationsIngest hit!\n", time.Now())
	mc := c.(*contexts.MutationsContext)

	// retrieve query parameters (comma separated)
	fileNames := utils.SplitCommaSeparated(c.QueryParam("fileNames"))
	if len(fileNames) == 0 {
		return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("Missing 'fileNames' query parameter!"))
	}

	// files are resolved against the MAF directory only
	for _, fileName := range fileNames {
		if filepath.IsAbs(fileName) || strings.Contains(fileName, "..") {
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(
				fmt.Sprintf("invalid file name %s - please provide a path relative to the MAF directory", fileName),
			))
		}
	}

	responseDtos := mc.IngestionService.Ingest(fileNames, mc.StudyId)

	return c.JSON(http.StatusOK, responseDtos)
}

func GetAllMutationIngestionRequests(c echo.Context) error {
	fmt.Printf("[%s] - GetAllMutationIngestionRequests hit!\n", time.Now())

	return c.JSON(http.StatusOK, c.(*contexts.MutationsContext).IngestionService.GetRequests())
}

func MutationsIngestionStats(c echo.Context) error {
	fmt.Printf("[%s] - MutationsIngestionStats hit!\n", time.Now())
	ingestionService := c.(*contexts.MutationsContext).IngestionService

	return c.JSON(http.StatusOK, ingestionService.IngestionBulkIndexer.Stats())
}
