package mutations

import (
	"context"
	goErrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mutations/api/models/dtos"
	"mutations/api/models/dtos/errors"
	"mutations/api/mvc"
	esRepo "mutations/api/repositories/elasticsearch"
	"mutations/api/services/columns"
	"mutations/api/services/grouping"
	"mutations/api/services/overview"
	"mutations/api/services/tableview"
	"mutations/api/utils"

	"github.com/labstack/echo"
)

func GetMutationsTable(c echo.Context) error {
	fmt.Printf("[%s] - GetMutationsTable hit!\n", time.Now())
	mc, _, _, _ := mvc.RetrieveCommonElements(c)

	page, err := parsePositiveInt(c.QueryParam("page"), 1)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid page: %s", err)))
	}
	size, err := parsePositiveInt(c.QueryParam("size"), mc.Config.Api.DefaultPageSize)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid size: %s", err)))
	}

	reg, rows, _, err := mvc.RetrieveTable(c)
	if err != nil {
		return respondWithError(c, err)
	}

	res, err := tableview.Build(reg, rows, tableview.Options{
		Filter:     c.QueryParam("filter"),
		SortBy:     c.QueryParam("sortBy"),
		Direction:  mc.SortDirection,
		Page:       page,
		Size:       size,
		ShowHidden: utils.SplitCommaSeparated(c.QueryParam("show")),
	})
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, res)
}

func GetMutationsColumns(c echo.Context) error {
	fmt.Printf("[%s] - GetMutationsColumns hit!\n", time.Now())

	reg, _, _, err := mvc.RetrieveTable(c)
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, dtos.ColumnsResponseDTO{
		Status:  200,
		Message: "Success",
		Results: tableview.Headers(reg),
	})
}

func GetMutationsRows(c echo.Context) error {
	fmt.Printf("[%s] - GetMutationsRows hit!\n", time.Now())

	_, rows, _, err := mvc.RetrieveTable(c)
	if err != nil {
		return respondWithError(c, err)
	}

	results := make([]dtos.MutationRowData, 0, len(rows))
	for i, key := range grouping.Keys(rows) {
		results = append(results, dtos.MutationRowData{
			Key:       key,
			Mutations: rows[i],
		})
	}

	return c.JSON(http.StatusOK, dtos.MutationRowsResponseDTO{
		Status:  200,
		Message: "Success",
		Count:   len(results),
		Results: results,
	})
}

func CountMutations(c echo.Context) error {
	fmt.Printf("[%s] - CountMutations hit!\n", time.Now())
	mc, studyId, sampleIds, chromosome := mvc.RetrieveCommonElements(c)

	count, err := esRepo.CountMutations(c.Request().Context(), mc.Config, mc.Es7Client, studyId, sampleIds, chromosome)
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  200,
		"message": "Success",
		"count":   count,
	})
}

func GetMutationsOverview(c echo.Context) error {
	fmt.Printf("[%s] - GetMutationsOverview hit!\n", time.Now())
	mc, studyId, _, _ := mvc.RetrieveCommonElements(c)

	fetch := func(ctx context.Context, keyword string) (map[string]int, error) {
		result, err := esRepo.GetMutationsBucketsByKeyword(ctx, mc.Config, mc.Es7Client, keyword, studyId)
		if err != nil {
			return nil, err
		}
		return esRepo.BucketCounts(result)
	}

	results, err := overview.GetMutationsOverview(c.Request().Context(), fetch)
	if err != nil {
		return respondWithError(c, err)
	}

	return c.JSON(http.StatusOK, dtos.MutationsOverviewResponseDTO{
		Status:  200,
		Message: "Success",
		Results: results,
	})
}

func DeleteMutations(c echo.Context) error {
	fmt.Printf("[%s] - DeleteMutations hit!\n", time.Now())
	mc, studyId, _, _ := mvc.RetrieveCommonElements(c)

	result, err := esRepo.DeleteMutationsByStudyId(c.Request().Context(), mc.Config, mc.Es7Client, studyId)
	if err != nil {
		return respondWithError(c, err)
	}

	deleted, _ := result["deleted"].(float64)
	fmt.Printf("Deleted %d mutations of study %s\n", int(deleted), studyId)

	mc.DatasetService.Invalidate(studyId)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  200,
		"message": "Success",
		"deleted": int(deleted),
	})
}

// - helpers

// parsePositiveInt falls back to the default for an absent value
func parsePositiveInt(text string, fallback int) (int, error) {
	if len(text) == 0 {
		return fallback, nil
	}

	value, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if value < 1 {
		return 0, fmt.Errorf("%d is not a positive number", value)
	}
	return value, nil
}

// column errors are the caller's fault; anything else is ours
func respondWithError(c echo.Context, err error) error {
	var (
		notSortable   *columns.NotSortableError
		notToggleable *columns.NotToggleableError
	)

	switch {
	case goErrors.Is(err, columns.ErrColumnNotFound),
		goErrors.As(err, &notSortable),
		goErrors.As(err, &notToggleable):
		return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(err.Error()))
	default:
		fmt.Printf("[%s] - Error: %s\n", time.Now(), err)
		return c.JSON(http.StatusInternalServerError, errors.CreateSimpleInternalServerError(err.Error()))
	}
}
