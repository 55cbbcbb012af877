package middleware

import (
	"fmt"
	"net/http"

	"mutations/api/contexts"
	s "mutations/api/models/constants/sort"
	"mutations/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure the validity of the optionally provided `sortDirection` query parameter
*/
func ValidatePotentialSortDirection(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		mc := c.(*contexts.MutationsContext)
		mc.SortDirection = s.Ascending

		sortQP := c.QueryParam("sortDirection")
		if len(sortQP) > 0 {
			direction := s.CastToSortDirection(sortQP)
			if direction == s.Undefined {
				return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid sortDirection '%s' - please use 'asc' or 'desc'", sortQP)))
			}
			mc.SortDirection = direction
		}

		return next(mc)
	}
}
