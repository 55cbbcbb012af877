package middleware

import (
	"fmt"
	"net/http"

	"mutations/api/contexts"
	"mutations/api/models/constants/chromosome"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure a `chromosome` HTTP query parameter is valid if provided.
Valid values are forwarded in their normalized form ("chrX" -> "X").
*/
func ValidateOptionalChromosomeAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		mc := c.(*contexts.MutationsContext)

		// check for chromosome query parameter
		chromQP := c.QueryParam("chromosome")
		if len(chromQP) > 0 && !chromosome.IsValidHumanChromosome(chromQP) {
			// if chromosome is invalid
			return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Please provide a valid 'chromosome' (either 1-22, X, Y, or M), got '%s'", chromQP))
		}

		if len(chromQP) > 0 {
			mc.Chromosome = chromosome.Normalize(chromQP)
		}

		return next(mc)
	}
}
