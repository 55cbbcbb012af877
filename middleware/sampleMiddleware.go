package middleware

import (
	"mutations/api/contexts"
	"mutations/api/utils"

	"github.com/labstack/echo"
)

/*
Echo middleware to prepare the context for an optional
comma-separated `ids` HTTP query parameter.
Blank and repeated ids are dropped; no ids means every sample of the study.
*/
func CalibrateOptionalSampleIdsPluralAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		mc := c.(*contexts.MutationsContext)

		mc.SampleIds = utils.SplitCommaSeparated(c.QueryParam("ids"))

		return next(mc)
	}
}
