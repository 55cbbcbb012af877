package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"mutations/api/contexts"
	"mutations/api/models/dtos/errors"

	"github.com/labstack/echo"
)

/*
Echo middleware to ensure a valid `studyId` HTTP query parameter was provided
*/
func MandateStudyIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// check for studyId query parameter
		studyId := strings.TrimSpace(c.QueryParam("studyId"))
		if len(studyId) == 0 {
			// if no id was provided return an error
			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest("missing studyId"))
		}

		if strings.ContainsAny(studyId, " ,|") {
			fmt.Printf("Invalid studyId %s\n", studyId)

			return c.JSON(http.StatusBadRequest, errors.CreateSimpleBadRequest(fmt.Sprintf("invalid studyId %s - please provide a single study id", studyId)))
		}

		// forward a type-safe value down the pipeline
		mc := c.(*contexts.MutationsContext)
		mc.StudyId = studyId

		return next(mc)
	}
}

/*
Echo middleware to forward a `studyId` HTTP query parameter if provided
*/
func OptionalStudyIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		mc := c.(*contexts.MutationsContext)

		if studyId := strings.TrimSpace(c.QueryParam("studyId")); len(studyId) > 0 {
			mc.StudyId = studyId
		}

		return next(mc)
	}
}
