package errors

import (
	"net/http"
	"time"

	"mutations/api/models/dtos"
)

/*
	Utility functions to facillitate returning error responses to HTTP clients
*/

func createResponse(code int, messages ...string) dtos.GeneralErrorResponseDto {
	errs := make([]dtos.GeneralError, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, dtos.GeneralError{Message: m})
	}

	return dtos.GeneralErrorResponseDto{
		Code:      code,
		Message:   http.StatusText(code),
		Timestamp: time.Now(),
		Errors:    errs,
	}
}

// -- Simplest: 1 error with message
func CreateSimpleBadRequest(message string) dtos.GeneralErrorResponseDto {
	return createResponse(http.StatusBadRequest, message)
}
func CreateSimpleNotFound(message string) dtos.GeneralErrorResponseDto {
	return createResponse(http.StatusNotFound, message)
}
func CreateSimpleInternalServerError(message string) dtos.GeneralErrorResponseDto {
	return createResponse(http.StatusInternalServerError, message)
}

// -- Several messages, i.e. one per invalid query parameter
func CreateBadRequest(messages ...string) dtos.GeneralErrorResponseDto {
	return createResponse(http.StatusBadRequest, messages...)
}
