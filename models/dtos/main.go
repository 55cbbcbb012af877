package dtos

import (
	"time"

	"mutations/api/models/constants"
	"mutations/api/models/indexes"
)

// -- Errors
type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}
type GeneralError struct {
	Message string `json:"message"`
}

// -- Columns
type ColumnHeader struct {
	Key        string                 `json:"key"`
	Name       string                 `json:"name"`
	Priority   float64                `json:"priority"`
	Hidden     bool                   `json:"hidden"`
	Toggleable bool                   `json:"toggleable"`
	Sortable   bool                   `json:"sortable"`
	Filterable bool                   `json:"filterable"`
	Props      map[string]interface{} `json:"columnProps,omitempty"`
}

type ColumnsResponseDTO struct {
	Status  int            `json:"status"`
	Message string         `json:"message"`
	Results []ColumnHeader `json:"results"`
}

// -- Table
type MutationTableResponse struct {
	Status        int                     `json:"status"`
	Message       string                  `json:"message"`
	Headers       []ColumnHeader          `json:"headers"`
	Rows          []MutationTableRow      `json:"rows"`
	Total         int                     `json:"total"` // rows left after filtering, before paging
	Page          int                     `json:"page"`
	Size          int                     `json:"size"`
	Filter        string                  `json:"filter,omitempty"`
	SortBy        string                  `json:"sortBy,omitempty"`
	SortDirection constants.SortDirection `json:"sortDirection,omitempty"`
}

type MutationTableRow struct {
	Key   string                 `json:"key"`
	Cells map[string]interface{} `json:"cells"`
}

// -- Rows
type MutationRowsResponseDTO struct {
	Status  int               `json:"status"`
	Message string            `json:"message"`
	Count   int               `json:"count"`
	Results []MutationRowData `json:"results"`
}
type MutationRowData struct {
	Key       string             `json:"key"`
	Mutations []indexes.Mutation `json:"mutations"`
}

// -- Overview
type MutationsOverviewResponseDTO struct {
	Status  int                       `json:"status"`
	Message string                    `json:"message"`
	Results map[string]map[string]int `json:"results"`
}
