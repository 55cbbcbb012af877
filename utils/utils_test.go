package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitCommaSeparated(t *testing.T) {
	assert.Equal(t, []string{"P-01", "P-02", "P-03"}, SplitCommaSeparated(" P-01,P-02,, P-01 ,P-03"))
	assert.Empty(t, SplitCommaSeparated(""))
}

func TestGetLeadingStringInBetweenSquareBrackets(t *testing.T) {
	bracket, rest := GetLeadingStringInBetweenSquareBrackets(`[200 OK] {"count": 3}`)
	assert.Equal(t, "[200 OK]", bracket)
	assert.Equal(t, `{"count": 3}`, rest)

	bracket, rest = GetLeadingStringInBetweenSquareBrackets(`{"ids": [1, 2]}`)
	assert.Empty(t, bracket)
	assert.Empty(t, rest)
}
