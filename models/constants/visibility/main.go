package visibility

import (
	"mutations/api/models/constants"
	"strings"
)

const (
	// default-on
	Visible constants.Visibility = "visible"
	// rendered-capable, off by default, user-toggleable
	Hidden constants.Visibility = "hidden"
	// never rendered, never toggleable (i.e. internal join keys)
	Excluded constants.Visibility = "excluded"

	Unknown constants.Visibility = ""
)

func CastToVisibility(text string) constants.Visibility {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "visible":
		return Visible
	case "hidden":
		return Hidden
	case "excluded":
		return Excluded
	default:
		return Unknown
	}
}

func IsKnownVisibility(text string) bool {
	return CastToVisibility(text) != Unknown
}
