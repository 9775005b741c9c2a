package catalog

import "strings"

const defaultColorClass = "bg-purple-400"

// ColorClass maps a category colour onto the badge class used by the
// storefront. Orange is rendered as light purple.
func ColorClass(cor string) string {
	if strings.HasPrefix(cor, "bg-") {
		if strings.Contains(cor, "orange") || strings.Contains(cor, "laranja") {
			return defaultColorClass
		}
		return cor
	}
	switch cor {
	case "ciano":
		return "bg-cyan-400"
	case "azul":
		return "bg-blue-400"
	case "rosa":
		return "bg-pink-400"
	default:
		return defaultColorClass
	}
}
