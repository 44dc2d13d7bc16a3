package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// Composition (W001-W009)
	"W001": {
		Category: CategoryCompose,
		Message:  "Composition context unavailable",
		Detail:   "A component read the composition context outside a render pass.",
	},
	"W002": {
		Category: CategoryCompose,
		Message:  "Include is missing its src",
	},
	"W003": {
		Category: CategoryCompose,
		Message:  "Include could not be read",
	},
	"W004": {
		Category: CategoryCompose,
		Message:  "Unsupported agent",
	},
	"W005": {
		Category: CategoryCompose,
		Message:  "Component failed",
	},

	// Configuration (W010-W019)
	"W010": {
		Category: CategoryConfig,
		Message:  "Configuration not found",
		Detail:   "No wingman.yaml was found in this directory or any parent.",
	},
	"W011": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"W012": {
		Category: CategoryCLI,
		Message:  "Invalid option",
	},

	// Loading (W020-W029)
	"W020": {
		Category: CategoryLoad,
		Message:  "Composition source not found",
	},
	"W021": {
		Category: CategoryLoad,
		Message:  "Composition tree could not be parsed",
	},

	// Output (W030-W039)
	"W030": {
		Category: CategoryOutput,
		Message:  "Failed to write output",
	},
	"W031": {
		Category: CategoryOutput,
		Message:  "Failed to clean output",
	},

	// Preview (W040-W049)
	"W040": {
		Category: CategoryPreview,
		Message:  "Preview server failed",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
