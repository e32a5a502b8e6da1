package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Lifecycle Errors (E100-E109)
	// ============================================

	"E101": {
		Category: CategoryLifecycle,
		Message:  "Cannot mount component: parent element not found",
	},
	"E102": {
		Category: CategoryLifecycle,
		Message:  "Cannot replace: target element not found or has no parent",
	},
	"E103": {
		Category: CategoryLifecycle,
		Message:  "Component used after unmount",
	},
	"E104": {
		Category: CategoryLifecycle,
		Message:  "Render or lifecycle hook panicked",
	},
	"E105": {
		Category: CategoryLifecycle,
		Message:  "Layout slot not available",
	},
	"E106": {
		Category: CategoryLifecycle,
		Message:  "Application not started",
	},

	// ============================================
	// Routing Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryRouting,
		Message:  "Invalid route pattern",
	},
	"E111": {
		Category: CategoryRouting,
		Message:  "Route directory scan failed",
	},

	// ============================================
	// Network Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryNetwork,
		Message:  "Route listing fetch failed",
	},
	"E121": {
		Category: CategoryNetwork,
		Message:  "Malformed route listing payload",
	},

	// ============================================
	// Storage Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryStorage,
		Message:  "Route manifest store failure",
	},
	"E131": {
		Category: CategoryStorage,
		Message:  "Route manifest not found",
	},

	// ============================================
	// Config Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"E141": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
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
