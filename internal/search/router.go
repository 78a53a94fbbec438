package search

import "strings"

// CategoryGeneric is the sentinel for an undetected or unrecognized category.
const CategoryGeneric = "generic"

// partitions is the closed vocabulary of catalog partitions. Anything outside
// it degrades to the unscoped search.
var partitions = map[string]struct{}{
	"processor":             {},
	"storage-internal":      {},
	"storage-external":      {},
	"input-device":          {},
	"display":               {},
	"memory":                {},
	"networking-peripheral": {},
	"audio-output":          {},
	"audio-input":           {},
	"power":                 {},
	"case":                  {},
	"cooling":               {},
}

// CategoryRouter maps a detected category label to an index partition scope.
type CategoryRouter struct{}

func NewCategoryRouter() *CategoryRouter {
	return &CategoryRouter{}
}

// ResolveScope returns the partition for a recognized category label, or ""
// (search everything) for missing, generic, or unknown labels. Routing never
// fails.
func (r *CategoryRouter) ResolveScope(category string) string {
	label := strings.ToLower(strings.TrimSpace(category))
	label = strings.ReplaceAll(label, " ", "-")
	label = strings.ReplaceAll(label, "_", "-")
	if label == "" || label == CategoryGeneric || label == "unknown" {
		return ""
	}
	if _, ok := partitions[label]; ok {
		return label
	}
	return ""
}

// Categories lists the recognized category labels, for classifier prompts.
func (r *CategoryRouter) Categories() []string {
	out := make([]string, 0, len(partitions))
	for p := range partitions {
		out = append(out, p)
	}
	return out
}
