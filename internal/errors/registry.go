package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// Invariant codes raised by the shadow package.
const (
	CodePropsMissing    = "E100"
	CodeMutationSealed  = "E101"
	CodeCloneMissing    = "E102"
	CodeChildrenMissing = "E103"
	CodeNilChild        = "E104"
	CodeNilSource       = "E105"
	CodeRootTagMismatch = "E106"
)

// Codes for recoverable failures, returned as errors.
const (
	CodeNilRoot          = "E200"
	CodeForeignRoot      = "E201"
	CodeUpdateNil        = "E202"
	CodeConfigNotFound   = "E300"
	CodeConfigInvalid    = "E301"
	CodeConfigParse      = "E302"
	CodeBlueprintParse   = "E400"
	CodeUnknownComponent = "E401"
	CodeDuplicateTag     = "E402"
	CodeInvalidTag       = "E403"
	CodeSnapshotWrite    = "E500"
	CodeNodeNotFound     = "E501"
	CodeNoGeneration     = "E502"
)

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Invariant Violations (E100-E199)
	// ============================================

	"E100": {
		Category: CategoryInvariant,
		Message:  "Node constructed without props",
		Detail:   "Every node must carry a props object. Pass one in the fragment, or derive from a node that has one.",
	},
	"E101": {
		Category: CategoryInvariant,
		Message:  "Mutation of a sealed node",
		Detail:   "Sealed nodes may be shared with other goroutines and other tree generations. Clone the node and mutate the clone instead.",
	},
	"E102": {
		Category: CategoryInvariant,
		Message:  "Clone operation missing",
		Detail:   "The node was constructed without a kind, so it does not know how to produce a node of its own concrete type.",
	},
	"E103": {
		Category: CategoryInvariant,
		Message:  "Node constructed without children",
		Detail:   "The children list must never be nil. Absent children fall back to the shared empty list.",
	},
	"E104": {
		Category: CategoryInvariant,
		Message:  "Nil child",
		Detail:   "A nil node cannot be inserted into a children list.",
	},
	"E105": {
		Category: CategoryInvariant,
		Message:  "Derivation from a nil node",
		Detail:   "Derive requires a source node to inherit absent fields from.",
	},
	"E106": {
		Category: CategoryInvariant,
		Message:  "Root node tag differs from its root tag",
		Detail:   "A root node identifies its tree, so its tag and root tag must be equal.",
	},

	// ============================================
	// Commit Errors (E200-E299)
	// ============================================

	"E200": {
		Category: CategoryCommit,
		Message:  "Commit of a nil root",
		Detail:   "A tree generation must have a root node.",
	},
	"E201": {
		Category: CategoryCommit,
		Message:  "Root tag mismatch",
		Detail:   "The committed root belongs to a different root tree than the holder it was committed to.",
	},
	"E202": {
		Category: CategoryCommit,
		Message:  "Update produced no root",
		Detail:   "The update function returned nil. Return the previous root to keep the tree unchanged.",
	},

	// ============================================
	// Config Errors (E300-E399)
	// ============================================

	"E300": {
		Category: CategoryConfig,
		Message:  "Configuration file not found",
		Detail:   "No shadowtree.json was found in the given directory.",
	},
	"E301": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "The configuration file failed validation.",
	},
	"E302": {
		Category: CategoryConfig,
		Message:  "Configuration parse error",
		Detail:   "The configuration file is not valid JSON.",
	},

	// ============================================
	// Blueprint Errors (E400-E499)
	// ============================================

	"E400": {
		Category: CategoryBlueprint,
		Message:  "Blueprint parse error",
		Detail:   "The blueprint is not valid YAML.",
	},
	"E401": {
		Category: CategoryBlueprint,
		Message:  "Unknown component",
		Detail:   "The blueprint references a component kind that is not registered.",
	},
	"E402": {
		Category: CategoryBlueprint,
		Message:  "Duplicate tag",
		Detail:   "Tags must be unique within a tree generation.",
	},
	"E403": {
		Category: CategoryBlueprint,
		Message:  "Invalid tag",
		Detail:   "Blueprint tags must be positive, and the root node's tag must equal the root tag.",
	},

	// ============================================
	// Archive and Inspector Errors (E500-E599)
	// ============================================

	"E500": {
		Category: CategoryArchive,
		Message:  "Snapshot write failed",
		Detail:   "The archive sink could not store the generation snapshot.",
	},
	"E501": {
		Category: CategoryInspector,
		Message:  "Node not found",
		Detail:   "No node with the requested tag exists in the current generation.",
	},
	"E502": {
		Category: CategoryInspector,
		Message:  "No generation committed",
		Detail:   "The tree holder has not published a generation yet.",
	},
}

// GetAllCodes returns all registered error codes in ascending order.
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

// Register adds a new error template to the registry.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
