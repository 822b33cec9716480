package entity

// Tool names understood by the agent proxy's execute-tool endpoint. The
// convenience routes translate into these.
const (
	ToolSearchCode        = "search_code"
	ToolFindByName        = "find_by_name"
	ToolReadFile          = "read_file"
	ToolFindRelationships = "find_relationships"
	ToolFindUsages        = "find_usages"
	ToolGetClassInfo      = "get_class_info"
)

// ToolCall is a single invocation of a named exploration tool. Parameters are
// forwarded to the agent proxy unchanged.
type ToolCall struct {
	Tool       string
	Parameters map[string]any
}
