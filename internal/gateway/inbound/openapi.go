package inbound

type schema = map[string]any

type operation struct {
	path        string
	method      string
	operationID string
	summary     string
	request     schema
}

var operations = []operation{
	{
		path:        "/health",
		method:      "get",
		operationID: "health_check",
		summary:     "Check server health and proxy connection",
	},
	{
		path:        "/explore",
		method:      "post",
		operationID: "explore_code",
		summary:     "Explore code with a natural language query",
		request: objectSchema(map[string]schema{
			"query":           {"type": "string", "description": "Natural language query about the code"},
			"generate_report": {"type": "boolean", "description": "Generate detailed report", "default": false},
			"config":          {"type": "object", "description": "Configuration overrides"},
		}, "query"),
	},
	{
		path:        "/execute-tool",
		method:      "post",
		operationID: "execute_tool",
		summary:     "Execute a specific exploration tool",
		request: objectSchema(map[string]schema{
			"tool":       {"type": "string", "description": "Name of the tool to execute"},
			"parameters": {"type": "object", "description": "Tool-specific parameters"},
		}, "tool", "parameters"),
	},
	{
		path:        "/tools",
		method:      "get",
		operationID: "list_tools",
		summary:     "List all available exploration tools",
	},
	{
		path:        "/search",
		method:      "post",
		operationID: "search_code",
		summary:     "Search for code using natural language",
		request: objectSchema(map[string]schema{
			"query":       {"type": "string", "description": "Natural language search query"},
			"max_results": {"type": "integer", "description": "Maximum results", "default": 10},
		}, "query"),
	},
	{
		path:        "/find-by-name",
		method:      "post",
		operationID: "find_by_name",
		summary:     "Find code elements by name",
		request: objectSchema(map[string]schema{
			"name": {"type": "string", "description": "Class, method, or package name (case-sensitive)"},
			"type": {"type": "string", "description": "Type: class, method, package, or any", "default": "any"},
		}, "name"),
	},
	{
		path:        "/read-file",
		method:      "post",
		operationID: "read_file",
		summary:     "Read a file from the project",
		request: objectSchema(map[string]schema{
			"file_path": {"type": "string", "description": "Path to the file to read"},
		}, "file_path"),
	},
	{
		path:        "/find-relationships",
		method:      "post",
		operationID: "find_relationships",
		summary:     "Find relationships between code elements",
		request: objectSchema(map[string]schema{
			"element_id":    {"type": "string", "description": "Fully qualified class name"},
			"relation_type": {"type": "string", "description": "Type of relationship to find"},
		}, "element_id"),
	},
	{
		path:        "/find-usages",
		method:      "post",
		operationID: "find_usages",
		summary:     "Find usages of a code element",
		request: objectSchema(map[string]schema{
			"element_id": {"type": "string", "description": "Class or method to find usages of"},
		}, "element_id"),
	},
	{
		path:        "/class-info",
		method:      "post",
		operationID: "class_info",
		summary:     "Get detailed information about a class",
		request: objectSchema(map[string]schema{
			"class_name": {"type": "string", "description": "Fully qualified class name"},
		}, "class_name"),
	},
	{
		path:        "/augment",
		method:      "post",
		operationID: "augment_query",
		summary:     "Augment a query with code context",
		request: objectSchema(map[string]schema{
			"query": {"type": "string", "description": "User query to augment with code context"},
		}, "query"),
	},
	{
		path:        "/status",
		method:      "get",
		operationID: "proxy_status",
		summary:     "Get current proxy status",
	},
	{
		path:        "/config",
		method:      "get",
		operationID: "get_config",
		summary:     "Get current proxy configuration",
	},
	{
		path:        "/config",
		method:      "post",
		operationID: "update_config",
		summary:     "Update proxy configuration",
		request: objectSchema(map[string]schema{
			"max_tool_calls":   {"type": "integer"},
			"max_rounds":       {"type": "integer"},
			"include_tests":    {"type": "boolean"},
			"deep_exploration": {"type": "boolean"},
			"timeout_seconds":  {"type": "integer"},
		}),
	},
}

// openAPIDocument renders the route table as an OpenAPI 3 schema. Each
// operation also carries an x-openai-tool extension so function-calling
// clients can consume the routes as tools directly.
func openAPIDocument() schema {
	paths := schema{}
	for _, op := range operations {
		item, ok := paths[op.path].(schema)
		if !ok {
			item = schema{}
			paths[op.path] = item
		}

		params := op.request
		if params == nil {
			params = schema{}
		}

		entry := schema{
			"operationId": op.operationID,
			"summary":     op.summary,
			"responses": schema{
				"200": schema{"description": "Successful Response"},
			},
			"x-openai-tool": schema{
				"type": "function",
				"function": schema{
					"name":        op.operationID,
					"description": op.summary,
					"parameters":  params,
				},
			},
		}
		if op.request != nil {
			entry["requestBody"] = schema{
				"required": true,
				"content": schema{
					"application/json": schema{"schema": op.request},
				},
			}
		}

		item[op.method] = entry
	}

	return schema{
		"openapi": "3.1.0",
		"info": schema{
			"title":       "Zest Code Explorer - OpenAI Tool Server",
			"description": "OpenAPI-compliant server for IntelliJ code exploration through Zest",
			"version":     "1.0.0",
		},
		"paths": paths,
	}
}

func objectSchema(properties map[string]schema, required ...string) schema {
	s := schema{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}

	return s
}
