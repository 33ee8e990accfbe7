package main

import (
	"encoding/json"
)

// Command represents a JSON command sent over the socket interface
type Command struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params"`
}

// Response represents a JSON response from command execution
type Response struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ExecuteCommand executes a JSON command and returns a JSON response
func (tc *TaskListCore) ExecuteCommand(cmdJSON string) string {
	var cmd Command
	if err := json.Unmarshal([]byte(cmdJSON), &cmd); err != nil {
		return tc.errorResponse("Invalid JSON: " + err.Error())
	}

	switch cmd.Action {
	case "process":
		return tc.cmdProcess(cmd.Params)
	case "set_input_html":
		return tc.cmdSetInputHTML(cmd.Params)
	case "get_input_html":
		return tc.cmdGetInputHTML(cmd.Params)
	case "get_output_html":
		return tc.cmdGetOutputHTML(cmd.Params)
	case "get_items":
		return tc.cmdGetItems(cmd.Params)
	case "get_summary":
		return tc.cmdGetSummary(cmd.Params)
	case "reset":
		return tc.cmdReset(cmd.Params)
	case "ping":
		return tc.successResponse(map[string]interface{}{
			"pong": true,
		})
	default:
		return tc.errorResponse("Unknown action: " + cmd.Action)
	}
}

// ============================================================================
// Command Handlers
// ============================================================================

// cmdProcess rewrites the given HTML in one shot without touching the
// core's stored input, returning the output, items and summary together
func (tc *TaskListCore) cmdProcess(params map[string]interface{}) string {
	input := getStr(params, "html", "")

	output, items, err := RewriteFragment(input)
	if err != nil {
		return tc.errorResponse(err.Error())
	}

	return tc.successResponse(map[string]interface{}{
		"html":    output,
		"items":   items,
		"summary": Summarize(items),
	})
}

// cmdSetInputHTML sets the input HTML and rewrites it
func (tc *TaskListCore) cmdSetInputHTML(params map[string]interface{}) string {
	input := getStr(params, "html", "")
	if err := tc.SetInputHTML(input); err != nil {
		return tc.errorResponse(err.Error())
	}
	return tc.successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdGetInputHTML returns the current input HTML
func (tc *TaskListCore) cmdGetInputHTML(params map[string]interface{}) string {
	return tc.successResponse(map[string]interface{}{
		"html": tc.GetInputHTML(),
	})
}

// cmdGetOutputHTML returns the rewritten HTML
func (tc *TaskListCore) cmdGetOutputHTML(params map[string]interface{}) string {
	return tc.successResponse(map[string]interface{}{
		"html": tc.GetOutputHTML(),
	})
}

// cmdGetItems returns the recognized task items in document order
func (tc *TaskListCore) cmdGetItems(params map[string]interface{}) string {
	return tc.successResponse(map[string]interface{}{
		"items": tc.GetItems(),
	})
}

// cmdGetSummary returns the per-state item counts
func (tc *TaskListCore) cmdGetSummary(params map[string]interface{}) string {
	return tc.successResponse(map[string]interface{}{
		"summary": tc.GetSummary(),
	})
}

// cmdReset clears the core's state
func (tc *TaskListCore) cmdReset(params map[string]interface{}) string {
	tc.Reset()
	return tc.successResponse(map[string]interface{}{
		"success": true,
	})
}

// ============================================================================
// Response Helpers
// ============================================================================

// successResponse builds a successful JSON response
func (tc *TaskListCore) successResponse(result interface{}) string {
	resp := Response{
		Success: true,
		Result:  result,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

// errorResponse builds an error JSON response
func (tc *TaskListCore) errorResponse(err string) string {
	resp := Response{
		Success: false,
		Error:   err,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

// getStr extracts a string parameter with a default value
func getStr(params map[string]interface{}, key, def string) string {
	if v, ok := params[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}
