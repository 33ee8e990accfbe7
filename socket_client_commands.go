package main

import (
	"encoding/json"
	"fmt"
	"log"
)

// RemoteTaskList wraps a SocketClient to implement the TaskListCommands
// interface. Callers use the same interface whether they talk to a socket
// server or to a TaskListCore directly.
type RemoteTaskList struct {
	client *SocketClient
}

// NewRemoteTaskList creates a new socket client wrapper
func NewRemoteTaskList(client *SocketClient) *RemoteTaskList {
	return &RemoteTaskList{client: client}
}

// execute marshals and sends a command, returning the response map
func (s *RemoteTaskList) execute(action string, params map[string]interface{}) (map[string]interface{}, error) {
	if params == nil {
		params = map[string]interface{}{}
	}
	cmdJSON, _ := json.Marshal(map[string]interface{}{
		"action": action,
		"params": params,
	})

	resp, err := s.client.Execute(string(cmdJSON))
	if err != nil {
		return nil, fmt.Errorf("socket error: %w", err)
	}

	if success, ok := resp["success"].(bool); ok && success {
		result, _ := resp["result"].(map[string]interface{})
		return result, nil
	}

	if errMsg, ok := resp["error"].(string); ok {
		return nil, fmt.Errorf("%s error: %s", action, errMsg)
	}

	return nil, fmt.Errorf("%s failed with unknown error", action)
}

// SetInputHTML implements TaskListCommands.SetInputHTML
func (s *RemoteTaskList) SetInputHTML(input string) error {
	_, err := s.execute("set_input_html", map[string]interface{}{
		"html": input,
	})
	return err
}

// Reset implements TaskListCommands.Reset
func (s *RemoteTaskList) Reset() {
	if _, err := s.execute("reset", nil); err != nil {
		log.Printf("Reset socket error: %v", err)
	}
}

// GetInputHTML implements TaskListCommands.GetInputHTML
func (s *RemoteTaskList) GetInputHTML() string {
	result, err := s.execute("get_input_html", nil)
	if err != nil {
		log.Printf("GetInputHTML socket error: %v", err)
		return ""
	}
	html, _ := result["html"].(string)
	return html
}

// GetOutputHTML implements TaskListCommands.GetOutputHTML
func (s *RemoteTaskList) GetOutputHTML() string {
	result, err := s.execute("get_output_html", nil)
	if err != nil {
		log.Printf("GetOutputHTML socket error: %v", err)
		return ""
	}
	html, _ := result["html"].(string)
	return html
}

// GetItems implements TaskListCommands.GetItems
func (s *RemoteTaskList) GetItems() []TaskItem {
	result, err := s.execute("get_items", nil)
	if err != nil {
		log.Printf("GetItems socket error: %v", err)
		return nil
	}

	// Round-trip through JSON to convert the generic result back into
	// typed records
	raw, err := json.Marshal(result["items"])
	if err != nil {
		return nil
	}
	var items []TaskItem
	if err := json.Unmarshal(raw, &items); err != nil {
		log.Printf("GetItems decode error: %v", err)
		return nil
	}
	return items
}

// GetSummary implements TaskListCommands.GetSummary
func (s *RemoteTaskList) GetSummary() Summary {
	result, err := s.execute("get_summary", nil)
	if err != nil {
		log.Printf("GetSummary socket error: %v", err)
		return Summary{}
	}

	raw, err := json.Marshal(result["summary"])
	if err != nil {
		return Summary{}
	}
	var summary Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		log.Printf("GetSummary decode error: %v", err)
		return Summary{}
	}
	return summary
}
