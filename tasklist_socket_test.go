package main

import (
	"encoding/binary"
	"encoding/json"
	"io"
	"net"
	"os"
	"strings"
	"testing"
	"time"
)

// sendMessage writes a length-prefixed message to a raw connection
func sendMessage(conn net.Conn, data []byte) error {
	lengthBuf := make([]byte, 4)
	binary.BigEndian.PutUint32(lengthBuf, uint32(len(data)))
	if _, err := conn.Write(lengthBuf); err != nil {
		return err
	}
	_, err := conn.Write(data)
	return err
}

// receiveMessage reads a length-prefixed message from a raw connection
func receiveMessage(conn net.Conn) ([]byte, error) {
	lengthBuf := make([]byte, 4)
	if _, err := io.ReadFull(conn, lengthBuf); err != nil {
		return nil, err
	}
	data := make([]byte, binary.BigEndian.Uint32(lengthBuf))
	if _, err := io.ReadFull(conn, data); err != nil {
		return nil, err
	}
	return data, nil
}

// startTestServer starts a server on a fresh socket path
func startTestServer(t *testing.T, socketPath string) *SocketServer {
	t.Helper()
	core := NewTaskListCore()
	server := NewSocketServer(socketPath, core)
	if err := server.Start(); err != nil {
		t.Fatalf("Failed to start socket server: %v", err)
	}
	t.Cleanup(func() {
		server.Stop()
		os.Remove(socketPath)
	})

	// Give server time to start accepting connections
	time.Sleep(100 * time.Millisecond)
	return server
}

// TestSocketServerStart tests that the socket server starts correctly
func TestSocketServerStart(t *testing.T) {
	socketPath := "/tmp/test_tasklist_1.sock"
	startTestServer(t, socketPath)

	if _, err := os.Stat(socketPath); err != nil {
		t.Fatalf("Socket file not created: %v", err)
	}
}

// TestSocketConnection tests basic client connection
func TestSocketConnection(t *testing.T) {
	socketPath := "/tmp/test_tasklist_2.sock"
	startTestServer(t, socketPath)

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to connect to socket: %v", err)
	}
	defer conn.Close()
}

// TestLengthPrefixedProtocol tests the length-prefixed message protocol
func TestLengthPrefixedProtocol(t *testing.T) {
	socketPath := "/tmp/test_tasklist_3.sock"
	startTestServer(t, socketPath)

	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to connect to socket: %v", err)
	}
	defer conn.Close()

	if err := sendMessage(conn, []byte(`{"action":"ping","params":{}}`)); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	response, err := receiveMessage(conn)
	if err != nil {
		t.Fatalf("Failed to receive message: %v", err)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(response, &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	if success, ok := resp["success"].(bool); !ok || !success {
		t.Errorf("Expected successful response, got: %v", resp)
	}
}

// TestSocketProcessCommand tests one-shot processing through the socket
func TestSocketProcessCommand(t *testing.T) {
	socketPath := "/tmp/test_tasklist_4.sock"
	startTestServer(t, socketPath)

	client, err := NewSocketClient(socketPath)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	cmd, _ := json.Marshal(map[string]interface{}{
		"action": "process",
		"params": map[string]interface{}{
			"html": `<ul><li>[ ] a</li><li>[x] b</li></ul>`,
		},
	})
	resp, err := client.Execute(string(cmd))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if success, _ := resp["success"].(bool); !success {
		t.Fatalf("process failed: %v", resp["error"])
	}
	result := resp["result"].(map[string]interface{})
	items, ok := result["items"].([]interface{})
	if !ok || len(items) != 2 {
		t.Errorf("Got items %v, want 2 records", result["items"])
	}
	if html, _ := result["html"].(string); !strings.Contains(html, "task-list-item-checkbox") {
		t.Errorf("Markup was not rewritten: %v", result["html"])
	}
}

// TestRemoteTaskListParity tests the TaskListCommands implementation
// backed by the socket against the behavior of the direct core
func TestRemoteTaskListParity(t *testing.T) {
	socketPath := "/tmp/test_tasklist_5.sock"
	startTestServer(t, socketPath)

	client, err := NewSocketClient(socketPath)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer client.Close()

	var remote TaskListCommands = NewRemoteTaskList(client)

	input := `<ul><li>[ ] a</li><li>[x] b</li><li>[ ] c</li></ul>`
	if err := remote.SetInputHTML(input); err != nil {
		t.Fatalf("SetInputHTML failed: %v", err)
	}

	if got := remote.GetInputHTML(); got != input {
		t.Errorf("GetInputHTML = %q, want %q", got, input)
	}

	items := remote.GetItems()
	if len(items) != 3 {
		t.Fatalf("Got %d item(s), want 3", len(items))
	}
	if items[0].State != TaskIncomplete || items[1].State != TaskComplete || items[2].State != TaskIncomplete {
		t.Errorf("Items out of order: %+v", items)
	}
	if items[1].SourceText != "[x] b" {
		t.Errorf("SourceText = %q, want %q", items[1].SourceText, "[x] b")
	}

	summary := remote.GetSummary()
	if summary.Total != 3 || summary.Complete != 1 || summary.Incomplete != 2 {
		t.Errorf("Summary = %+v, want total 3, complete 1, incomplete 2", summary)
	}

	if !strings.Contains(remote.GetOutputHTML(), "task-list-item-checkbox") {
		t.Error("GetOutputHTML did not return rewritten markup")
	}

	remote.Reset()
	if remote.GetInputHTML() != "" || len(remote.GetItems()) != 0 {
		t.Error("Reset did not clear the remote core")
	}
}

// TestMultipleClients tests that two clients can share one server
func TestMultipleClients(t *testing.T) {
	socketPath := "/tmp/test_tasklist_6.sock"
	startTestServer(t, socketPath)

	first, err := NewSocketClient(socketPath)
	if err != nil {
		t.Fatalf("First client failed to connect: %v", err)
	}
	defer first.Close()

	second, err := NewSocketClient(socketPath)
	if err != nil {
		t.Fatalf("Second client failed to connect: %v", err)
	}
	defer second.Close()

	// State set by the first client is visible to the second
	if err := NewRemoteTaskList(first).SetInputHTML(`<ul><li>[x] shared</li></ul>`); err != nil {
		t.Fatalf("SetInputHTML failed: %v", err)
	}

	summary := NewRemoteTaskList(second).GetSummary()
	if summary.Total != 1 || summary.Complete != 1 {
		t.Errorf("Summary = %+v, want total 1, complete 1", summary)
	}
}
