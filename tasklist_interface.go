package main

// TaskListCommands defines the interface for all task-list operations.
// Both TaskListCore (direct implementation) and RemoteTaskList (socket
// wrapper) implement this interface, ensuring feature parity between
// direct and socket-based access.
type TaskListCommands interface {
	// SetInputHTML sets the input HTML and rewrites its task lists
	SetInputHTML(input string) error

	// Reset clears the input, output and collected items
	Reset()

	// GetInputHTML returns the current input HTML
	GetInputHTML() string

	// GetOutputHTML returns the rewritten HTML for the current input
	GetOutputHTML() string

	// GetItems returns the recognized task items in document order
	GetItems() []TaskItem

	// GetSummary returns the per-state counts for the recognized items
	GetSummary() Summary
}
