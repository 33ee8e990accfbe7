package main

// TaskListCore is the headless core for task-list rewriting. It holds one
// input document at a time and reprocesses whenever the input changes.
type TaskListCore struct {
	inputHTML  string
	outputHTML string
	items      []TaskItem
	processErr error
}

// NewTaskListCore creates a new TaskListCore instance
func NewTaskListCore() *TaskListCore {
	return &TaskListCore{}
}

// ============================================================================
// Processing Methods
// ============================================================================

// SetInputHTML sets the input HTML and runs the task-list rewrite on it.
// A parse failure leaves the previous output and items cleared.
func (tc *TaskListCore) SetInputHTML(input string) error {
	tc.inputHTML = input
	tc.process()
	return tc.processErr
}

// process runs the rewrite over the current input and stores the results
func (tc *TaskListCore) process() {
	output, items, err := RewriteFragment(tc.inputHTML)
	if err != nil {
		tc.outputHTML = ""
		tc.items = nil
		tc.processErr = err
		return
	}
	tc.outputHTML = output
	tc.items = items
	tc.processErr = nil
}

// Reset clears the input, output and collected items
func (tc *TaskListCore) Reset() {
	tc.inputHTML = ""
	tc.outputHTML = ""
	tc.items = nil
	tc.processErr = nil
}

// ============================================================================
// Query Methods
// ============================================================================

// GetInputHTML returns the current input HTML
func (tc *TaskListCore) GetInputHTML() string {
	return tc.inputHTML
}

// GetOutputHTML returns the rewritten HTML for the current input
func (tc *TaskListCore) GetOutputHTML() string {
	return tc.outputHTML
}

// GetItems returns a copy of the recognized task items in document order
func (tc *TaskListCore) GetItems() []TaskItem {
	return append([]TaskItem{}, tc.items...)
}

// GetSummary returns the per-state counts for the recognized items
func (tc *TaskListCore) GetSummary() Summary {
	return Summarize(tc.items)
}
