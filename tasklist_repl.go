package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
)

// REPLFormatter handles output formatting
type REPLFormatter struct {
	useColor bool
}

// NewREPLFormatter creates a new formatter
func NewREPLFormatter(useColor bool) *REPLFormatter {
	return &REPLFormatter{useColor: useColor}
}

// PrintSuccess prints a success message
func (f *REPLFormatter) PrintSuccess(message string) {
	if f.useColor {
		color.Green("✓ %s\n", message)
	} else {
		fmt.Printf("✓ %s\n", message)
	}
}

// PrintError prints an error message
func (f *REPLFormatter) PrintError(message string) {
	if f.useColor {
		color.Red("✗ Error: %s\n", message)
	} else {
		fmt.Printf("✗ Error: %s\n", message)
	}
}

// PrintInfo prints an info message
func (f *REPLFormatter) PrintInfo(message string) {
	if f.useColor {
		color.Cyan("ℹ %s\n", message)
	} else {
		fmt.Printf("ℹ %s\n", message)
	}
}

// PrintTable prints a formatted ASCII table
func (f *REPLFormatter) PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	// Print header
	for i, h := range headers {
		fmt.Printf("%-*s", widths[i], h)
		if i < len(headers)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	// Print separator
	for i := range headers {
		for j := 0; j < widths[i]; j++ {
			fmt.Print("-")
		}
		if i < len(headers)-1 {
			fmt.Print("  ")
		}
	}
	fmt.Println()

	// Print rows
	for _, row := range rows {
		for i, cell := range row {
			fmt.Printf("%-*s", widths[i], cell)
			if i < len(headers)-1 {
				fmt.Print("  ")
			}
		}
		fmt.Println()
	}
}

// PrintJSON prints formatted JSON
func (f *REPLFormatter) PrintJSON(data interface{}) {
	jsonBytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		f.PrintError("Failed to format JSON: " + err.Error())
		return
	}
	fmt.Println(string(jsonBytes))
}

// PrintItems prints the task items as a table
func (f *REPLFormatter) PrintItems(items []TaskItem) {
	if len(items) == 0 {
		f.PrintInfo("No task items")
		return
	}

	rows := make([][]string, 0, len(items))
	for i, item := range items {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			string(item.State),
			truncate(item.SourceText, 60),
		})
	}
	f.PrintTable([]string{"#", "STATE", "SOURCE"}, rows)
}

// PrintSummary prints the per-state counts
func (f *REPLFormatter) PrintSummary(s Summary) {
	f.PrintTable(
		[]string{"TOTAL", "COMPLETE", "INCOMPLETE"},
		[][]string{{
			fmt.Sprintf("%d", s.Total),
			fmt.Sprintf("%d", s.Complete),
			fmt.Sprintf("%d", s.Incomplete),
		}},
	)
}

// truncate shortens a string for table display
func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// REPLSession drives the interactive shell over any TaskListCommands
// implementation, local core or socket client alike.
type REPLSession struct {
	commands  TaskListCommands
	formatter *REPLFormatter
}

// NewREPLSession creates a REPL session
func NewREPLSession(commands TaskListCommands, useColor bool) *REPLSession {
	return &REPLSession{
		commands:  commands,
		formatter: NewREPLFormatter(useColor),
	}
}

const replPrompt = "tasklist> "

// Run starts the REPL loop and blocks until the user exits
func (rs *REPLSession) Run() error {
	rl, err := readline.New(replPrompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	color.Cyan("go-tasklist REPL\n")
	color.Cyan("Type 'help' for available commands\n\n")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err != nil {
			// readline returns io.EOF as a simple string, not the io.EOF constant
			if err.Error() == "EOF" {
				fmt.Println()
				break
			}
			rs.formatter.PrintError(err.Error())
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if done := rs.execute(line, rl); done {
			break
		}
	}

	rs.formatter.PrintInfo("Goodbye!")
	return nil
}

// execute runs one REPL command line; returns true when the session ends
func (rs *REPLSession) execute(line string, rl *readline.Instance) bool {
	fields := strings.Fields(line)
	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "help":
		rs.printHelp()

	case "load":
		if len(args) != 1 {
			rs.formatter.PrintError("usage: load <file>")
			return false
		}
		rs.loadFile(args[0])

	case "set":
		rs.setInput(line, rl)

	case "show":
		if len(args) != 1 {
			rs.formatter.PrintError("usage: show input|output")
			return false
		}
		switch strings.ToLower(args[0]) {
		case "input":
			fmt.Println(rs.commands.GetInputHTML())
		case "output":
			fmt.Println(rs.commands.GetOutputHTML())
		default:
			rs.formatter.PrintError("show requires 'input' or 'output'")
		}

	case "items":
		rs.formatter.PrintItems(rs.commands.GetItems())

	case "json":
		rs.formatter.PrintJSON(rs.commands.GetItems())

	case "summary":
		rs.formatter.PrintSummary(rs.commands.GetSummary())

	case "write":
		if len(args) != 1 {
			rs.formatter.PrintError("usage: write <file>")
			return false
		}
		output := rs.commands.GetOutputHTML()
		if err := os.WriteFile(args[0], []byte(output), 0644); err != nil {
			rs.formatter.PrintError(err.Error())
			return false
		}
		rs.formatter.PrintSuccess("Wrote output to " + args[0])

	case "reset":
		rs.commands.Reset()
		rs.formatter.PrintSuccess("State cleared")

	case "quit", "exit":
		return true

	default:
		rs.formatter.PrintError("Unknown command: " + verb + " (try 'help')")
	}
	return false
}

// loadFile reads an HTML file, normalizes its encoding and sets it as input
func (rs *REPLSession) loadFile(path string) {
	file, err := os.Open(path)
	if err != nil {
		rs.formatter.PrintError(err.Error())
		return
	}
	defer file.Close()

	input, err := decodeHTML(file)
	if err != nil {
		rs.formatter.PrintError(err.Error())
		return
	}

	if err := rs.commands.SetInputHTML(input); err != nil {
		rs.formatter.PrintError(err.Error())
		return
	}

	summary := rs.commands.GetSummary()
	rs.formatter.PrintSuccess(fmt.Sprintf("Loaded %s: %d task item(s)", path, summary.Total))
}

// setInput sets the input HTML from the command line or multiline entry
func (rs *REPLSession) setInput(line string, rl *readline.Instance) {
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "set"))

	var input string
	if rest != "" {
		input = rest
	} else {
		// Prompt for multiline input
		rs.formatter.PrintInfo("Enter HTML (end with blank line):")

		var lines []string
		rl.SetPrompt("")
		for {
			l, err := rl.Readline()
			if err == readline.ErrInterrupt {
				continue
			} else if err != nil {
				break
			}
			if strings.TrimSpace(l) == "" {
				break
			}
			lines = append(lines, l)
		}
		rl.SetPrompt(replPrompt)
		input = strings.Join(lines, "\n")
	}

	if err := rs.commands.SetInputHTML(input); err != nil {
		rs.formatter.PrintError(err.Error())
		return
	}

	summary := rs.commands.GetSummary()
	rs.formatter.PrintSuccess(fmt.Sprintf("Input set: %d task item(s)", summary.Total))
}

// printHelp lists the available commands
func (rs *REPLSession) printHelp() {
	rs.formatter.PrintTable(
		[]string{"COMMAND", "DESCRIPTION"},
		[][]string{
			{"load <file>", "Load an HTML file and rewrite its task lists"},
			{"set [html]", "Set input HTML inline or via multiline entry"},
			{"show input|output", "Print the input or rewritten HTML"},
			{"items", "List recognized task items"},
			{"json", "Print task items as JSON"},
			{"summary", "Print per-state item counts"},
			{"write <file>", "Write the rewritten HTML to a file"},
			{"reset", "Clear input, output and items"},
			{"quit", "Exit the REPL"},
		},
	)
}
