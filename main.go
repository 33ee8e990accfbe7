package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fatih/color"
)

const appName = "go-tasklist"

func main() {
	inPath := flag.String("in", "", "input HTML file (default: stdin)")
	outPath := flag.String("out", "", "output HTML file (default: stdout)")
	itemsPath := flag.String("items", "", "write recognized task items as JSON to this file, '-' for stderr")
	summary := flag.Bool("summary", false, "print a task summary to stderr")
	document := flag.Bool("document", false, "emit a complete HTML document instead of a body fragment")
	replMode := flag.Bool("repl", false, "start the interactive REPL")
	socketPath := flag.String("socket", "", "serve the rewriting core on this Unix socket path")
	connectPath := flag.String("connect", "", "run the REPL against a server on this Unix socket path")
	flag.Parse()

	switch {
	case *socketPath != "":
		runServer(*socketPath)

	case *connectPath != "":
		client, err := NewSocketClient(*connectPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			os.Exit(1)
		}
		defer client.Close()

		session := NewREPLSession(NewRemoteTaskList(client), true)
		if err := session.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			os.Exit(1)
		}

	case *replMode:
		session := NewREPLSession(NewTaskListCore(), true)
		if err := session.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			os.Exit(1)
		}

	default:
		if err := runFilter(*inPath, *outPath, *itemsPath, *summary, *document); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", appName, err)
			os.Exit(1)
		}
	}
}

// runServer serves the rewriting core on a Unix socket until interrupted
func runServer(socketPath string) {
	core := NewTaskListCore()
	server := NewSocketServer(socketPath, core)
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start socket server: %v", err)
	}
	log.Printf("%s listening on %s", appName, socketPath)
	server.Wait()
}

// runFilter reads HTML, rewrites its task lists and writes the result,
// optionally emitting the item records and a summary on the side.
func runFilter(inPath, outPath, itemsPath string, summary, document bool) error {
	var in io.Reader = os.Stdin
	if inPath != "" {
		file, err := os.Open(inPath)
		if err != nil {
			return err
		}
		defer file.Close()
		in = file
	}

	input, err := decodeHTML(in)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var output string
	var items []TaskItem
	if document {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
		if err != nil {
			return err
		}
		items = RewriteTaskLists(doc)
		output, err = renderDocument(doc)
		if err != nil {
			return err
		}
	} else {
		output, items, err = RewriteFragment(input)
		if err != nil {
			return err
		}
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(output), 0644); err != nil {
			return err
		}
	} else {
		fmt.Println(output)
	}

	if itemsPath != "" {
		if err := writeItems(itemsPath, items); err != nil {
			return err
		}
	}

	if summary {
		printSummary(Summarize(items))
	}

	return nil
}

// writeItems marshals the task item records to a file or stderr
func writeItems(path string, items []TaskItem) error {
	if items == nil {
		items = []TaskItem{}
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}

	if path == "-" {
		fmt.Fprintln(os.Stderr, string(data))
		return nil
	}
	return os.WriteFile(path, data, 0644)
}

// printSummary writes a colored one-line summary to stderr
func printSummary(s Summary) {
	fmt.Fprintf(os.Stderr, "%d task item(s): %s, %s\n",
		s.Total,
		color.GreenString("%d complete", s.Complete),
		color.YellowString("%d incomplete", s.Incomplete),
	)
}
