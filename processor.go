package main

import (
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// Task marker tokens as they appear in rendered list items
const (
	markerIncomplete = "[ ]"
	markerComplete   = "[x]"
)

// CSS classes applied to rewritten elements
const (
	classTaskList     = "task-list"
	classTaskListItem = "task-list-item"
	classCheckbox     = "task-list-item-checkbox"
)

// taskMarkerPattern matches a task marker at the start of a list item's
// content: optional leading spaces, an optional bullet or "1."-style
// ordinal prefix, then exactly "[ ]" or "[x]" followed by whitespace.
// Matching is case-sensitive; "[X]" is not a task marker.
var taskMarkerPattern = regexp.MustCompile(`^[ \t]*(?:(?:[-*+]|[0-9]+\.)[ \t]*)?(\[[ x]\])\s`)

// TaskState describes whether a task item is complete
type TaskState string

const (
	TaskComplete   TaskState = "complete"
	TaskIncomplete TaskState = "incomplete"
)

// TaskItem is one recognized task-list entry. SourceText is the item's
// inner content before rewriting, marker token included.
type TaskItem struct {
	State      TaskState `json:"state"`
	SourceText string    `json:"source_text"`
}

// IsComplete reports whether the item's marker was "[x]"
func (ti TaskItem) IsComplete() bool {
	return ti.State == TaskComplete
}

// Summary counts task items by state
type Summary struct {
	Total      int `json:"total"`
	Complete   int `json:"complete"`
	Incomplete int `json:"incomplete"`
}

// Summarize tallies a slice of task items
func Summarize(items []TaskItem) Summary {
	s := Summary{Total: len(items)}
	for _, item := range items {
		if item.IsComplete() {
			s.Complete++
		} else {
			s.Incomplete++
		}
	}
	return s
}

// MarkerMatch reports where a task marker token matched inside an item's
// content. Start and End bound the token itself, not the bullet prefix,
// so the caller can splice a replacement over exactly the token.
type MarkerMatch struct {
	Token string
	Start int
	End   int
}

// State returns the task state the matched token denotes
func (m MarkerMatch) State() TaskState {
	if m.Token == markerComplete {
		return TaskComplete
	}
	return TaskIncomplete
}

// MatchTaskMarker applies the task marker pattern to a list item's inner
// content. Trailing whitespace is ignored and the pattern is anchored to
// the first line. Returns false when the content does not begin with a
// marker token followed by whitespace.
func MatchTaskMarker(content string) (MarkerMatch, bool) {
	trimmed := strings.TrimRight(content, " \t\r\n")
	idx := taskMarkerPattern.FindStringSubmatchIndex(trimmed)
	if idx == nil {
		return MarkerMatch{}, false
	}
	// idx[2]:idx[3] bound the token capture group. TrimRight only removes
	// bytes at the end, so the offsets are valid in the original content too.
	return MarkerMatch{Token: trimmed[idx[2]:idx[3]], Start: idx[2], End: idx[3]}, true
}

// CheckboxHTML returns the inert checkbox control that replaces a marker
// token. The checked attribute is present only for complete items.
func CheckboxHTML(state TaskState) string {
	if state == TaskComplete {
		return `<input type="checkbox" class="` + classCheckbox + `" checked="checked" disabled="disabled" />`
	}
	return `<input type="checkbox" class="` + classCheckbox + `" disabled="disabled" />`
}

// itemTarget returns the node whose content holds the marker: the list
// item's first direct paragraph child when the renderer wrapped the item
// text, otherwise the list item itself.
func itemTarget(li *goquery.Selection) *goquery.Selection {
	if p := li.ChildrenFiltered("p").First(); p.Length() > 0 {
		return p
	}
	return li
}

// targetHasMarker reports whether a list item's content begins with a
// task marker, in either bare or paragraph-wrapped form.
func targetHasMarker(li *goquery.Selection) bool {
	content, err := itemTarget(li).Html()
	if err != nil {
		return false
	}
	_, ok := MatchTaskMarker(content)
	return ok
}

// FindTaskLists returns the list containers (ul or ol) whose first list
// item begins with a task marker, in document order without duplicates.
// An empty selection is a normal outcome, not an error.
func FindTaskLists(doc *goquery.Document) *goquery.Selection {
	return doc.Find("ul, ol").FilterFunction(func(_ int, list *goquery.Selection) bool {
		first := list.ChildrenFiltered("li").First()
		if first.Length() == 0 {
			return false
		}
		return targetHasMarker(first)
	})
}

// rewriteTaskList rewrites one qualifying list in place and returns the
// recognized items in document order. Items are visited back to front so
// replacing a later item's content never invalidates an earlier, not yet
// visited sibling; records are prepended to restore forward order.
func rewriteTaskList(list *goquery.Selection) []TaskItem {
	list.AddClass(classTaskList)

	var items []TaskItem
	children := list.ChildrenFiltered("li")
	for i := children.Length() - 1; i >= 0; i-- {
		li := children.Eq(i)
		target := itemTarget(li)

		content, err := target.Html()
		if err != nil {
			continue
		}
		m, ok := MatchTaskMarker(content)
		if !ok {
			// Not a task item; leave it untouched and unrecorded
			continue
		}

		item := TaskItem{State: m.State(), SourceText: content}
		items = append([]TaskItem{item}, items...)

		li.AddClass(classTaskListItem)
		// Replace only the matched token; prefix text and trailing inline
		// content survive unchanged. SetHtml re-parses the fragment through
		// the UTF-8 HTML parser, so the spliced markup is interpreted under
		// the same encoding as the surrounding tree.
		target.SetHtml(content[:m.Start] + CheckboxHTML(item.State) + content[m.End:])
	}
	return items
}

// RewriteTaskLists locates every task list in the document and rewrites
// each one in place, returning all recognized items in document order.
// Lists are processed back to front: a bare-form item's inner HTML can
// contain a nested list, and rewriting the nested list first means its
// rewritten form is what the outer item's splice captures.
func RewriteTaskLists(doc *goquery.Document) []TaskItem {
	lists := FindTaskLists(doc)

	var all []TaskItem
	for i := lists.Length() - 1; i >= 0; i-- {
		all = append(rewriteTaskList(lists.Eq(i)), all...)
	}
	return all
}

// RewriteFragment parses an HTML fragment, rewrites its task lists and
// returns the rewritten fragment plus the recognized items.
func RewriteFragment(input string) (string, []TaskItem, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(input))
	if err != nil {
		return "", nil, err
	}

	items := RewriteTaskLists(doc)

	// The parser wraps fragments in html/body; the body's inner HTML is
	// the original fragment, rewritten.
	output, err := doc.Find("body").Html()
	if err != nil {
		return "", nil, err
	}
	return output, items, nil
}

// decodeHTML reads HTML and normalizes it to UTF-8, honoring a BOM or
// meta charset declaration, so the parser never sees mixed encodings.
func decodeHTML(r io.Reader) (string, error) {
	cr, err := charset.NewReader(r, "text/html")
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(cr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// renderDocument serializes the full document tree, for callers that fed
// in a complete document rather than a fragment.
func renderDocument(doc *goquery.Document) (string, error) {
	var sb strings.Builder
	for _, node := range doc.Nodes {
		if err := html.Render(&sb, node); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}
