package tools

import "strings"

// ContentBlock is one piece of tool output. Only text blocks are produced.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the outcome of a tool call. A failure is still a normal response
// carrying one text block; IsError marks it for clients that look.
type Result struct {
	Content []ContentBlock `json:"content"`
	IsError bool           `json:"isError,omitempty"`
}

// Success wraps text in a single text block.
func Success(text string) Result {
	return Result{Content: []ContentBlock{{Type: "text", Text: text}}}
}

// Failure renders message as "Error: <message>".
func Failure(message string) Result {
	return Result{
		Content: []ContentBlock{{Type: "text", Text: "Error: " + message}},
		IsError: true,
	}
}

// CommandFailure renders a process launch failure as "Command failed: <message>".
func CommandFailure(message string) Result {
	return Result{
		Content: []ContentBlock{{Type: "text", Text: "Command failed: " + message}},
		IsError: true,
	}
}

// Text joins the text of all blocks.
func (r Result) Text() string {
	var b strings.Builder
	for _, c := range r.Content {
		b.WriteString(c.Text)
	}
	return b.String()
}
