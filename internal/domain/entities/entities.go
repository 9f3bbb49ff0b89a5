// Package entities contains core business entities.
// These are plain domain values - no knowledge of Discord, Wikipedia or any model API.
package entities

import "strings"

// Command is the name of a slash command handled by the bot.
type Command string

const (
	CommandWiki Command = "wiki"
	CommandAsk  Command = "ask"
)

// Valid reports whether the command is one the router knows how to dispatch.
func (c Command) Valid() bool {
	return c == CommandWiki || c == CommandAsk
}

// Invocation is a single user interaction, consumed once and discarded.
// The response channel travels next to it as a ports.Responder.
type Invocation struct {
	ID       string // Correlation ID for logs and traces
	Command  Command
	Argument string // Query for wiki, question for ask
	UserID   string
}

// HasArgument reports whether the argument carries any non-whitespace text.
func (inv Invocation) HasArgument() bool {
	return strings.TrimSpace(inv.Argument) != ""
}

// Page is an encyclopedia lookup result. Never cached.
type Page struct {
	Exists  bool
	Title   string
	Summary string
	URL     string
}

// SummarySource tells which branch of the summarization ladder produced a result.
type SummarySource string

const (
	SourceGenerated SummarySource = "generated"
	SourceTruncated SummarySource = "truncated"
	SourceError     SummarySource = "error"
)

// SummaryResult is a bounded summary of a page.
type SummaryResult struct {
	Source SummarySource
	Text   string
}
