// Package ports defines interfaces for external dependencies.
// Clean Architecture: usecases depend on these abstractions, adapters implement them.
package ports

import (
	"context"

	"github.com/0xcro3dile/wikibot-go/internal/domain/entities"
)

// Encyclopedia looks up pages on an encyclopedia service.
type Encyclopedia interface {
	// FetchPage returns the page for query. A missing page is not an error:
	// it comes back with Exists == false.
	FetchPage(ctx context.Context, query string) (*entities.Page, error)
}

// TextGenerator produces text from a generative language model.
// Single Responsibility: one system+user exchange, no history.
type TextGenerator interface {
	// Complete runs one chat completion and returns the raw reply text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// Name identifies the provider (e.g. "openai", "gemini").
	Name() string
}

// CompletionRequest is a single-turn request to a TextGenerator.
type CompletionRequest struct {
	SystemPrompt string
	UserContent  string
	MaxTokens    int
	Temperature  float64
}

// Responder is the response channel of one invocation on the chat platform.
type Responder interface {
	// Defer sends the content-less acknowledgment that a reply is coming.
	Defer(ctx context.Context) error

	// FollowUp sends the content-bearing reply. Called at most once.
	FollowUp(ctx context.Context, text string) error
}

// ConfigWatcher monitors a file for changes.
type ConfigWatcher interface {
	// Watch starts monitoring path and emits events until ctx is done.
	Watch(ctx context.Context, path string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
