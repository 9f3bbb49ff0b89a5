// Package usecases - resolver.go turns a query into display text using the
// encyclopedia first and the generative model as fallback.
package usecases

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/0xcro3dile/wikibot-go/internal/domain/entities"
	"github.com/0xcro3dile/wikibot-go/internal/domain/ports"
)

const (
	// DefaultSummaryWords bounds page summaries.
	DefaultSummaryWords = 50

	// UnavailableMessage is returned verbatim whenever an answer needs the
	// generative model and none is configured.
	UnavailableMessage = "⚠️ The AI assistant is unavailable and no Wikipedia page was found."

	// TruncationMarker ends every deterministic summary.
	TruncationMarker = "..."

	// WarningMarker prefixes every user-visible failure.
	WarningMarker = "⚠️"

	answerSystemPrompt = "You are a helpful assistant. Answer concisely and factually."
	answerMaxTokens    = 300
	answerTemperature  = 0.5

	summarizeMaxTokens   = 150
	summarizeTemperature = 0.3
)

const tracerName = "github.com/0xcro3dile/wikibot-go/internal/domain/usecases"

// AnswerResolver resolves wiki lookups and direct questions.
// Holds no per-invocation state; safe for concurrent use.
type AnswerResolver struct {
	wiki   ports.Encyclopedia
	ai     AIMode
	logger *zap.Logger
	tracer trace.Tracer
}

// NewAnswerResolver creates an AnswerResolver with injected dependencies.
func NewAnswerResolver(wiki ports.Encyclopedia, ai AIMode, logger *zap.Logger) *AnswerResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerResolver{
		wiki:   wiki,
		ai:     ai,
		logger: logger,
		tracer: otel.Tracer(tracerName),
	}
}

// ResolvePage looks query up on the encyclopedia and renders the result.
func (r *AnswerResolver) ResolvePage(ctx context.Context, query string) string {
	ctx, span := r.tracer.Start(ctx, "wiki.resolve_page")
	defer span.End()

	page, err := r.wiki.FetchPage(ctx, query)
	if err != nil {
		markFailed(span, err)
		r.logger.Warn("encyclopedia lookup failed", zap.String("query", query), zap.Error(err))
		return fmt.Sprintf("%s Wikipedia lookup failed: %v", WarningMarker, err)
	}

	if !page.Exists {
		span.SetAttributes(attribute.String("wiki.branch", "missing"))
		if !r.ai.Enabled() {
			return UnavailableMessage
		}
		answer := r.AnswerQuestion(ctx, query)
		return fmt.Sprintf("❌ No Wikipedia page found for **%s**. Here's what I found instead:\n%s", query, answer)
	}

	summary := r.Summarize(ctx, page.Summary, DefaultSummaryWords)
	span.SetAttributes(
		attribute.String("wiki.branch", "found"),
		attribute.String("wiki.summary_source", string(summary.Source)),
	)
	return fmt.Sprintf("**%s**\n%s\n%s", page.Title, summary.Text, page.URL)
}

// AnswerQuestion asks the generative model directly.
func (r *AnswerResolver) AnswerQuestion(ctx context.Context, question string) string {
	if !r.ai.Enabled() {
		return UnavailableMessage
	}

	ctx, span := r.tracer.Start(ctx, "wiki.answer_question",
		trace.WithAttributes(attribute.String("ai.provider", r.ai.Provider())))
	defer span.End()

	reply, err := r.ai.generator.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: answerSystemPrompt,
		UserContent:  question,
		MaxTokens:    answerMaxTokens,
		Temperature:  answerTemperature,
	})
	if err != nil {
		markFailed(span, err)
		r.logger.Warn("question answering failed", zap.String("provider", r.ai.Provider()), zap.Error(err))
		return fmt.Sprintf("%s AI request failed: %v", WarningMarker, err)
	}
	return strings.TrimSpace(reply)
}

// Summarize bounds text to about maxWords words. With AI enabled the model
// writes the summary and a failure is reported as such; without AI the text
// is cut to its first maxWords tokens.
func (r *AnswerResolver) Summarize(ctx context.Context, text string, maxWords int) entities.SummaryResult {
	if maxWords <= 0 {
		maxWords = DefaultSummaryWords
	}
	if !r.ai.Enabled() {
		return entities.SummaryResult{
			Source: entities.SourceTruncated,
			Text:   truncateWords(text, maxWords),
		}
	}

	ctx, span := r.tracer.Start(ctx, "wiki.summarize",
		trace.WithAttributes(attribute.String("ai.provider", r.ai.Provider())))
	defer span.End()

	reply, err := r.ai.generator.Complete(ctx, ports.CompletionRequest{
		SystemPrompt: summarizePrompt(maxWords),
		UserContent:  text,
		MaxTokens:    summarizeMaxTokens,
		Temperature:  summarizeTemperature,
	})
	if err != nil {
		markFailed(span, err)
		r.logger.Warn("summarization failed", zap.String("provider", r.ai.Provider()), zap.Error(err))
		return entities.SummaryResult{
			Source: entities.SourceError,
			Text:   fmt.Sprintf("%s Summarization failed: %v", WarningMarker, err),
		}
	}
	return entities.SummaryResult{
		Source: entities.SourceGenerated,
		Text:   strings.TrimSpace(reply),
	}
}

func summarizePrompt(maxWords int) string {
	return fmt.Sprintf("Summarize the following text in %d words or less. Be concise and factual.", maxWords)
}

// truncateWords keeps the first maxWords whitespace-delimited tokens.
func truncateWords(text string, maxWords int) string {
	words := strings.Fields(text)
	if len(words) > maxWords {
		words = words[:maxWords]
	}
	return strings.Join(words, " ") + TruncationMarker
}

func markFailed(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
