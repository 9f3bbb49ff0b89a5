package usecases

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/wikibot-go/internal/domain/entities"
)

func newWiki() *mockEncyclopedia {
	return &mockEncyclopedia{pages: map[string]entities.Page{"Albert Einstein": einstein}}
}

func TestResolvePage_FoundWithAI(t *testing.T) {
	gen := &mockGenerator{reply: "A physicist who developed relativity."}
	r := NewAnswerResolver(newWiki(), AIEnabled(gen), nil)

	out := r.ResolvePage(context.Background(), "Albert Einstein")

	assert.True(t, strings.HasPrefix(out, "**Albert Einstein**"), out)
	assert.True(t, strings.HasSuffix(out, "https://en.wikipedia.org/wiki/Albert_Einstein"), out)
	assert.Contains(t, out, "A physicist who developed relativity.")
	assert.NotContains(t, out, TruncationMarker)

	require.Equal(t, 1, gen.calls())
	req := gen.requests[0]
	assert.Equal(t, einstein.Summary, req.UserContent)
	assert.Contains(t, req.SystemPrompt, "50 words")
	assert.Equal(t, summarizeMaxTokens, req.MaxTokens)
	assert.InDelta(t, 0.3, req.Temperature, 1e-9)
}

func TestResolvePage_FoundWithoutAI(t *testing.T) {
	r := NewAnswerResolver(newWiki(), AIDisabled(), nil)

	out := r.ResolvePage(context.Background(), "Albert Einstein")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "**Albert Einstein**", lines[0])
	assert.Equal(t, einstein.URL, lines[2])

	summary := lines[1]
	require.True(t, strings.HasSuffix(summary, TruncationMarker))
	words := strings.Fields(strings.TrimSuffix(summary, TruncationMarker))
	assert.LessOrEqual(t, len(words), DefaultSummaryWords)
	assert.Equal(t, strings.Fields(einstein.Summary)[:len(words)], words)
}

func TestResolvePage_MissingWithoutAI(t *testing.T) {
	r := NewAnswerResolver(newWiki(), AIDisabled(), nil)

	out := r.ResolvePage(context.Background(), "asdkfjasldkfj9999")

	assert.Equal(t, UnavailableMessage, out)
}

func TestResolvePage_MissingWithAI(t *testing.T) {
	gen := &mockGenerator{reply: "There is no such topic; it looks like random keystrokes."}
	r := NewAnswerResolver(newWiki(), AIEnabled(gen), nil)

	out := r.ResolvePage(context.Background(), "asdkfjasldkfj9999")

	assert.True(t, strings.HasPrefix(out, "❌ No Wikipedia page found for **asdkfjasldkfj9999**"), out)
	assert.True(t, strings.HasSuffix(out, "random keystrokes."), out)
	require.Equal(t, 1, gen.calls())
	assert.Equal(t, answerSystemPrompt, gen.requests[0].SystemPrompt)
	assert.Equal(t, "asdkfjasldkfj9999", gen.requests[0].UserContent)
}

func TestResolvePage_EncyclopediaError(t *testing.T) {
	wiki := &mockEncyclopedia{err: errors.New("connection refused")}
	gen := &mockGenerator{}
	r := NewAnswerResolver(wiki, AIEnabled(gen), nil)

	out := r.ResolvePage(context.Background(), "Go")

	assert.True(t, strings.HasPrefix(out, WarningMarker), out)
	assert.Contains(t, out, "connection refused")
	assert.Zero(t, gen.calls(), "no AI fallback on lookup failure")
}

func TestResolvePage_SummarizationTransportError(t *testing.T) {
	gen := &mockGenerator{err: errors.New("dial tcp: i/o timeout")}
	r := NewAnswerResolver(newWiki(), AIEnabled(gen), nil)

	out := r.ResolvePage(context.Background(), "Albert Einstein")

	assert.Contains(t, out, WarningMarker)
	assert.Contains(t, out, "dial tcp: i/o timeout")
	assert.NotContains(t, out, TruncationMarker)
	assert.NotContains(t, out, strings.Join(strings.Fields(einstein.Summary)[:5], " "))
}

func TestResolvePage_BranchSelectionIsStable(t *testing.T) {
	for _, mode := range []struct {
		name string
		ai   AIMode
	}{
		{"enabled", AIEnabled(&mockGenerator{})},
		{"disabled", AIDisabled()},
	} {
		t.Run(mode.name, func(t *testing.T) {
			r := NewAnswerResolver(newWiki(), mode.ai, nil)
			ctx := context.Background()

			assert.Equal(t, r.ResolvePage(ctx, "Albert Einstein"), r.ResolvePage(ctx, "Albert Einstein"))
			assert.Equal(t, r.ResolvePage(ctx, "nope"), r.ResolvePage(ctx, "nope"))
		})
	}
}

func TestAnswerQuestion_WithoutAI(t *testing.T) {
	r := NewAnswerResolver(newWiki(), AIDisabled(), nil)

	out := r.AnswerQuestion(context.Background(), "What is the boiling point of water?")

	assert.Equal(t, UnavailableMessage, out)
}

func TestAnswerQuestion_WithAI(t *testing.T) {
	gen := &mockGenerator{reply: "\n100 °C at sea level.\n"}
	r := NewAnswerResolver(newWiki(), AIEnabled(gen), nil)

	out := r.AnswerQuestion(context.Background(), "What is the boiling point of water?")

	assert.Equal(t, "100 °C at sea level.", out)
	require.Equal(t, 1, gen.calls())
	assert.Equal(t, answerMaxTokens, gen.requests[0].MaxTokens)
	assert.InDelta(t, 0.5, gen.requests[0].Temperature, 1e-9)
}

func TestAnswerQuestion_Error(t *testing.T) {
	gen := &mockGenerator{err: errors.New("openai returned status 500")}
	r := NewAnswerResolver(newWiki(), AIEnabled(gen), nil)

	out := r.AnswerQuestion(context.Background(), "why?")

	assert.True(t, strings.HasPrefix(out, WarningMarker), out)
	assert.Contains(t, out, "openai returned status 500")
}

func TestSummarize_Truncates(t *testing.T) {
	r := NewAnswerResolver(newWiki(), AIDisabled(), nil)

	got := r.Summarize(context.Background(), "one  two\tthree\nfour five", 3)

	assert.Equal(t, entities.SourceTruncated, got.Source)
	assert.Equal(t, "one two three...", got.Text)
}

func TestSummarize_ShortTextKeepsAllWords(t *testing.T) {
	r := NewAnswerResolver(newWiki(), AIDisabled(), nil)

	got := r.Summarize(context.Background(), "tiny text", 50)

	assert.Equal(t, "tiny text...", got.Text)
}

func TestSummarize_DefaultWordBound(t *testing.T) {
	r := NewAnswerResolver(newWiki(), AIDisabled(), nil)
	text := strings.Repeat("word ", 80)

	got := r.Summarize(context.Background(), text, 0)

	assert.Len(t, strings.Fields(strings.TrimSuffix(got.Text, TruncationMarker)), DefaultSummaryWords)
}

func TestSummarize_Generated(t *testing.T) {
	gen := &mockGenerator{reply: "  short summary \n"}
	r := NewAnswerResolver(newWiki(), AIEnabled(gen), nil)

	got := r.Summarize(context.Background(), einstein.Summary, 20)

	assert.Equal(t, entities.SourceGenerated, got.Source)
	assert.Equal(t, "short summary", got.Text)
	assert.Contains(t, gen.requests[0].SystemPrompt, "20 words")
}

func TestSummarize_FailureNeverLooksTruncated(t *testing.T) {
	text := "The quick brown fox jumps over the lazy dog"
	failing := NewAnswerResolver(newWiki(), AIEnabled(&mockGenerator{err: errors.New("boom")}), nil)
	plain := NewAnswerResolver(newWiki(), AIDisabled(), nil)

	failed := failing.Summarize(context.Background(), text, 5)
	truncated := plain.Summarize(context.Background(), text, 5)

	assert.Equal(t, entities.SourceError, failed.Source)
	assert.Equal(t, entities.SourceTruncated, truncated.Source)
	assert.NotEqual(t, truncated.Text, failed.Text)
	assert.True(t, strings.HasPrefix(failed.Text, WarningMarker))
	assert.Contains(t, failed.Text, "boom")
}

func TestAIMode(t *testing.T) {
	assert.False(t, AIDisabled().Enabled())
	assert.Equal(t, "disabled", AIDisabled().Provider())
	assert.False(t, AIEnabled(nil).Enabled())

	mode := AIEnabled(&mockGenerator{})
	assert.True(t, mode.Enabled())
	assert.Equal(t, "mock", mode.Provider())
}
