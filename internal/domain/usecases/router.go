// Package usecases - router.go acknowledges, dispatches and answers one invocation.
package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/0xcro3dile/wikibot-go/internal/domain/entities"
	"github.com/0xcro3dile/wikibot-go/internal/domain/ports"
)

// MaxMessageLength is Discord's limit for message content, in characters.
const MaxMessageLength = 2000

const clampMarker = "…"

// Answerer is the part of AnswerResolver the router depends on.
type Answerer interface {
	ResolvePage(ctx context.Context, query string) string
	AnswerQuestion(ctx context.Context, question string) string
}

// CommandRouter turns each invocation into exactly one deferred
// acknowledgment followed by exactly one follow-up.
type CommandRouter struct {
	answerer  Answerer
	logger    *zap.Logger
	maxLength int
}

// NewCommandRouter creates a CommandRouter.
func NewCommandRouter(answerer Answerer, logger *zap.Logger) *CommandRouter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommandRouter{
		answerer:  answerer,
		logger:    logger,
		maxLength: MaxMessageLength,
	}
}

// Dispatch handles one invocation end to end. It never returns an error:
// failures become the follow-up text, or are logged when the platform itself
// cannot be reached.
func (r *CommandRouter) Dispatch(ctx context.Context, inv entities.Invocation, resp ports.Responder) {
	log := r.logger.With(
		zap.String("invocation_id", inv.ID),
		zap.String("command", string(inv.Command)),
		zap.String("user_id", inv.UserID),
	)
	start := time.Now()

	if err := resp.Defer(ctx); err != nil {
		// Without the acknowledgment the platform rejects follow-ups.
		log.Error("deferred acknowledgment failed", zap.Error(err))
		return
	}

	text := clampMessage(r.answer(ctx, inv, log), r.maxLength)

	if err := resp.FollowUp(ctx, text); err != nil {
		log.Error("follow-up delivery failed", zap.Error(err))
		return
	}
	log.Info("invocation answered",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("length", utf8.RuneCountInString(text)))
}

func (r *CommandRouter) answer(ctx context.Context, inv entities.Invocation, log *zap.Logger) (text string) {
	defer func() {
		if p := recover(); p != nil {
			log.Error("invocation panicked", zap.Any("panic", p))
			text = fmt.Sprintf("%s Something went wrong while handling /%s: %v", WarningMarker, inv.Command, p)
		}
	}()

	if !inv.Command.Valid() {
		log.Warn("unrecognized command")
		return fmt.Sprintf("%s Unknown command /%s.", WarningMarker, inv.Command)
	}
	if !inv.HasArgument() {
		return missingArgumentMessage(inv.Command)
	}

	arg := strings.TrimSpace(inv.Argument)
	switch inv.Command {
	case entities.CommandWiki:
		return r.answerer.ResolvePage(ctx, arg)
	default:
		return r.answerer.AnswerQuestion(ctx, arg)
	}
}

func missingArgumentMessage(cmd entities.Command) string {
	if cmd == entities.CommandAsk {
		return "Please provide a question."
	}
	return "Please provide a search query."
}

// clampMessage keeps text within limit characters.
func clampMessage(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit-utf8.RuneCountInString(clampMarker)]) + clampMarker
}
