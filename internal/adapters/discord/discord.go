// Package discord provides the Discord chat-platform adapter.
// Clean Architecture: Adapter driving the command router and implementing ports.Responder.
package discord

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/0xcro3dile/wikibot-go/internal/domain/entities"
	"github.com/0xcro3dile/wikibot-go/internal/domain/ports"
)

// Commands are the slash commands this bot registers.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        string(entities.CommandWiki),
		Description: "Search Wikipedia and get a short summary",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "query",
			Description: "Topic to look up",
			Required:    true,
		}},
	},
	{
		Name:        string(entities.CommandAsk),
		Description: "Ask the AI assistant a question",
		Options: []*discordgo.ApplicationCommandOption{{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "question",
			Description: "What do you want to know?",
			Required:    true,
		}},
	},
}

// Dispatcher handles one invocation; implemented by usecases.CommandRouter.
type Dispatcher interface {
	Dispatch(ctx context.Context, inv entities.Invocation, resp ports.Responder)
}

// interactionSession is the subset of *discordgo.Session used to answer interactions.
type interactionSession interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Gateway owns the Discord session and feeds slash commands to a Dispatcher.
type Gateway struct {
	session    *discordgo.Session
	dispatcher Dispatcher
	guildID    string
	logger     *zap.Logger
	newID      func() string

	ctx       context.Context
	connected atomic.Bool

	mu       sync.Mutex
	closing  bool
	inflight sync.WaitGroup
}

// NewGateway creates a gateway. The token is the bare bot token.
func NewGateway(token, guildID string, dispatcher Dispatcher, logger *zap.Logger) (*Gateway, error) {
	if token == "" {
		return nil, fmt.Errorf("discord token is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	return &Gateway{
		session:    session,
		dispatcher: dispatcher,
		guildID:    guildID,
		logger:     logger.Named("discord"),
		newID:      uuid.NewString,
		ctx:        context.Background(),
	}, nil
}

// Run opens the gateway connection and blocks until ctx is done. On shutdown
// it stops receiving events, then waits for in-flight invocations to send
// their follow-up before returning.
func (g *Gateway) Run(ctx context.Context) error {
	g.ctx = ctx
	g.initHandlers()

	if err := g.session.Open(); err != nil {
		return fmt.Errorf("discord open: %w", err)
	}
	<-ctx.Done()

	g.connected.Store(false)
	closeErr := g.session.Close()
	// Follow-ups go over REST, which keeps working after the websocket closes.
	g.drain()
	if closeErr != nil {
		return fmt.Errorf("discord close: %w", closeErr)
	}
	return nil
}

// drain refuses new invocations and waits for the running ones.
func (g *Gateway) drain() {
	g.mu.Lock()
	g.closing = true
	g.mu.Unlock()
	g.inflight.Wait()
}

// Connected reports whether the gateway websocket is currently up.
func (g *Gateway) Connected() bool {
	return g.connected.Load()
}

// RegisterCommands overwrites the bot's slash commands: first in the
// configured guild (visible immediately), then globally.
func (g *Gateway) RegisterCommands() error {
	app, err := g.session.Application("@me")
	if err != nil {
		return fmt.Errorf("discord application lookup: %w", err)
	}

	if g.guildID != "" {
		if _, err := g.session.ApplicationCommandBulkOverwrite(app.ID, g.guildID, Commands); err != nil {
			return fmt.Errorf("registering guild commands: %w", err)
		}
		g.logger.Info("slash commands synced", zap.String("scope", "guild"), zap.String("guild_id", g.guildID))
	}

	if _, err := g.session.ApplicationCommandBulkOverwrite(app.ID, "", Commands); err != nil {
		return fmt.Errorf("registering global commands: %w", err)
	}
	g.logger.Info("slash commands synced", zap.String("scope", "global"))
	return nil
}

func (g *Gateway) initHandlers() {
	g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		g.connected.Store(true)
		g.logger.Info("bot is online", zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
	})
	g.session.AddHandler(func(s *discordgo.Session, r *discordgo.Resumed) {
		g.connected.Store(true)
	})
	g.session.AddHandler(func(s *discordgo.Session, d *discordgo.Disconnect) {
		g.connected.Store(false)
		g.logger.Warn("gateway disconnected")
	})
	g.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		g.handleInteraction(s, i)
	})
}

func (g *Gateway) handleInteraction(s interactionSession, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	g.mu.Lock()
	if g.closing {
		g.mu.Unlock()
		g.logger.Warn("interaction dropped during shutdown", zap.String("interaction_id", i.ID))
		return
	}
	g.inflight.Add(1)
	g.mu.Unlock()
	defer g.inflight.Done()

	data := i.ApplicationCommandData()

	inv := entities.Invocation{
		ID:       g.newID(),
		Command:  entities.Command(data.Name),
		Argument: commandArgument(data),
		UserID:   interactionUserID(i.Interaction),
	}
	// Shutdown must not cancel an invocation that was already received: it
	// runs to completion or to a caught failure, then gets its follow-up.
	ctx := context.WithoutCancel(g.ctx)
	g.dispatcher.Dispatch(ctx, inv, &interactionResponder{session: s, interaction: i.Interaction})
}

// commandArgument returns the query/question option, or the first string option.
func commandArgument(data discordgo.ApplicationCommandInteractionData) string {
	var first string
	for _, opt := range data.Options {
		if opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}
		if opt.Name == "query" || opt.Name == "question" {
			return opt.StringValue()
		}
		if first == "" {
			first = opt.StringValue()
		}
	}
	return first
}

func interactionUserID(i *discordgo.Interaction) string {
	switch {
	case i.Member != nil && i.Member.User != nil:
		return i.Member.User.ID
	case i.User != nil:
		return i.User.ID
	default:
		return ""
	}
}

// interactionResponder implements ports.Responder for one interaction.
type interactionResponder struct {
	session     interactionSession
	interaction *discordgo.Interaction
}

func (r *interactionResponder) Defer(ctx context.Context) error {
	return r.session.InteractionRespond(r.interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}, discordgo.WithContext(ctx))
}

func (r *interactionResponder) FollowUp(ctx context.Context, text string) error {
	_, err := r.session.FollowupMessageCreate(r.interaction, true, &discordgo.WebhookParams{
		Content: text,
		// Model output must never ping @everyone or roles.
		AllowedMentions: &discordgo.MessageAllowedMentions{Parse: []discordgo.AllowedMentionType{}},
	}, discordgo.WithContext(ctx))
	return err
}
