package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/wikibot-go/internal/adapters/discord"
	"github.com/0xcro3dile/wikibot-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/wikibot-go/internal/adapters/llm"
	"github.com/0xcro3dile/wikibot-go/internal/adapters/wikipedia"
	"github.com/0xcro3dile/wikibot-go/internal/config"
	"github.com/0xcro3dile/wikibot-go/internal/domain/usecases"
	apphttp "github.com/0xcro3dile/wikibot-go/internal/infrastructure/http"
	"github.com/0xcro3dile/wikibot-go/internal/infrastructure/logging"
	"github.com/0xcro3dile/wikibot-go/internal/infrastructure/telemetry"
)

// app carries what every subcommand needs after PersistentPreRunE.
type app struct {
	configPath   string
	verbose      bool
	syncCommands bool

	cfg    config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "wikibot",
		Short: "Discord bot answering /wiki and /ask",
		Long: `wikibot answers two slash commands:

  /wiki query:<topic>     Wikipedia summary, or an AI answer when no page exists
  /ask  question:<text>   direct question to the AI assistant

The AI assistant is optional: without a provider key, summaries are truncated
and AI answers report that the assistant is unavailable.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Connect to Discord and answer slash commands (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
	serveCmd.Flags().BoolVar(&a.syncCommands, "sync-commands", true, "register slash commands before connecting")
	root.Flags().AddFlagSet(serveCmd.Flags())

	registerCmd := &cobra.Command{
		Use:   "register",
		Short: "Register the slash commands (guild and global) and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			gateway, err := discord.NewGateway(a.cfg.DiscordToken, a.cfg.GuildID, nil, a.logger)
			if err != nil {
				return err
			}
			return gateway.RegisterCommands()
		},
	}

	root.AddCommand(serveCmd, registerCmd)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, a.verbose)
	if err != nil {
		return err
	}
	a.cfg, a.logger = cfg, logger
	return nil
}

func (a *app) serve(ctx context.Context) error {
	shutdownTracing, err := telemetry.Setup(ctx, "wikibot", a.cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("tracing setup: %w", err)
	}
	defer shutdownTracing(context.Background())

	ai, err := a.aiMode(ctx)
	if err != nil {
		return err
	}

	wiki := wikipedia.NewWikipediaAdapter("", a.cfg.Wikipedia.Language, a.cfg.Wikipedia.UserAgent, a.cfg.HTTPTimeout)
	resolver := usecases.NewAnswerResolver(wiki, ai, a.logger)
	router := usecases.NewCommandRouter(resolver, a.logger)

	gateway, err := discord.NewGateway(a.cfg.DiscordToken, a.cfg.GuildID, router, a.logger)
	if err != nil {
		return err
	}
	if a.syncCommands {
		if err := gateway.RegisterCommands(); err != nil {
			// Commands registered by a previous run keep working.
			a.logger.Warn("slash command sync failed", zap.Error(err))
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return gateway.Run(gctx) })
	if a.cfg.HTTPAddr != "" {
		health := apphttp.NewServer(gateway, ai.Provider(), a.cfg.HTTPAddr, a.logger)
		g.Go(func() error { return health.Start(gctx) })
	}
	if a.configPath != "" {
		g.Go(func() error { return a.watchConfig(gctx) })
	}

	a.logger.Info("wikibot starting", zap.String("ai", ai.Provider()), zap.String("language", a.cfg.Wikipedia.Language))
	return g.Wait()
}

// aiMode picks the generative capability once for the process lifetime.
func (a *app) aiMode(ctx context.Context) (usecases.AIMode, error) {
	settings, err := a.cfg.LLMSettings()
	if err != nil {
		return usecases.AIDisabled(), err
	}
	if settings.Provider == "" {
		a.logger.Warn("no AI provider configured: summaries will be truncated and /ask is unavailable")
		return usecases.AIDisabled(), nil
	}

	gen, err := llm.NewGenerator(ctx, settings)
	if err != nil {
		return usecases.AIDisabled(), fmt.Errorf("AI provider %s: %w", settings.Provider, err)
	}
	return usecases.AIEnabled(gen), nil
}

// watchConfig logs edits to the config file. Configuration is never
// reloaded in-process; a restart applies the change.
func (a *app) watchConfig(ctx context.Context) error {
	watcher, err := filewatcher.NewFSNotifyWatcher(a.logger)
	if err != nil {
		a.logger.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	defer watcher.Stop()

	events, err := watcher.Watch(ctx, a.configPath)
	if err != nil {
		a.logger.Warn("config watcher unavailable", zap.Error(err))
		return nil
	}
	for event := range events {
		a.logger.Warn("config file changed on disk; restart to apply",
			zap.String("path", event.Path),
			zap.Stringer("operation", event.Operation))
	}
	return nil
}
