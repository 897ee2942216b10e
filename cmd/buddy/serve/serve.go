// Package servecmder provides the serve command that runs the chat API server.
package servecmder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/globalbuddy/buddy/api"
	"github.com/globalbuddy/buddy/pkg/config"
	"github.com/globalbuddy/buddy/pkg/convlog"
	"github.com/globalbuddy/buddy/pkg/eventstream"
	"github.com/globalbuddy/buddy/pkg/eventstream/kafka"
	"github.com/globalbuddy/buddy/pkg/eventstream/nop"
	"github.com/globalbuddy/buddy/pkg/llm/provider"
	"github.com/globalbuddy/buddy/pkg/logger"
	"github.com/globalbuddy/buddy/pkg/scenario"
	"github.com/globalbuddy/buddy/pkg/storage"
	"github.com/globalbuddy/buddy/pkg/storage/inmemory"
	"github.com/globalbuddy/buddy/pkg/storage/postgres"
	"github.com/globalbuddy/buddy/pkg/storage/sqlite"
	"github.com/globalbuddy/buddy/relay"
)

// ConvLogDisabled is the --log-dir value that turns the conversation log off.
const ConvLogDisabled = "-"

type ServeCommander struct {
	listen       string
	allowOrigins string
	providerType string
	model        string
	upstream     string
	apiKey       string
	sqlitePath   string
	postgresDSN  string
	logDir       string
	logFile      string
	brokers      string
	topic        string
	scenarios    string
	workers      uint
	queueSize    uint
	debug        bool

	logger *slog.Logger
}

var serveFlags = []string{
	config.FlagListen,
	config.FlagAllowOrigins,
	config.FlagProvider,
	config.FlagModel,
	config.FlagUpstream,
	config.FlagAPIKey,
	config.FlagSQLite,
	config.FlagPostgres,
	config.FlagLogDir,
	config.FlagLogFile,
	config.FlagKafkaBrokers,
	config.FlagKafkaTopic,
	config.FlagScenarios,
	config.FlagWorkers,
	config.FlagQueueSize,
}

const serveLongDesc string = `Run the buddy chat API server.

The server relays chat sessions to the configured generation provider and
records every answered turn: a plain-text conversation log per session under
--log-dir, the transcript store (SQLite, PostgreSQL or in-memory) and,
when --kafka-brokers is set, a turn event stream.

Flags override environment variables (BUDDY_SERVER_LISTEN,
BUDDY_MODEL_PROVIDER, ...), which override .buddy/config.toml.

Examples:
  buddy serve
  buddy serve --provider ollama --model gemma3:4b
  buddy serve --sqlite ./buddy.db --scenarios ./scenarios.toml`

const serveShortDesc string = "Run the chat API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			configDir, _ := cmd.Flags().GetString("config-dir")
			v, err := config.InitViper(configDir)
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			config.BindRegisteredFlags(v, cmd, config.Flags, serveFlags)
			cmder.load(v)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			return cmder.run(cmd.Context())
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagListen, &cmder.listen)
	config.AddStringFlag(cmd, config.Flags, config.FlagAllowOrigins, &cmder.allowOrigins)
	config.AddStringFlag(cmd, config.Flags, config.FlagProvider, &cmder.providerType)
	config.AddStringFlag(cmd, config.Flags, config.FlagModel, &cmder.model)
	config.AddStringFlag(cmd, config.Flags, config.FlagUpstream, &cmder.upstream)
	config.AddStringFlag(cmd, config.Flags, config.FlagAPIKey, &cmder.apiKey)
	config.AddStringFlag(cmd, config.Flags, config.FlagSQLite, &cmder.sqlitePath)
	config.AddStringFlag(cmd, config.Flags, config.FlagPostgres, &cmder.postgresDSN)
	config.AddStringFlag(cmd, config.Flags, config.FlagLogDir, &cmder.logDir)
	config.AddStringFlag(cmd, config.Flags, config.FlagLogFile, &cmder.logFile)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaBrokers, &cmder.brokers)
	config.AddStringFlag(cmd, config.Flags, config.FlagKafkaTopic, &cmder.topic)
	config.AddStringFlag(cmd, config.Flags, config.FlagScenarios, &cmder.scenarios)
	config.AddUintFlag(cmd, config.Flags, config.FlagWorkers, &cmder.workers)
	config.AddUintFlag(cmd, config.Flags, config.FlagQueueSize, &cmder.queueSize)

	return cmd
}

// load resolves every setting through the flag > env > file > default chain.
func (c *ServeCommander) load(v *viper.Viper) {
	c.listen = v.GetString("server.listen")
	c.allowOrigins = v.GetString("server.allow_origins")
	c.workers = v.GetUint("server.workers")
	c.queueSize = v.GetUint("server.queue_size")
	c.providerType = v.GetString("model.provider")
	c.model = v.GetString("model.name")
	c.upstream = v.GetString("model.upstream")
	c.apiKey = v.GetString("model.api_key")
	c.sqlitePath = v.GetString("storage.sqlite_path")
	c.postgresDSN = v.GetString("storage.postgres_dsn")
	c.logDir = v.GetString("log.dir")
	c.logFile = v.GetString("log.file")
	c.brokers = v.GetString("events.brokers")
	c.topic = v.GetString("events.topic")
	c.scenarios = v.GetString("scenarios.file")
}

func (c *ServeCommander) run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	closeLog, err := c.setupLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	driver, err := c.newStorageDriver(ctx)
	if err != nil {
		return err
	}
	defer driver.Close()

	publisher, err := c.newPublisher()
	if err != nil {
		return err
	}
	defer publisher.Close()

	catalog, err := scenario.LoadFile(c.scenarios)
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}

	prov, err := provider.New(ctx, provider.Config{
		Type:     c.providerType,
		Model:    c.model,
		APIKey:   c.apiKey,
		Upstream: c.upstream,
	})
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}

	r, err := relay.New(relay.Config{
		Catalog:    catalog,
		Provider:   prov,
		Model:      c.model,
		ConvLog:    c.newConvLog(),
		Driver:     driver,
		Publisher:  publisher,
		NumWorkers: c.workers,
		QueueSize:  c.queueSize,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("creating relay: %w", err)
	}
	defer r.Close()

	if c.scenarios != "" {
		go func() {
			err := scenario.Watch(ctx, c.scenarios, c.logger, r.SetCatalog)
			if err != nil && !errors.Is(err, context.Canceled) {
				c.logger.Warn("scenario watcher stopped", "error", err)
			}
		}()
	}

	server := api.NewServer(api.Config{
		ListenAddr:   c.listen,
		AllowOrigins: c.allowOrigins,
	}, r, driver, c.logger)

	c.logger.Info("starting buddy server",
		"listen", c.listen,
		"provider", prov.Name(),
		"scenarios", catalog.Len(),
	)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		c.logger.Info("shutting down")
		return server.Shutdown()
	}
}

// setupLogger builds the pretty terminal logger and, with --log-file, tees
// records as JSON into that file.
func (c *ServeCommander) setupLogger() (func(), error) {
	pretty := logger.New(logger.WithDebug(c.debug), logger.WithPretty(true))
	if c.logFile == "" {
		c.logger = pretty
		return func() {}, nil
	}

	f, err := os.OpenFile(c.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	c.logger = logger.Multi(
		pretty,
		logger.New(logger.WithDebug(c.debug), logger.WithJSON(true), logger.WithWriter(f)),
	)
	return func() { _ = f.Close() }, nil
}

func (c *ServeCommander) newStorageDriver(ctx context.Context) (storage.Driver, error) {
	switch {
	case c.postgresDSN != "":
		driver, err := postgres.NewDriver(ctx, c.postgresDSN)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL storer: %w", err)
		}
		c.logger.Info("using PostgreSQL storage")
		return driver, nil

	case c.sqlitePath != "":
		driver, err := sqlite.NewDriver(ctx, c.sqlitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite storer: %w", err)
		}
		c.logger.Info("using SQLite storage", "path", c.sqlitePath)
		return driver, nil

	default:
		c.logger.Info("using in-memory storage")
		return inmemory.NewDriver(), nil
	}
}

func (c *ServeCommander) newPublisher() (eventstream.Publisher, error) {
	brokers := splitList(c.brokers)
	if len(brokers) == 0 {
		return nop.NewPublisher(), nil
	}

	p, err := kafka.NewPublisher(kafka.Config{
		Brokers: brokers,
		Topic:   c.topic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}

	c.logger.Info("publishing turn events", "brokers", brokers, "topic", p.Topic())
	return p, nil
}

func (c *ServeCommander) newConvLog() *convlog.Log {
	if c.logDir == "" || c.logDir == ConvLogDisabled {
		return nil
	}
	return convlog.New(c.logDir, convlog.WithLogger(c.logger))
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
