package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go"

	"github.com/BTreeMap/CareRoute/internal/api"
	"github.com/BTreeMap/CareRoute/internal/classify"
	"github.com/BTreeMap/CareRoute/internal/coordinator"
	"github.com/BTreeMap/CareRoute/internal/events"
	"github.com/BTreeMap/CareRoute/internal/lockfile"
	"github.com/BTreeMap/CareRoute/internal/messaging"
	"github.com/BTreeMap/CareRoute/internal/pages"
	"github.com/BTreeMap/CareRoute/internal/session"
	"github.com/BTreeMap/CareRoute/internal/specialist"
	"github.com/BTreeMap/CareRoute/internal/telegram"
	"github.com/BTreeMap/CareRoute/internal/twiliowhatsapp"
	"github.com/BTreeMap/CareRoute/internal/util"
	"github.com/BTreeMap/CareRoute/internal/whatsapp"
)

// Default configuration constants
const (
	// DefaultStateDir is the default directory for CareRoute state data
	DefaultStateDir = "/var/lib/careroute"
	// DefaultEventsDBFileName is the default SQLite database filename for activity events
	DefaultEventsDBFileName = "careroute.db"
	// DefaultWhatsAppDBFileName is the default SQLite database filename for whatsmeow
	DefaultWhatsAppDBFileName = "whatsmeow.db"
)

func main() {
	// Initialize structured logger
	initializeLogger()

	// Load environment configuration
	config := loadEnvironmentConfig()

	// Parse command line flags
	flags := parseCommandLineFlags(config)

	// Ensure required directories exist
	if err := ensureDirectoriesExist(flags); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	// Guard the state directory against concurrent instances
	lock, err := lockfile.AcquireLock(*flags.stateDir)
	if err != nil {
		slog.Error("Failed to acquire state directory lock", "error", err)
		os.Exit(1)
	}
	defer lock.Release()

	slog.Info("Bootstrapping CareRoute with configured modules")
	slog.Debug("Final configuration",
		"state_dir", *flags.stateDir,
		"events_dsn_set", *flags.eventsDSN != "",
		"whatsapp_enabled", *flags.whatsappEnabled,
		"telegram_enabled", *flags.telegramToken != "",
		"twilio_enabled", config.TwilioSID != "",
		"api_addr", *flags.apiAddr)

	if err := run(flags, config); err != nil {
		slog.Error("CareRoute failed to run", "error", err)
		os.Exit(1)
	}
	slog.Info("CareRoute exited successfully")
}

// Config holds environment configuration
type Config struct {
	StateDir       string
	EventsDSN      string
	DatabaseURL    string
	WhatsAppDSN    string
	OpenAIKey      string
	OpenAIModel    string
	TelegramToken  string
	TwilioSID      string
	APIAddr        string
	SessionTimeout time.Duration
}

// Flags holds command line flag values
type Flags struct {
	qrOutput        *string
	numeric         *bool
	stateDir        *string
	eventsDSN       *string
	whatsappDSN     *string
	whatsappEnabled *bool
	openaiKey       *string
	telegramToken   *string
	apiAddr         *string
	sessionTimeout  *time.Duration
}

// initializeLogger sets up structured logging with debug level
func initializeLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	slog.SetDefault(logger)
}

// loadEnvironmentConfig loads configuration from environment variables and .env file
func loadEnvironmentConfig() Config {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	} else {
		slog.Debug("successfully loaded .env file")
	}

	config := Config{
		StateDir:       os.Getenv("CAREROUTE_STATE_DIR"),
		EventsDSN:      os.Getenv("EVENTS_DB_DSN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		WhatsAppDSN:    os.Getenv("WHATSAPP_DB_DSN"),
		OpenAIKey:      os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TwilioSID:      os.Getenv("TWILIO_ACCOUNT_SID"),
		APIAddr:        os.Getenv("API_ADDR"),
		SessionTimeout: util.ParseDurationEnv("SESSION_TIMEOUT", session.DefaultTimeout),
	}

	// Set default state directory if not specified
	if config.StateDir == "" {
		config.StateDir = DefaultStateDir
		slog.Debug("No CAREROUTE_STATE_DIR set, using default", "default_state_dir", config.StateDir)
	}

	// Default to the shared database URL if no specific events DSN is set
	if config.EventsDSN == "" {
		config.EventsDSN = config.DatabaseURL
	}
	if config.EventsDSN == "" {
		config.EventsDSN = filepath.Join(config.StateDir, DefaultEventsDBFileName)
		slog.Debug("No events DSN provided, defaulting to SQLite", "sqlite_path", config.EventsDSN)
	}

	if config.WhatsAppDSN == "" {
		config.WhatsAppDSN = filepath.Join(config.StateDir, DefaultWhatsAppDBFileName)
	}

	slog.Debug("environment variables loaded",
		"CAREROUTE_STATE_DIR", config.StateDir,
		"EVENTS_DB_DSN_SET", config.EventsDSN != "",
		"WHATSAPP_DB_DSN_SET", config.WhatsAppDSN != "",
		"OPENAI_API_KEY_SET", config.OpenAIKey != "",
		"TELEGRAM_BOT_TOKEN_SET", config.TelegramToken != "",
		"TWILIO_ACCOUNT_SID_SET", config.TwilioSID != "",
		"API_ADDR", config.APIAddr,
		"SESSION_TIMEOUT", config.SessionTimeout)

	return config
}

// parseCommandLineFlags parses command line arguments with environment defaults
func parseCommandLineFlags(config Config) Flags {
	flags := Flags{
		qrOutput:        flag.String("qr-output", "", "path to write WhatsApp login QR code"),
		numeric:         flag.Bool("numeric-code", false, "use numeric WhatsApp login code instead of QR code"),
		stateDir:        flag.String("state-dir", config.StateDir, "state directory for CareRoute data (overrides $CAREROUTE_STATE_DIR)"),
		eventsDSN:       flag.String("events-dsn", config.EventsDSN, "database DSN for activity events (overrides $EVENTS_DB_DSN or $DATABASE_URL)"),
		whatsappDSN:     flag.String("whatsapp-dsn", config.WhatsAppDSN, "database DSN for the whatsmeow session store (overrides $WHATSAPP_DB_DSN)"),
		whatsappEnabled: flag.Bool("whatsapp", util.ParseBoolEnv("WHATSAPP_ENABLED", false), "enable the live WhatsApp channel (overrides $WHATSAPP_ENABLED)"),
		openaiKey:       flag.String("openai-api-key", config.OpenAIKey, "OpenAI API key (overrides $OPENAI_API_KEY)"),
		telegramToken:   flag.String("telegram-token", config.TelegramToken, "Telegram bot token (overrides $TELEGRAM_BOT_TOKEN)"),
		apiAddr:         flag.String("api-addr", config.APIAddr, "API server address (overrides $API_ADDR)"),
		sessionTimeout:  flag.Duration("session-timeout", config.SessionTimeout, "inactivity timeout for sessions (overrides $SESSION_TIMEOUT)"),
	}

	flag.Parse()

	slog.Debug("flags parsed",
		"qrOutput", *flags.qrOutput,
		"numeric", *flags.numeric,
		"stateDir", *flags.stateDir,
		"eventsDSN_set", *flags.eventsDSN != "",
		"whatsappEnabled", *flags.whatsappEnabled,
		"openaiKeySet", *flags.openaiKey != "",
		"telegramTokenSet", *flags.telegramToken != "",
		"apiAddr", *flags.apiAddr,
		"sessionTimeout", *flags.sessionTimeout)

	// Follow the state directory when the default SQLite paths are in use
	if *flags.stateDir != config.StateDir {
		if *flags.eventsDSN == filepath.Join(config.StateDir, DefaultEventsDBFileName) {
			*flags.eventsDSN = filepath.Join(*flags.stateDir, DefaultEventsDBFileName)
		}
		if *flags.whatsappDSN == filepath.Join(config.StateDir, DefaultWhatsAppDBFileName) {
			*flags.whatsappDSN = filepath.Join(*flags.stateDir, DefaultWhatsAppDBFileName)
		}
	}

	return flags
}

// ensureDirectoriesExist creates necessary directories for file-based storage
func ensureDirectoriesExist(flags Flags) error {
	for _, dsn := range []string{*flags.eventsDSN, *flags.whatsappDSN} {
		if strings.Contains(dsn, "postgres://") || strings.Contains(dsn, "host=") {
			continue
		}
		dir := filepath.Dir(dsn)
		slog.Debug("Creating state directory for file-based database", "state_dir", dir)
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Error("Failed to create state directory", "error", err, "state_dir", dir)
			return err
		}
	}
	return nil
}

// buildEventSink selects the activity event sink based on the DSN.
func buildEventSink(dsn string) (events.Sink, error) {
	if strings.Contains(dsn, "postgres://") || strings.Contains(dsn, "host=") {
		slog.Debug("Detected PostgreSQL DSN, configuring PostgreSQL event sink")
		return events.NewPostgresSink(dsn)
	}
	slog.Debug("Detected SQLite DSN, configuring SQLite event sink", "db_path", dsn)
	return events.NewSQLiteSink(dsn)
}

// buildClassifier constructs the external classifier when an API key is set.
func buildClassifier(flags Flags, config Config) classify.Classifier {
	if *flags.openaiKey == "" {
		slog.Info("No OpenAI API key configured, using keyword fallback classifier only")
		return nil
	}
	opts := []classify.OpenAIOption{classify.WithAPIKey(*flags.openaiKey)}
	if config.OpenAIModel != "" {
		opts = append(opts, classify.WithModel(openai.ChatModel(config.OpenAIModel)))
	}
	classifier, err := classify.NewOpenAI(opts...)
	if err != nil {
		slog.Error("Failed to build OpenAI classifier, falling back to keywords", "error", err)
		return nil
	}
	return classifier
}

// buildWhatsAppOptions constructs WhatsApp configuration options
func buildWhatsAppOptions(flags Flags) []whatsapp.Option {
	var waOpts []whatsapp.Option
	if *flags.qrOutput != "" {
		waOpts = append(waOpts, whatsapp.WithQRCodeOutput(*flags.qrOutput))
	}
	if *flags.numeric {
		waOpts = append(waOpts, whatsapp.WithNumericCode())
	}
	if *flags.whatsappDSN != "" {
		waOpts = append(waOpts, whatsapp.WithDBDSN(*flags.whatsappDSN))
	}
	return waOpts
}

// run wires the routing engine to its channels and blocks until shutdown.
func run(flags Flags, config Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	graph, err := pages.Load()
	if err != nil {
		return err
	}
	registry, err := specialist.DefaultRegistry()
	if err != nil {
		return err
	}

	sink, err := buildEventSink(*flags.eventsDSN)
	if err != nil {
		return err
	}
	defer sink.Close()
	recorder := events.NewRecorder(events.WithSink(sink))
	go recorder.Run(ctx)

	sessions := session.NewStore(session.WithTimeout(*flags.sessionTimeout))
	go sessions.Run(ctx)

	coordOpts := []coordinator.Option{coordinator.WithRecorder(recorder)}
	if classifier := buildClassifier(flags, config); classifier != nil {
		coordOpts = append(coordOpts, coordinator.WithClassifier(classifier))
	}
	coord, err := coordinator.New(graph, sessions, registry, coordOpts...)
	if err != nil {
		return err
	}

	var services []messaging.Service

	if *flags.whatsappEnabled {
		waClient, err := whatsapp.NewClient(buildWhatsAppOptions(flags)...)
		if err != nil {
			return err
		}
		services = append(services, messaging.NewWhatsAppService(waClient))
	}

	if config.TwilioSID != "" {
		twilioClient, err := twiliowhatsapp.NewClient()
		if err != nil {
			return err
		}
		services = append(services, messaging.NewTwilioService(twilioClient))
	}

	if *flags.telegramToken != "" {
		tgService, err := telegram.NewService(
			telegram.WithToken(*flags.telegramToken),
			telegram.WithUpdateTimeout(util.ParseIntEnv("TELEGRAM_UPDATE_TIMEOUT", telegram.DefaultUpdateTimeout)),
		)
		if err != nil {
			return err
		}
		services = append(services, tgService)
	}

	var wg sync.WaitGroup
	for _, svc := range services {
		if err := svc.Start(ctx); err != nil {
			return err
		}
		wg.Add(1)
		go func(svc messaging.Service) {
			defer wg.Done()
			pumpInbound(ctx, svc, coord)
		}(svc)
	}

	var apiOpts []api.Option
	if *flags.apiAddr != "" {
		apiOpts = append(apiOpts, api.WithAddr(*flags.apiAddr))
	}
	for _, svc := range services {
		if twilioSvc, ok := svc.(*messaging.TwilioService); ok {
			apiOpts = append(apiOpts, api.WithTwilioWebhook(twilioSvc.WebhookHandler))
		}
	}
	server := api.NewServer(coord, recorder, apiOpts...)

	err = server.Run(ctx)

	for _, svc := range services {
		if stopErr := svc.Stop(); stopErr != nil {
			slog.Error("Failed to stop messaging service", "error", stopErr)
		}
	}
	wg.Wait()
	recorder.Wait()
	return err
}

// pumpInbound routes each inbound message and sends the rendered reply back
// on the same channel.
func pumpInbound(ctx context.Context, svc messaging.Service, coord *coordinator.Coordinator) {
	for {
		select {
		case <-ctx.Done():
			return
		case in, ok := <-svc.Inbound():
			if !ok {
				return
			}
			result := coord.Process(ctx, in.From, in.Channel, in.Body)

			var err error
			if tg, ok := svc.(*telegram.Service); ok {
				err = tg.SendResult(ctx, in.From, result)
			} else {
				err = svc.SendMessage(ctx, in.From, messaging.RenderText(result))
			}
			if err != nil {
				slog.Error("Failed to deliver reply", "error", err, "to", in.From, "channel", in.Channel)
			}
		}
	}
}
