package command

// root.go defines the root command for the chatrum CLI application.
// set up the global flags and the shared runtime wiring here.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"chatrum/internal/config"
	"chatrum/internal/gateway"
	"chatrum/internal/session"
)

var (
	apiURL  string // Global flag for full API base URL, overrides host/port
	apiHost string // API server host, auto-discovered when empty
	apiPort int    // API server port
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatrum",
	Short: "chatrum - Chat Room Command Line Interface",
	Long: `chatrum is a tool for chatting through the ChatRum API. This application is
built for learning purpose and personal use. User can use this application to:
- Create, rename and delete chat rooms
- Send, edit, delete and forward messages
- Get notified about new messages in other rooms

Use "chatrum command -help" or "chatrum command -h" to see all available commands.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err) // Print error to standard error
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags = available to all subcommands
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API server base URL (overrides host/port)")
	rootCmd.PersistentFlags().StringVar(&apiHost, "host", "", "API server host (auto-discovered when empty)")
	rootCmd.PersistentFlags().IntVar(&apiPort, "port", 0, "API server port")
}

// runtime bundles the pieces every subcommand needs: configuration, the
// logger, the HTTP gateway and the credential-backed session manager.
type runtime struct {
	cfg      *config.Config
	logger   *zap.SugaredLogger
	gw       *gateway.Client
	sessions *session.Manager
}

func newRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	logger := zl.Sugar()

	host := cfg.APIHost
	if apiHost != "" {
		host = apiHost
	}
	port := cfg.APIPort
	if apiPort != 0 {
		port = apiPort
	}

	gw := gateway.New(gateway.Options{
		BaseURL:     apiURL,
		Host:        host,
		Port:        port,
		Timeout:     cfg.RequestTimeout,
		InsecureTLS: cfg.InsecureTLS,
	}, logger)

	store, err := newCredentialStore(cfg)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:      cfg,
		logger:   logger,
		gw:       gw,
		sessions: session.NewManager(store, logger),
	}, nil
}

// newCredentialStore prefers the OS keyring. An encrypted file store is used
// instead when a passphrase is configured, e.g. on headless machines.
func newCredentialStore(cfg *config.Config) (session.Store, error) {
	if cfg.CredentialsKey != "" {
		store, err := session.NewFileStore(cfg.CredentialsFile, cfg.CredentialsKey)
		if err != nil {
			return nil, fmt.Errorf("failed to open credentials file: %w", err)
		}
		return store, nil
	}
	return session.NewKeyringStore(), nil
}
