// Command mazequest runs the Maze Quest game.
//
// Subcommands:
//  1. "serve" (default) runs the HTTP server exposing the REST API, WebSocket and an /mcp endpoint
//  2. "mcp" runs an MCP stdio server and spins up an internal HTTP API if none is available
//  3. "play" plays a ruleset in the terminal
//  4. "render" prints or saves a single level
//
// Settings come from the environment (and a .env file); flags override them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/gdamore/tcell/v2"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/wricardo/mazequest/api"
	"github.com/wricardo/mazequest/game/config"
	"github.com/wricardo/mazequest/game/engine"
	"github.com/wricardo/mazequest/game/progress"
	"github.com/wricardo/mazequest/game/render"
	"github.com/wricardo/mazequest/game/service"
	"github.com/wricardo/mazequest/game/session"
	"github.com/wricardo/mazequest/transport/mcp"
	"github.com/wricardo/mazequest/transport/websocket"
	"github.com/wricardo/mazequest/tui"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "Maze Quest Server"
)

// Config holds the process settings read from the environment
type Config struct {
	Host            string `env:"MAZE_HOST" envDefault:"localhost"`
	Port            int    `env:"MAZE_PORT" envDefault:"8080"`
	ConfigDir       string `env:"MAZE_CONFIG_DIR" envDefault:"configs"`
	SessionsDir     string `env:"MAZE_SESSIONS_DIR" envDefault:"sessions"`
	ProgressBackend string `env:"MAZE_PROGRESS_BACKEND" envDefault:"file"`
	ProgressPath    string `env:"MAZE_PROGRESS_PATH" envDefault:"progress.json"`
	Debug           bool   `env:"MAZE_DEBUG"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// Addr is the listen address of the HTTP server
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// loadConfig parses the environment into a Config
func loadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// services is everything the server modes share
type services struct {
	game        service.GameService
	configs     *config.Manager
	sessions    *session.Manager
	persistence *session.FilePersistence
	progress    progress.Store
}

func (s *services) Close() error {
	if s.sessions != nil {
		if err := s.sessions.SaveAllSessions(); err != nil {
			log.Printf("Warning: Failed to save sessions: %v", err)
		}
	}
	if s.progress != nil {
		return s.progress.Close()
	}
	return nil
}

func main() {
	// Load .env file if it exists (ignore error if not found)
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	} else {
		log.Println("Loaded environment variables from .env file")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}

	if err := newCommand(&cfg).Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// newCommand builds the CLI. Flag values land in cfg and default to what the
// environment already put there.
func newCommand(cfg *Config) *cli.Command {
	serve := &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP server with REST API, WebSocket and MCP endpoint",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel", Value: cfg.NgrokEnabled, Destination: &cfg.NgrokEnabled},
			&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token", Value: cfg.NgrokAuthToken, Destination: &cfg.NgrokAuthToken},
			&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain", Value: cfg.NgrokDomain, Destination: &cfg.NgrokDomain},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runHTTPServer(ctx, *cfg)
		},
	}

	return &cli.Command{
		Name:    "mazequest",
		Usage:   AppName,
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "HTTP server host", Value: cfg.Host, Destination: &cfg.Host},
			&cli.IntFlag{Name: "port", Usage: "HTTP server port", Value: cfg.Port, Destination: &cfg.Port},
			&cli.StringFlag{Name: "config-dir", Usage: "Directory containing rulesets", Value: cfg.ConfigDir, Destination: &cfg.ConfigDir},
			&cli.StringFlag{Name: "sessions-dir", Usage: "Directory for saved sessions", Value: cfg.SessionsDir, Destination: &cfg.SessionsDir},
			&cli.StringFlag{Name: "progress-backend", Usage: "Progress store: file, sqlite or none", Value: cfg.ProgressBackend, Destination: &cfg.ProgressBackend},
			&cli.StringFlag{Name: "progress-path", Usage: "Progress store location", Value: cfg.ProgressPath, Destination: &cfg.ProgressPath},
			&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging", Value: cfg.Debug, Destination: &cfg.Debug},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cfg.Debug {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			} else {
				log.SetFlags(log.LstdFlags)
			}
			return ctx, nil
		},
		Action: serve.Action,
		Commands: []*cli.Command{
			serve,
			{
				Name:    "mcp",
				Aliases: []string{"stdio-mcp", "mcp-stdio"},
				Usage:   "Run an MCP stdio server backed by the HTTP API",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runStdioMCPWithInternalServer(ctx, *cfg)
				},
			},
			{
				Name:  "play",
				Usage: "Play a ruleset in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Ruleset name", Value: config.DefaultConfigID},
					&cli.Int64Flag{Name: "seed", Usage: "Base seed (random when unset)"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return runPlay(ctx, *cfg, cmd.String("config"), seedFlag(cmd))
				},
			},
			{
				Name:  "render",
				Usage: "Render one level of a ruleset",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "config", Usage: "Ruleset name", Value: config.DefaultConfigID},
					&cli.Int64Flag{Name: "seed", Usage: "Base seed (random when unset)"},
					&cli.IntFlag{Name: "level", Usage: "Level to render", Value: 1},
					&cli.StringFlag{Name: "format", Usage: "ascii or png", Value: "ascii"},
					&cli.StringFlag{Name: "out", Usage: "Output file (stdout when empty)"},
					&cli.IntFlag{Name: "scale", Usage: "Pixels per cell for png", Value: api.DefaultPNGScale},
					&cli.BoolFlag{Name: "route", Usage: "Draw the route to the goal"},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					opts := renderOptions{
						Config: cmd.String("config"),
						Seed:   seedFlag(cmd),
						Level:  cmd.Int("level"),
						Format: cmd.String("format"),
						Scale:  cmd.Int("scale"),
						Route:  cmd.Bool("route"),
					}
					out := cmd.String("out")
					if out == "" {
						return runRender(cmd.Root().Writer, *cfg, opts)
					}
					f, err := os.Create(out)
					if err != nil {
						return err
					}
					if err := runRender(f, *cfg, opts); err != nil {
						f.Close()
						return err
					}
					return f.Close()
				},
			},
		},
	}
}

func seedFlag(cmd *cli.Command) int64 {
	if cmd.IsSet("seed") {
		return cmd.Int64("seed")
	}
	return engine.RandomSeed()
}

// runHTTPServer starts the HTTP server with REST API, WebSocket hub, and an /mcp endpoint.
// If ngrok is enabled, it also provisions a public tunnel.
func runHTTPServer(parent context.Context, cfg Config) error {
	ctx, cancel := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.Printf("Starting %s v%s", AppName, Version)

	svc, err := initializeServices(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svc.Close()

	go sessionCleanupRoutine(ctx, svc.sessions)
	go filesystemSyncRoutine(ctx, svc.sessions, svc.persistence)

	hub := websocket.NewHub(svc.game)
	go hub.Run(ctx)

	addr := cfg.Addr()
	apiServer := api.NewServer(svc.game, hub)
	mcpClient := mcp.NewClient(fmt.Sprintf("http://%s", addr))
	apiServer.Router().HandleFunc("/mcp", mcpHandler(mcpClient)).Methods("POST")

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      apiServer,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	serveErr := make(chan error, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()

		log.Printf("HTTP server listening on %s", addr)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	}()

	if cfg.NgrokEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrokTunnel(ctx, cfg, apiServer)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("Server stopped")

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP server failed: %w", err)
	default:
		return nil
	}
}

// mcpHandler answers JSON-RPC messages posted to /mcp
func mcpHandler(mcpClient *mcp.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}
		defer r.Body.Close()

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		responseData, err := json.Marshal(response)
		if err != nil {
			http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
			return
		}
		w.Write(responseData)
	}
}

// runNgrokTunnel serves handler through an ngrok tunnel until ctx is done
func runNgrokTunnel(ctx context.Context, cfg Config, handler http.Handler) {
	if cfg.NgrokAuthToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	log.Println("Starting ngrok tunnel...")

	var tunnel ngrokConfig.Tunnel
	if cfg.NgrokDomain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(cfg.NgrokDomain))
		log.Printf("Using custom ngrok domain: %s", cfg.NgrokDomain)
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(cfg.NgrokAuthToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}

	stop := context.AfterFunc(ctx, func() {
		if err := tun.Close(); err != nil {
			log.Printf("Failed to close ngrok tunnel: %v", err)
		}
	})
	defer stop()

	ngrokURL := tun.URL()
	log.Printf("Ngrok tunnel established: %s", ngrokURL)
	log.Printf("  REST API (ngrok): %s/api", ngrokURL)
	log.Printf("  WebSocket (ngrok): %s/ws?session=<session_id>", ngrokURL)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", ngrokURL)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// initializeServices wires the ruleset, session and progress stores into the game service
func initializeServices(cfg Config) (*services, error) {
	// Create config manager first (needed for persistence)
	configManager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}

	persistence, err := session.NewFilePersistence(cfg.SessionsDir, configManager)
	if err != nil {
		return nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessionManager := session.NewManagerWithPersistence(persistence)
	if err := sessionManager.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	store, err := progress.Open(cfg.ProgressBackend, cfg.ProgressPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open progress store: %w", err)
	}

	// a nil Store must reach the service as a nil interface
	var recorder service.ProgressStore
	if store != nil {
		recorder = store
	}

	return &services{
		game:        service.NewGameService(sessionManager, configManager, recorder),
		configs:     configManager,
		sessions:    sessionManager,
		persistence: persistence,
		progress:    store,
	}, nil
}

// sessionCleanupRoutine periodically removes sessions that have not been accessed
// within a day
func sessionCleanupRoutine(ctx context.Context, manager *session.Manager) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := manager.CleanupExpiredSessions(24 * time.Hour); removed > 0 {
				log.Printf("Cleaned up %d expired sessions", removed)
			}
		}
	}
}

// filesystemSyncRoutine periodically drops in-memory sessions whose files were deleted
func filesystemSyncRoutine(ctx context.Context, manager *session.Manager, persistence session.SessionPersistence) {
	if persistence == nil {
		return
	}
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := pruneDeletedSessions(manager, persistence); pruned > 0 {
				log.Printf("Filesystem sync: pruned %d orphaned sessions from memory", pruned)
			}
		}
	}
}

func pruneDeletedSessions(manager *session.Manager, persistence session.SessionPersistence) int {
	pruned := 0
	for _, s := range manager.List() {
		if persistence.Exists(s.ID) {
			continue
		}
		if err := manager.DeleteFromMemory(s.ID); err == nil {
			pruned++
			log.Printf("Pruned session %s from memory (file deleted)", s.ID)
		}
	}
	return pruned
}

// runStdioMCPWithInternalServer runs an MCP stdio server.
// It reuses an API already listening on the configured address; otherwise it
// starts an internal HTTP API on a random loopback port and targets that.
func runStdioMCPWithInternalServer(ctx context.Context, cfg Config) error {
	externalURL := fmt.Sprintf("http://%s", cfg.Addr())
	log.Printf("Checking for external API server at %s...", externalURL)

	baseURL := externalURL
	testClient := &http.Client{Timeout: 2 * time.Second}
	resp, err := testClient.Get(externalURL + "/api/health")
	if err == nil {
		resp.Body.Close()
	}
	if err != nil || resp.StatusCode >= 500 {
		log.Printf("No external API server found, starting internal HTTP server")

		svc, err := initializeServices(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize services: %w", err)
		}
		defer svc.Close()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub(svc.game)
		go hub.Run(ctx)

		httpServer := &http.Server{Handler: api.NewServer(svc.game, hub)}
		go func() {
			if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer httpServer.Close()

		baseURL = fmt.Sprintf("http://%s", listener.Addr().String())
		log.Printf("Internal HTTP server on %s for MCP stdio", baseURL)
	} else {
		log.Printf("External API server found at %s, using it for MCP", externalURL)
	}

	mcpClient := mcp.NewClient(baseURL)
	log.Println("MCP stdio server ready")
	if err := server.ServeStdio(mcpClient.GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// loadRuleset reads name from the config directory. Without a directory the
// built-in classic ruleset is still available.
func loadRuleset(cfg Config, name string) (*engine.GameConfig, error) {
	manager, err := config.NewManager(cfg.ConfigDir)
	if err != nil {
		if name == "" || name == config.DefaultConfigID {
			return engine.DefaultConfig(), nil
		}
		return nil, err
	}
	if name == "" {
		return manager.GetDefault(), nil
	}
	ruleset, err := manager.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("ruleset %q: %w", name, err)
	}
	return ruleset, nil
}

// runPlay plays a ruleset in the terminal and records finished games
func runPlay(ctx context.Context, cfg Config, name string, seed int64) error {
	ruleset, err := loadRuleset(cfg, name)
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(ruleset, seed)
	if err != nil {
		return err
	}

	store, err := progress.Open(cfg.ProgressBackend, cfg.ProgressPath)
	if err != nil {
		return fmt.Errorf("failed to open progress store: %w", err)
	}
	var recorder tui.Recorder
	if store != nil {
		defer store.Close()
		recorder = store
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err = tui.New(screen, eng, service.ProgressGameID(name), recorder).Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type renderOptions struct {
	Config string
	Seed   int64
	Level  int
	Format string
	Scale  int
	Route  bool
}

// runRender writes one level of a ruleset as text or PNG
func runRender(w io.Writer, cfg Config, opts renderOptions) error {
	ruleset, err := loadRuleset(cfg, opts.Config)
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(ruleset, opts.Seed)
	if err != nil {
		return err
	}
	if opts.Level != 1 {
		if _, err := eng.StartLevel(opts.Level); err != nil {
			return err
		}
	}

	scene := render.SceneFromState(eng.GetState())
	if opts.Route {
		scene.Route = engine.FindPath(scene.Grid, *scene.Player, *scene.Goal)
	}

	switch opts.Format {
	case "ascii", "":
		_, err := fmt.Fprintln(w, render.ASCII(scene))
		return err
	case "png":
		return render.PNG(w, scene, opts.Scale)
	default:
		return fmt.Errorf("unknown format %q (want ascii or png)", opts.Format)
	}
}
