package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gagliardetto/solana-go"
	"go.uber.org/zap"

	"github.com/solbounty/solbounty/internal/bonding"
	"github.com/solbounty/solbounty/internal/bounty"
	"github.com/solbounty/solbounty/internal/chain"
	"github.com/solbounty/solbounty/internal/config"
	"github.com/solbounty/solbounty/internal/logger"
	"github.com/solbounty/solbounty/internal/token"
	"github.com/solbounty/solbounty/internal/ui"
	"github.com/solbounty/solbounty/internal/ui/router"
	"github.com/solbounty/solbounty/internal/ui/screen"
	"github.com/solbounty/solbounty/internal/wallet"
)

const (
	logBufferSize       = 1000
	healthCheckInterval = 30 * time.Second
)

// AppModel is the top-level TUI model: it owns the router and resolves
// navigation requests into screens.
type AppModel struct {
	router   *router.Router
	services *ui.Services
	width    int
	height   int
}

// NewAppModel creates the application model with the board as the root
func NewAppModel(services *ui.Services) *AppModel {
	return &AppModel{
		router:   router.New(screen.NewBoardScreen(services)),
		services: services,
	}
}

// Init initializes the application
func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		m.router.Init(),
		ui.ListenBus(),
		tea.EnterAltScreen,
	)
}

// Update handles application-level updates
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.router.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		updatedRouter, cmd := m.router.Update(msg)
		m.router = updatedRouter.(*router.Router)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}

	case ui.BusMsg:
		// Exactly one listener is armed at a time; receiving the
		// wrapper is the cue to arm the next one.
		cmds = append(cmds, ui.ListenBus())
		if cmd := m.dispatch(msg.Msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case ui.RouterMsg:
		if cmd := m.handleNavigation(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	default:
		updatedRouter, cmd := m.router.Update(msg)
		m.router = updatedRouter.(*router.Router)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// dispatch routes a bus-delivered message to its handler
func (m *AppModel) dispatch(msg tea.Msg) tea.Cmd {
	if nav, ok := msg.(ui.RouterMsg); ok {
		return m.handleNavigation(nav)
	}
	updatedRouter, cmd := m.router.Update(msg)
	m.router = updatedRouter.(*router.Router)
	return cmd
}

// handleNavigation resolves a navigation request into a screen
func (m *AppModel) handleNavigation(msg ui.RouterMsg) tea.Cmd {
	switch msg.To {
	case ui.RouteBoard:
		return m.router.Replace(screen.NewBoardScreen(m.services))

	case ui.RouteDetail:
		if msg.Mint.IsZero() {
			return nil
		}
		return m.router.Push(screen.NewDetailScreen(m.services, msg.Mint))

	case ui.RouteLogs:
		return m.router.Push(screen.NewLogsScreen(m.services))

	default:
		return nil
	}
}

// View renders the application
func (m *AppModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	return m.router.View()
}

// runCheck validates the configuration and RPC connectivity without
// starting the TUI, reporting on the plain console.
func runCheck(cfg *config.Config) {
	plain, err := logger.CreatePrettyLogger(cfg.DebugLogging, nil)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	client, err := chain.NewClient(cfg.RPCList, cfg.Retries, cfg.RPCDelay, plain)
	if err != nil {
		plain.Fatal("Failed to create RPC client", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx); err != nil {
		plain.Fatal("RPC endpoint unreachable", zap.Error(err))
	}

	plain.Info("Configuration OK",
		zap.Int("rpc_endpoints", len(cfg.RPCList)),
		zap.String("program", cfg.BondingProgramID))
}

func main() {
	configPath := flag.String("config", "configs/config.json", "Path to config file")
	checkOnly := flag.Bool("check", false, "Validate config and RPC connectivity, then exit")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *checkOnly {
		runCheck(cfg)
		return
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logBuffer, err := logger.NewLogBuffer(logBufferSize, cfg.LogSpillFile)
	if err != nil {
		log.Fatalf("Failed to init log buffer: %v", err)
	}
	defer logBuffer.Close()

	// Buffer-only logging: the F12 pane renders entries, the spill file
	// keeps the full history. Console output would tear the altscreen.
	// Every entry is also pushed onto the UI bus so an open log pane
	// updates as it happens.
	appLogger, err := logger.CreateTUILogger(cfg.DebugLogging, logBuffer, ui.PublishLog)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()

	flushDone := logBuffer.StartPeriodicFlush(10*time.Second, appLogger)
	defer close(flushDone)

	appLogger.Info("Starting bounty board",
		zap.String("config", *configPath),
		zap.Int("rpc_endpoints", len(cfg.RPCList)))

	client, err := chain.NewClient(cfg.RPCList, cfg.Retries, cfg.RPCDelay, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create RPC client", zap.Error(err))
	}
	go client.StartHealthChecks(rootCtx, healthCheckInterval)

	programID, err := solana.PublicKeyFromBase58(cfg.BondingProgramID)
	if err != nil {
		appLogger.Fatal("Invalid bonding program id", zap.Error(err))
	}

	// A missing wallet file starts the board read-only; actions show
	// their connect-wallet message instead of failing at startup.
	var signer *wallet.Wallet
	if wallets, err := wallet.LoadWallets(cfg.WalletsFile); err != nil {
		appLogger.Warn("No wallets loaded, running read-only", zap.Error(err))
	} else if w, ok := wallets[cfg.WalletName]; ok {
		signer = w
		appLogger.Info("Wallet loaded", zap.String("wallet", signer.String()))
	} else {
		appLogger.Warn("Configured wallet not found in wallets file",
			zap.String("wallet_name", cfg.WalletName))
	}

	sdk := bonding.NewService(client, signer, programID, appLogger)

	services := &ui.Services{
		Ctx:       rootCtx,
		Config:    cfg,
		Logger:    appLogger,
		LogBuffer: logBuffer,
		Wallet:    signer,
		Chain:     client,
		Bonding:   bounty.NewService(sdk, appLogger),
		SDK:       sdk,
		Tokens:    token.NewService(client, appLogger),
	}

	program := tea.NewProgram(
		NewAppModel(services),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		if _, err := program.Run(); err != nil {
			appLogger.Error("TUI failed", zap.Error(err))
		}
		stop()
	}()

	<-rootCtx.Done()

	appLogger.Info("Shutting down")
	program.Quit()
}
