package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"sprsun-modbus-bridge/internal/config"
	"sprsun-modbus-bridge/internal/errors"
	"sprsun-modbus-bridge/internal/homeassistant"
	"sprsun-modbus-bridge/internal/logger"
	"sprsun-modbus-bridge/internal/modbus"
	"sprsun-modbus-bridge/internal/registry"
)

// Application main application class
// Facade Pattern - simplified interface for complex system
type Application struct {
	config    *config.Config
	catalog   *registry.Catalog
	reader    *modbus.Reader
	poller    *modbus.Poller
	publisher *homeassistant.Publisher

	// Heat pump status tracking
	mu                sync.Mutex
	consecutiveErrors int
	isDeviceOnline    bool

	// Grace period for offline status - avoid oscillation for temporary errors
	errorGracePeriod   time.Duration
	firstErrorTime     time.Time
	statusSetToOffline bool

	// Performance tracking for cleaner output
	lastSummaryTime time.Time
	successfulPolls int
	errorPolls      int
	unavailable     int
}

// NewApplication creates a new application instance
func NewApplication(configPath string) (*Application, error) {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("error loading configuration: %w", err)
	}

	// Initialize logging with level
	logger.GlobalLogging = &cfg.Logging
	logger.Setup(&cfg.Logging)
	logger.LogStartup("Logging initialized with level: %s", cfg.Logging.Level)

	// The register catalog must be structurally sound before any device
	// communication happens; a broken map would decode wrong values
	catalog := registry.SPRSUN()
	if problems := catalog.Validate(); len(problems) > 0 {
		for _, p := range problems {
			logger.LogError("Catalog problem: %v", p)
		}
		return nil, fmt.Errorf("register catalog failed validation with %d problem(s)", len(problems))
	}
	logger.LogStartup("Register catalog %s validated: %d quantities in %d groups",
		catalog.Version(), len(catalog.Entries()), len(catalog.GroupNames()))

	// Create publisher for Home Assistant
	publisher := homeassistant.NewPublisher(&cfg.MQTT, &cfg.HomeAssistant)

	app := &Application{
		config:    cfg,
		catalog:   catalog,
		publisher: publisher,
		// Initialize device status tracking
		isDeviceOnline: true,
		// 15 seconds grace before marking offline
		errorGracePeriod: 15 * time.Second,
		// Initialize performance tracking
		lastSummaryTime: time.Now(),
	}

	return app, nil
}

// Start starts the application
func (app *Application) Start(ctx context.Context) error {
	logger.LogInfo("🚀 Starting SPRSUN Modbus Bridge...")

	// Connect to the heat pump
	reader, err := modbus.NewReader(&app.config.Modbus)
	if err != nil {
		return fmt.Errorf("error connecting to heat pump: %w", err)
	}
	app.reader = reader

	// Connect publisher
	if err := app.publisher.Connect(ctx); err != nil {
		return fmt.Errorf("error connecting publisher: %w", err)
	}

	// Publish discovery configurations for Home Assistant
	if err := app.publishDiscoveryConfigs(ctx); err != nil {
		logger.LogError("⚠️ Error publishing discovery configs: %v", err)
		app.publisher.PublishDiagnostic(ctx, errors.CodeConfigError, fmt.Sprintf("Discovery config error: %v", err))
	}

	// Publish online status
	if err := app.publisher.PublishStatusOnline(ctx); err != nil {
		logger.LogError("⚠️ Error publishing online status: %v", err)
	} else {
		app.publisher.PublishDiagnostic(ctx, errors.CodeOK, "SPRSUN Modbus Bridge started successfully")
	}

	// Start per-group polling
	app.poller = modbus.NewPoller(app.reader, app.catalog, app.config, func(s modbus.Snapshot) {
		app.handleSnapshot(ctx, s)
	})
	app.poller.Start(ctx)

	// Start heartbeat to maintain online status
	go app.heartbeatLoop(ctx)

	logger.LogInfo("✅ SPRSUN Modbus Bridge started successfully")
	logger.LogInfo("🔇 Verbose logging reduced - Summary reports every 30 seconds")
	return nil
}

// Stop stops the application
func (app *Application) Stop() {
	logger.LogInfo("🛑 Stopping SPRSUN Modbus Bridge...")

	if app.poller != nil {
		app.poller.Stop()
	}

	// Publish offline status before disconnecting
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.publisher.PublishStatusOffline(ctx); err != nil {
		logger.LogError("⚠️ Error publishing offline status: %v", err)
	} else {
		app.publisher.PublishDiagnostic(ctx, errors.CodeOK, "SPRSUN Modbus Bridge stopped gracefully")
	}

	if app.reader != nil {
		app.reader.Close()
	}
	app.publisher.Disconnect()

	logger.LogInfo("✅ SPRSUN Modbus Bridge stopped")
}

// handleSnapshot processes one completed polling pass
func (app *Application) handleSnapshot(ctx context.Context, snapshot modbus.Snapshot) {
	if snapshot.Err != nil {
		app.mu.Lock()
		app.errorPolls++
		app.mu.Unlock()

		app.handleDeviceError(ctx)

		errorMsg := fmt.Sprintf("Poll of group %s failed: %v", snapshot.Group, snapshot.Err)
		if ctxErr := app.publisher.PublishDiagnostic(ctx, errors.CodeModbusTransport, errorMsg); ctxErr != nil {
			logger.LogError("⚠️ Error publishing diagnostic: %v", ctxErr)
		}
		return
	}

	// Successful pass - reset error tracking
	app.handleDeviceSuccess(ctx)

	app.mu.Lock()
	app.successfulPolls++
	app.unavailable += snapshot.Unavailable()
	shouldSummarize := time.Since(app.lastSummaryTime) >= 30*time.Second
	if shouldSummarize {
		logger.LogInfo("📊 Summary - Polls: %d ok, %d failed, %d quantities unavailable, last 30s",
			app.successfulPolls, app.errorPolls, app.unavailable)
		app.lastSummaryTime = time.Now()
		app.successfulPolls = 0
		app.errorPolls = 0
		app.unavailable = 0
	}
	app.mu.Unlock()

	// Per-quantity decode failures are worth a diagnostic, not an outage
	if n := snapshot.Unavailable(); n > 0 {
		errorMsg := fmt.Sprintf("Group %s: %d quantities unavailable", snapshot.Group, n)
		if ctxErr := app.publisher.PublishDiagnostic(ctx, errors.CodeDecodeFailure, errorMsg); ctxErr != nil {
			logger.LogError("⚠️ Error publishing diagnostic: %v", ctxErr)
		}
	}

	// Publish states to Home Assistant
	if err := app.publisher.PublishSnapshot(ctx, snapshot); err != nil {
		logger.LogError("❌ State publication error for group %s: %v", snapshot.Group, err)

		errorMsg := fmt.Sprintf("State publication error for group %s: %v", snapshot.Group, err)
		if ctxErr := app.publisher.PublishDiagnostic(ctx, errors.CodeMQTTFailure, errorMsg); ctxErr != nil {
			logger.LogError("⚠️ Error publishing diagnostic: %v", ctxErr)
		}
	}
}

// handleDeviceError manages error counting and offline status with grace period
func (app *Application) handleDeviceError(ctx context.Context) {
	app.mu.Lock()
	defer app.mu.Unlock()

	app.consecutiveErrors++

	// If this is the first error in the sequence, record the time
	if app.firstErrorTime.IsZero() {
		app.firstErrorTime = time.Now()
		logger.LogWarn("⚠️ First error detected, starting grace period of %.0f seconds", app.errorGracePeriod.Seconds())
	}

	// Check if we're still in grace period
	timeSinceFirstError := time.Since(app.firstErrorTime)
	if timeSinceFirstError < app.errorGracePeriod {
		// Still in grace period - don't change status to offline yet
		logger.LogDebug("🕐 Error %d in grace period (%.1fs/%.0fs) - keeping status online",
			app.consecutiveErrors, timeSinceFirstError.Seconds(), app.errorGracePeriod.Seconds())
		return
	}

	// Grace period expired - set status to offline if not already done
	if app.isDeviceOnline && !app.statusSetToOffline {
		app.isDeviceOnline = false
		app.statusSetToOffline = true
		logger.LogError("🔴 Grace period expired - heat pump marked as OFFLINE after %d errors over %.1f seconds",
			app.consecutiveErrors, timeSinceFirstError.Seconds())

		// Publish offline status to ensure MQTT broker has correct state
		if err := app.publisher.PublishStatusOffline(ctx); err != nil {
			logger.LogError("⚠️ Error publishing offline status: %v", err)
		}
	}
}

// handleDeviceSuccess resets error counter and changes status to online when polling resumes
func (app *Application) handleDeviceSuccess(ctx context.Context) {
	app.mu.Lock()
	defer app.mu.Unlock()

	// Reset error counter and grace period tracking
	app.consecutiveErrors = 0
	app.firstErrorTime = time.Time{}
	app.statusSetToOffline = false

	// If the device was offline, mark it back online
	if !app.isDeviceOnline {
		app.isDeviceOnline = true
		logger.LogInfo("🟢 Heat pump marked as ONLINE - polling restored")

		// Publish online status
		if err := app.publisher.PublishStatusOnline(ctx); err != nil {
			logger.LogError("⚠️ Error publishing online status: %v", err)
		}

		// Publish recovery diagnostic
		if err := app.publisher.PublishDiagnostic(ctx, errors.CodeOK, "Polling restored - heat pump back online"); err != nil {
			logger.LogError("⚠️ Error publishing recovery diagnostic: %v", err)
		}
	}
}

// publishDiscoveryConfigs publishes discovery configurations for Home Assistant
func (app *Application) publishDiscoveryConfigs(ctx context.Context) error {
	logger.LogDebug("🔍 Publishing discovery configurations for Home Assistant...")

	// Publish sensor discoveries
	if err := app.publisher.PublishAllDiscoveries(ctx, app.catalog); err != nil {
		return err
	}

	// Publish diagnostic sensor discovery
	if err := app.publisher.PublishDiagnosticDiscovery(ctx); err != nil {
		logger.LogError("⚠️ Error publishing diagnostic discovery: %v", err)
		// Don't return error - this is not critical
	}

	return nil
}

// heartbeatLoop sends periodic "online" status to maintain availability
func (app *Application) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second) // Send heartbeat every 30 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.LogDebug("🔇 Heartbeat loop stopped")
			return
		case <-ticker.C:
			// Only send heartbeat if we're currently marked as online
			app.mu.Lock()
			online := app.isDeviceOnline
			app.mu.Unlock()
			if online {
				if err := app.publisher.PublishStatusOnline(ctx); err != nil {
					logger.LogError("⚠️ Heartbeat failed: %v", err)
				}
			}
		}
	}
}

// DiagnosticMode runs diagnostic tests to help troubleshoot connectivity issues
func (app *Application) DiagnosticMode(ctx context.Context) error {
	logger.LogInfo("🔍 Starting diagnostic mode...")

	// Test 1: Heat pump connectivity
	logger.LogInfo("🔍 Test 1: Heat Pump Communication (Slave ID: %d)", app.config.Modbus.SlaveID)
	reader, err := modbus.NewReader(&app.config.Modbus)
	if err != nil {
		logger.LogError("❌ Heat pump connection failed: %v", err)
		logger.LogInfo("💡 Possible issues:")
		logger.LogInfo("   - Heat pump is not powered on")
		logger.LogInfo("   - Wrong host/port or serial device in configuration")
		logger.LogInfo("   - Physical connection issues (RS485 wiring)")
		logger.LogInfo("   - Wrong baud rate or communication parameters")
		return fmt.Errorf("heat pump connection failed: %w", err)
	}
	defer reader.Close()
	app.reader = reader
	logger.LogInfo("✅ Heat pump connection established")

	// Test 2: One polling pass per register group
	for _, group := range app.catalog.GroupNames() {
		logger.LogInfo("🔍 Test 2: Polling group %s", group)
		poller := modbus.NewPoller(reader, app.catalog, app.config, nil)
		snapshot := poller.PollGroup(ctx, group)
		if snapshot.Err != nil {
			logger.LogError("❌ Group %s poll failed: %v", group, snapshot.Err)
			logger.LogInfo("💡 Check slave ID (%d) and register offset (%d)",
				app.config.Modbus.SlaveID, app.config.Modbus.RegisterOffset)
			return fmt.Errorf("group %s poll failed: %w", group, snapshot.Err)
		}
		for _, name := range app.catalog.Names() {
			if v, ok := snapshot.Values[name]; ok {
				if v.Unavailable {
					entry, _ := app.catalog.Lookup(name)
					logger.LogWarn("   %s (register %d): unavailable (%s)", v.Name, entry.Modbus(), v.Reason)
				} else {
					suspect := ""
					if v.Suspect {
						suspect = " (suspect)"
					}
					logger.LogInfo("   %s: %.3f %s%s", v.Name, v.Value, v.Unit, suspect)
				}
			}
		}
	}

	logger.LogInfo("🎉 All diagnostic tests passed!")
	return nil
}

func main() {
	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT and SIGTERM for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Credentials can live in a local .env file
	_ = godotenv.Load()

	// Parse command line arguments
	configPath := ""
	diagnosticMode := false

	for i, arg := range os.Args[1:] {
		if arg == "--help" || arg == "-h" {
			fmt.Printf("Usage: %s [config_path] [--diagnostic]\n", os.Args[0])
			fmt.Printf("  config_path: Path to configuration file (optional)\n")
			fmt.Printf("  --diagnostic: Run diagnostic mode to test connectivity\n")
			return
		} else if arg == "--diagnostic" {
			diagnosticMode = true
		} else if i == 0 { // First argument is config path
			configPath = arg
		}
	}

	// Create application
	app, err := NewApplication(configPath)
	if err != nil {
		logger.LogError("Application creation error: %v", err)
		os.Exit(1)
	}

	// Run diagnostic mode if requested
	if diagnosticMode {
		if err := app.DiagnosticMode(ctx); err != nil {
			logger.LogError("Diagnostic failed: %v", err)
			os.Exit(1)
		}

		logger.LogInfo("✅ Diagnostic completed successfully")
		return
	}

	// Start application
	if err := app.Start(ctx); err != nil {
		logger.LogError("Application start error: %v", err)
		os.Exit(1)
	}

	// Wait for stop signal
	<-sigChan
	logger.LogInfo("📢 Stop signal received...")

	// Stop application
	app.Stop()
}
