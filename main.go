package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ricky/pkg/channels"
	_ "ricky/pkg/channels/autoload" // Auto-register channel factories
	"ricky/pkg/config"
	"ricky/pkg/gateway"
	"ricky/pkg/handler"
	"ricky/pkg/llm"
	_ "ricky/pkg/llm/autoload" // Auto-register model providers
	"ricky/pkg/llm/ollama"
	"ricky/pkg/monitor"
	"ricky/pkg/orchestrator"
	"ricky/pkg/tools"
	"ricky/pkg/tools/calendar"
)

func main() {
	// --- 0. Configuration ---
	cfg, sysCfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	creds := config.LoadCredentials()

	monitor.SetupSlog(sysCfg.LogLevel)
	monitor.PrintBanner()

	// --- 1. Model directory ---
	settings := llm.Settings{
		OllamaURL:    sysCfg.OllamaDefaultURL,
		GeminiAPIKey: creds.GeminiAPIKey,
		OpenAIAPIKey: creds.OpenAIAPIKey,
		DebugChunks:  sysCfg.DebugChunks,
	}
	directory := llm.NewModelDirectory(settings, ollama.ModelLister(sysCfg.OllamaDefaultURL))

	// --- 2. Capabilities ---
	registry := tools.NewRegistry()
	calendarService := calendar.NewService(creds.CalendarAPIKey, time.Duration(sysCfg.CalendarTimeoutMs)*time.Millisecond)
	registry.Register(tools.NewCalendarTool(calendarService))

	// --- 3. Orchestration core ---
	orch := orchestrator.New(directory, registry, cfg.DefaultModel,
		orchestrator.WithChannelBuffer(sysCfg.InternalChannelBuffer),
		orchestrator.WithToolsEnabled(sysCfg.EnableTools),
		orchestrator.WithSystemPrompt(cfg.SystemPrompt),
	)
	chatHandler := handler.NewChatHandler(orch, sysCfg)

	// --- 4. Gateway ---
	channelList := channels.BuildFromConfig(cfg.Channels, channels.Deps{
		System: sysCfg,
		Models: directory,
	})

	gw, err := gateway.NewGatewayBuilder().
		WithSystemConfig(sysCfg).
		WithMonitor(monitor.NewCLIMonitor()).
		WithChannel(channelList...).
		WithHandler(chatHandler).
		Build()
	if err != nil {
		log.Fatalf("Failed to build gateway: %v", err)
	}

	// --- 5. Wait for shutdown ---
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Received shutdown signal. Stopping services...")
	gw.StopAll()
	log.Println("Bye!")
}
