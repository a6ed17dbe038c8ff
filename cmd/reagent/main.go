package main

import (
	"fmt"
	"os"
	"strings"

	"reagent/internal/agent"
	"reagent/internal/capability"
	"reagent/internal/capability/builtin"
	"reagent/internal/config"
	"reagent/internal/llm/openai"
	"reagent/internal/logger"
	"reagent/internal/mcp"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath    string
	apiBaseURL    string
	apiKey        string
	model         string
	temperature   float32
	maxIterations int
	verbose       bool
	noColor       bool
)

func main() {
	// Best effort: a missing .env file is not an error.
	godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "reagent",
		Short: "Reagent reasoning agent",
		Long:  "A single-agent reason-act-observe loop with web search and arithmetic capabilities",
	}

	askCmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask the agent a question",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	askCmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default: search standard locations)")
	askCmd.Flags().StringVar(&apiBaseURL, "api-base-url", os.Getenv("OPENAI_API_BASE_URL"), "OpenAI-compatible API base URL")
	askCmd.Flags().StringVar(&apiKey, "api-key", os.Getenv("OPENAI_API_KEY"), "API key")
	askCmd.Flags().StringVar(&model, "model", "", "Model to use (overrides config)")
	askCmd.Flags().Float32Var(&temperature, "temperature", -1, "Temperature (overrides config)")
	askCmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "Iteration budget (overrides config)")
	askCmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose output (debug mode)")
	askCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(askCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	if apiKey == "" {
		return fmt.Errorf("API key required (set OPENAI_API_KEY or use --api-key)")
	}

	ctx := cmd.Context()
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logLevel := logger.LevelInfo
	if verbose {
		logLevel = logger.LevelDebug
	}
	log := logger.NewLogger(os.Stdout, logLevel)
	if noColor {
		log.SetColorMode(false)
	}

	log.Debug("Creating LLM client (model: %s)", cfg.LLM.Model)
	llmClient := openai.NewClient(apiKey, cfg.LLM.Model, apiBaseURL)

	log.Debug("Registering built-in capabilities")
	registry := capability.NewRegistry()
	if err := registry.Register(builtin.NewSearchCapability(cfg.Search)); err != nil {
		return err
	}
	if err := registry.Register(builtin.NewCalculateCapability()); err != nil {
		return err
	}

	if len(cfg.MCP.Servers) > 0 {
		manager := mcp.NewManager(registry)
		if err := manager.Initialize(ctx, cfg.MCP); err != nil {
			// Partial failures are warnings; the run continues with
			// whatever capabilities made it into the registry.
			log.Warn("MCP initialization: %v", err)
		}
		defer manager.Close()
		log.Debug("Registered %d MCP capabilities", manager.CapabilityCount())
	}

	log.Info("Registered capabilities: %s", strings.Join(registry.Names(), ", "))

	ag := agent.NewAgent("reagent", agent.BuildSystemPrompt(registry), llmClient, registry, &agent.Config{
		MaxIterations: cfg.MaxIterations,
		Temperature:   cfg.LLM.Temperature,
		MaxTokens:     cfg.LLM.MaxTokens,
	})

	out, err := ag.Run(ctx, &agent.Input{
		Query:  query,
		Logger: log,
	})
	if err != nil {
		log.Error("Run failed: %v", err)
		return err
	}

	fmt.Println(out.Answer)
	return nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadWithDefaults()
	}
	if err != nil {
		return nil, err
	}

	if model != "" {
		cfg.LLM.Model = model
	}
	if temperature >= 0 {
		cfg.LLM.Temperature = temperature
	}
	if maxIterations > 0 {
		cfg.MaxIterations = maxIterations
	}

	return cfg, cfg.Validate()
}
