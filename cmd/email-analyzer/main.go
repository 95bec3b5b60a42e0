package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/analyzer"
	"github.com/mikey/llm-email-analyzer/internal/bypass"
	"github.com/mikey/llm-email-analyzer/internal/config"
	"github.com/mikey/llm-email-analyzer/internal/factory"
	"github.com/mikey/llm-email-analyzer/internal/logging"
	"github.com/mikey/llm-email-analyzer/internal/mailparse"
	"github.com/mikey/llm-email-analyzer/internal/metrics"
	"github.com/mikey/llm-email-analyzer/internal/utils"
)

var (
	// Model chain flags
	analysisChain = flag.String("analysis-chain", "", "Comma-separated provider:model list for analysis")
	replyChain    = flag.String("reply-chain", "", "Comma-separated provider:model list for reply generation")
	maxTokens     = flag.Int("max-tokens", 1024, "Maximum tokens for model responses")
	temperature   = flag.Float64("temperature", 0.2, "Temperature for model generation")
	maxBodySize   = flag.Int("max-body-size", 4096, "Maximum email body size to send to the model")
	timeout       = flag.Duration("timeout", 30*time.Second, "Per-model completion timeout")

	// Provider flags
	togetherAPIKey = flag.String("together-api-key", "", "API key for Together AI (or TOGETHER_API_KEY)")
	openaiAPIKey   = flag.String("openai-api-key", "", "API key for OpenAI (or OPENAI_API_KEY)")
	geminiAPIKey   = flag.String("gemini-api-key", "", "API key for Google Gemini (or GEMINI_API_KEY)")
	bedrockRegion  = flag.String("bedrock-region", "us-east-1", "AWS region for Bedrock")

	// Analysis flags
	maxKeywords      = flag.Int("max-keywords", 5, "Maximum keywords in the analysis record")
	bypassPrefixes   = flag.String("bypass-prefixes", "", "Comma-separated automated sender prefixes")
	whitelistDomains = flag.String("whitelist", "", "Comma-separated list of whitelisted domains")

	// Input flags
	inputFile  = flag.String("file", "", "Input email file (use stdin if not specified)")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file (overrides command line flags)")
)

func main() {
	flag.Parse()

	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	// Initialize logger
	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load configuration from file if specified
	var cfg *config.Config
	if *configFile != "" {
		cfg, err = config.New()
		if err != nil {
			logger.Fatal("Failed to load configuration", zap.Error(err))
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
	} else {
		cfg = createConfigFromFlags()
	}

	// Build the model chains
	clientFactory := factory.NewClientFactory(cfg, logger)
	chains, err := clientFactory.BuildChainSet(context.Background())
	if err != nil {
		logger.Fatal("Failed to build model chains", zap.Error(err))
	}
	defer clientFactory.Close()

	bypassCfg := cfg.GetBypass()
	checker := bypass.NewChecker(bypassCfg.WhitelistedDomains, bypassCfg.AutomatedPrefixes, logger)

	analysisCfg := cfg.GetAnalysis()
	service := analyzer.NewService(
		chains.Analysis,
		chains.Reply,
		checker,
		utils.NewTextProcessor(logger),
		metrics.New(prometheus.NewRegistry()),
		logger,
		analyzer.Options{
			MaxBodySize:        cfg.GetLLM().MaxBodySize,
			MaxAnalyzeKeywords: analysisCfg.MaxKeywords,
			MaxExtractKeywords: analysisCfg.ExtractMaxKeywords,
		},
	)

	// Read email from file or stdin
	var emailReader io.Reader
	if *inputFile != "" {
		file, err := os.Open(*inputFile)
		if err != nil {
			logger.Fatal("Failed to open input file", zap.Error(err), zap.String("file", *inputFile))
		}
		defer file.Close()
		emailReader = file
		logger.Info("Reading email from file", zap.String("file", *inputFile))
	} else {
		emailReader = os.Stdin
		logger.Info("Reading email from stdin")
	}

	// Parse email
	email, err := mailparse.Parse(emailReader)
	if err != nil {
		logger.Fatal("Failed to parse email", zap.Error(err))
	}

	// Print email summary
	fmt.Printf("\n=== Email Summary ===\n")
	fmt.Printf("From: %s\n", email.Sender)
	fmt.Printf("To: %s\n", email.Recipient)
	fmt.Printf("Subject: %s\n", email.Subject)
	fmt.Printf("Body length: %d bytes\n", len(email.Body))

	// Analyze email
	startTime := time.Now()
	result := service.Analyze(context.Background(), email)
	duration := time.Since(startTime)

	entitiesJSON, err := json.Marshal(result.Entities)
	if err != nil {
		entitiesJSON = []byte("{}")
	}

	// Print results
	fmt.Printf("\n=== Results ===\n")
	fmt.Printf("Sentiment: %s\n", result.Sentiment)
	fmt.Printf("Urgency: %s\n", result.Urgency)
	fmt.Printf("Intent: %s\n", result.Intent)
	fmt.Printf("Keywords: %s\n", strings.Join(result.Keywords, ", "))
	fmt.Printf("Entities: %s\n", entitiesJSON)
	fmt.Printf("Summary: %s\n", result.Summary)
	fmt.Printf("Suggested reply: %s\n", result.GeneratedReply)
	fmt.Printf("Processing time: %v\n", duration)

	// Print the full record for machine consumption
	record, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Fatal("Failed to encode analysis record", zap.Error(err))
	}
	fmt.Printf("\n=== JSON ===\n%s\n", record)
}

// createConfigFromFlags creates a configuration from command line flags
func createConfigFromFlags() *config.Config {
	v := config.NewEmptyViper()

	// Set model chains
	if *analysisChain != "" {
		v.Set("llm.analysis_chain", splitList(*analysisChain))
	}
	if *replyChain != "" {
		v.Set("llm.reply_chain", splitList(*replyChain))
	}
	v.Set("llm.max_tokens", *maxTokens)
	v.Set("llm.temperature", *temperature)
	v.Set("llm.max_body_size", *maxBodySize)
	v.Set("llm.timeout", timeout.String())

	// Set provider credentials
	v.Set("together.api_key", envOr(*togetherAPIKey, "TOGETHER_API_KEY"))
	v.Set("openai.api_key", envOr(*openaiAPIKey, "OPENAI_API_KEY"))
	v.Set("gemini.api_key", envOr(*geminiAPIKey, "GEMINI_API_KEY"))
	v.Set("bedrock.region", *bedrockRegion)

	// Set analysis settings
	v.Set("analysis.max_keywords", *maxKeywords)
	if *bypassPrefixes != "" {
		v.Set("bypass.automated_prefixes", splitList(*bypassPrefixes))
	}
	if *whitelistDomains != "" {
		v.Set("bypass.whitelisted_domains", splitList(*whitelistDomains))
	}

	return config.NewFromViper(v)
}

// splitList parses a comma-separated flag value into a trimmed slice.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return parts
}

// envOr returns the flag value, falling back to the named environment variable.
func envOr(value string, envKey string) string {
	if value != "" {
		return value
	}
	return os.Getenv(envKey)
}
