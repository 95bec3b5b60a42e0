package di

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/adapters/httpapi"
	"github.com/mikey/llm-email-analyzer/internal/adapters/smtpd"
	"github.com/mikey/llm-email-analyzer/internal/analyzer"
	"github.com/mikey/llm-email-analyzer/internal/bypass"
	"github.com/mikey/llm-email-analyzer/internal/config"
	"github.com/mikey/llm-email-analyzer/internal/core"
	"github.com/mikey/llm-email-analyzer/internal/factory"
	"github.com/mikey/llm-email-analyzer/internal/logging"
	"github.com/mikey/llm-email-analyzer/internal/metrics"
	"github.com/mikey/llm-email-analyzer/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(utils.NewTextProcessor); err != nil {
		return nil, err
	}

	// Register metrics
	if err := container.Provide(prometheus.NewRegistry); err != nil {
		return nil, err
	}
	if err := container.Provide(func(reg *prometheus.Registry) prometheus.Gatherer {
		return reg
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(reg *prometheus.Registry) *metrics.Metrics {
		return metrics.New(reg)
	}); err != nil {
		return nil, err
	}

	// Register client factory and model chains
	if err := container.Provide(factory.NewClientFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.ClientFactory) (*factory.ChainSet, error) {
		return f.BuildChainSet(context.Background())
	}); err != nil {
		return nil, err
	}

	// Register bypass checker
	if err := container.Provide(func(cfg *config.Config, logger *zap.Logger) *bypass.Checker {
		bypassCfg := cfg.GetBypass()
		if len(bypassCfg.WhitelistedDomains) > 0 {
			logger.Info("Loaded whitelisted domains", zap.Strings("domains", bypassCfg.WhitelistedDomains))
		}
		return bypass.NewChecker(bypassCfg.WhitelistedDomains, bypassCfg.AutomatedPrefixes, logger)
	}); err != nil {
		return nil, err
	}

	// Register analysis service
	if err := container.Provide(func(
		cfg *config.Config,
		chains *factory.ChainSet,
		checker *bypass.Checker,
		text *utils.TextProcessor,
		m *metrics.Metrics,
		logger *zap.Logger,
	) core.EmailAnalyzer {
		analysisCfg := cfg.GetAnalysis()
		return analyzer.NewService(chains.Analysis, chains.Reply, checker, text, m, logger, analyzer.Options{
			MaxBodySize:        cfg.GetLLM().MaxBodySize,
			MaxAnalyzeKeywords: analysisCfg.MaxKeywords,
			MaxExtractKeywords: analysisCfg.ExtractMaxKeywords,
		})
	}); err != nil {
		return nil, err
	}

	// Register HTTP server
	if err := container.Provide(httpapi.NewHandler); err != nil {
		return nil, err
	}
	if err := container.Provide(httpapi.NewRouter); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, router *gin.Engine, logger *zap.Logger) *httpapi.Server {
		return httpapi.NewServer(cfg.GetServer().ListenAddress, router, logger)
	}); err != nil {
		return nil, err
	}

	// Register SMTP intake
	if err := container.Provide(func(service core.EmailAnalyzer, cfg *config.Config, logger *zap.Logger) *smtpd.Filter {
		return smtpd.NewFilter(service, cfg.GetSMTP(), logger)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
