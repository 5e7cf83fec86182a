package builder

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dilcore/template-agent/internal/agent"
	"github.com/dilcore/template-agent/internal/api"
	modulebuilderapi "github.com/dilcore/template-agent/internal/api/modulebuilder"
	personaapi "github.com/dilcore/template-agent/internal/api/persona"
	"github.com/dilcore/template-agent/internal/config"
	"github.com/dilcore/template-agent/internal/integration/embedding"
	"github.com/dilcore/template-agent/internal/integration/llm"
	"github.com/dilcore/template-agent/internal/pkg/validator"
	"github.com/dilcore/template-agent/internal/vectorstore"
	"go.uber.org/zap"
)

func Build() (*App, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := setupLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	logger.Info("Building application",
		zap.String("environment", cfg.Environment),
		zap.String("server_addr", cfg.ServerAddr),
	)

	// Initialize external service connectors (with mock support)
	var llmConnector agent.LLMConnector
	var embedder vectorstore.Embedder

	if cfg.EnableMocks {
		logger.Info("Using mock connectors for external services")
		llmConnector = llm.NewMockConnector(logger, cfg.LLMConnectorCfg.Model)
		embedder = embedding.NewMockConnector(logger)
	} else {
		logger.Info("Using real connectors for external services")
		llmConnector = llm.NewConnector(cfg.LLMConnectorCfg, logger)
		embedder = embedding.NewConnector(cfg.EmbeddingConnectorCfg, logger)
	}

	// Initialize vector indices and restore any persisted documents
	metadataIndex := vectorstore.NewIndex(cfg.VectorStoreCfg.MetadataIndexName, cfg.VectorStoreCfg.BasePath, embedder, logger)
	dataIndex := vectorstore.NewIndex(cfg.VectorStoreCfg.DataIndexName, cfg.VectorStoreCfg.BasePath, embedder, logger)
	metadataIndex.Load()
	dataIndex.Load()
	logger.Info("Vector indices initialized",
		zap.Int("metadata_documents", metadataIndex.Size()),
		zap.Int("data_documents", dataIndex.Size()),
	)

	// Initialize agents
	session := agent.NewSessionContext(cfg.SessionContextCfg.MaxEntries)
	classifier := agent.NewOpenAICompatClassifier()

	builderAgent := agent.NewModuleBuilderAgent(llmConnector, metadataIndex, session, classifier)
	personaAgent := agent.NewPersonaAgent(llmConnector, metadataIndex, dataIndex)

	registry, err := newAgentRegistry(builderAgent, personaAgent)
	if err != nil {
		return nil, err
	}
	logger.Info("Agents initialized", zap.Strings("types", registry.Types()))

	// Initialize validators
	reqValidator := validator.New()

	// Setup API handlers; agents are resolved through the registry so the
	// transport layer only ever sees registered types.
	generator, persona, err := resolveAgents(registry)
	if err != nil {
		return nil, err
	}
	builderHandler := modulebuilderapi.NewHandler(generator, reqValidator)
	personaHandler := personaapi.NewHandler(persona, reqValidator)
	logger.Info("API handlers initialized")

	// Setup router
	router := api.SetupRouter(builderHandler, personaHandler, api.HealthInfo{
		AppName: cfg.AppName,
		Version: cfg.Version,
		Model:   llmConnector.Model(),
	}, logger)
	logger.Info("HTTP router configured")

	// Create HTTP server. WriteTimeout stays at zero so SSE responses are
	// not cut off mid-stream.
	server := &http.Server{
		Addr:        cfg.ServerAddr,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	logger.Info("Application built successfully",
		zap.String("environment", cfg.Environment),
	)

	return &App{
		server: server,
		logger: logger,
	}, nil
}

func newAgentRegistry(builderAgent *agent.ModuleBuilderAgent, personaAgent *agent.PersonaAgent) (*agent.Registry, error) {
	registry := agent.NewRegistry()
	for agentType, instance := range map[string]any{
		agent.TypeModuleBuilder:          builderAgent,
		agent.TypeModuleBuilderStreaming: builderAgent,
		agent.TypePersona:                personaAgent,
	} {
		if err := registry.Register(agentType, instance); err != nil {
			return nil, fmt.Errorf("register agent: %w", err)
		}
	}
	return registry, nil
}

// resolveAgents looks the API-facing agents up in the registry and checks
// that they satisfy the handler interfaces.
func resolveAgents(registry *agent.Registry) (modulebuilderapi.GeneratorAgent, personaapi.PersonaAgent, error) {
	instance, err := registry.Get(agent.TypeModuleBuilder)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve generator agent: %w", err)
	}
	generator, ok := instance.(modulebuilderapi.GeneratorAgent)
	if !ok {
		return nil, nil, fmt.Errorf("agent %q cannot serve template generation", agent.TypeModuleBuilder)
	}

	instance, err = registry.Get(agent.TypePersona)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve persona agent: %w", err)
	}
	persona, ok := instance.(personaapi.PersonaAgent)
	if !ok {
		return nil, nil, fmt.Errorf("agent %q cannot serve persona resolution", agent.TypePersona)
	}

	return generator, persona, nil
}
