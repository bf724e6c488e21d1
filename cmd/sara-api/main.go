package main

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	httpadapter "github.com/skysense-ai/sara-agent/internal/adapters/http"
	"github.com/skysense-ai/sara-agent/internal/adapters/llm"
	"github.com/skysense-ai/sara-agent/internal/adapters/phalanx"
	firestorestore "github.com/skysense-ai/sara-agent/internal/adapters/storage/firestore"
	memstore "github.com/skysense-ai/sara-agent/internal/adapters/storage/memory"
	"github.com/skysense-ai/sara-agent/internal/app/mission"
	"github.com/skysense-ai/sara-agent/internal/config"
	"github.com/skysense-ai/sara-agent/internal/domain"
	"github.com/skysense-ai/sara-agent/internal/observability"
)

func main() {
	ctx := context.Background()

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := observability.Logger()
	defer func() { _ = log.Sync() }()

	// Agent runner: mock for dev, Gemini otherwise.
	var runner domain.AgentRunner
	if cfg.UseMockRunner {
		log.Info("using mock agent runner")
		runner = llm.NewMockRunner()
	} else {
		if cfg.GeminiAPIKey == "" {
			log.Warn("SARA_GEMINI_API_KEY is not configured; agent calls will fail until it is set")
		}
		gemini, err := llm.NewGeminiRunner(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Fatal("error initializing gemini runner", zap.Error(err))
		}
		runner = gemini
	}

	// Publisher: absence of a backend URL disables the publish step.
	var publisher domain.MissionPublisher = phalanx.NewClient(cfg.PhalanxBaseURL)
	if cfg.PhalanxBaseURL == "" {
		log.Info("phalanx backend URL not set; mission publishing disabled")
	} else {
		log.Info("phalanx backend configured", zap.String("base_url", cfg.PhalanxBaseURL))
	}

	// Conversation storage: Firestore, memory, or none.
	var conversations domain.ConversationStore
	switch cfg.StorageBackend {
	case "firestore":
		if cfg.GCPProjectID == "" {
			log.Fatal("SARA_GCP_PROJECT is required for the firestore storage backend")
		}
		log.Info("using firestore conversation storage", zap.String("project", cfg.GCPProjectID))
		store, err := firestorestore.NewStore(ctx, cfg.GCPProjectID)
		if err != nil {
			log.Fatal("error initializing firestore store", zap.Error(err))
		}
		conversations = store
	case "none":
		log.Info("conversation storage disabled")
	default:
		log.Info("using in-memory conversation storage")
		conversations = memstore.NewConversationStore()
	}

	svc := mission.NewService(runner, publisher, conversations)
	handler := httpadapter.NewServer(svc, cfg.CORSAllowedOrigin)

	addr := ":" + cfg.Port
	log.Info("sara-api listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
