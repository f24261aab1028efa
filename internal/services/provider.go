package services

import (
	"github.com/talesofclaude/quest-engine/internal/content"
	"github.com/talesofclaude/quest-engine/internal/repositories/queststate"
	flagService "github.com/talesofclaude/quest-engine/internal/services/flags"
	questService "github.com/talesofclaude/quest-engine/internal/services/quest"
	reputationService "github.com/talesofclaude/quest-engine/internal/services/reputation"
)

// Provider holds all service instances
type Provider struct {
	QuestService      questService.Service
	ReputationService reputationService.Service
	FlagService       flagService.Service
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Catalog        *content.Catalog
	QuestStateRepo queststate.Repository
	Inventory      questService.PartyInventory
	Experience     questService.ExperienceSink
	Dialogue       questService.DialogueSink
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(cfg *ProviderConfig) *Provider {
	// Use in-memory repository if none provided
	stateRepo := cfg.QuestStateRepo
	if stateRepo == nil {
		stateRepo = queststate.NewInMemoryRepository()
	}

	repService := reputationService.NewService()
	flgService := flagService.NewService()

	qstService := questService.NewService(&questService.ServiceConfig{
		Catalog:    cfg.Catalog,
		Reputation: repService,
		Flags:      flgService,
		Inventory:  cfg.Inventory,
		Experience: cfg.Experience,
		Dialogue:   cfg.Dialogue,
		Repository: stateRepo,
	})

	return &Provider{
		QuestService:      qstService,
		ReputationService: repService,
		FlagService:       flgService,
	}
}
