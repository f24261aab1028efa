package quest

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/talesofclaude/quest-engine/internal/content"
	domain "github.com/talesofclaude/quest-engine/internal/domain/quest"
	apperrors "github.com/talesofclaude/quest-engine/internal/errors"
	"github.com/talesofclaude/quest-engine/internal/repositories/queststate"
	"github.com/talesofclaude/quest-engine/internal/services/flags"
	"github.com/talesofclaude/quest-engine/internal/services/reputation"
	"github.com/talesofclaude/quest-engine/internal/uuid"
)

// Service is the quest engine's orchestration surface. Game event producers
// (movement, combat, pickup, dialogue) feed UpdateQuestProgress; the dialogue
// UI resolves decision gates through MakeChoice; everything else is journal
// reads and persistence.
//
// Lookups by id are total: unknown ids and invalid transitions return false
// rather than erroring, matching the engine's fail-soft policy. Only
// persistence operations return errors.
//
// All quest mutation must go through this service; it is one critical
// section, so it is safe to call from concurrent handler goroutines.
type Service interface {
	// InitializeQuests rebuilds every quest instance from the catalog and
	// clears the active/completed partition. Calling it again is a full reset.
	InitializeQuests()

	// GetAvailableQuests returns quests that are not started and whose
	// prerequisites are currently satisfied
	GetAvailableQuests() []*domain.Quest

	// StartQuest starts an available quest and tracks it as active
	StartQuest(questID string) bool

	// UpdateQuestProgress broadcasts a game event to every active quest and
	// returns the quests the event completed
	UpdateQuestProgress(objType domain.ObjectiveType, target string, amount int) []*domain.Quest

	// PendingChoices returns the exposed decision-gate choices of an active
	// quest, or nil
	PendingChoices(questID string) []domain.Choice

	// MakeChoice resolves a pending choice on an active quest, applying its
	// consequences through the collaborator stores
	MakeChoice(questID, choiceID string) bool

	// CompleteQuest grants a completed quest's rewards exactly once and
	// records the completion id
	CompleteQuest(questID string) bool

	// FailQuest marks an active quest failed (content-triggered)
	FailQuest(questID string) bool

	// AbandonQuest returns an active quest to not_started, dropping progress
	AbandonQuest(questID string) bool

	// ResetQuest force-resets any quest to not_started (debug/repeatable)
	ResetQuest(questID string) bool

	// GetQuestByID returns a quest instance by id, or nil
	GetQuestByID(questID string) *domain.Quest

	// GetActiveQuests returns the in-progress quests in start order
	GetActiveQuests() []*domain.Quest

	// GetAllQuests returns every quest instance in catalog order
	GetAllQuests() []*domain.Quest

	// GetCompletedQuestIDs returns completed quest ids in completion order
	GetCompletedQuestIDs() []string

	// SaveState captures the full engine state
	SaveState() *domain.EngineState

	// LoadState rebuilds the catalog and overlays saved state onto it. Saved
	// quests missing from the catalog are dropped with a warning; catalog
	// quests missing from the save keep their blueprint defaults.
	LoadState(state *domain.EngineState)

	// Save persists the current state as a new snapshot for the player
	Save(ctx context.Context, playerID string) (*queststate.Snapshot, error)

	// LoadLatest restores the player's most recent snapshot
	LoadLatest(ctx context.Context, playerID string) error
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Catalog    *content.Catalog   // Required
	Reputation reputation.Service // Required
	Flags      flags.Service      // Required
	Inventory  PartyInventory     // Optional (item grants dropped if nil)
	Experience ExperienceSink     // Optional (exp grants dropped if nil)
	Dialogue   DialogueSink       // Optional (dialogue triggers dropped if nil)
	Repository queststate.Repository
	UUID       uuid.Generator // Optional
}

// service implements the Service interface
type service struct {
	mu sync.Mutex

	catalog    *content.Catalog
	reputation reputation.Service
	flags      flags.Service
	inventory  PartyInventory
	experience ExperienceSink
	dialogue   DialogueSink
	repository queststate.Repository
	uuid       uuid.Generator

	quests       map[string]*domain.Quest
	questOrder   []string
	activeIDs    []string
	completedIDs []string
	completedSet map[string]bool
}

// NewService creates a quest service with every quest instantiated from the
// catalog.
func NewService(cfg *ServiceConfig) Service {
	if cfg.Catalog == nil {
		panic("catalog is required")
	}
	if cfg.Reputation == nil {
		panic("reputation service is required")
	}
	if cfg.Flags == nil {
		panic("flags service is required")
	}

	svc := &service{
		catalog:    cfg.Catalog,
		reputation: cfg.Reputation,
		flags:      cfg.Flags,
		inventory:  cfg.Inventory,
		experience: cfg.Experience,
		dialogue:   cfg.Dialogue,
		repository: cfg.Repository,
		uuid:       cfg.UUID,
	}
	if svc.uuid == nil {
		svc.uuid = uuid.NewGoogleUUIDGenerator()
	}

	svc.initializeLocked()
	return svc
}

// initializeLocked rebuilds all quest instances from the catalog blueprints.
// Instances deep-copy their objective state, so resetting is just rebuilding.
func (s *service) initializeLocked() {
	blueprints := s.catalog.Blueprints()
	s.quests = make(map[string]*domain.Quest, len(blueprints))
	s.questOrder = make([]string, 0, len(blueprints))
	s.activeIDs = nil
	s.completedIDs = nil
	s.completedSet = make(map[string]bool)

	for _, bp := range blueprints {
		s.quests[bp.ID] = domain.New(bp)
		s.questOrder = append(s.questOrder, bp.ID)
	}
}

func (s *service) InitializeQuests() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.initializeLocked()
}

func (s *service) GetAvailableQuests() []*domain.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var available []*domain.Quest
	for _, id := range s.questOrder {
		q := s.quests[id]
		if q.IsAvailable(s.completedSet, s.flags, s.reputation) {
			available = append(available, q)
		}
	}
	return available
}

func (s *service) StartQuest(questID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quests[questID]
	if !exists {
		log.Printf("startQuest: unknown quest id %s", questID)
		return false
	}
	if !q.IsAvailable(s.completedSet, s.flags, s.reputation) {
		return false
	}
	if !q.Start(s.flags, s.reputation) {
		return false
	}

	s.activeIDs = append(s.activeIDs, questID)

	// Stage rewards apply on branch entry, including the initial branch.
	if branchID := q.CurrentBranchID(); branchID != "" {
		if b := q.Blueprint().BranchByID(branchID); b != nil && b.Rewards != nil {
			s.grantRewardsLocked(*b.Rewards)
		}
	}
	return true
}

func (s *service) UpdateQuestProgress(objType domain.ObjectiveType, target string, amount int) []*domain.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Broadcast to every active quest: multiple quests may track the same
	// (type, target) pair.
	var completed []*domain.Quest
	for _, id := range s.activeIDs {
		q := s.quests[id]
		q.UpdateObjectiveProgress(objType, target, amount)
		if q.Status() == domain.StatusCompleted {
			completed = append(completed, q)
		}
	}

	for _, q := range completed {
		s.retireLocked(q)
	}
	return completed
}

func (s *service) PendingChoices(questID string) []domain.Choice {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quests[questID]
	if !exists {
		return nil
	}
	return q.PendingChoices()
}

func (s *service) MakeChoice(questID, choiceID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quests[questID]
	if !exists {
		log.Printf("makeChoice: unknown quest id %s", questID)
		return false
	}

	result, ok := q.HandleChoice(choiceID, s.flags, s.reputation)
	if !ok {
		return false
	}

	s.applyConsequencesLocked(result.Choice.Consequences)
	if result.EnteredBranch != nil && result.EnteredBranch.Rewards != nil {
		s.grantRewardsLocked(*result.EnteredBranch.Rewards)
	}

	if q.Status() == domain.StatusCompleted {
		s.retireLocked(q)
	}
	return true
}

// applyConsequencesLocked applies consequences in declaration order, exactly
// once. Storage belongs to the collaborators; the engine only instructs.
func (s *service) applyConsequencesLocked(consequences []domain.Consequence) {
	for _, c := range consequences {
		switch c.Type {
		case domain.ConsequenceReputationChange, domain.ConsequenceFactionChange:
			s.reputation.ChangeReputation(c.TargetID, c.Delta)
		case domain.ConsequenceFlagSet:
			s.flags.SetFlag(c.TargetID, c.Set)
		case domain.ConsequenceItemGrant:
			if s.inventory != nil {
				quantity := c.Delta
				if quantity < 1 {
					quantity = 1
				}
				s.inventory.AddItem(c.TargetID, quantity)
			}
		case domain.ConsequenceDialogueTrigger:
			if s.dialogue != nil {
				s.dialogue.QueueDialogue(c.TargetID)
			}
		default:
			log.Printf("skipping consequence with unknown type %q", c.Type)
		}
	}
}

func (s *service) grantRewardsLocked(rewards domain.Rewards) {
	if rewards.Exp > 0 && s.experience != nil {
		s.experience.AddExperience(rewards.Exp)
	}
	if s.inventory != nil {
		for _, item := range rewards.Items {
			s.inventory.AddItem(item.ItemID, item.Quantity)
		}
	}
}

// retireLocked moves a completed quest out of the active list and records its
// id. Re-recording an already completed id is a no-op.
func (s *service) retireLocked(q *domain.Quest) {
	id := q.ID()
	for i, activeID := range s.activeIDs {
		if activeID == id {
			s.activeIDs = append(s.activeIDs[:i], s.activeIDs[i+1:]...)
			break
		}
	}
	if !s.completedSet[id] {
		s.completedSet[id] = true
		s.completedIDs = append(s.completedIDs, id)
	}
}

func (s *service) CompleteQuest(questID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quests[questID]
	if !exists {
		log.Printf("completeQuest: unknown quest id %s", questID)
		return false
	}

	rewards, ok := q.GrantRewards()
	if !ok {
		return false
	}

	s.grantRewardsLocked(rewards)
	s.retireLocked(q)
	return true
}

func (s *service) FailQuest(questID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quests[questID]
	if !exists || !q.Fail() {
		return false
	}

	for i, activeID := range s.activeIDs {
		if activeID == questID {
			s.activeIDs = append(s.activeIDs[:i], s.activeIDs[i+1:]...)
			break
		}
	}
	return true
}

func (s *service) AbandonQuest(questID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quests[questID]
	if !exists || !q.Abandon() {
		return false
	}

	for i, activeID := range s.activeIDs {
		if activeID == questID {
			s.activeIDs = append(s.activeIDs[:i], s.activeIDs[i+1:]...)
			break
		}
	}
	return true
}

func (s *service) ResetQuest(questID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, exists := s.quests[questID]
	if !exists {
		return false
	}

	q.Reset()

	for i, activeID := range s.activeIDs {
		if activeID == questID {
			s.activeIDs = append(s.activeIDs[:i], s.activeIDs[i+1:]...)
			break
		}
	}
	if s.completedSet[questID] {
		delete(s.completedSet, questID)
		for i, completedID := range s.completedIDs {
			if completedID == questID {
				s.completedIDs = append(s.completedIDs[:i], s.completedIDs[i+1:]...)
				break
			}
		}
	}
	return true
}

func (s *service) GetQuestByID(questID string) *domain.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.quests[questID]
}

func (s *service) GetActiveQuests() []*domain.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]*domain.Quest, 0, len(s.activeIDs))
	for _, id := range s.activeIDs {
		active = append(active, s.quests[id])
	}
	return active
}

func (s *service) GetAllQuests() []*domain.Quest {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := make([]*domain.Quest, 0, len(s.questOrder))
	for _, id := range s.questOrder {
		all = append(all, s.quests[id])
	}
	return all
}

func (s *service) GetCompletedQuestIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.completedIDs))
	copy(out, s.completedIDs)
	return out
}

func (s *service) SaveState() *domain.EngineState {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveStateLocked()
}

func (s *service) saveStateLocked() *domain.EngineState {
	state := &domain.EngineState{
		Quests:             make([]domain.State, 0, len(s.questOrder)),
		ActiveQuestIDs:     append([]string(nil), s.activeIDs...),
		CompletedQuestIDs:  append([]string(nil), s.completedIDs...),
		FactionReputations: s.reputation.Snapshot(),
		Flags:              s.flags.Snapshot(),
	}
	for _, id := range s.questOrder {
		state.Quests = append(state.Quests, s.quests[id].SaveState())
	}
	return state
}

func (s *service) LoadState(state *domain.EngineState) {
	if state == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadStateLocked(state)
}

func (s *service) loadStateLocked(state *domain.EngineState) {
	// Rebuild from the current catalog first so blueprints added since the
	// save exist at their defaults, then overlay saved state by id.
	s.initializeLocked()

	for _, qs := range state.Quests {
		q, exists := s.quests[qs.ID]
		if !exists {
			log.Printf("loadState: saved quest %s no longer in catalog, dropping", qs.ID)
			continue
		}
		q.RestoreState(qs)
	}

	for _, id := range state.ActiveQuestIDs {
		if q, exists := s.quests[id]; exists && q.Status() == domain.StatusInProgress {
			s.activeIDs = append(s.activeIDs, id)
		}
	}
	for _, id := range state.CompletedQuestIDs {
		if _, exists := s.quests[id]; exists && !s.completedSet[id] {
			s.completedSet[id] = true
			s.completedIDs = append(s.completedIDs, id)
		}
	}

	s.reputation.Restore(state.FactionReputations)
	s.flags.Restore(state.Flags)
}

func (s *service) Save(ctx context.Context, playerID string) (*queststate.Snapshot, error) {
	if playerID == "" {
		return nil, apperrors.InvalidArgument("player ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repository == nil {
		return nil, apperrors.Internal("no quest state repository configured")
	}

	snapshot := &queststate.Snapshot{
		ID:        s.uuid.New(),
		PlayerID:  playerID,
		CreatedAt: time.Now().UTC(),
		State:     *s.saveStateLocked(),
	}

	if err := s.repository.Put(ctx, snapshot); err != nil {
		return nil, apperrors.Wrap(err, "failed to persist quest state").
			WithMeta("player_id", playerID)
	}
	return snapshot, nil
}

func (s *service) LoadLatest(ctx context.Context, playerID string) error {
	if playerID == "" {
		return apperrors.InvalidArgument("player ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repository == nil {
		return apperrors.Internal("no quest state repository configured")
	}

	snapshot, err := s.repository.GetLatest(ctx, playerID)
	if err != nil {
		return apperrors.Wrapf(err, "failed to load quest state for player '%s'", playerID)
	}

	s.loadStateLocked(&snapshot.State)
	return nil
}
