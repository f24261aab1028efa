package quest_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/talesofclaude/quest-engine/internal/content"
	domain "github.com/talesofclaude/quest-engine/internal/domain/quest"
	"github.com/talesofclaude/quest-engine/internal/repositories/queststate"
	"github.com/talesofclaude/quest-engine/internal/services/flags"
	questsvc "github.com/talesofclaude/quest-engine/internal/services/quest"
	mockquest "github.com/talesofclaude/quest-engine/internal/services/quest/mock"
	"github.com/talesofclaude/quest-engine/internal/services/reputation"
)

func anomalyBlueprint() *domain.Blueprint {
	return &domain.Blueprint{
		ID:          "mq_01_anomaly",
		Name:        "The Anomaly",
		Description: "Investigate the disturbance in the Binary Forest.",
		Rewards: domain.Rewards{
			Exp:   100,
			Items: []domain.ItemGrant{{ItemID: "anomaly_shard", Quantity: 1}},
		},
		Branches: []domain.Branch{
			{
				ID: "investigation",
				Objectives: []domain.ObjectiveBlueprint{
					{ID: "reach_site", Type: domain.ObjectiveReachLocation, Target: "binary_forest_anomaly_site", Quantity: 1},
					{ID: "clear_guardians", Type: domain.ObjectiveDefeatEnemy, Target: "corrupted_data", Quantity: 1},
					{
						ID: "decide", Type: domain.ObjectiveTalkToNPC, Target: "self", Quantity: 1,
						Choices: []domain.Choice{
							{
								ID:   "choice_report",
								Text: "Report to the Order",
								Consequences: []domain.Consequence{
									{Type: domain.ConsequenceReputationChange, TargetID: "order", Delta: 10},
									{Type: domain.ConsequenceFlagSet, TargetID: "mq01_reported_to_order", Set: true},
								},
								NextBranchID: "path_report",
							},
							{ID: "choice_investigate", Text: "Investigate alone", NextBranchID: "path_investigate"},
						},
					},
				},
			},
			{
				ID: "path_report",
				Objectives: []domain.ObjectiveBlueprint{
					{ID: "meet_captain", Type: domain.ObjectiveTalkToNPC, Target: "order_captain", Quantity: 1},
				},
				Terminal: true,
			},
			{
				ID: "path_investigate",
				Objectives: []domain.ObjectiveBlueprint{
					{ID: "gather_samples", Type: domain.ObjectiveCollectItem, Target: "anomaly_sample", Quantity: 2},
				},
				Terminal: true,
			},
		},
		InitialBranchID: "investigation",
	}
}

func ratsBlueprint() *domain.Blueprint {
	return &domain.Blueprint{
		ID:          "sq_debug_rats",
		Name:        "Pest Control",
		Description: "Clear the corrupted data from the archive.",
		Rewards:     domain.Rewards{Exp: 50},
		Objectives: []domain.ObjectiveBlueprint{
			{ID: "kill_corrupted", Type: domain.ObjectiveDefeatEnemy, Target: "corrupted_data", Quantity: 3},
		},
	}
}

func huntBlueprint() *domain.Blueprint {
	return &domain.Blueprint{
		ID:          "sq_data_hunt",
		Name:        "Data Hunt",
		Description: "A bounty on corrupted data.",
		Rewards:     domain.Rewards{Exp: 75},
		Objectives: []domain.ObjectiveBlueprint{
			{ID: "cull_corruption", Type: domain.ObjectiveDefeatEnemy, Target: "corrupted_data", Quantity: 5},
		},
	}
}

// followupBlueprint is gated on completing mq_01 and the report flag.
func followupBlueprint() *domain.Blueprint {
	return &domain.Blueprint{
		ID:            "mq_02_traces",
		Name:          "Traces",
		Description:   "Follow up with the Order.",
		Prerequisites: []string{"mq_01_anomaly", "flag:mq01_reported_to_order"},
		Objectives: []domain.ObjectiveBlueprint{
			{ID: "debrief", Type: domain.ObjectiveTalkToNPC, Target: "order_captain", Quantity: 1},
		},
	}
}

type serviceFixture struct {
	svc        questsvc.Service
	reputation reputation.Service
	flags      flags.Service
	inventory  *mockquest.MockPartyInventory
	experience *mockquest.MockExperienceSink
	dialogue   *mockquest.MockDialogueSink
	repo       queststate.Repository
}

func newFixture(t *testing.T, blueprints ...*domain.Blueprint) *serviceFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &serviceFixture{
		reputation: reputation.NewService(),
		flags:      flags.NewService(),
		inventory:  mockquest.NewMockPartyInventory(ctrl),
		experience: mockquest.NewMockExperienceSink(ctrl),
		dialogue:   mockquest.NewMockDialogueSink(ctrl),
		repo:       queststate.NewInMemoryRepository(),
	}
	f.svc = questsvc.NewService(&questsvc.ServiceConfig{
		Catalog:    content.NewCatalog(blueprints),
		Reputation: f.reputation,
		Flags:      f.flags,
		Inventory:  f.inventory,
		Experience: f.experience,
		Dialogue:   f.dialogue,
		Repository: f.repo,
	})
	return f
}

func TestService_BranchingQuestFlow(t *testing.T) {
	f := newFixture(t, anomalyBlueprint())

	require.True(t, f.svc.StartQuest("mq_01_anomaly"))
	require.Len(t, f.svc.GetActiveQuests(), 1)

	f.svc.UpdateQuestProgress(domain.ObjectiveReachLocation, "binary_forest_anomaly_site", 1)
	f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 1)

	choices := f.svc.PendingChoices("mq_01_anomaly")
	require.Len(t, choices, 2)
	assert.Equal(t, "choice_report", choices[0].ID)

	require.True(t, f.svc.MakeChoice("mq_01_anomaly", "choice_report"))

	// Consequences fired through the collaborator stores
	assert.Equal(t, 10, f.reputation.GetReputation("order"))
	assert.True(t, f.flags.GetFlag("mq01_reported_to_order"))

	// Objective set swapped to the chosen branch
	q := f.svc.GetQuestByID("mq_01_anomaly")
	require.NotNil(t, q)
	assert.Equal(t, "path_report", q.CurrentBranchID())
	require.Len(t, q.Objectives(), 1)
	assert.Equal(t, "meet_captain", q.Objectives()[0].ID)

	completed := f.svc.UpdateQuestProgress(domain.ObjectiveTalkToNPC, "order_captain", 1)
	require.Len(t, completed, 1)
	assert.Equal(t, domain.StatusCompleted, q.Status())
	assert.Empty(t, f.svc.GetActiveQuests())
	assert.Equal(t, []string{"mq_01_anomaly"}, f.svc.GetCompletedQuestIDs())

	// Rewards are granted exactly once
	f.experience.EXPECT().AddExperience(100)
	f.inventory.EXPECT().AddItem("anomaly_shard", 1)
	assert.True(t, f.svc.CompleteQuest("mq_01_anomaly"))
	assert.False(t, f.svc.CompleteQuest("mq_01_anomaly"))
}

func TestService_ChoiceWithoutPendingGate(t *testing.T) {
	f := newFixture(t, anomalyBlueprint())
	require.True(t, f.svc.StartQuest("mq_01_anomaly"))

	// The gate is not exposed until the objectives before it complete
	assert.Nil(t, f.svc.PendingChoices("mq_01_anomaly"))
	assert.False(t, f.svc.MakeChoice("mq_01_anomaly", "choice_report"))
	assert.Equal(t, 0, f.reputation.GetReputation("order"))
}

func TestService_ProgressFanOut(t *testing.T) {
	f := newFixture(t, ratsBlueprint(), huntBlueprint())

	require.True(t, f.svc.StartQuest("sq_debug_rats"))
	require.True(t, f.svc.StartQuest("sq_data_hunt"))

	// One defeat event advances every active quest tracking that target
	completed := f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 1)
	assert.Empty(t, completed)

	rats := f.svc.GetQuestByID("sq_debug_rats")
	hunt := f.svc.GetQuestByID("sq_data_hunt")
	assert.Equal(t, 1, rats.Objectives()[0].CurrentProgress)
	assert.Equal(t, 1, hunt.Objectives()[0].CurrentProgress)

	// The shorter quest completes first while the other keeps counting
	completed = f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 2)
	require.Len(t, completed, 1)
	assert.Equal(t, "sq_debug_rats", completed[0].ID())
	assert.Equal(t, 3, hunt.Objectives()[0].CurrentProgress)
}

func TestService_UnknownIDsFailSoft(t *testing.T) {
	f := newFixture(t, ratsBlueprint())

	assert.False(t, f.svc.StartQuest("nonexistent"))
	assert.False(t, f.svc.MakeChoice("nonexistent", "choice"))
	assert.False(t, f.svc.CompleteQuest("nonexistent"))
	assert.Nil(t, f.svc.GetQuestByID("nonexistent"))
	assert.Nil(t, f.svc.PendingChoices("nonexistent"))
}

func TestService_PrerequisiteGating(t *testing.T) {
	f := newFixture(t, anomalyBlueprint(), followupBlueprint())

	available := f.svc.GetAvailableQuests()
	require.Len(t, available, 1)
	assert.Equal(t, "mq_01_anomaly", available[0].ID())

	// Gated quest cannot be force-started around its prerequisites
	assert.False(t, f.svc.StartQuest("mq_02_traces"))

	require.True(t, f.svc.StartQuest("mq_01_anomaly"))
	f.svc.UpdateQuestProgress(domain.ObjectiveReachLocation, "binary_forest_anomaly_site", 1)
	f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 1)
	require.True(t, f.svc.MakeChoice("mq_01_anomaly", "choice_report"))
	f.svc.UpdateQuestProgress(domain.ObjectiveTalkToNPC, "order_captain", 1)

	// Completion plus the flag unlock the follow-up
	available = f.svc.GetAvailableQuests()
	require.Len(t, available, 1)
	assert.Equal(t, "mq_02_traces", available[0].ID())
	assert.True(t, f.svc.StartQuest("mq_02_traces"))
}

func TestService_FlagGatedInitialBranch(t *testing.T) {
	bp := &domain.Blueprint{
		ID:          "mq_02_traces",
		Name:        "Traces",
		Description: "Follow the trail.",
		Branches: []domain.Branch{
			{
				ID:      "order_path",
				Prereqs: []string{"flag:mq01_reported_to_order"},
				Objectives: []domain.ObjectiveBlueprint{
					{ID: "attend_briefing", Type: domain.ObjectiveTalkToNPC, Target: "order_captain", Quantity: 1},
				},
				Terminal: true,
			},
			{
				ID: "chaos_path",
				Objectives: []domain.ObjectiveBlueprint{
					{ID: "track_source", Type: domain.ObjectiveReachLocation, Target: "glitch_cavern", Quantity: 1},
				},
				Terminal: true,
			},
		},
		InitialBranchID: "order_path",
	}

	// Without the flag, the gated initial branch is skipped for its sibling
	f := newFixture(t, bp)
	require.True(t, f.svc.StartQuest("mq_02_traces"))
	assert.Equal(t, "chaos_path", f.svc.GetQuestByID("mq_02_traces").CurrentBranchID())

	// With the flag set, the declared initial branch wins
	g := newFixture(t, bp)
	g.flags.SetFlag("mq01_reported_to_order", true)
	require.True(t, g.svc.StartQuest("mq_02_traces"))
	assert.Equal(t, "order_path", g.svc.GetQuestByID("mq_02_traces").CurrentBranchID())
}

func TestService_InitialBranchStageRewards(t *testing.T) {
	bp := &domain.Blueprint{
		ID:          "mq_03_vanguard",
		Name:        "Vanguard",
		Description: "March with the vanguard.",
		Branches: []domain.Branch{
			{
				ID:      "march",
				Rewards: &domain.Rewards{Exp: 25, Items: []domain.ItemGrant{{ItemID: "ration_pack", Quantity: 3}}},
				Objectives: []domain.ObjectiveBlueprint{
					{ID: "reach_front", Type: domain.ObjectiveReachLocation, Target: "front_line", Quantity: 1},
				},
				Terminal: true,
			},
		},
		InitialBranchID: "march",
	}
	f := newFixture(t, bp)

	// Entering the initial branch at start grants its stage rewards
	f.experience.EXPECT().AddExperience(25)
	f.inventory.EXPECT().AddItem("ration_pack", 3)
	require.True(t, f.svc.StartQuest("mq_03_vanguard"))
	assert.Equal(t, "march", f.svc.GetQuestByID("mq_03_vanguard").CurrentBranchID())
}

func TestService_ItemAndDialogueConsequences(t *testing.T) {
	bp := ratsBlueprint()
	bp.Objectives = []domain.ObjectiveBlueprint{
		{
			ID: "decide", Type: domain.ObjectiveTalkToNPC, Target: "archivist", Quantity: 1,
			Choices: []domain.Choice{
				{
					ID:   "choice_take_payment",
					Text: "Take the payment",
					Consequences: []domain.Consequence{
						{Type: domain.ConsequenceItemGrant, TargetID: "gold_pouch", Delta: 2},
						{Type: domain.ConsequenceDialogueTrigger, TargetID: "archivist_thanks"},
					},
				},
			},
		},
	}
	f := newFixture(t, bp)
	require.True(t, f.svc.StartQuest("sq_debug_rats"))

	f.inventory.EXPECT().AddItem("gold_pouch", 2)
	f.dialogue.EXPECT().QueueDialogue("archivist_thanks")
	assert.True(t, f.svc.MakeChoice("sq_debug_rats", "choice_take_payment"))
}

func TestService_AbandonAndFail(t *testing.T) {
	f := newFixture(t, ratsBlueprint(), huntBlueprint())

	require.True(t, f.svc.StartQuest("sq_debug_rats"))
	require.True(t, f.svc.StartQuest("sq_data_hunt"))
	f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 2)

	// Abandoning drops progress and makes the quest available again
	require.True(t, f.svc.AbandonQuest("sq_debug_rats"))
	rats := f.svc.GetQuestByID("sq_debug_rats")
	assert.Equal(t, domain.StatusNotStarted, rats.Status())
	assert.Equal(t, 0, rats.Objectives()[0].CurrentProgress)
	require.Len(t, f.svc.GetActiveQuests(), 1)

	// Failing removes from the active set but stays failed until reset
	require.True(t, f.svc.FailQuest("sq_data_hunt"))
	assert.Empty(t, f.svc.GetActiveQuests())
	assert.False(t, f.svc.StartQuest("sq_data_hunt"))

	require.True(t, f.svc.ResetQuest("sq_data_hunt"))
	assert.True(t, f.svc.StartQuest("sq_data_hunt"))
}

func TestService_SaveAndLoadState(t *testing.T) {
	f := newFixture(t, anomalyBlueprint(), ratsBlueprint())

	require.True(t, f.svc.StartQuest("sq_debug_rats"))
	f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 2)
	f.reputation.ChangeReputation("order", 5)
	f.flags.SetFlag("met_archivist", true)

	state := f.svc.SaveState()
	require.NotNil(t, state)

	// Restore into a fresh engine over the same catalog
	g := newFixture(t, anomalyBlueprint(), ratsBlueprint())
	g.svc.LoadState(state)

	rats := g.svc.GetQuestByID("sq_debug_rats")
	require.NotNil(t, rats)
	assert.Equal(t, domain.StatusInProgress, rats.Status())
	assert.Equal(t, 2, rats.Objectives()[0].CurrentProgress)
	assert.Equal(t, 5, g.reputation.GetReputation("order"))
	assert.True(t, g.flags.GetFlag("met_archivist"))

	// One more defeat finishes the restored quest
	completed := g.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 1)
	require.Len(t, completed, 1)
	assert.Equal(t, "sq_debug_rats", completed[0].ID())
}

func TestService_LoadStateDropsUnknownQuests(t *testing.T) {
	f := newFixture(t, anomalyBlueprint(), ratsBlueprint())
	require.True(t, f.svc.StartQuest("sq_debug_rats"))
	state := f.svc.SaveState()

	// The rats quest was removed from the catalog since the save
	g := newFixture(t, anomalyBlueprint())
	g.svc.LoadState(state)

	assert.Nil(t, g.svc.GetQuestByID("sq_debug_rats"))
	assert.Empty(t, g.svc.GetActiveQuests())
	assert.NotNil(t, g.svc.GetQuestByID("mq_01_anomaly"))
}

func TestService_SnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, anomalyBlueprint(), ratsBlueprint())

	require.True(t, f.svc.StartQuest("sq_debug_rats"))
	f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 2)

	snapshot, err := f.svc.Save(ctx, "player-1")
	require.NoError(t, err)
	assert.NotEmpty(t, snapshot.ID)

	// More progress after the save must not survive the reload
	f.svc.UpdateQuestProgress(domain.ObjectiveDefeatEnemy, "corrupted_data", 1)

	require.NoError(t, f.svc.LoadLatest(ctx, "player-1"))
	rats := f.svc.GetQuestByID("sq_debug_rats")
	assert.Equal(t, domain.StatusInProgress, rats.Status())
	assert.Equal(t, 2, rats.Objectives()[0].CurrentProgress)

	_, err = f.svc.Save(ctx, "")
	assert.Error(t, err)
	assert.Error(t, f.svc.LoadLatest(ctx, "nobody"))
}
