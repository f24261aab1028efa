package testutils

import (
	"time"

	"github.com/talesofclaude/quest-engine/internal/domain/quest"
	"github.com/talesofclaude/quest-engine/internal/repositories/queststate"
)

// CreateTestBlueprint creates a flat single-objective quest blueprint
func CreateTestBlueprint(id, name string) *quest.Blueprint {
	return &quest.Blueprint{
		ID:          id,
		Name:        name,
		Description: "A test quest.",
		Rewards:     quest.Rewards{Exp: 50},
		Objectives: []quest.ObjectiveBlueprint{
			{
				ID:       "kill_target",
				Type:     quest.ObjectiveDefeatEnemy,
				Target:   "corrupted_data",
				Quantity: 3,
			},
		},
	}
}

// CreateTestEngineState creates an engine state with one in-progress quest
func CreateTestEngineState(questID string) quest.EngineState {
	return quest.EngineState{
		Quests: []quest.State{
			{
				ID:     questID,
				Status: quest.StatusInProgress,
				Objectives: []quest.ObjectiveState{
					{ID: "kill_target", CurrentProgress: 2, IsCompleted: false},
				},
			},
		},
		ActiveQuestIDs:     []string{questID},
		CompletedQuestIDs:  []string{},
		FactionReputations: map[string]int{"order": 10},
		Flags:              map[string]bool{"met_archivist": true},
	}
}

// CreateTestSnapshot creates a snapshot wrapping a test engine state
func CreateTestSnapshot(id, playerID string) *queststate.Snapshot {
	return &queststate.Snapshot{
		ID:        id,
		PlayerID:  playerID,
		CreatedAt: time.Now().UTC(),
		State:     CreateTestEngineState("sq_test"),
	}
}
