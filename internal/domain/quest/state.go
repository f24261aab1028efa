package quest

import "log"

// ObjectiveState is the persisted mutable slice of one objective.
type ObjectiveState struct {
	ID              string `json:"id"`
	CurrentProgress int    `json:"currentProgress"`
	IsCompleted     bool   `json:"isCompleted"`
}

// State is the persisted mutable slice of one quest instance. Blueprint data
// is never saved; on load the state is overlaid onto a fresh instance built
// from the current catalog.
type State struct {
	ID              string           `json:"id"`
	Status          Status           `json:"status"`
	CurrentBranchID string           `json:"currentBranchId,omitempty"`
	RewardsGranted  bool             `json:"rewardsGranted,omitempty"`
	Objectives      []ObjectiveState `json:"objectives"`
}

// EngineState is the full persisted quest engine state: every quest's mutable
// slice, the active/completed partition, and the collaborator store snapshots
// that choices mutate (faction reputation, global flags).
type EngineState struct {
	Quests             []State         `json:"quests"`
	ActiveQuestIDs     []string        `json:"activeQuestIds"`
	CompletedQuestIDs  []string        `json:"completedQuestIds"`
	FactionReputations map[string]int  `json:"factionReputations"`
	Flags              map[string]bool `json:"flags,omitempty"`
}

// SaveState captures the quest's mutable state.
func (q *Quest) SaveState() State {
	st := State{
		ID:              q.blueprint.ID,
		Status:          q.status,
		CurrentBranchID: q.currentBranchID,
		RewardsGranted:  q.rewardsGranted,
		Objectives:      make([]ObjectiveState, len(q.objectives)),
	}
	for i, o := range q.objectives {
		st.Objectives[i] = ObjectiveState{
			ID:              o.ID,
			CurrentProgress: o.CurrentProgress,
			IsCompleted:     o.IsCompleted,
		}
	}
	return st
}

// RestoreState overlays saved mutable state onto the instance. The objective
// set is re-materialized from the saved branch first, then per-objective
// progress is matched by id; saved objectives with no blueprint counterpart
// are dropped with a warning (content may have changed since the save).
func (q *Quest) RestoreState(st State) {
	q.Reset()

	if q.blueprint.IsBranching() && st.CurrentBranchID != "" {
		b := q.blueprint.BranchByID(st.CurrentBranchID)
		if b == nil {
			log.Printf("quest %s: saved branch %s no longer exists, resetting to blueprint defaults",
				q.blueprint.ID, st.CurrentBranchID)
			return
		}
		q.enterBranch(b)
	}

	q.status = st.Status
	q.rewardsGranted = st.RewardsGranted

	for _, os := range st.Objectives {
		found := false
		for _, o := range q.objectives {
			if o.ID == os.ID {
				o.CurrentProgress = os.CurrentProgress
				o.IsCompleted = os.IsCompleted
				found = true
				break
			}
		}
		if !found {
			log.Printf("quest %s: saved objective %s no longer exists, dropping its progress",
				q.blueprint.ID, os.ID)
		}
	}
}
