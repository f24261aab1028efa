package quest

import (
	"log"
	"strings"
)

// Status is the lifecycle state of a quest instance.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Quest is a live instance of a blueprint. It owns its mutable objective
// state; the blueprint it was built from is never mutated. While a branching
// quest is in progress, the objective set reflects the current branch and is
// swapped whenever control moves to another branch.
//
// The quest never touches collaborator stores itself: choice consequences and
// rewards are returned to the caller for application, and prerequisite checks
// read through the FlagSource/ReputationSource interfaces.
type Quest struct {
	blueprint       *Blueprint
	status          Status
	objectives      []*Objective
	currentBranchID string
	rewardsGranted  bool
}

// ChoiceResult describes what a resolved choice did: the choice itself (whose
// consequences the caller applies in order) and the branch entered, if the
// choice moved the quest to a new branch.
type ChoiceResult struct {
	Choice        *Choice
	EnteredBranch *Branch
}

// New builds a quest instance from a blueprint. Flat quests materialize their
// objectives immediately; branching quests materialize on Start, when the
// initial branch is selected.
func New(bp *Blueprint) *Quest {
	if bp == nil {
		panic("quest blueprint is required")
	}

	q := &Quest{
		blueprint: bp,
		status:    StatusNotStarted,
	}
	if !bp.IsBranching() {
		q.objectives = materialize(bp.Objectives)
	}
	return q
}

func materialize(blueprints []ObjectiveBlueprint) []*Objective {
	objectives := make([]*Objective, len(blueprints))
	for i := range blueprints {
		objectives[i] = blueprints[i].Materialize()
	}
	return objectives
}

// ID returns the quest's stable identifier.
func (q *Quest) ID() string { return q.blueprint.ID }

// Name returns the quest's display name.
func (q *Quest) Name() string { return q.blueprint.Name }

// Description returns the quest's description.
func (q *Quest) Description() string { return q.blueprint.Description }

// Status returns the quest's lifecycle state.
func (q *Quest) Status() Status { return q.status }

// Blueprint returns the immutable blueprint the quest was built from.
func (q *Quest) Blueprint() *Blueprint { return q.blueprint }

// CurrentBranchID returns the current branch id, or empty for flat quests and
// branching quests that have not started.
func (q *Quest) CurrentBranchID() string { return q.currentBranchID }

// Objectives returns a snapshot of the current objective set. Mutation goes
// through UpdateObjectiveProgress and HandleChoice only.
func (q *Quest) Objectives() []Objective {
	out := make([]Objective, len(q.objectives))
	for i, o := range q.objectives {
		out[i] = *o
	}
	return out
}

// CurrentObjective returns the first incomplete objective in the current set,
// or nil when everything is done.
func (q *Quest) CurrentObjective() *Objective {
	for _, o := range q.objectives {
		if !o.IsCompleted {
			copied := *o
			return &copied
		}
	}
	return nil
}

// Start transitions the quest from not_started to in_progress. For branching
// quests this selects the initial branch: the declared initial branch if its
// prerequisites hold, otherwise the first declared branch that is admissible.
// Returns false without touching state if the quest is not startable.
func (q *Quest) Start(flags FlagSource, reps ReputationSource) bool {
	if q.status != StatusNotStarted {
		return false
	}

	if q.blueprint.IsBranching() {
		initial := q.selectInitialBranch(flags, reps)
		if initial == nil {
			log.Printf("quest %s: no admissible initial branch", q.blueprint.ID)
			return false
		}
		q.enterBranch(initial)
	}

	q.status = StatusInProgress
	return true
}

func (q *Quest) selectInitialBranch(flags FlagSource, reps ReputationSource) *Branch {
	if b := q.blueprint.BranchByID(q.blueprint.InitialBranchID); b != nil && b.Admissible(flags, reps) {
		return b
	}
	for i := range q.blueprint.Branches {
		if b := &q.blueprint.Branches[i]; b.Admissible(flags, reps) {
			return b
		}
	}
	return nil
}

func (q *Quest) enterBranch(b *Branch) {
	q.currentBranchID = b.ID
	q.objectives = materialize(b.Objectives)
}

// UpdateObjectiveProgress advances every incomplete objective in the current
// set matching the (type, target) pair, clamped to each objective's quantity.
// Returns true iff at least one objective was touched. Completion of the
// whole set is recomputed as a side effect; a pending decision gate keeps the
// quest open until the player resolves it.
func (q *Quest) UpdateObjectiveProgress(objType ObjectiveType, target string, amount int) bool {
	if q.status != StatusInProgress {
		return false
	}

	touched := false
	for _, o := range q.objectives {
		if o.Matches(objType, target) {
			o.AddProgress(amount)
			touched = true
		}
	}

	if touched {
		q.CheckCompletion()
	}
	return touched
}

// PendingChoices returns the choices of the currently exposed decision gate,
// or nil if no gate is pending. A gate is exposed once it is the first
// incomplete objective in the current set.
func (q *Quest) PendingChoices() []Choice {
	if q.status != StatusInProgress {
		return nil
	}
	gate := q.pendingGate()
	if gate == nil {
		return nil
	}
	out := make([]Choice, len(gate.Choices))
	copy(out, gate.Choices)
	return out
}

func (q *Quest) pendingGate() *Objective {
	for _, o := range q.objectives {
		if o.IsCompleted {
			continue
		}
		if o.IsDecisionGate() {
			return o
		}
		return nil
	}
	return nil
}

// HandleChoice resolves the named choice on the pending decision gate. The
// gate is completed (resolution is terminal: sibling choices can no longer be
// resolved) and, when the choice points at a next branch, the objective set
// swaps to that branch. Returns false with no state change if no such choice
// is pending.
//
// A next-branch pointer to a missing or inadmissible branch is an authoring
// error: it is logged and the branch switch is skipped rather than guessed
// around.
func (q *Quest) HandleChoice(choiceID string, flags FlagSource, reps ReputationSource) (*ChoiceResult, bool) {
	if q.status != StatusInProgress {
		return nil, false
	}

	gate := q.pendingGate()
	if gate == nil {
		return nil, false
	}

	var choice *Choice
	for i := range gate.Choices {
		if gate.Choices[i].ID == choiceID {
			choice = &gate.Choices[i]
			break
		}
	}
	if choice == nil {
		return nil, false
	}

	gate.CurrentProgress = gate.Quantity
	gate.IsCompleted = true

	result := &ChoiceResult{Choice: choice}
	if choice.NextBranchID != "" {
		next := q.blueprint.BranchByID(choice.NextBranchID)
		switch {
		case next == nil:
			log.Printf("quest %s: choice %s references unknown branch %s",
				q.blueprint.ID, choice.ID, choice.NextBranchID)
		case !next.Admissible(flags, reps):
			log.Printf("quest %s: choice %s leads to branch %s with unmet prerequisites",
				q.blueprint.ID, choice.ID, next.ID)
		default:
			q.enterBranch(next)
			result.EnteredBranch = next
		}
	}

	q.CheckCompletion()
	return result, true
}

// CheckCompletion returns true iff every objective in the current set is
// completed and, for branching quests, the current branch is final. Moves an
// in-progress quest to completed as a side effect.
func (q *Quest) CheckCompletion() bool {
	if len(q.objectives) == 0 {
		return false
	}
	for _, o := range q.objectives {
		if !o.IsCompleted {
			return false
		}
	}

	if q.blueprint.IsBranching() {
		b := q.blueprint.BranchByID(q.currentBranchID)
		if b == nil || !branchIsFinal(b) {
			return false
		}
	}

	if q.status == StatusInProgress {
		q.status = StatusCompleted
	}
	return q.status == StatusCompleted
}

// branchIsFinal reports whether completing the branch completes the quest:
// either it is explicitly marked terminal, or none of its choices lead
// anywhere further.
func branchIsFinal(b *Branch) bool {
	if b.Terminal {
		return true
	}
	for i := range b.Objectives {
		for _, c := range b.Objectives[i].Choices {
			if c.NextBranchID != "" {
				return false
			}
		}
	}
	return true
}

// GrantRewards hands out the quest's reward bundle exactly once. It returns
// the bundle and true only the first time it is called on a completed quest;
// the granted flag survives save/load.
func (q *Quest) GrantRewards() (Rewards, bool) {
	if q.status != StatusCompleted || q.rewardsGranted {
		return Rewards{}, false
	}
	q.rewardsGranted = true
	return q.blueprint.Rewards, true
}

// RewardsGranted reports whether the reward bundle has been handed out.
func (q *Quest) RewardsGranted() bool { return q.rewardsGranted }

// IsAvailable returns true iff the quest has not started and every
// prerequisite is satisfied: quest-id prerequisites against the completed
// set, flag prerequisites against the flag source, and faction requirements
// against current reputation.
func (q *Quest) IsAvailable(completed map[string]bool, flags FlagSource, reps ReputationSource) bool {
	if q.status != StatusNotStarted {
		return false
	}
	for _, p := range q.blueprint.Prerequisites {
		if key, ok := strings.CutPrefix(p, FlagPrereqPrefix); ok {
			if flags == nil || !flags.GetFlag(key) {
				return false
			}
			continue
		}
		if !completed[p] {
			return false
		}
	}
	for _, fr := range q.blueprint.Factions {
		if reps == nil || reps.GetReputation(fr.FactionID) < fr.MinReputation {
			return false
		}
	}
	return true
}

// Fail marks an in-progress quest as failed. Failure is content-triggered by
// an external system, never self-detected.
func (q *Quest) Fail() bool {
	if q.status != StatusInProgress {
		return false
	}
	q.status = StatusFailed
	return true
}

// Reset returns the quest to not_started with all progress zeroed. Intended
// for repeatable and debug quests; it is the only backward status transition.
func (q *Quest) Reset() {
	q.status = StatusNotStarted
	q.currentBranchID = ""
	q.rewardsGranted = false
	if q.blueprint.IsBranching() {
		q.objectives = nil
	} else {
		q.objectives = materialize(q.blueprint.Objectives)
	}
}

// Abandon returns an in-progress quest to not_started, dropping its progress.
// Unlike Reset it refuses to touch completed or failed quests.
func (q *Quest) Abandon() bool {
	if q.status != StatusInProgress {
		return false
	}
	q.Reset()
	return true
}
