package quest

import "strings"

// FlagPrereqPrefix marks a prerequisite string that names a global flag
// rather than a quest id.
const FlagPrereqPrefix = "flag:"

// FlagSource reads global story flags. The canonical store lives outside the
// quest engine; quests only encode the requirement.
type FlagSource interface {
	GetFlag(key string) bool
}

// ReputationSource reads per-faction reputation.
type ReputationSource interface {
	GetReputation(factionID string) int
}

// FactionRequirement gates a branch on a minimum faction standing.
type FactionRequirement struct {
	FactionID     string
	MinReputation int
}

// ItemGrant names an item variant and how many to grant.
type ItemGrant struct {
	ItemID   string
	Quantity int
}

// Rewards is the bundle granted when a quest (or branch stage) completes.
type Rewards struct {
	Exp   int
	Items []ItemGrant
}

// IsZero returns true if the bundle grants nothing.
func (r Rewards) IsZero() bool {
	return r.Exp == 0 && len(r.Items) == 0
}

// Branch is a named stage of a branching quest. Branches form a DAG
// referenced by stable string ids from choices and the blueprint's initial
// branch pointer; a branch is owned by exactly one quest.
type Branch struct {
	ID          string
	Name        string
	Description string
	Objectives  []ObjectiveBlueprint
	Prereqs     []string // "flag:<key>" entries
	Factions    []FactionRequirement
	Rewards     *Rewards // optional stage rewards granted on entering
	Terminal    bool     // completing this branch completes the quest
}

// Admissible reports whether the branch's own prerequisites hold. Evaluated
// only when selecting among branches at quest start or after a choice.
func (b *Branch) Admissible(flags FlagSource, reps ReputationSource) bool {
	for _, p := range b.Prereqs {
		if key, ok := strings.CutPrefix(p, FlagPrereqPrefix); ok {
			if flags == nil || !flags.GetFlag(key) {
				return false
			}
		}
	}
	for _, fr := range b.Factions {
		if reps == nil || reps.GetReputation(fr.FactionID) < fr.MinReputation {
			return false
		}
	}
	return true
}

// Blueprint is the immutable authoring-time definition of a quest. Exactly
// one of Objectives (flat quest) or Branches (branching quest) is populated.
type Blueprint struct {
	ID            string
	Name          string
	Description   string
	Rewards       Rewards
	Prerequisites []string // quest ids or "flag:<key>" entries
	Factions      []FactionRequirement

	// Flat quests
	Objectives []ObjectiveBlueprint

	// Branching quests
	Branches        []Branch
	InitialBranchID string
}

// IsBranching returns true if the quest progresses through branches.
func (bp *Blueprint) IsBranching() bool {
	return len(bp.Branches) > 0
}

// BranchByID looks up a branch by id.
func (bp *Blueprint) BranchByID(id string) *Branch {
	for i := range bp.Branches {
		if bp.Branches[i].ID == id {
			return &bp.Branches[i]
		}
	}
	return nil
}
