package quest

// ConsequenceType identifies the effect a resolved choice applies.
type ConsequenceType string

const (
	// ConsequenceReputationChange adjusts the player's standing with a faction
	ConsequenceReputationChange ConsequenceType = "reputation_change"

	// ConsequenceFlagSet sets a global story flag
	ConsequenceFlagSet ConsequenceType = "flag_set"

	// ConsequenceItemGrant places items in the player's inventory
	ConsequenceItemGrant ConsequenceType = "item_grant"

	// ConsequenceDialogueTrigger queues a dialogue for the dialogue system
	ConsequenceDialogueTrigger ConsequenceType = "dialogue_trigger"

	// ConsequenceFactionChange adjusts faction standing (alias effect of
	// reputation change kept distinct for content authoring)
	ConsequenceFactionChange ConsequenceType = "faction_change"
)

// Consequence is an atomic effect applied exactly once when its choice is
// resolved. The field that carries the value depends on Type: Delta for
// reputation/faction changes and item quantities, Set for flags; dialogue
// triggers only use TargetID.
type Consequence struct {
	Type     ConsequenceType
	TargetID string
	Delta    int
	Set      bool
}

// Choice is a player-facing decision attached to a decision-gate objective.
// Resolution is terminal: once any choice on a gate is resolved, the gate is
// completed and no sibling choice can be resolved.
type Choice struct {
	ID           string
	Text         string
	Consequences []Consequence
	NextBranchID string // empty for flat quests and terminal choices
}
