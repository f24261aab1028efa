package quest

// ObjectiveType identifies what kind of game event advances an objective.
type ObjectiveType string

const (
	// ObjectiveReachLocation is advanced when the player enters a tagged region
	ObjectiveReachLocation ObjectiveType = "reach_location"

	// ObjectiveDefeatEnemy is advanced when an enemy of the target variant is defeated
	ObjectiveDefeatEnemy ObjectiveType = "defeat_enemy"

	// ObjectiveCollectItem is advanced when the target item variant is acquired
	ObjectiveCollectItem ObjectiveType = "collect_item"

	// ObjectiveTalkToNPC is advanced when a conversation with the tagged NPC finishes
	ObjectiveTalkToNPC ObjectiveType = "talk_to_npc"
)

// ParseObjectiveType converts a string to an ObjectiveType, reporting whether
// it named a known type.
func ParseObjectiveType(s string) (ObjectiveType, bool) {
	switch ObjectiveType(s) {
	case ObjectiveReachLocation, ObjectiveDefeatEnemy, ObjectiveCollectItem, ObjectiveTalkToNPC:
		return ObjectiveType(s), true
	default:
		return "", false
	}
}

// ObjectiveBlueprint is the immutable authoring-time form of an objective.
// Quest instances materialize their own mutable Objective from it.
type ObjectiveBlueprint struct {
	ID          string
	Description string
	Type        ObjectiveType
	Target      string
	Quantity    int
	Choices     []Choice // non-empty marks a decision gate
}

// Materialize builds a fresh mutable objective from the blueprint.
func (b *ObjectiveBlueprint) Materialize() *Objective {
	return &Objective{
		ID:          b.ID,
		Description: b.Description,
		Type:        b.Type,
		Target:      b.Target,
		Quantity:    b.Quantity,
		Choices:     b.Choices,
	}
}

// Objective is a single trackable unit of progress owned by a quest instance.
//
// An objective with Choices is a decision gate: it is satisfied by a Choice
// resolution rather than by quantity accumulation, but uses the same
// IsCompleted flag for uniformity.
type Objective struct {
	ID              string
	Description     string
	Type            ObjectiveType
	Target          string
	Quantity        int
	CurrentProgress int
	IsCompleted     bool
	Choices         []Choice
}

// IsDecisionGate returns true if the objective is resolved by a player choice.
func (o *Objective) IsDecisionGate() bool {
	return len(o.Choices) > 0
}

// Matches returns true if a game event of the given type and target should
// advance this objective. Decision gates never match: they are resolved by
// HandleChoice, not by event progress.
func (o *Objective) Matches(objType ObjectiveType, target string) bool {
	if o.IsCompleted || o.IsDecisionGate() {
		return false
	}
	return o.Type == objType && o.Target == target
}

// AddProgress increments progress by amount, clamped to Quantity, and marks
// the objective completed when the clamp is reached. Completed objectives are
// frozen.
func (o *Objective) AddProgress(amount int) {
	if o.IsCompleted || amount <= 0 {
		return
	}
	o.CurrentProgress += amount
	if o.CurrentProgress >= o.Quantity {
		o.CurrentProgress = o.Quantity
		o.IsCompleted = true
	}
}
