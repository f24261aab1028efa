package quest

//go:generate mockgen -destination=mock/mock_collaborators.go -package=mockquest -source=collaborators.go

// PartyInventory receives item grants from choice consequences and quest
// rewards. The inventory owns its own storage; the quest engine only invokes
// the mutation.
type PartyInventory interface {
	AddItem(itemID string, quantity int)
}

// ExperienceSink credits experience from quest and branch rewards.
type ExperienceSink interface {
	AddExperience(amount int)
}

// DialogueSink receives dialogue ids from dialogue-trigger consequences.
// Presentation is entirely the dialogue subsystem's job; the engine only
// emits the identifier.
type DialogueSink interface {
	QueueDialogue(dialogueID string)
}
