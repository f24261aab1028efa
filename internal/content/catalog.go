package content

import (
	"sort"

	"github.com/talesofclaude/quest-engine/internal/domain/quest"
)

// Catalog is the full set of quest blueprints the game ships with. It is
// immutable after loading; quest instances deep-copy their mutable state from
// it and never write back.
type Catalog struct {
	blueprints []*quest.Blueprint
	byID       map[string]*quest.Blueprint
}

// NewCatalog builds a catalog from blueprints, ordered by quest id so that
// manager iteration order is deterministic regardless of source file layout.
func NewCatalog(blueprints []*quest.Blueprint) *Catalog {
	sorted := make([]*quest.Blueprint, len(blueprints))
	copy(sorted, blueprints)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	byID := make(map[string]*quest.Blueprint, len(sorted))
	for _, bp := range sorted {
		byID[bp.ID] = bp
	}

	return &Catalog{blueprints: sorted, byID: byID}
}

// Blueprints returns all blueprints in id order.
func (c *Catalog) Blueprints() []*quest.Blueprint {
	out := make([]*quest.Blueprint, len(c.blueprints))
	copy(out, c.blueprints)
	return out
}

// Get looks up a blueprint by quest id.
func (c *Catalog) Get(id string) (*quest.Blueprint, bool) {
	bp, ok := c.byID[id]
	return bp, ok
}

// Len returns the number of quests in the catalog.
func (c *Catalog) Len() int {
	return len(c.blueprints)
}
