package content

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talesofclaude/quest-engine/internal/domain/quest"
	"github.com/talesofclaude/quest-engine/internal/errors"
)

// consequenceYAML for YAML parsing
type consequenceYAML struct {
	Type   string `yaml:"type"`
	Target string `yaml:"target"`
	Delta  int    `yaml:"delta,omitempty"`
	Value  bool   `yaml:"value,omitempty"`
}

// choiceYAML for YAML parsing
type choiceYAML struct {
	ID           string            `yaml:"id"`
	Text         string            `yaml:"text"`
	Consequences []consequenceYAML `yaml:"consequences,omitempty"`
	NextBranch   string            `yaml:"next_branch,omitempty"`
}

// objectiveYAML for YAML parsing
type objectiveYAML struct {
	ID          string       `yaml:"id"`
	Description string       `yaml:"description"`
	Type        string       `yaml:"type"`
	Target      string       `yaml:"target"`
	Quantity    int          `yaml:"quantity,omitempty"` // defaults to 1
	Choices     []choiceYAML `yaml:"choices,omitempty"`
}

// itemGrantYAML for YAML parsing
type itemGrantYAML struct {
	Item     string `yaml:"item"`
	Quantity int    `yaml:"quantity,omitempty"` // defaults to 1
}

// rewardsYAML for YAML parsing
type rewardsYAML struct {
	Exp   int             `yaml:"exp,omitempty"`
	Items []itemGrantYAML `yaml:"items,omitempty"`
}

// factionRequirementYAML for YAML parsing
type factionRequirementYAML struct {
	Faction       string `yaml:"faction"`
	MinReputation int    `yaml:"min_reputation"`
}

// branchYAML for YAML parsing
type branchYAML struct {
	ID          string                   `yaml:"id"`
	Name        string                   `yaml:"name,omitempty"`
	Description string                   `yaml:"description,omitempty"`
	Objectives  []objectiveYAML          `yaml:"objectives"`
	Prereqs     []string                 `yaml:"prereqs,omitempty"`
	Factions    []factionRequirementYAML `yaml:"factions,omitempty"`
	Rewards     *rewardsYAML             `yaml:"rewards,omitempty"`
	Terminal    bool                     `yaml:"terminal,omitempty"`
}

// questYAML for YAML parsing
type questYAML struct {
	Name          string                   `yaml:"name"`
	Description   string                   `yaml:"description"`
	Rewards       rewardsYAML              `yaml:"rewards,omitempty"`
	Prerequisites []string                 `yaml:"prerequisites,omitempty"`
	Factions      []factionRequirementYAML `yaml:"factions,omitempty"`
	Objectives    []objectiveYAML          `yaml:"objectives,omitempty"`
	Branches      []branchYAML             `yaml:"branches,omitempty"`
	InitialBranch string                   `yaml:"initial_branch,omitempty"`
}

// fileYAML is the top-level quests.yaml structure
type fileYAML struct {
	Quests map[string]questYAML `yaml:"quests"`
}

// LoadFile loads and validates a quest catalog from a single YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read quest file %s", path)
	}
	return parse(data, path)
}

// LoadDir loads and merges every .yaml/.yml file in a directory. Later files
// must not redefine quest ids from earlier ones.
func LoadDir(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read quest directory %s", dir)
	}

	merged := make(map[string]questYAML)
	files := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}

		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read quest file %s", path)
		}

		var file fileYAML
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, errors.Wrapf(err, "failed to parse quest YAML %s", path)
		}
		for id, def := range file.Quests {
			if _, exists := merged[id]; exists {
				return nil, errors.Validationf("duplicate quest id %q in %s", id, path)
			}
			merged[id] = def
		}
		files++
	}

	log.Printf("loaded %d quests from %d files in %s", len(merged), files, dir)
	return build(merged)
}

// Load loads a catalog from a file or a directory of files.
func Load(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "quest catalog path %s", path)
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

func parse(data []byte, source string) (*Catalog, error) {
	var file fileYAML
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse quest YAML %s", source)
	}
	return build(file.Quests)
}

func build(defs map[string]questYAML) (*Catalog, error) {
	blueprints := make([]*quest.Blueprint, 0, len(defs))
	for id, def := range defs {
		bp, err := toBlueprint(id, def)
		if err != nil {
			return nil, err
		}
		blueprints = append(blueprints, bp)
	}

	catalog := NewCatalog(blueprints)
	if err := validate(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

func toBlueprint(id string, def questYAML) (*quest.Blueprint, error) {
	bp := &quest.Blueprint{
		ID:              id,
		Name:            def.Name,
		Description:     def.Description,
		Rewards:         toRewards(def.Rewards),
		Prerequisites:   def.Prerequisites,
		Factions:        toFactions(def.Factions),
		InitialBranchID: def.InitialBranch,
	}

	var err error
	if bp.Objectives, err = toObjectives(id, def.Objectives); err != nil {
		return nil, err
	}

	for _, b := range def.Branches {
		objectives, err := toObjectives(id, b.Objectives)
		if err != nil {
			return nil, err
		}
		branch := quest.Branch{
			ID:          b.ID,
			Name:        b.Name,
			Description: b.Description,
			Objectives:  objectives,
			Prereqs:     b.Prereqs,
			Factions:    toFactions(b.Factions),
			Terminal:    b.Terminal,
		}
		if b.Rewards != nil {
			rewards := toRewards(*b.Rewards)
			branch.Rewards = &rewards
		}
		bp.Branches = append(bp.Branches, branch)
	}

	return bp, nil
}

func toObjectives(questID string, defs []objectiveYAML) ([]quest.ObjectiveBlueprint, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	out := make([]quest.ObjectiveBlueprint, len(defs))
	for i, def := range defs {
		objType, ok := quest.ParseObjectiveType(def.Type)
		if !ok {
			return nil, errors.Validationf("quest %s: objective %s has unknown type %q", questID, def.ID, def.Type)
		}

		quantity := def.Quantity
		if quantity == 0 {
			quantity = 1
		}

		out[i] = quest.ObjectiveBlueprint{
			ID:          def.ID,
			Description: def.Description,
			Type:        objType,
			Target:      def.Target,
			Quantity:    quantity,
			Choices:     toChoices(def.Choices),
		}
	}
	return out, nil
}

func toChoices(defs []choiceYAML) []quest.Choice {
	if len(defs) == 0 {
		return nil
	}

	out := make([]quest.Choice, len(defs))
	for i, def := range defs {
		consequences := make([]quest.Consequence, len(def.Consequences))
		for j, c := range def.Consequences {
			consequences[j] = quest.Consequence{
				Type:     quest.ConsequenceType(c.Type),
				TargetID: c.Target,
				Delta:    c.Delta,
				Set:      c.Value,
			}
		}
		out[i] = quest.Choice{
			ID:           def.ID,
			Text:         def.Text,
			Consequences: consequences,
			NextBranchID: def.NextBranch,
		}
	}
	return out
}

func toRewards(def rewardsYAML) quest.Rewards {
	rewards := quest.Rewards{Exp: def.Exp}
	for _, item := range def.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		rewards.Items = append(rewards.Items, quest.ItemGrant{ItemID: item.Item, Quantity: quantity})
	}
	return rewards
}

func toFactions(defs []factionRequirementYAML) []quest.FactionRequirement {
	if len(defs) == 0 {
		return nil
	}
	out := make([]quest.FactionRequirement, len(defs))
	for i, def := range defs {
		out[i] = quest.FactionRequirement{FactionID: def.Faction, MinReputation: def.MinReputation}
	}
	return out
}

// validate catches authoring errors at load time so they never surface as
// runtime conditions.
func validate(catalog *Catalog) error {
	validConsequences := map[quest.ConsequenceType]bool{
		quest.ConsequenceReputationChange: true,
		quest.ConsequenceFlagSet:          true,
		quest.ConsequenceItemGrant:        true,
		quest.ConsequenceDialogueTrigger:  true,
		quest.ConsequenceFactionChange:    true,
	}

	for _, bp := range catalog.Blueprints() {
		flat := len(bp.Objectives) > 0
		branching := len(bp.Branches) > 0

		if !flat && !branching {
			return errors.Validationf("quest %s declares neither objectives nor branches", bp.ID)
		}
		if flat && branching {
			return errors.Validationf("quest %s declares both flat objectives and branches", bp.ID)
		}

		if branching {
			seen := make(map[string]bool)
			for i := range bp.Branches {
				b := &bp.Branches[i]
				if seen[b.ID] {
					return errors.Validationf("quest %s has duplicate branch id %s", bp.ID, b.ID)
				}
				seen[b.ID] = true
				if len(b.Objectives) == 0 {
					return errors.Validationf("quest %s: branch %s has no objectives", bp.ID, b.ID)
				}
			}

			if bp.InitialBranchID == "" {
				return errors.Validationf("quest %s has branches but no initial_branch", bp.ID)
			}
			if !seen[bp.InitialBranchID] {
				return errors.Validationf("quest %s: initial_branch %s does not exist", bp.ID, bp.InitialBranchID)
			}

			for i := range bp.Branches {
				b := &bp.Branches[i]
				outgoing := false
				for j := range b.Objectives {
					for _, c := range b.Objectives[j].Choices {
						if c.NextBranchID == "" {
							continue
						}
						outgoing = true
						if !seen[c.NextBranchID] {
							return errors.Validationf("quest %s: choice %s references unknown branch %s",
								bp.ID, c.ID, c.NextBranchID)
						}
					}
				}
				if !outgoing && !b.Terminal {
					// Runtime treats dead ends as final; flag them so authors
					// mark intent explicitly.
					log.Printf("quest %s: branch %s has no outgoing choices and is not marked terminal", bp.ID, b.ID)
				}
			}
		}

		objectiveSets := [][]quest.ObjectiveBlueprint{bp.Objectives}
		for i := range bp.Branches {
			objectiveSets = append(objectiveSets, bp.Branches[i].Objectives)
		}
		for _, set := range objectiveSets {
			for i := range set {
				o := &set[i]
				if o.ID == "" {
					return errors.Validationf("quest %s has an objective with no id", bp.ID)
				}
				if o.Quantity < 1 {
					return errors.Validationf("quest %s: objective %s has quantity %d", bp.ID, o.ID, o.Quantity)
				}
				choiceIDs := make(map[string]bool)
				for _, c := range o.Choices {
					if c.ID == "" {
						return errors.Validationf("quest %s: objective %s has a choice with no id", bp.ID, o.ID)
					}
					if choiceIDs[c.ID] {
						return errors.Validationf("quest %s: objective %s has duplicate choice id %s", bp.ID, o.ID, c.ID)
					}
					choiceIDs[c.ID] = true
					for _, con := range c.Consequences {
						if !validConsequences[con.Type] {
							return errors.Validationf("quest %s: choice %s has unknown consequence type %q",
								bp.ID, c.ID, con.Type)
						}
					}
				}
			}
		}
	}

	return nil
}
