package dialogue

import "strings"

type (
	Skill      string
	Difficulty string
	Category   string
)

const (
	CategoryIntellect Category = "INTELLECT"
	CategoryPsyche    Category = "PSYCHE"
	CategoryPhysique  Category = "PHYSIQUE"
	CategoryMotorics  Category = "MOTORICS"
)

const (
	SkillLogic             Skill = "Logic"
	SkillEncyclopedia      Skill = "Encyclopedia"
	SkillRhetoric          Skill = "Rhetoric"
	SkillDrama             Skill = "Drama"
	SkillConceptualization Skill = "Conceptualization"
	SkillVisualCalculus    Skill = "Visual Calculus"

	SkillVolition      Skill = "Volition"
	SkillInlandEmpire  Skill = "Inland Empire"
	SkillEmpathy       Skill = "Empathy"
	SkillAuthority     Skill = "Authority"
	SkillEspritDeCorps Skill = "Esprit De Corps"
	SkillSuggestion    Skill = "Suggestion"

	SkillEndurance          Skill = "Endurance"
	SkillPainThreshold      Skill = "Pain Threshold"
	SkillPhysicalInstrument Skill = "Physical Instrument"
	SkillElectrochemistry   Skill = "Electrochemistry"
	SkillShivers            Skill = "Shivers"
	SkillHalfLight          Skill = "Half Light"

	SkillHandEyeCoordination Skill = "Hand/Eye Coordination"
	SkillPerception          Skill = "Perception"
	SkillReactionSpeed       Skill = "Reaction Speed"
	SkillSavoirFaire         Skill = "Savoir Faire"
	SkillInterfacing         Skill = "Interfacing"
	SkillComposure           Skill = "Composure"

	// SkillUnknown is used when a tag carries no name at all.
	SkillUnknown Skill = "Unknown"
)

const (
	DifficultyTrivial     Difficulty = "Trivial"
	DifficultyEasy        Difficulty = "Easy"
	DifficultyMedium      Difficulty = "Medium"
	DifficultyChallenging Difficulty = "Challenging"
	DifficultyFormidable  Difficulty = "Formidable"
	DifficultyLegendary   Difficulty = "Legendary"
	DifficultyHeroic      Difficulty = "Heroic"
	DifficultyGodly       Difficulty = "Godly"
	DifficultyImpossible  Difficulty = "Impossible"
)

var categorySkills = []struct {
	category Category
	skills   []Skill
}{
	{CategoryIntellect, []Skill{SkillLogic, SkillEncyclopedia, SkillRhetoric, SkillDrama, SkillConceptualization, SkillVisualCalculus}},
	{CategoryPsyche, []Skill{SkillVolition, SkillInlandEmpire, SkillEmpathy, SkillAuthority, SkillEspritDeCorps, SkillSuggestion}},
	{CategoryPhysique, []Skill{SkillEndurance, SkillPainThreshold, SkillPhysicalInstrument, SkillElectrochemistry, SkillShivers, SkillHalfLight}},
	{CategoryMotorics, []Skill{SkillHandEyeCoordination, SkillPerception, SkillReactionSpeed, SkillSavoirFaire, SkillInterfacing, SkillComposure}},
}

// difficulties is ordered from the easiest to the hardest tier.
var difficulties = []Difficulty{
	DifficultyTrivial,
	DifficultyEasy,
	DifficultyMedium,
	DifficultyChallenging,
	DifficultyFormidable,
	DifficultyLegendary,
	DifficultyHeroic,
	DifficultyGodly,
	DifficultyImpossible,
}

var skillCategories = func() map[Skill]Category {
	categories := make(map[Skill]Category)
	for _, group := range categorySkills {
		for _, skill := range group.skills {
			categories[skill] = group.category
		}
	}
	return categories
}()

// Categories returns the known categories in display order.
func Categories() []Category {
	categories := make([]Category, 0, len(categorySkills))
	for _, group := range categorySkills {
		categories = append(categories, group.category)
	}
	return categories
}

// Skills returns the canonical skills of a category, nil for an unknown one.
func Skills(category Category) []Skill {
	for _, group := range categorySkills {
		if group.category == category {
			return append([]Skill(nil), group.skills...)
		}
	}
	return nil
}

// Difficulties returns the difficulty tiers from the easiest to the hardest.
func Difficulties() []Difficulty {
	return append([]Difficulty(nil), difficulties...)
}

// CategoryOf returns the category owning a canonical skill.
func CategoryOf(skill Skill) (Category, bool) {
	category, ok := skillCategories[skill]
	return category, ok
}

// Rank returns the position of a canonical difficulty in the tier order, or
// -1 for a passthrough value.
func (d Difficulty) Rank() int {
	for i, difficulty := range difficulties {
		if difficulty == d {
			return i
		}
	}
	return -1
}

// Vocabulary resolves raw skill and difficulty names to canonical ones.
// Matching is case-insensitive and also accepts registered aliases, such as
// localized skill names. A Vocabulary is read-only after construction and safe
// for concurrent use.
type Vocabulary struct {
	skills       map[string]Skill
	difficulties map[string]Difficulty
}

type VocabularyOption func(*Vocabulary)

// WithSkillAliases registers alternative names, keyed by alias with the
// canonical skill name as value. Aliases for unknown skills are ignored.
func WithSkillAliases(aliases map[string]string) VocabularyOption {
	return func(v *Vocabulary) {
		for alias, canonical := range aliases {
			if _, ok := skillCategories[Skill(canonical)]; !ok {
				continue
			}
			v.skills[lookupKey(alias)] = Skill(canonical)
		}
	}
}

// WithDifficultyAliases registers alternative difficulty names, keyed by alias
// with the canonical tier as value. Aliases for unknown tiers are ignored.
func WithDifficultyAliases(aliases map[string]string) VocabularyOption {
	return func(v *Vocabulary) {
		for alias, canonical := range aliases {
			if Difficulty(canonical).Rank() < 0 {
				continue
			}
			v.difficulties[lookupKey(alias)] = Difficulty(canonical)
		}
	}
}

func NewVocabulary(opts ...VocabularyOption) *Vocabulary {
	v := &Vocabulary{
		skills:       make(map[string]Skill, len(skillCategories)),
		difficulties: make(map[string]Difficulty, len(difficulties)),
	}
	for skill := range skillCategories {
		v.skills[lookupKey(string(skill))] = skill
	}
	for _, difficulty := range difficulties {
		v.difficulties[lookupKey(string(difficulty))] = difficulty
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// NormalizeSkill returns the canonical skill for raw, or raw itself (trimmed)
// when nothing matches.
func (v *Vocabulary) NormalizeSkill(raw string) Skill {
	raw = strings.TrimSpace(raw)
	if skill, ok := v.skills[lookupKey(raw)]; ok {
		return skill
	}
	return Skill(raw)
}

// NormalizeDifficulty returns the canonical difficulty for raw, or raw itself
// (trimmed) when nothing matches.
func (v *Vocabulary) NormalizeDifficulty(raw string) Difficulty {
	raw = strings.TrimSpace(raw)
	if difficulty, ok := v.difficulties[lookupKey(raw)]; ok {
		return difficulty
	}
	return Difficulty(raw)
}

func lookupKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
