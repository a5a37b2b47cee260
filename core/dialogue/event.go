package dialogue

type Kind string

const (
	// KindSkillCheck identifies a skill check line.
	KindSkillCheck Kind = "dialogue.skill_check"
	// KindContextUpdate identifies a request to remember a fact.
	KindContextUpdate Kind = "dialogue.context_update"
)

// Event is one parsed unit of an assistant response. The set of
// implementations is closed: SkillCheck and ContextUpdate.
type Event interface {
	Kind() Kind
	event()
}

// SkillCheck is a single line spoken by one of the inner voices.
type SkillCheck struct {
	Skill      Skill
	Difficulty Difficulty
	Success    bool
	Content    string
	// Category is empty when Skill is not part of the vocabulary.
	Category Category
}

func (SkillCheck) Kind() Kind { return KindSkillCheck }
func (SkillCheck) event()     {}

// HasCategory reports whether the skill belongs to a known category.
func (c SkillCheck) HasCategory() bool { return c.Category != "" }

// ContextUpdate carries a fact to append to the user's notes.
type ContextUpdate struct {
	Content string
}

func (ContextUpdate) Kind() Kind { return KindContextUpdate }
func (ContextUpdate) event()     {}

// NewMemoryNotification creates the skill check shown in place of a context
// update. It is always a successful medium Encyclopedia check.
func NewMemoryNotification(content string) SkillCheck {
	return SkillCheck{
		Skill:      SkillEncyclopedia,
		Difficulty: DifficultyMedium,
		Success:    true,
		Content:    content,
		Category:   CategoryIntellect,
	}
}
