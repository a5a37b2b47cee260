package dialogue

import "testing"

func TestEventsReportTheirKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "skill check", event: SkillCheck{Skill: SkillLogic}, expected: KindSkillCheck},
		{name: "context update", event: ContextUpdate{Content: "likes tea"}, expected: KindContextUpdate},
		{name: "memory notification", event: NewMemoryNotification("noted"), expected: KindSkillCheck},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestMemoryNotificationIsAnIntellectCheck(t *testing.T) {
	check := NewMemoryNotification("New information added to memory: tea")

	if check.Skill != SkillEncyclopedia {
		t.Fatalf("expected skill %q, got %q", SkillEncyclopedia, check.Skill)
	}
	if check.Difficulty != DifficultyMedium {
		t.Fatalf("expected difficulty %q, got %q", DifficultyMedium, check.Difficulty)
	}
	if !check.Success {
		t.Fatalf("expected memory notification to be a success")
	}
	if check.Category != CategoryIntellect || !check.HasCategory() {
		t.Fatalf("expected category %q, got %q", CategoryIntellect, check.Category)
	}
}
