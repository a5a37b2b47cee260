package audio

import "github.com/koscakluka/innervoice/core/dialogue"

// CueName identifies one sound effect.
type CueName string

const (
	CueIntellect CueName = "INT"
	CuePsyche    CueName = "PSY"
	CuePhysique  CueName = "FYS"
	CueMotorics  CueName = "MOT"
	CueClick     CueName = "click"
	CueStartup   CueName = "startup"
)

var cueFiles = map[CueName]string{
	CueIntellect: "interface-skill-passiveINT-04-01.wav",
	CuePsyche:    "interface-skill-passivePSY-04-02.wav",
	CuePhysique:  "interface-skill-passiveFYS-03-01.wav",
	CueMotorics:  "interface-skill-passiveMOT-04-01.wav",
	CueClick:     "dialogue-click.wav",
	CueStartup:   "switch-04.wav",
}

var categoryCues = map[dialogue.Category]CueName{
	dialogue.CategoryIntellect: CueIntellect,
	dialogue.CategoryPsyche:    CuePsyche,
	dialogue.CategoryPhysique:  CuePhysique,
	dialogue.CategoryMotorics:  CueMotorics,
}

// CueNames returns every known cue.
func CueNames() []CueName {
	return []CueName{CueIntellect, CuePsyche, CuePhysique, CueMotorics, CueClick, CueStartup}
}

// FileName is the name of the file a cue is loaded from, relative to the
// sounds directory.
func (c CueName) FileName() string {
	return cueFiles[c]
}

// CueForCategory returns the cue played when a skill of category speaks.
func CueForCategory(category dialogue.Category) (CueName, bool) {
	cue, ok := categoryCues[category]
	return cue, ok
}
