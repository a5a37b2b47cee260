package audio

import "github.com/koscakluka/innervoice/core/dialogue"

// Silent plays nothing. It stands in when audio is disabled or the output
// device could not be opened.
type Silent struct{}

func (Silent) PlayForCategory(dialogue.Category) error { return nil }
func (Silent) PlayClick() error                        { return nil }
func (Silent) PlayStartup() error                      { return nil }
func (Silent) Close() error                            { return nil }
