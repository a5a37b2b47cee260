package dialogue

import "strings"

var dashFolder = strings.NewReplacer(
	"—", "-", // em dash
	"–", "-", // en dash
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"⁃", "-", // hyphen bullet
	"−", "-", // minus sign
)

// NormalizeText folds every dash variant into an ASCII hyphen and collapses
// whitespace runs into single spaces. Applying it twice is the same as
// applying it once.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(dashFolder.Replace(text)), " ")
}
