package tracker

// SentinelName is the well-known name of the sentinel Label and Milestone
// used by the command line as an edit-time "remove" instruction. The
// tracker core translates sentinels into explicit Clear changes before
// any adapter sees them.
const SentinelName = "none"

// Label is a repository label: a name unique within the repository's
// label set and a color decomposed into an RGB triple at construction.
type Label struct {
	ID    string
	Name  string
	Color RGB
}

// NewLabel validates and constructs a Label. The color must be exactly
// 6 hex characters.
func NewLabel(id, name, hexColor string) (Label, error) {
	if name == "" {
		return Label{}, Validationf("label name must not be empty")
	}
	color, err := ParseHexColor(hexColor)
	if err != nil {
		return Label{}, err
	}
	return Label{ID: id, Name: name, Color: color}, nil
}

// NoLabel returns the sentinel label meaning "remove all labels".
func NoLabel() Label {
	return Label{Name: SentinelName, Color: RGB{0xff, 0xff, 0xff}}
}

// None reports whether the label is the remove-all sentinel.
func (l Label) None() bool {
	return l.Name == SentinelName
}

// Equal compares labels by backend-assigned id when both carry one,
// falling back to name.
func (l Label) Equal(other Label) bool {
	if l.ID != "" && other.ID != "" {
		return l.ID == other.ID
	}
	return l.Name == other.Name
}

// PaletteColor quantizes the label color to the terminal palette.
func (l Label) PaletteColor() PaletteColor {
	return NearestPalette(l.Color)
}
