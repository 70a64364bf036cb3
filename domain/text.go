package domain

// Component is an opaque rich text value. The team never inspects it,
// it only carries it from the metadata to the packets.
type Component struct {
	content string
}

func Text(content string) Component {
	return Component{content: content}
}

// Empty returns the empty text component.
func Empty() Component {
	return Component{}
}

func (c Component) Content() string { return c.content }

func (c Component) IsEmpty() bool { return c.content == "" }

// NamedColor is one of the sixteen colours the game client knows by name.
type NamedColor int

const (
	Black NamedColor = iota
	DarkBlue
	DarkGreen
	DarkAqua
	DarkRed
	DarkPurple
	Gold
	Gray
	DarkGray
	Blue
	Green
	Aqua
	Red
	LightPurple
	Yellow
	White
)

var colorNames = [...]string{
	"black", "dark_blue", "dark_green", "dark_aqua",
	"dark_red", "dark_purple", "gold", "gray",
	"dark_gray", "blue", "green", "aqua",
	"red", "light_purple", "yellow", "white",
}

func (c NamedColor) String() string {
	if !c.Valid() {
		return "unknown"
	}
	return colorNames[c]
}

func (c NamedColor) Valid() bool {
	return c >= Black && c <= White
}
