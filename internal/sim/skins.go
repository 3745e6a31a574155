package sim

// Skin is a cosmetic rope color.
type Skin struct {
	ID    string
	Name  string
	Color string // hex, e.g. #00BFFF
}

var skins = []Skin{
	{ID: "default", Name: "Classic White", Color: "#FFFFFF"},
	{ID: "neon-blue", Name: "Neon Blue", Color: "#00BFFF"},
	{ID: "fabric", Name: "Fabric Weave", Color: "#D2B48C"},
	{ID: "metal", Name: "Metal Chain", Color: "#C0C0C0"},
}

// Skins returns the available skins in display order.
func Skins() []Skin {
	out := make([]Skin, len(skins))
	copy(out, skins)
	return out
}

// SkinByID looks up a skin. Unknown ids yield the default skin and false.
func SkinByID(id string) (Skin, bool) {
	for _, s := range skins {
		if s.ID == id {
			return s, true
		}
	}
	return skins[0], false
}

// NextSkin returns the skin after id, wrapping around.
func NextSkin(id string) Skin {
	for i, s := range skins {
		if s.ID == id {
			return skins[(i+1)%len(skins)]
		}
	}
	return skins[0]
}
