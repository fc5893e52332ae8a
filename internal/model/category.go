package model

// Category groups todos. Icon is a symbolic icon name resolved by the
// presentation layer; Color is a hex color string.
type Category struct {
	ID    string `json:"id" db:"id"`
	Name  string `json:"name" db:"name"`
	Icon  string `json:"icon" db:"icon"`
	Color string `json:"color" db:"color"`
}
