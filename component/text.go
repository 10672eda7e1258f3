package component

// HeaderComponent is the display text of one column
type HeaderComponent struct {
	Text string
}

// CellComponent is the display text of one cell
type CellComponent struct {
	Text string
}
