package core

// Color is a foreground color for a screen cell: an ANSI code ("3") or a
// hex string ("#ff8800"). The empty string is the terminal default.
// The platform layer hands it to lipgloss unchanged.
type Color string

// Palette used by game elements.
const (
	ColorDefault      Color = ""
	ColorRed          Color = "1"
	ColorGreen        Color = "2"
	ColorYellow       Color = "3"
	ColorBlue         Color = "4"
	ColorMagenta      Color = "5"
	ColorCyan         Color = "6"
	ColorWhite        Color = "7"
	ColorBrightRed    Color = "9"
	ColorBrightGreen  Color = "10"
	ColorBrightYellow Color = "11"
	ColorBrightCyan   Color = "14"
	ColorOrange       Color = "208"
	ColorGray         Color = "245"
)
