package app

// Key binding constants used in handleKey.
const (
	KeyCtrlC     = "ctrl+c"
	KeyNew       = "ctrl+n"
	KeyClear     = "ctrl+u"
	KeyEnter     = "enter"
	KeyEsc       = "esc"
	KeyBackspace = "backspace"
)
