package app

// Key binding constants used in the key handlers.
const (
	KeyCtrlC    = "ctrl+c"
	KeyQuit     = "q"
	KeyTab      = "tab"
	KeyShiftTab = "shift+tab"
	KeyUp       = "up"
	KeyDown     = "down"
	KeyJ        = "j"
	KeyK        = "k"
	KeyEnter    = "enter"
	KeyEsc      = "esc"
	KeyPgUp     = "pgup"
	KeyPgDown   = "pgdown"

	// Builder
	KeyGenerate    = "ctrl+g"
	KeySave        = "ctrl+s"
	KeyShare       = "ctrl+y"
	KeyNewStory    = "ctrl+n"
	KeyOpenGallery = "ctrl+o"

	// Gallery
	KeySearch   = "/"
	KeySort     = "s"
	KeyEdit     = "e"
	KeyDelete   = "d"
	KeyClearAll = "X"
	KeyCopy     = "c"
	KeyReload   = "r"
	KeyBack     = "b"

	// Confirmation
	KeyYes      = "y"
	KeyYesUpper = "Y"
)
