package wizard

import "errors"

var (
	// errTerminalStage rejects edits after a wizard reached its terminal
	// state.
	errTerminalStage = errors.New("wizard: registration already submitted")
)
