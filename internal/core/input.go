package core

// Action represents a semantic player intent, abstracted from physical key
// presses or wire commands.
type Action int

const (
	ActionNone      Action = iota
	ActionMoveUp           // W, K, Up arrow
	ActionMoveDown         // S, J, Down arrow
	ActionMoveLeft         // A, H, Left arrow
	ActionMoveRight        // D, L, Right arrow
	ActionReset            // R - replay the current level
	ActionNext             // N - advance to the next campaign level
	ActionSave             // Ctrl+S - store the current board as a custom map
	ActionConfirm          // Enter
	ActionBack             // B, Escape - back to menu
	ActionQuit             // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionMoveUp:
		return "MoveUp"
	case ActionMoveDown:
		return "MoveDown"
	case ActionMoveLeft:
		return "MoveLeft"
	case ActionMoveRight:
		return "MoveRight"
	case ActionReset:
		return "Reset"
	case ActionNext:
		return "Next"
	case ActionSave:
		return "Save"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction returns the move direction for movement actions and DirNone for
// everything else.
func (a Action) Direction() Direction {
	switch a {
	case ActionMoveUp:
		return DirUp
	case ActionMoveDown:
		return DirDown
	case ActionMoveLeft:
		return DirLeft
	case ActionMoveRight:
		return DirRight
	default:
		return DirNone
	}
}

// IsMove reports whether the action moves the player.
func (a Action) IsMove() bool {
	return a.Direction() != DirNone
}
