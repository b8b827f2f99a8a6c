package wappo

import "fmt"

// Validation error codes.
const (
	CodeInvalidSize = "INVALID_SIZE"
	CodeOutOfBounds = "OUT_OF_BOUNDS"
	CodeBadWall     = "BAD_WALL"
	CodeNoEnemies   = "NO_ENEMIES"
	CodeOverlap     = "OVERLAP"
)

// ValidationError describes level content that can never form a legal
// session: positions off the board, malformed walls and the like.
type ValidationError struct {
	Code    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}
