package service

import "errors"

// Sentinel errors returned by services. Handlers map these to HTTP
// status codes
var (
	ErrNotFound             = errors.New("resource not found")
	ErrUsernameTaken        = errors.New("username already taken")
	ErrInvalidCredentials   = errors.New("invalid username or password")
	ErrInvalidSession       = errors.New("invalid or expired session")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrLevelLocked          = errors.New("level is locked")
	ErrOutOfLives           = errors.New("no lives remaining")
	ErrInsufficientLives    = errors.New("not enough lives")
	ErrExerciseMismatch     = errors.New("exercise does not belong to the active level")
	ErrAllExercisesDone     = errors.New("all exercises in this level have been attempted")
	ErrInsufficientDiamonds = errors.New("not enough diamonds")
)
