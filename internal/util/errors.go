package util

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailRegistered     = errors.New("email already registered")
	ErrUsernameTaken       = errors.New("username already taken")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSkillNotFound       = errors.New("skill not found")
	ErrResumeNotFound      = errors.New("no resume uploaded")
	ErrConnectionNotFound  = errors.New("connection not found")
	ErrConnectionRejected  = errors.New("connection request was rejected")
	ErrConnectionPending   = errors.New("connection request is pending")
	ErrNotReceiver         = errors.New("only the receiver can respond to this request")
	ErrSessionNotFound     = errors.New("learning session not found")
	ErrNotSessionParty     = errors.New("not a participant of this session")
	ErrNotSessionTeacher   = errors.New("only the teacher can respond to this request")
	ErrDuplicateSession    = errors.New("an active session for this skill already exists")
	ErrSelfSession         = errors.New("cannot start a session with yourself")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrSessionNotCompleted = errors.New("session is not completed")
	ErrAlreadyRated        = errors.New("session already rated")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrEmptyMessage        = errors.New("message needs content or a file")
	ErrNotificationDenied  = errors.New("notification does not belong to user")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrMeetNotAuthorized   = errors.New("google authorization required")
)
