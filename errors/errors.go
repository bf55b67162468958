package errors

import "fmt"

var (
	ErrWorkerPanic       = fmt.Errorf("worker panic")
	ErrOnlyCensoredFiles = fmt.Errorf("censored directory contains directories")
	ErrEmptyWords        = fmt.Errorf("no words have been found")

	ErrSessionNotFound = fmt.Errorf("session not found")
	ErrNameTaken       = fmt.Errorf("username already taken")
	ErrSameName        = fmt.Errorf("username unchanged")
	ErrUsernameCharset = fmt.Errorf("username contains forbidden characters")
	ErrUsernameLength  = fmt.Errorf("username length out of bounds")

	ErrChannelClosed  = fmt.Errorf("channel is not open")
	ErrBackpressure   = fmt.Errorf("outbound buffer full")
	ErrMalformedFrame = fmt.Errorf("frame is not valid UTF-8")
	ErrMalformedLine  = fmt.Errorf("malformed audit line")
)
