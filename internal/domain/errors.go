package domain

import "errors"

var (
	ErrNotFound      = errors.New("session not found")
	ErrAlreadyBound  = errors.New("view already bound")
	ErrBusy          = errors.New("provider switch in progress")
	ErrSpawnFailed   = errors.New("spawn failed")
	ErrProcessExited = errors.New("process exited")

	ErrProviderNotFound = errors.New("provider not found")
	ErrAccountNotFound  = errors.New("account not found")
	ErrSecretNotFound   = errors.New("secret not found")
)
