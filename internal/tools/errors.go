package tools

import "errors"

// Sentinel errors for tool registration and lookup.
var (
	ErrToolNameEmpty  = errors.New("tool name is empty")
	ErrToolExecuteNil = errors.New("tool execute function is nil")
	ErrToolRegistered = errors.New("tool already registered")
	ErrToolNotFound   = errors.New("tool not found")
)
