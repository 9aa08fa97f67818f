package handler

type ContextKey string

var (
	ShiftCtx ContextKey = "shift"
)
