package model

// Error taxonomy surfaced by the service layer. Handlers map these to
// 400 / 404 / 403; anything else is an infrastructure error (500).

type ValidationError struct{ Msg string }

func (e *ValidationError) Error() string { return e.Msg }

type NotFoundError struct{ Msg string }

func (e *NotFoundError) Error() string { return e.Msg }

type ForbiddenError struct{ Msg string }

func (e *ForbiddenError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }
func NotFound(msg string) error   { return &NotFoundError{Msg: msg} }
func Forbidden(msg string) error  { return &ForbiddenError{Msg: msg} }
