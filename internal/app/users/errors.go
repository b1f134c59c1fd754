package users

// Error is an application-layer error that can be mapped to an HTTP response.
type Error struct {
	Status  int
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func errNotProvisioned() *Error {
	return &Error{
		Status:  404,
		Code:    "USER_NOT_PROVISIONED",
		Message: "No user profile exists for the authenticated subject.",
	}
}

func errValidation(field, message, detail string) *Error {
	return &Error{
		Status:  422,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Details: map[string]any{field: detail},
	}
}
