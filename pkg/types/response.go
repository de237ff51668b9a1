package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Notice is returned from endpoints whose outcome is a user-facing message
// rather than a resource (checkout success/cancel callbacks).
type Notice struct {
	Notice string `json:"notice"`
}
