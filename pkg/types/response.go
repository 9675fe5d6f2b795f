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

// LegacyError is the error body of the products boundary.
type LegacyError struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
