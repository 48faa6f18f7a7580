package model

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

const (
	CodeBadRequest   = "BAD_REQUEST"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeNoSigner     = "NO_SIGNER"
	CodeFetchFailed  = "FETCH_FAILED"
	CodeDecrypt      = "DECRYPT_FAILED"
	CodeInternal     = "INTERNAL"
)
