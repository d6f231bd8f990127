package httputil

// Machine-readable error codes returned in the "code" field of error
// responses. Clients branch on these instead of parsing messages.
const (
	// Request / validation
	CodeInvalidRequestBody = "invalid_request_body"
	CodeEmailRequired      = "email_required"
	CodePasswordRequired   = "password_required"
	CodeInvalidEmailFormat = "invalid_email_format"
	CodeEmailAlreadyExists = "email_already_exists"
	CodeCompanyRequired    = "company_required"
	CodeRoleRequired       = "role_required"
	CodeInvalidStatus      = "invalid_status"

	// Authentication / authorization
	CodeMissingAuth        = "missing_auth"
	CodeInvalidAuthHeader  = "invalid_auth_header"
	CodeInvalidToken       = "invalid_token"
	CodeTokenExpired       = "token_expired"
	CodeInvalidCredentials = "invalid_credentials"
	CodeForbidden          = "forbidden"

	// Resources
	CodeNotFound = "not_found"

	// Rate limiting
	CodeTooManyRequests = "too_many_requests"

	// Fallback
	CodeInternalError = "internal_error"
)
