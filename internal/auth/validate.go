package auth

const (
	passwordMinLength = 8
	passwordMaxLength = 128
)

type authRequest struct {
	Password string `json:"password"`
}

// validateAuthRequest checks the request body shape and returns the list of
// violations; empty means valid. Only length bounds are enforced, no
// character class rules.
func validateAuthRequest(req authRequest) []string {
	var violations []string

	if req.Password == "" {
		violations = append(violations, "password is required")
		return violations
	}
	if len(req.Password) < passwordMinLength {
		violations = append(violations, "password must be at least 8 characters")
	}
	if len(req.Password) > passwordMaxLength {
		violations = append(violations, "password must be at most 128 characters")
	}

	return violations
}
