package domain

// Principal is the identity extracted from a validated token. The role is
// trusted from the signed payload for the token's lifetime; role changes
// take effect at the next authentication.
type Principal struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

type AuthService interface {
	// Authenticate returns a signed, time-limited token. The error never
	// reveals whether the email or the password was wrong.
	Authenticate(email, password string) (string, error)

	// Authorize validates signature and expiry, and when requiredRole is
	// non-empty also checks the embedded role. No database lookup happens
	// here.
	Authorize(token, requiredRole string) (*Principal, error)
}
