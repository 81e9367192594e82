package domain

// User is the principal derived from a decoded bearer token.
//
// Role is informational only; the client never enforces it.
type User struct {
	Subject string `json:"subject"`
	Role    string `json:"role"`
}

// Registration is the payload submitted to create an account.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Account is the user record returned by the registration endpoint.
type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
