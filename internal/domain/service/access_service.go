package service

// AccessService is the placeholder access-control boundary in front of the
// planner: a single shared access code exchanged for a short-lived session
// token. It deliberately carries no user identity.
type AccessService interface {
	// Authenticate compares the access code and returns a session token.
	Authenticate(code string) (string, error)
	// Validate checks a session token.
	Validate(token string) error
}
