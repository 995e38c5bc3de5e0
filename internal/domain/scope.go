package domain

import "fmt"

// TokenScope restricts a signed token to one class of operation.
type TokenScope string

const (
	ScopeAccess  TokenScope = "access_token"
	ScopeRefresh TokenScope = "refresh_token"
	ScopeEmail   TokenScope = "email_token"
)

// ParseTokenScope accepts only the closed set of known scopes.
func ParseTokenScope(s string) (TokenScope, error) {
	switch TokenScope(s) {
	case ScopeAccess, ScopeRefresh, ScopeEmail:
		return TokenScope(s), nil
	default:
		return "", fmt.Errorf("unknown token scope %q", s)
	}
}

func (s TokenScope) String() string { return string(s) }

// Validate reports an error for any value outside the known scopes.
func (s TokenScope) Validate() error {
	_, err := ParseTokenScope(string(s))
	return err
}
