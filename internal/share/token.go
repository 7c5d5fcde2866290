package share

import "regexp"

// TokenKind tags which share format a token is written in.
type TokenKind int

const (
	// TokenLegacy is the self-contained inline format.
	TokenLegacy TokenKind = iota
	// TokenShortCode is an opaque key into the share store.
	TokenShortCode
)

var shortCodePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// Classify picks the decode path for a token. Anything that is not purely
// alphanumeric is treated as legacy.
func Classify(token string) TokenKind {
	if shortCodePattern.MatchString(token) {
		return TokenShortCode
	}
	return TokenLegacy
}

func (k TokenKind) String() string {
	switch k {
	case TokenShortCode:
		return "short_code"
	default:
		return "legacy"
	}
}
