package tiles

import (
	"fmt"
	"net/url"
)

// ShareParam is the query parameter that carries a share token.
const ShareParam = "s"

// ShareURL sets the share token on base, keeping any other query parameters.
func ShareURL(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %q: %w", base, err)
	}
	q := u.Query()
	q.Set(ShareParam, token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// TokenFromURL extracts the share token from a full link. Input that is not
// a URL with the parameter is returned as is, so bare tokens pass through.
func TokenFromURL(link string) string {
	u, err := url.Parse(link)
	if err != nil || u.RawQuery == "" {
		return link
	}
	if token := u.Query().Get(ShareParam); token != "" {
		return token
	}
	return link
}
