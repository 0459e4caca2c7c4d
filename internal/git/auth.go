package git

import (
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// tokenAuth returns HTTP basic auth carrying an access token, or nil when
// no token is configured (anonymous or SSH agent access).
func tokenAuth(token string) transport.AuthMethod {
	if token == "" {
		return nil
	}
	return &http.BasicAuth{Username: "token", Password: token}
}
