package git

import (
	"strings"

	pierrors "git.home.luguber.info/inful/postindex/internal/errors"
)

// classify maps a go-git failure onto a structured error. Network
// conditions that usually clear up by themselves are marked retryable.
func classify(op, url string, err error) error {
	if err == nil {
		return nil
	}
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password"):
		return pierrors.GitError(url, err).WithContext("op", op).WithContext("reason", "auth")
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return pierrors.GitError(url, err).WithContext("op", op).WithContext("reason", "not_found")
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		return pierrors.GitError(url, err).WithContext("op", op).WithContext("reason", "protocol")
	case strings.Contains(l, "rate limit") || strings.Contains(l, "too many requests"),
		strings.Contains(l, "timeout"),
		strings.Contains(l, "connection refused") || strings.Contains(l, "connection reset"),
		strings.Contains(l, "no such host"):
		return pierrors.GitNetworkError(url, err).WithContext("op", op)
	default:
		return pierrors.GitError(url, err).WithContext("op", op)
	}
}
