package github

import "regexp"

// RepositoryIdentifier is an owner/name pair parsed from a repository URL.
type RepositoryIdentifier struct {
	Owner string
	Name  string
}

// Matches the first owner/name pair after the host marker; trailing path
// segments (/tree/main, /issues, ...) are ignored.
var repoPattern = regexp.MustCompile(`github\.com/([^/]+)/([^/]+)(/|$)`)

// ParseRepository extracts the owner/name pair from a GitHub URL. A nil
// input or a non-matching URL yields ok=false; that is a normal "cannot
// enrich" outcome, not an error.
func ParseRepository(url *string) (RepositoryIdentifier, bool) {
	if url == nil {
		return RepositoryIdentifier{}, false
	}
	m := repoPattern.FindStringSubmatch(*url)
	if m == nil {
		return RepositoryIdentifier{}, false
	}
	return RepositoryIdentifier{Owner: m[1], Name: m[2]}, true
}
