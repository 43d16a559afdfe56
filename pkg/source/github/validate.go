package github

import (
	"regexp"
	"strings"

	"github.com/matzehuels/gitgraph/pkg/errors"
)

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)

	repoURLPattern = regexp.MustCompile(`^https?://github\.com/([^/]+)/([^/]+?)(?:\.git)?(?:/tree/([^?#]+))?/?(?:[?#].*)?$`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return errors.New(errors.ErrCodeInvalidInput, "owner is required")
	}
	if !validOwner.MatchString(owner) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid owner format: must be 1-39 alphanumeric characters or hyphens, cannot start with hyphen")
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return errors.New(errors.ErrCodeInvalidInput, "repo is required")
	}
	if repo == "." || repo == ".." || !validRepo.MatchString(repo) {
		return errors.New(errors.ErrCodeInvalidInput, "invalid repo format: must be 1-100 alphanumeric characters, hyphens, underscores, or dots")
	}
	return nil
}

// ValidateRepoRef validates owner, repo and an optional git ref.
func ValidateRepoRef(owner, repo, ref string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	if err := ValidateRepo(repo); err != nil {
		return err
	}
	return errors.ValidateRef(ref)
}

// ParseRepoRef parses "owner/repo", "owner/repo@ref" or a github.com URL
// (optionally with /tree/<ref>) and validates the parts.
func ParseRepoRef(s string) (owner, repo, ref string, err error) {
	s = strings.TrimSpace(s)
	if m := repoURLPattern.FindStringSubmatch(s); m != nil {
		owner, repo, ref = m[1], m[2], m[3]
	} else {
		name := s
		if at := strings.LastIndex(s, "@"); at >= 0 {
			name, ref = s[:at], s[at+1:]
		}
		parts := strings.Split(name, "/")
		if len(parts) != 2 {
			return "", "", "", errors.New(errors.ErrCodeInvalidInput, "invalid repo format: use owner/repo")
		}
		owner, repo = parts[0], parts[1]
	}
	if err := ValidateRepoRef(owner, repo, ref); err != nil {
		return "", "", "", err
	}
	return owner, repo, ref, nil
}
