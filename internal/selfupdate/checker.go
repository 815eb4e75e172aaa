// Package selfupdate checks GitHub releases for a newer az104 build.
package selfupdate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

const (
	defaultOwner = "kelly1311"
	defaultRepo  = "app-simulador-examen-az-104"

	defaultAPIBaseURL = "https://api.github.com"

	// devVersion is the version string of builds made without release ldflags.
	devVersion = "(devel)"
)

// ErrDevBuild means the running build has no release version to compare.
var ErrDevBuild = errors.New("development build has no release version")

// Checker talks to the release host.
type Checker struct {
	client      *http.Client
	apiBaseURL  string
	owner, repo string
}

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds every HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) { c.client.Timeout = d }
}

// WithBaseURL points release lookups at a different API host.
func WithBaseURL(u string) Option {
	return func(c *Checker) { c.apiBaseURL = u }
}

// NewChecker creates a Checker for the az104 releases.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		client:     &http.Client{Timeout: 30 * time.Second},
		apiBaseURL: defaultAPIBaseURL,
		owner:      defaultOwner,
		repo:       defaultRepo,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckInput describes the running build.
type CheckInput struct {
	Version string
}

// CheckResult is the outcome of a release lookup.
type CheckResult struct {
	CurrentVersion  string
	LatestVersion   string
	ReleaseURL      string
	UpdateAvailable bool
}

type release struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check compares input.Version with the latest published release.
func (c *Checker) Check(ctx context.Context, input *CheckInput) (*CheckResult, error) {
	if input.Version == "" || input.Version == devVersion {
		return nil, ErrDevBuild
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", strings.TrimRight(c.apiBaseURL, "/"), c.owner, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch latest release: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch latest release: HTTP %d", resp.StatusCode)
	}

	var rel release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("decode release: %w", err)
	}

	current, latest := canonical(input.Version), canonical(rel.TagName)
	if !semver.IsValid(latest) {
		return nil, fmt.Errorf("release tag %q is not a semantic version", rel.TagName)
	}

	return &CheckResult{
		CurrentVersion:  input.Version,
		LatestVersion:   rel.TagName,
		ReleaseURL:      rel.HTMLURL,
		UpdateAvailable: !semver.IsValid(current) || semver.Compare(latest, current) > 0,
	}, nil
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	if v != "" && !strings.HasPrefix(v, "v") {
		return "v" + v
	}
	return v
}
