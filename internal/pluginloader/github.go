package pluginloader

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"runtime"
	"strings"

	"github.com/moonrepo/protohost/internal/hostenv"
	"github.com/moonrepo/protohost/internal/httpclient"
)

// githubRelease is the subset of the GitHub Releases API response
// this loader needs. Grounded on terassyi-tomei/internal/github/
// release.go's releaseResponse, extended with Prerelease and Assets
// since the single "latest" endpoint tomei uses isn't enough here:
// §4.3 requires picking a specific tag OR "the latest non-prerelease
// when absent", which needs the full release list.
type githubRelease struct {
	TagName    string        `json:"tag_name"`
	Prerelease bool          `json:"prerelease"`
	Assets     []githubAsset `json:"assets"`
}

type githubAsset struct {
	Name               string `json:"name"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

// fetchReleases lists every release for owner/repo, most-recent first
// (the order the GitHub API returns them in).
func fetchReleases(ctx context.Context, client *httpclient.Client, owner, repo string) ([]githubRelease, error) {
	url := fmt.Sprintf("https://api.github.com/repos/%s/%s/releases", owner, repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("listing releases for %s/%s: %w", owner, repo, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing releases for %s/%s: status %d", owner, repo, resp.StatusCode)
	}

	var releases []githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&releases); err != nil {
		return nil, fmt.Errorf("decoding releases for %s/%s: %w", owner, repo, err)
	}
	return releases, nil
}

// selectRelease picks the release matching tag, or, when tag is empty,
// the most recent non-prerelease.
func selectRelease(releases []githubRelease, tag string) (githubRelease, error) {
	if tag != "" {
		for _, r := range releases {
			if r.TagName == tag {
				return r, nil
			}
		}
		return githubRelease{}, fmt.Errorf("no release tagged %q", tag)
	}
	for _, r := range releases {
		if !r.Prerelease {
			return r, nil
		}
	}
	return githubRelease{}, fmt.Errorf("no non-prerelease release found")
}

// hostPlatformTokens returns the substrings a release asset name
// should contain to match the current host, in priority order for
// arch and OS, plus the libc token that should positively (musl host)
// or negatively (glibc host) affect the match score. Grounded on
// SPEC_FULL.md §4.3: "pick the asset whose name best matches the host
// platform (arch + OS + libc)."
func hostPlatformTokens() (osTokens, archTokens []string, libc hostenv.Libc) {
	switch runtime.GOOS {
	case "darwin":
		osTokens = []string{"darwin", "macos", "apple-darwin", "osx"}
	case "linux":
		osTokens = []string{"linux"}
	case "windows":
		osTokens = []string{"windows", "win"}
	default:
		osTokens = []string{runtime.GOOS}
	}

	switch runtime.GOARCH {
	case "amd64":
		archTokens = []string{"x86_64", "amd64", "x64"}
	case "arm64":
		archTokens = []string{"arm64", "aarch64"}
	default:
		archTokens = []string{runtime.GOARCH}
	}

	libc = hostenv.Detect().Libc
	return
}

// selectAsset picks the release asset best matching the host platform.
// When assetPattern is set (an explicit config override), it is tried
// first as a regular expression against every asset name.
func selectAsset(release githubRelease, assetPattern string) (githubAsset, error) {
	if assetPattern != "" {
		re, err := regexp.Compile(assetPattern)
		if err == nil {
			for _, a := range release.Assets {
				if re.MatchString(a.Name) {
					return a, nil
				}
			}
		}
	}

	osTokens, archTokens, libc := hostPlatformTokens()
	var best githubAsset
	found := false
	bestRank := -1
	for _, a := range release.Assets {
		name := strings.ToLower(a.Name)
		matched := 0
		for _, tok := range osTokens {
			if strings.Contains(name, tok) {
				matched++
				break
			}
		}
		for _, tok := range archTokens {
			if strings.Contains(name, tok) {
				matched++
				break
			}
		}
		if matched < 2 {
			continue
		}

		// libc is a tie-breaker among OS+arch matches, not a
		// requirement: most glibc release assets carry no libc token at
		// all, but a "-musl" asset should only outrank a non-musl one on
		// a musl host, per spec.md §4.3's "arch + OS + libc" match order.
		rank := 0
		hasMusl := strings.Contains(name, "musl")
		switch {
		case libc == hostenv.LibcMusl && hasMusl:
			rank = 1
		case libc != hostenv.LibcMusl && hasMusl:
			rank = -1
		}

		if !found || rank > bestRank {
			best = a
			bestRank = rank
			found = true
		}
	}

	if !found {
		return githubAsset{}, ErrGitHubNoAsset
	}
	return best, nil
}
