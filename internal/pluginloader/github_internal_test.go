package pluginloader

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectReleaseByTag(t *testing.T) {
	releases := []githubRelease{
		{TagName: "v1.0.0", Prerelease: false},
		{TagName: "v2.0.0-beta", Prerelease: true},
		{TagName: "v2.0.0", Prerelease: false},
	}

	r, err := selectRelease(releases, "v2.0.0-beta")
	require.NoError(t, err)
	assert.Equal(t, "v2.0.0-beta", r.TagName)
}

func TestSelectReleaseLatestSkipsPrerelease(t *testing.T) {
	releases := []githubRelease{
		{TagName: "v2.0.0-beta", Prerelease: true},
		{TagName: "v1.0.0", Prerelease: false},
	}

	r, err := selectRelease(releases, "")
	require.NoError(t, err)
	assert.Equal(t, "v1.0.0", r.TagName)
}

func TestSelectReleaseUnknownTagFails(t *testing.T) {
	_, err := selectRelease([]githubRelease{{TagName: "v1.0.0"}}, "v9.9.9")
	assert.Error(t, err)
}

func TestSelectAssetMatchesHostPlatform(t *testing.T) {
	osTokens, archTokens, _ := hostPlatformTokens()
	name := "tool-" + osTokens[0] + "-" + archTokens[0] + ".tar.gz"

	release := githubRelease{Assets: []githubAsset{
		{Name: "tool-unknownos-unknownarch.tar.gz"},
		{Name: name},
	}}

	a, err := selectAsset(release, "")
	require.NoError(t, err)
	assert.Equal(t, name, a.Name)
}

func TestSelectAssetNoMatchFails(t *testing.T) {
	release := githubRelease{Assets: []githubAsset{
		{Name: "tool-unknownos-unknownarch.tar.gz"},
	}}

	_, err := selectAsset(release, "")
	assert.ErrorIs(t, err, ErrGitHubNoAsset)
}

func TestSelectAssetExplicitPatternWins(t *testing.T) {
	osTokens, archTokens, _ := hostPlatformTokens()
	generic := "tool-" + osTokens[0] + "-" + archTokens[0] + ".tar.gz"

	release := githubRelease{Assets: []githubAsset{
		{Name: generic},
		{Name: "tool-special-build.zip"},
	}}

	a, err := selectAsset(release, `special-build`)
	require.NoError(t, err)
	assert.Equal(t, "tool-special-build.zip", a.Name)
}

func TestSelectAssetLibcTieBreak(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("libc tie-break only applies on linux hosts")
	}

	osTokens, archTokens, libc := hostPlatformTokens()
	glibcName := "tool-" + osTokens[0] + "-" + archTokens[0] + "-gnu.tar.gz"
	muslName := "tool-" + osTokens[0] + "-" + archTokens[0] + "-musl.tar.gz"

	release := githubRelease{Assets: []githubAsset{{Name: glibcName}, {Name: muslName}}}

	a, err := selectAsset(release, "")
	require.NoError(t, err)
	if libc == "musl" {
		assert.Equal(t, muslName, a.Name)
	} else {
		assert.Equal(t, glibcName, a.Name)
	}
}
