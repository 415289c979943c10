package codeforces

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemate/internal/domain/model"
)

func TestBuildCandidatesDesktop(t *testing.T) {
	ref := model.ProblemRef{ContestID: "1900", Index: "B"}
	got := BuildCandidates(ref, nil, DesktopVariants)

	require.Len(t, got, len(DefaultMirrors)*2)
	assert.Equal(t, "https://codeforces.com/problemset/problem/1900/B?locale=en", got[0].URL)
	assert.Equal(t, "https://codeforces.com/contest/1900/problem/B?locale=en", got[1].URL)
	assert.Equal(t, "https://mirror.codeforces.com/problemset/problem/1900/B?locale=en", got[2].URL)
	assert.Equal(t, "https://m1.codeforces.com/contest/1900/problem/B?locale=en", got[5].URL)

	assert.Equal(t, "https://mirror.codeforces.com", got[2].Origin)
	assert.Equal(t, "https://mirror.codeforces.com/problemset/problem/1900/B", got[2].Canonical)
}

func TestBuildCandidatesCoversEveryCombination(t *testing.T) {
	ref := model.ProblemRef{ContestID: "1", Index: "A"}
	got := BuildCandidates(ref, nil, BrowserVariants)
	require.Len(t, got, len(DefaultMirrors)*2*2)

	seen := make(map[string]bool)
	for _, c := range got {
		seen[c.URL] = true
	}
	for _, m := range DefaultMirrors {
		for _, p := range []string{"/problemset/problem/1/A", "/contest/1/problem/A"} {
			assert.True(t, seen[m+p+"?locale=en"], m+p)
			assert.True(t, seen[m+p+"?locale=en&mobile=true"], m+p)
		}
	}

	assert.Equal(t, "https://codeforces.com/problemset/problem/1/A?locale=en", got[0].URL)
	assert.Equal(t, "https://codeforces.com/problemset/problem/1/A?locale=en&mobile=true", got[1].URL)
}

func TestBuildCandidatesDeterministic(t *testing.T) {
	ref := model.ProblemRef{ContestID: "42", Index: "C1"}
	assert.Equal(t, BuildCandidates(ref, nil, BrowserVariants), BuildCandidates(ref, nil, BrowserVariants))
}

func TestBuildCandidatesCustomMirrors(t *testing.T) {
	ref := model.ProblemRef{ContestID: "7", Index: "D"}
	got := BuildCandidates(ref, []string{"http://127.0.0.1:9000/"}, nil)

	require.Len(t, got, 2)
	assert.Equal(t, "http://127.0.0.1:9000/problemset/problem/7/D?locale=en", got[0].URL)
	assert.Equal(t, "http://127.0.0.1:9000", got[0].Origin)
}
