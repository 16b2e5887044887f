package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGitHub serves /repos/{owner}/{repo} with fixed counts, or 404 for "ghost".
func fakeGitHub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /repos/{owner}/{repo}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.PathValue("owner") == "ghost" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"Not Found"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"full_name":        r.PathValue("owner") + "/" + r.PathValue("repo"),
			"stargazers_count": 100000,
			"forks_count":      20000,
		})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), err
}

func TestFetchCmd_SingleRepository(t *testing.T) {
	server := fakeGitHub(t)
	t.Setenv("BASALT_GITHUB_API_URL", server.URL+"/")

	out, err := runCLI(t, "fetch", "basalt-dev/basalt")
	require.NoError(t, err)

	var got fetchOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Repositories, 1)
	assert.Equal(t, "basalt-dev/basalt", got.Repositories[0].Repository)
	assert.Equal(t, 100000, got.TotalStars)
	assert.Equal(t, 20000, got.TotalForks)
	assert.Equal(t, 99200, got.ActiveDevelopers)
}

func TestFetchCmd_PartialFailure(t *testing.T) {
	server := fakeGitHub(t)
	t.Setenv("BASALT_GITHUB_API_URL", server.URL+"/")

	out, err := runCLI(t, "fetch", "basalt-dev/basalt", "ghost/missing")

	require.Error(t, err)
	assert.True(t, strings.Contains(out, "basalt-dev/basalt"), "successful repositories are still printed")
}

func TestFetchCmd_InvalidArgument(t *testing.T) {
	_, err := runCLI(t, "fetch", "not-a-repo")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo")
}
