package gogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitforge/git-issue/internal/tracker"
)

func testAdapter(server *httptest.Server) *Adapter {
	return &Adapter{
		client:   NewClient("secret"),
		apiURL:   server.URL + "/api/v1",
		reposURL: server.URL + "/api/v1/repos/owner/repo",
		htmlBase: "https://try.gogs.io/owner/repo",
	}
}

func issueJSON(n int, title, state, created string) map[string]any {
	return map[string]any{
		"id":     int64(100 + n),
		"number": n,
		"title":  title,
		"body":   "body of " + title,
		"state":  state,
		"user": map[string]any{
			"id": 1, "username": "owner", "full_name": "Repo Owner",
			"email": "owner@example.com",
		},
		"labels":     []any{},
		"comments":   0,
		"created_at": created,
		"updated_at": created,
	}
}

func toggleJSON(id int, created string) map[string]any {
	return map[string]any{
		"id":   id,
		"body": "",
		"user": map[string]any{
			"id": 1, "username": "owner", "full_name": "Repo Owner",
			"email": "owner@example.com",
		},
		"created_at": created,
	}
}

func TestEventsFoldAlternatesFromCurrentState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/comments") {
			json.NewEncoder(w).Encode([]map[string]any{
				toggleJSON(31, "2024-03-03T00:00:00Z"),
				toggleJSON(11, "2024-01-01T00:00:00Z"),
				toggleJSON(21, "2024-02-02T00:00:00Z"),
			})
			return
		}
		json.NewEncoder(w).Encode(issueJSON(5, "toggles", "open", "2023-12-01T00:00:00Z"))
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "5")
	require.NoError(t, err)
	require.Equal(t, tracker.StateOpen, issue.State.Name)

	events, err := issue.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 3)
	// Chronological output: the most recent toggle produced the current
	// open state, so walking backward the actions alternate.
	assert.Equal(t, "reopened this", events[0].Text)
	assert.Equal(t, "closed this", events[1].Text)
	assert.Equal(t, "reopened this", events[2].Text)
}

func TestCommentsSkipStateToggles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/comments") {
			real := toggleJSON(12, "2024-01-02T00:00:00Z")
			real["body"] = "still reproducible"
			json.NewEncoder(w).Encode([]map[string]any{
				toggleJSON(11, "2024-01-01T00:00:00Z"),
				real,
			})
			return
		}
		json.NewEncoder(w).Encode(issueJSON(6, "mixed", "closed", "2023-12-01T00:00:00Z"))
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "6")
	require.NoError(t, err)

	comments, err := issue.Comments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "still reproducible", comments[0].Body)
}

func TestIssuesAllLoopsBothStateBuckets(t *testing.T) {
	var states []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "token secret", r.Header.Get("Authorization"))
		state := r.URL.Query().Get("state")
		states = append(states, state)
		switch state {
		case "open":
			json.NewEncoder(w).Encode([]map[string]any{
				issueJSON(1, "older", "open", "2024-01-01T00:00:00Z"),
			})
		case "closed":
			json.NewEncoder(w).Encode([]map[string]any{
				issueJSON(2, "newer", "closed", "2024-05-01T00:00:00Z"),
			})
		}
	}))
	defer server.Close()

	issues, err := testAdapter(server).Issues(context.Background(), tracker.StateAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "closed"}, states)
	require.Len(t, issues, 2)
	assert.Equal(t, "newer", issues[0].Title)
}

func TestIssuesRejectsUnknownStateBeforeNetwork(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	_, err := testAdapter(server).Issues(context.Background(), "stale")
	assert.True(t, tracker.IsValidation(err))
	assert.Zero(t, hits)
}

func TestEditReplacesLabelsWithDedicatedCall(t *testing.T) {
	var methods []string
	var putBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPut:
			methods = append(methods, "PUT "+r.URL.Path)
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &putBody))
			json.NewEncoder(w).Encode([]any{})
		case r.Method == http.MethodPatch:
			methods = append(methods, "PATCH "+r.URL.Path)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(issueJSON(9, "renamed", "open", "2024-01-01T00:00:00Z"))
		default:
			json.NewEncoder(w).Encode(issueJSON(9, "orig", "open", "2024-01-01T00:00:00Z"))
		}
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "9")
	require.NoError(t, err)

	bug, err := tracker.NewLabel("3", "bug", "ee0701")
	require.NoError(t, err)
	_, err = issue.Edit(context.Background(), &tracker.EditRequest{
		Title:  tracker.Set("renamed"),
		Labels: tracker.Set([]tracker.Label{bug}),
	})
	require.NoError(t, err)
	require.Equal(t, []string{
		"PATCH /api/v1/repos/owner/repo/issues/9",
		"PUT /api/v1/repos/owner/repo/issues/9/labels",
	}, methods)
	assert.Equal(t, []any{float64(3)}, putBody["labels"])
}

func TestEditClearsLabelsWithDelete(t *testing.T) {
	var deleted bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodDelete:
			deleted = true
			assert.True(t, strings.HasSuffix(r.URL.Path, "/labels"))
			w.WriteHeader(http.StatusNoContent)
		default:
			json.NewEncoder(w).Encode(issueJSON(9, "orig", "open", "2024-01-01T00:00:00Z"))
		}
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "9")
	require.NoError(t, err)

	_, err = issue.Edit(context.Background(), &tracker.EditRequest{
		Labels: tracker.Set([]tracker.Label{tracker.NoLabel()}),
	})
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestSetStateTolerates201(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPatch {
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			assert.Equal(t, "closed", body["state"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(issueJSON(2, "done", "closed", "2024-01-01T00:00:00Z"))
			return
		}
		json.NewEncoder(w).Encode(issueJSON(2, "done", "open", "2024-01-01T00:00:00Z"))
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "2")
	require.NoError(t, err)

	closed, err := issue.Close(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, tracker.StateClosed, closed.State.Name)
}

func TestUserSearchZeroMatchesIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"data": []any{}, "ok": true})
	}))
	defer server.Close()

	_, err := testAdapter(server).UserSearch(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, tracker.IsNotFound(err))
}

func TestIssueURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(issueJSON(7, "addressed", "open", "2024-01-01T00:00:00Z"))
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, "https://try.gogs.io/owner/repo/issues/7", issue.URL())
	assert.Equal(t, fmt.Sprintf("#%d", 7), issue.Number.String())
}
