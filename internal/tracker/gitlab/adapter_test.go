package gitlab

import (
	"context"
	"encoding/json"
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
	projectURL := server.URL + "/api/v4/projects/group%2Fproject"
	return &Adapter{
		client:     NewClient("secret"),
		apiURL:     server.URL + "/api/v4",
		projectURL: projectURL,
		issuesURL:  projectURL + "/issues",
		usersURL:   server.URL + "/api/v4/users",
		htmlBase:   "https://gitlab.example.com/group/project",
	}
}

func issueJSON(iid int, title, state, created string) map[string]any {
	return map[string]any{
		"id":               int64(9000 + iid),
		"iid":              iid,
		"title":            title,
		"description":      "body of " + title,
		"state":            state,
		"author":           map[string]any{"id": 3, "username": "dev", "name": "Dev Eloper"},
		"labels":           []string{},
		"user_notes_count": 0,
		"created_at":       created,
		"updated_at":       created,
	}
}

func TestIssuesAllListsBothStatesNewestFirst(t *testing.T) {
	var states []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/labels") {
			json.NewEncoder(w).Encode([]any{})
			return
		}
		state := r.URL.Query().Get("state")
		states = append(states, state)
		switch state {
		case "opened":
			json.NewEncoder(w).Encode([]map[string]any{
				issueJSON(1, "oldest", "opened", "2024-01-01T00:00:00Z"),
			})
		case "closed":
			json.NewEncoder(w).Encode([]map[string]any{
				issueJSON(2, "newest", "closed", "2024-06-01T00:00:00Z"),
			})
		default:
			t.Errorf("unexpected state filter %q", state)
		}
	}))
	defer server.Close()

	issues, err := testAdapter(server).Issues(context.Background(), tracker.StateAll)
	require.NoError(t, err)
	assert.Equal(t, []string{"opened", "closed"}, states)
	require.Len(t, issues, 2)
	assert.Equal(t, "newest", issues[0].Title)
	assert.Equal(t, "oldest", issues[1].Title)
}

func TestIssuesRejectsUnknownStateBeforeNetwork(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	defer server.Close()

	_, err := testAdapter(server).Issues(context.Background(), "wontfix")
	assert.True(t, tracker.IsValidation(err))
	assert.Zero(t, hits)
}

func TestIssueResolvesLabelColorsFromCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/labels"):
			json.NewEncoder(w).Encode([]map[string]any{
				{"id": 11, "name": "bug", "color": "#ff0000"},
			})
		case strings.HasSuffix(r.URL.Path, "/milestones"):
			json.NewEncoder(w).Encode([]any{})
		default:
			payload := issueJSON(4, "labeled", "opened", "2024-02-02T00:00:00Z")
			payload["labels"] = []string{"bug", "unknown"}
			json.NewEncoder(w).Encode(payload)
		}
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "4")
	require.NoError(t, err)
	require.Len(t, issue.Labels, 2)
	assert.Equal(t, tracker.RGB{R: 0xff}, issue.Labels[0].Color)
	assert.Equal(t, tracker.ColorBrightRed, issue.Labels[0].PaletteColor())
	// Labels absent from the cache fall back to white.
	assert.Equal(t, tracker.RGB{R: 0xff, G: 0xff, B: 0xff}, issue.Labels[1].Color)
}

func TestCommentsAndEventsSplitOnSystemFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case strings.HasSuffix(r.URL.Path, "/notes"):
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"id": 1, "body": "looks good",
					"author":     map[string]any{"id": 3, "username": "dev", "name": "Dev"},
					"system":     false,
					"created_at": "2024-03-01T00:00:00Z",
				},
				{
					"id": 2, "body": "closed",
					"author":     map[string]any{"id": 3, "username": "dev", "name": "Dev"},
					"system":     true,
					"created_at": "2024-03-02T00:00:00Z",
				},
			})
		case strings.HasSuffix(r.URL.Path, "/labels"),
			strings.HasSuffix(r.URL.Path, "/milestones"):
			json.NewEncoder(w).Encode([]any{})
		default:
			json.NewEncoder(w).Encode(issueJSON(7, "split", "closed", "2024-02-02T00:00:00Z"))
		}
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "7")
	require.NoError(t, err)

	comments, err := issue.Comments(context.Background())
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "looks good", comments[0].Body)
	assert.Equal(t,
		"https://gitlab.example.com/group/project/issues/7#note_1",
		comments[0].URL())

	events, err := issue.Events(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Closed", events[0].Text)
}

func TestDescribeNoteRewritesReferences(t *testing.T) {
	adapter := &Adapter{
		labelNames:      map[int64]string{14: "bug"},
		milestoneTitles: map[int]string{2: "v1.0"},
	}

	tests := []struct {
		name string
		body string
		want string
	}{
		{"close wins over detail", "closed via commit abc123", "Closed"},
		{"reopen", "reopened", "Reopened"},
		{
			"title change markers stripped",
			"changed title from **old{- name-}** to **{+new +}name**",
			"Changed title from old name to new name",
		},
		{"milestone reference", "changed milestone to %2", "Changed milestone to v1.0"},
		{"label reference", "added ~14 label", "Added bug label"},
		{"unresolvable reference kept", "added ~99 label", "Added ~99 label"},
		{"capitalized verbatim fallback", "made the issue confidential", "Made the issue confidential"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, adapter.describeNote(tt.body))
		})
	}
}

func TestEditClearsLabelsAndMilestone(t *testing.T) {
	var edited map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPut:
			body, _ := io.ReadAll(r.Body)
			require.NoError(t, json.Unmarshal(body, &edited))
			json.NewEncoder(w).Encode(issueJSON(3, "edited", "opened", "2024-02-02T00:00:00Z"))
		case strings.HasSuffix(r.URL.Path, "/labels"),
			strings.HasSuffix(r.URL.Path, "/milestones"):
			json.NewEncoder(w).Encode([]any{})
		default:
			json.NewEncoder(w).Encode(issueJSON(3, "original", "opened", "2024-02-02T00:00:00Z"))
		}
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "3")
	require.NoError(t, err)

	_, err = issue.Edit(context.Background(), &tracker.EditRequest{
		Labels:    tracker.Set([]tracker.Label{tracker.NoLabel()}),
		Milestone: tracker.Set(tracker.NoMilestone()),
	})
	require.NoError(t, err)
	assert.Equal(t, "", edited["labels"])
	assert.Equal(t, float64(0), edited["milestone_id"])
	assert.NotContains(t, edited, "title")
}

func TestCloseUsesStateEvent(t *testing.T) {
	var stateEvent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch {
		case r.Method == http.MethodPut:
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			stateEvent = body["state_event"]
			json.NewEncoder(w).Encode(issueJSON(3, "closing", "closed", "2024-02-02T00:00:00Z"))
		case strings.HasSuffix(r.URL.Path, "/labels"),
			strings.HasSuffix(r.URL.Path, "/milestones"):
			json.NewEncoder(w).Encode([]any{})
		default:
			json.NewEncoder(w).Encode(issueJSON(3, "closing", "opened", "2024-02-02T00:00:00Z"))
		}
	}))
	defer server.Close()

	issue, err := testAdapter(server).Issue(context.Background(), "3")
	require.NoError(t, err)
	require.Equal(t, tracker.StateOpen, issue.State.Name)

	closed, err := issue.Close(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "close", stateEvent)
	assert.Equal(t, tracker.StateClosed, closed.State.Name)
}

func TestUserSearchZeroMatchesIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		assert.Equal(t, "secret", r.Header.Get("Private-Token"))
		json.NewEncoder(w).Encode([]any{})
	}))
	defer server.Close()

	_, err := testAdapter(server).UserSearch(context.Background(), "ghost")
	require.Error(t, err)
	assert.True(t, tracker.IsNotFound(err))
	assert.Contains(t, err.Error(), "unable to find user: ghost")
}

func TestNumberRendersProjectScopedIID(t *testing.T) {
	n := number{iid: 12, id: 9012}
	assert.Equal(t, "#12", n.String())
	assert.Equal(t, "12", n.API())
}
