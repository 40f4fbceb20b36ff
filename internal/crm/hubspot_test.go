package crm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// hubspotStub records requests and plays back canned responses for the
// contact/note surface the client uses.
type hubspotStub struct {
	searchResults []string // contact ids returned by search
	createStatus  int      // status for contact create, 0 means 201
	createdID     string

	searchBodies []searchRequest
	patchedIDs   []string
	createBodies []contactInput
	noteBodies   []noteInput
}

func (h *hubspotStub) server(t *testing.T) *httptest.Server {
	t.Helper()

	contactPath := regexp.MustCompile(`^/crm/v3/objects/contacts/([^/]+)$`)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/contacts/search":
			var req searchRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			h.searchBodies = append(h.searchBodies, req)

			resp := searchResponse{Total: len(h.searchResults)}
			for _, id := range h.searchResults {
				resp.Results = append(resp.Results, objectResponse{ID: id})
			}
			writeJSON(w, http.StatusOK, resp)

		case r.Method == http.MethodPatch && contactPath.MatchString(r.URL.Path):
			id := contactPath.FindStringSubmatch(r.URL.Path)[1]
			h.patchedIDs = append(h.patchedIDs, id)
			writeJSON(w, http.StatusOK, objectResponse{ID: id})

		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/contacts":
			var req contactInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			h.createBodies = append(h.createBodies, req)

			if h.createStatus != 0 {
				writeJSON(w, h.createStatus, map[string]string{"message": "Contact already exists"})
				return
			}
			writeJSON(w, http.StatusCreated, objectResponse{ID: h.createdID})

		case r.Method == http.MethodPost && r.URL.Path == "/crm/v3/objects/notes":
			var req noteInput
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			h.noteBodies = append(h.noteBodies, req)
			writeJSON(w, http.StatusCreated, objectResponse{ID: "note-1"})

		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, stub *hubspotStub) *Client {
	srv := stub.server(t)
	t.Cleanup(srv.Close)
	return NewClient("test-token", "owner-7", testLogger()).WithBaseURL(srv.URL)
}

func TestContactByEmail(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		stub := &hubspotStub{searchResults: []string{"101"}}
		c := newTestClient(t, stub)

		id, err := c.ContactByEmail(context.Background(), "ada@example.com")
		require.NoError(t, err)
		assert.Equal(t, "101", id)

		require.Len(t, stub.searchBodies, 1)
		req := stub.searchBodies[0]
		require.Len(t, req.FilterGroups, 1)
		assert.Equal(t, "email", req.FilterGroups[0].Filters[0].PropertyName)
		assert.Equal(t, "EQ", req.FilterGroups[0].Filters[0].Operator)
		assert.Equal(t, "ada@example.com", req.FilterGroups[0].Filters[0].Value)
		assert.Equal(t, "ASCENDING", req.Sorts[0].Direction)
		assert.Equal(t, 1, req.Limit)
	})

	t.Run("not found", func(t *testing.T) {
		c := newTestClient(t, &hubspotStub{})

		id, err := c.ContactByEmail(context.Background(), "nobody@example.com")
		require.NoError(t, err)
		assert.Equal(t, "", id)
	})
}

func TestUpsertContactUpdatesExisting(t *testing.T) {
	stub := &hubspotStub{searchResults: []string{"101"}}
	c := newTestClient(t, stub)

	id, err := c.UpsertContact(context.Background(), "ada@example.com", "Ada", "Lovelace", "555-0100", "candidate")
	require.NoError(t, err)
	assert.Equal(t, "101", id)

	assert.Equal(t, []string{"101"}, stub.patchedIDs)
	assert.Empty(t, stub.createBodies)
}

func TestUpsertContactCreatesNew(t *testing.T) {
	stub := &hubspotStub{createdID: "202"}
	c := newTestClient(t, stub)

	id, err := c.UpsertContact(context.Background(), "ada@example.com", "Ada", "Lovelace", "", "employer")
	require.NoError(t, err)
	assert.Equal(t, "202", id)

	require.Len(t, stub.createBodies, 1)
	props := stub.createBodies[0].Properties
	assert.Equal(t, "ada@example.com", props.Email)
	assert.Equal(t, "employer", props.AboutMe)
	assert.Equal(t, "lead", props.LifecycleStage)
}

func TestUpsertContactConflictIsSoftFailure(t *testing.T) {
	stub := &hubspotStub{createStatus: http.StatusConflict}
	c := newTestClient(t, stub)

	id, err := c.UpsertContact(context.Background(), "ada@example.com", "Ada", "Lovelace", "", "other")
	require.NoError(t, err)
	assert.Equal(t, "", id)
}

func TestAttachNote(t *testing.T) {
	stub := &hubspotStub{}
	c := newTestClient(t, stub)

	err := c.AttachNote(context.Background(), "101", "<p>Contact form submission</p>")
	require.NoError(t, err)

	require.Len(t, stub.noteBodies, 1)
	note := stub.noteBodies[0]
	assert.Equal(t, "<p>Contact form submission</p>", note.Properties.NoteBody)
	assert.Equal(t, "owner-7", note.Properties.OwnerID)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}Z$`, note.Properties.Timestamp)

	require.Len(t, note.Associations, 1)
	assert.Equal(t, "101", note.Associations[0].To.ID)
	require.Len(t, note.Associations[0].Types, 1)
	assert.Equal(t, "HUBSPOT_DEFINED", note.Associations[0].Types[0].AssociationCategory)
	assert.Equal(t, 202, note.Associations[0].Types[0].AssociationTypeID)
}
