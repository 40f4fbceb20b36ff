package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

const (
	hubspotAPIBaseURL = "https://api.hubapi.com"

	// HUBSPOT_DEFINED association: note -> contact.
	noteToContactAssociationTypeID = 202
)

// Client is a HubSpot CRM v3 client covering the contact + note surface
// this service needs.
type Client struct {
	http    *retryablehttp.Client
	baseURL string
	token   string
	ownerID string
	logger  *logrus.Logger
}

func NewClient(token, ownerID string, logger *logrus.Logger) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 10 * time.Second
	rc.Logger = nil

	return &Client{
		http:    rc,
		baseURL: hubspotAPIBaseURL,
		token:   token,
		ownerID: ownerID,
		logger:  logger,
	}
}

// WithBaseURL points the client at a different API host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}

type contactProperties struct {
	Email          string `json:"email"`
	FirstName      string `json:"firstname"`
	LastName       string `json:"lastname"`
	Phone          string `json:"phone"`
	AboutMe        string `json:"about_me"`
	LifecycleStage string `json:"lifecyclestage"`
}

type searchFilter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value"`
}

type searchFilterGroup struct {
	Filters []searchFilter `json:"filters"`
}

type searchSort struct {
	PropertyName string `json:"propertyName"`
	Direction    string `json:"direction"`
}

type searchRequest struct {
	FilterGroups []searchFilterGroup `json:"filterGroups"`
	Sorts        []searchSort        `json:"sorts"`
	Properties   []string            `json:"properties"`
	Limit        int                 `json:"limit"`
}

type searchResponse struct {
	Total   int              `json:"total"`
	Results []objectResponse `json:"results"`
}

type objectResponse struct {
	ID string `json:"id"`
}

type contactInput struct {
	Properties contactProperties `json:"properties"`
}

type noteProperties struct {
	Timestamp string `json:"hs_timestamp"`
	NoteBody  string `json:"hs_note_body"`
	OwnerID   string `json:"hubspot_owner_id,omitempty"`
}

type noteAssociationTarget struct {
	ID string `json:"id"`
}

type noteAssociationType struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

type noteAssociation struct {
	To    noteAssociationTarget `json:"to"`
	Types []noteAssociationType `json:"types"`
}

type noteInput struct {
	Properties   noteProperties    `json:"properties"`
	Associations []noteAssociation `json:"associations"`
}

// ContactByEmail returns the id of the earliest-created contact with an
// exact email match, or "" when none exists.
func (c *Client) ContactByEmail(ctx context.Context, email string) (string, error) {
	req := searchRequest{
		FilterGroups: []searchFilterGroup{{
			Filters: []searchFilter{{
				PropertyName: "email",
				Operator:     "EQ",
				Value:        email,
			}},
		}},
		Sorts:      []searchSort{{PropertyName: "createdate", Direction: "ASCENDING"}},
		Properties: []string{"email"},
		Limit:      1,
	}

	var resp searchResponse
	if _, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts/search", req, &resp); err != nil {
		return "", fmt.Errorf("search contact by email: %w", err)
	}

	if len(resp.Results) == 0 {
		return "", nil
	}

	return resp.Results[0].ID, nil
}

// UpsertContact updates the contact with the given email in place, or
// creates one with lifecycle stage "lead". A create racing a
// pre-existing contact (409) is a soft failure: logged, ("", nil).
func (c *Client) UpsertContact(ctx context.Context, email, firstName, lastName, phone, leadType string) (string, error) {
	contactID, err := c.ContactByEmail(ctx, email)
	if err != nil {
		return "", err
	}

	input := contactInput{Properties: contactProperties{
		Email:          email,
		FirstName:      firstName,
		LastName:       lastName,
		Phone:          phone,
		AboutMe:        leadType,
		LifecycleStage: "lead",
	}}

	if contactID != "" {
		path := fmt.Sprintf("/crm/v3/objects/contacts/%s", contactID)
		if _, err := c.do(ctx, http.MethodPatch, path, input, nil); err != nil {
			return "", fmt.Errorf("update contact %s: %w", contactID, err)
		}
		return contactID, nil
	}

	var created objectResponse
	status, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/contacts", input, &created)
	if err != nil {
		if status == http.StatusConflict {
			c.logger.WithField("email", email).Warn("contact create conflicted with existing contact")
			return "", nil
		}
		return "", fmt.Errorf("create contact: %w", err)
	}

	return created.ID, nil
}

// AttachNote creates a timestamped note associated with the contact,
// attributed to the configured owner.
func (c *Client) AttachNote(ctx context.Context, contactID, htmlBody string) error {
	input := noteInput{
		Properties: noteProperties{
			Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05Z"),
			NoteBody:  htmlBody,
			OwnerID:   c.ownerID,
		},
		Associations: []noteAssociation{{
			To: noteAssociationTarget{ID: contactID},
			Types: []noteAssociationType{{
				AssociationCategory: "HUBSPOT_DEFINED",
				AssociationTypeID:   noteToContactAssociationTypeID,
			}},
		}},
	}

	if _, err := c.do(ctx, http.MethodPost, "/crm/v3/objects/notes", input, nil); err != nil {
		return fmt.Errorf("create note for contact %s: %w", contactID, err)
	}

	return nil
}

// do sends one JSON request and decodes the response into out when
// provided. Returns the HTTP status alongside any error so callers can
// branch on specific statuses.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request: %w", err)
		}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return resp.StatusCode, fmt.Errorf("hubspot %s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
