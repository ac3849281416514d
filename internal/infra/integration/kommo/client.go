package kommo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/lead-portal/internal/infra/queue"
)

const DefaultBaseURL = "https://ambassador.kommo.com/api/v4"

var ErrNotConfigured = errors.New("kommo not configured")

var errContactNotFound = errors.New("contact not found")

type Client struct {
	apiToken   string
	baseURL    string
	httpClient *http.Client
	log        logrus.FieldLogger
}

func NewClient(apiToken, baseURL string, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiToken:   apiToken,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
	}
}

// SyncAssistedSale creates a CRM lead for an assisted-sale request, attached
// to the contact that owns the mobile number.
func (c *Client) SyncAssistedSale(ctx context.Context, event queue.AssistedSaleEvent) error {
	_, err := c.CreateLead(ctx, CreateLeadInput{
		LeadID:       event.LeadID,
		CustomerName: event.Name,
		Phone:        event.Mobile,
		Email:        event.Email,
		Category:     event.Category,
		Class:        event.Class,
		Batch:        event.Batch,
	})
	return err
}

func (c *Client) CreateLead(ctx context.Context, input CreateLeadInput) (int, error) {
	if c.apiToken == "" {
		return 0, ErrNotConfigured
	}

	contactID, err := c.findOrCreateContact(ctx, input)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve contact: %w", err)
	}

	leadData := []map[string]interface{}{
		{
			"name": fmt.Sprintf("%s - %s", input.CustomerName, input.Batch),
			"_embedded": map[string]interface{}{
				"tags": []map[string]interface{}{
					{"name": "assisted_sale"},
					{"name": input.Category},
					{"name": input.Class},
				},
				"contacts": []map[string]interface{}{
					{"id": contactID},
				},
			},
		},
	}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/leads", leadData, &result); err != nil {
		return 0, fmt.Errorf("failed to create lead: %w", err)
	}
	if len(result.Embedded.Leads) == 0 {
		return 0, errors.New("kommo returned no lead")
	}

	leadID := result.Embedded.Leads[0].ID
	c.log.WithFields(logrus.Fields{
		"kommo_lead_id": leadID,
		"lead_id":       input.LeadID,
		"batch":         input.Batch,
	}).Info("kommo lead created")

	return leadID, nil
}

func (c *Client) findOrCreateContact(ctx context.Context, input CreateLeadInput) (int, error) {
	contactID, err := c.findContactByPhone(ctx, input.Phone)
	if err == nil {
		c.log.WithField("contact_id", contactID).Debug("kommo contact found")
		return contactID, nil
	}
	if !errors.Is(err, errContactNotFound) {
		return 0, err
	}
	return c.createContact(ctx, input)
}

func (c *Client) findContactByPhone(ctx context.Context, phone string) (int, error) {
	var result embeddedResponse
	path := "/contacts?query=" + url.QueryEscape(phone)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return 0, fmt.Errorf("failed to search contact: %w", err)
	}

	if len(result.Embedded.Contacts) == 0 {
		return 0, errContactNotFound
	}
	return result.Embedded.Contacts[0].ID, nil
}

func (c *Client) createContact(ctx context.Context, input CreateLeadInput) (int, error) {
	fields := []map[string]interface{}{
		{
			"field_code": "PHONE",
			"values": []map[string]interface{}{
				{"value": input.Phone, "enum_code": "MOB"},
			},
		},
	}
	if input.Email != "" {
		fields = append(fields, map[string]interface{}{
			"field_code": "EMAIL",
			"values": []map[string]interface{}{
				{"value": input.Email, "enum_code": "WORK"},
			},
		})
	}
	contactData := []map[string]interface{}{
		{
			"name":                 input.CustomerName,
			"custom_fields_values": fields,
		},
	}

	var result embeddedResponse
	if err := c.do(ctx, http.MethodPost, "/contacts", contactData, &result); err != nil {
		return 0, fmt.Errorf("failed to create contact: %w", err)
	}
	if len(result.Embedded.Contacts) == 0 {
		return 0, errors.New("kommo returned no contact")
	}

	contactID := result.Embedded.Contacts[0].ID
	c.log.WithField("contact_id", contactID).Info("kommo contact created")
	return contactID, nil
}

// do sends a JSON request and decodes the reply into out. Kommo answers a
// search with no matches with 204 and an empty body.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	c.addAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNoContent:
		return nil
	default:
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if out == nil || len(respBody) == 0 {
		return nil
	}
	return json.Unmarshal(respBody, out)
}

func (c *Client) addAuthHeaders(req *http.Request) {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiToken))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
}
