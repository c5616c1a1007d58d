package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/logger"
	"registry-client/internal/models"

	"github.com/google/uuid"
)

// CodeCascadeRequired is the machine readable marker of a delete conflict that
// can be resolved by cascading
const CodeCascadeRequired = "CASCADE_REQUIRED"

// Client talks to the Remote Resource Gateway over REST
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	log        *logger.Logger

	organizations *Resource[models.Organization]
	coordinates   *Resource[models.Coordinates]
	addresses     *Resource[models.Address]
	locations     *Resource[models.Location]
	imports       *Resource[models.ImportOperation]
	operations    *Operations
}

// NewClient creates a Gateway client for baseURL. httpClient carries timeouts
// and authentication.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid gateway URL '%s': %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid gateway URL '%s': scheme and host are required", baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	c := &Client{
		baseURL:    u,
		httpClient: httpClient,
		log:        logger.ForComponent("gateway"),
	}
	c.organizations = newResource[models.Organization](c, models.CollectionOrganizations)
	c.coordinates = newResource[models.Coordinates](c, models.CollectionCoordinates)
	c.addresses = newResource[models.Address](c, models.CollectionAddresses)
	c.locations = newResource[models.Location](c, models.CollectionLocations)
	c.imports = newResource[models.ImportOperation](c, models.CollectionImports)
	c.operations = &Operations{client: c}
	return c, nil
}

// Organizations returns the organizations collection
func (c *Client) Organizations() ResourceInterface[models.Organization] { return c.organizations }

// Coordinates returns the coordinates collection
func (c *Client) Coordinates() ResourceInterface[models.Coordinates] { return c.coordinates }

// Addresses returns the addresses collection
func (c *Client) Addresses() ResourceInterface[models.Address] { return c.addresses }

// Locations returns the locations collection
func (c *Client) Locations() ResourceInterface[models.Location] { return c.locations }

// Imports returns the import history collection
func (c *Client) Imports() ListerInterface[models.ImportOperation] { return c.imports }

// Operations returns the special operations endpoint set
func (c *Client) Operations() OperationsInterface { return c.operations }

// OrganizationTypes lists the organization types known to the Gateway
func (c *Client) OrganizationTypes(ctx context.Context) ([]models.OrganizationType, error) {
	var types []models.OrganizationType
	if err := c.do(ctx, http.MethodGet, "/api/organizations/types", nil, nil, &types, "organization types"); err != nil {
		return nil, err
	}
	return types, nil
}

// errorBody is the JSON error shape returned by the Gateway
type errorBody struct {
	Error           string `json:"error"`
	Message         string `json:"message"`
	Code            string `json:"code"`
	RequiresCascade bool   `json:"requiresCascade"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}, entity string) error {
	op := fmt.Sprintf("%s %s", method, path)

	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	requestID := uuid.New().String()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(map[string]interface{}{"op": op, "request_id": requestID})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) || errors.Is(err, apperrors.ErrTokenMissing) {
			return fmt.Errorf("%s: %w", op, apperrors.ErrTokenExpired)
		}
		log.WithError(err).Debug("gateway request failed")
		return &apperrors.GatewayError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.GatewayError{Op: op, Status: resp.StatusCode, Err: err}
	}

	log.WithField("status", resp.StatusCode).Debug("gateway response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(op, entity, resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperrors.GatewayError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func decodeError(op, entity string, status int, raw []byte) error {
	var body errorBody
	_ = json.Unmarshal(raw, &body)

	message := body.Error
	if message == "" {
		message = body.Message
	}
	if message == "" && !json.Valid(raw) {
		message = strings.TrimSpace(string(raw))
	}

	switch status {
	case http.StatusNotFound:
		return apperrors.NewNotFoundError(entity)
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = http.StatusText(status)
		}
		return apperrors.NewAuthenticationError(message)
	}

	code := body.Code
	if body.RequiresCascade {
		code = CodeCascadeRequired
	}
	return &apperrors.GatewayError{Op: op, Status: status, Code: code, Message: message}
}

func listValues(q ListQuery) url.Values {
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	if q.Size > 0 {
		values.Set("size", strconv.Itoa(q.Size))
	}
	if q.Sort != "" {
		values.Set("sort", q.Sort)
		dir := q.Dir
		if dir == "" {
			dir = models.SortAsc
		}
		values.Set("dir", string(dir))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		values.Set("search", search)
		field := q.SearchField
		if field == "" {
			field = "name"
		}
		values.Set("searchField", field)
	}
	return values
}
