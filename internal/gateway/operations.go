package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"registry-client/internal/models"
)

// Operations is the special operations endpoint set
type Operations struct {
	client *Client
}

// MinimalCoordinates returns the organization with the minimal coordinates
func (o *Operations) MinimalCoordinates(ctx context.Context) (*models.Organization, error) {
	var org models.Organization
	if err := o.client.do(ctx, http.MethodGet, "/api/operations/minimal-coordinates", nil, nil, &org, "organization"); err != nil {
		return nil, err
	}
	return &org, nil
}

// GroupByRating returns organization counts per rating
func (o *Operations) GroupByRating(ctx context.Context) ([]models.RatingGroup, error) {
	var raw json.RawMessage
	if err := o.client.do(ctx, http.MethodGet, "/api/operations/group-by-rating", nil, nil, &raw, "rating group"); err != nil {
		return nil, err
	}
	return decodeRatingGroups(raw)
}

// CountByType counts organizations of the given type
func (o *Operations) CountByType(ctx context.Context, orgType models.OrganizationType) (int64, error) {
	var raw json.RawMessage
	query := url.Values{"type": []string{string(orgType)}}
	if err := o.client.do(ctx, http.MethodGet, "/api/operations/count-by-type", query, nil, &raw, "organization type"); err != nil {
		return 0, err
	}
	return decodeCount(raw)
}

// DismissEmployees sets the employees count of the organization to zero
func (o *Operations) DismissEmployees(ctx context.Context, organizationID int64) (*models.OperationMessage, error) {
	var msg models.OperationMessage
	query := url.Values{"organizationId": []string{strconv.FormatInt(organizationID, 10)}}
	if err := o.client.do(ctx, http.MethodPost, "/api/operations/dismiss-employees", query, nil, &msg, "organization"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// Absorb merges the absorbed organization into the absorbing one
func (o *Operations) Absorb(ctx context.Context, absorbingID, absorbedID int64) (*models.OperationMessage, error) {
	var msg models.OperationMessage
	query := url.Values{
		"absorbingId": []string{strconv.FormatInt(absorbingID, 10)},
		"absorbedId":  []string{strconv.FormatInt(absorbedID, 10)},
	}
	if err := o.client.do(ctx, http.MethodPost, "/api/operations/absorb", query, nil, &msg, "organization"); err != nil {
		return nil, err
	}
	return &msg, nil
}

// decodeCount accepts a bare number or an object with a count field
func decodeCount(raw json.RawMessage) (int64, error) {
	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var body struct {
		Count *int64 `json:"count"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Count == nil {
		return 0, fmt.Errorf("unexpected count-by-type response: %s", string(raw))
	}
	return *body.Count, nil
}

// decodeRatingGroups accepts a list of groups or a rating -> count object
func decodeRatingGroups(raw json.RawMessage) ([]models.RatingGroup, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var groups []models.RatingGroup
		if err := json.Unmarshal(trimmed, &groups); err != nil {
			return nil, fmt.Errorf("failed to decode rating groups: %w", err)
		}
		return groups, nil
	}

	var byRating map[string]int64
	if err := json.Unmarshal(trimmed, &byRating); err != nil {
		return nil, fmt.Errorf("failed to decode rating groups: %w", err)
	}
	groups := make([]models.RatingGroup, 0, len(byRating))
	for key, count := range byRating {
		rating, err := strconv.ParseFloat(key, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid rating key %q: %w", key, err)
		}
		groups = append(groups, models.RatingGroup{Rating: rating, Count: count})
	}
	sortRatingGroups(groups)
	return groups, nil
}

func sortRatingGroups(groups []models.RatingGroup) {
	for i := 1; i < len(groups); i++ {
		for j := i; j > 0 && groups[j].Rating < groups[j-1].Rating; j-- {
			groups[j], groups[j-1] = groups[j-1], groups[j]
		}
	}
}
