package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/models"
)

// Resource is one Gateway collection
type Resource[T any] struct {
	client     *Client
	collection models.Collection
}

func newResource[T any](client *Client, collection models.Collection) *Resource[T] {
	return &Resource[T]{client: client, collection: collection}
}

// Collection returns the collection served by the resource
func (r *Resource[T]) Collection() models.Collection {
	return r.collection
}

// List returns one page of the collection
func (r *Resource[T]) List(ctx context.Context, query ListQuery) (*models.Page[T], error) {
	var raw json.RawMessage
	if err := r.client.do(ctx, http.MethodGet, r.collection.Path(), listValues(query), nil, &raw, r.collection.Entity()); err != nil {
		return nil, err
	}
	page, err := decodePage[T](raw)
	if err != nil {
		return nil, &apperrors.GatewayError{Op: "list " + string(r.collection), Err: err}
	}
	return page, nil
}

// Get returns a single entity
func (r *Resource[T]) Get(ctx context.Context, id int64) (*T, error) {
	var entity T
	if err := r.client.do(ctx, http.MethodGet, r.itemPath(id), nil, nil, &entity, r.collection.Entity()); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Create stores a new entity
func (r *Resource[T]) Create(ctx context.Context, payload interface{}) (*T, error) {
	var entity T
	if err := r.client.do(ctx, http.MethodPost, r.collection.Path(), nil, payload, &entity, r.collection.Entity()); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Update replaces an existing entity
func (r *Resource[T]) Update(ctx context.Context, id int64, payload interface{}) (*T, error) {
	var entity T
	if err := r.client.do(ctx, http.MethodPut, r.itemPath(id), nil, payload, &entity, r.collection.Entity()); err != nil {
		return nil, err
	}
	return &entity, nil
}

// Delete removes an entity. A conflict carrying the cascade marker is
// returned as *apperrors.ConflictRequiresCascadeError.
func (r *Resource[T]) Delete(ctx context.Context, id int64, opts DeleteOptions) error {
	var query url.Values
	if opts.Cascade {
		query = url.Values{"cascadeDelete": []string{"true"}}
	}

	err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), query, nil, nil, r.collection.Entity())
	var gatewayErr *apperrors.GatewayError
	if errors.As(err, &gatewayErr) && gatewayErr.Status == http.StatusConflict && gatewayErr.Code == CodeCascadeRequired {
		return &apperrors.ConflictRequiresCascadeError{
			Entity:  r.collection.Entity(),
			ID:      id,
			Message: gatewayErr.Message,
		}
	}
	return err
}

func (r *Resource[T]) itemPath(id int64) string {
	return r.collection.Path() + "/" + strconv.FormatInt(id, 10)
}

// decodePage accepts both the paged object and a bare array, which some
// reference endpoints return when called without paging parameters
func decodePage[T any](raw json.RawMessage) (*models.Page[T], error) {
	var page models.Page[T]
	if len(raw) > 0 && raw[0] == '[' {
		if err := json.Unmarshal(raw, &page.Content); err != nil {
			return nil, fmt.Errorf("failed to decode list: %w", err)
		}
		page.TotalPages = 1
		page.TotalElements = int64(len(page.Content))
		page.Size = len(page.Content)
		return &page, nil
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	if page.Content == nil {
		page.Content = []T{}
	}
	return &page, nil
}

// ListAll walks every page of a collection
func ListAll[T any](ctx context.Context, lister ListerInterface[T], size int) ([]T, error) {
	var all []T
	for page := 0; ; page++ {
		result, err := lister.List(ctx, ListQuery{Page: page, Size: size, Sort: "id", Dir: models.SortAsc})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s page %d: %w", lister.Collection(), page, err)
		}
		all = append(all, result.Content...)
		if page+1 >= result.TotalPages || len(result.Content) == 0 {
			return all, nil
		}
	}
}
