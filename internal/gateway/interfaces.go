package gateway

import (
	"context"

	"registry-client/internal/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/gateway_mocks.go -package=mocks

// ListQuery is the search/sort/page query accepted by every collection
type ListQuery struct {
	Page        int
	Size        int
	Sort        string
	Dir         models.SortDirection
	Search      string
	SearchField string
}

// DeleteOptions controls a delete call
type DeleteOptions struct {
	Cascade bool
}

// ListerInterface is a collection that can be listed page by page
type ListerInterface[T any] interface {
	Collection() models.Collection
	List(ctx context.Context, query ListQuery) (*models.Page[T], error)
}

// ResourceInterface is a collection with full CRUD support
type ResourceInterface[T any] interface {
	ListerInterface[T]
	Get(ctx context.Context, id int64) (*T, error)
	Create(ctx context.Context, payload interface{}) (*T, error)
	Update(ctx context.Context, id int64, payload interface{}) (*T, error)
	Delete(ctx context.Context, id int64, opts DeleteOptions) error
}

// OperationsInterface exposes the special bulk operations
type OperationsInterface interface {
	MinimalCoordinates(ctx context.Context) (*models.Organization, error)
	GroupByRating(ctx context.Context) ([]models.RatingGroup, error)
	CountByType(ctx context.Context, orgType models.OrganizationType) (int64, error)
	DismissEmployees(ctx context.Context, organizationID int64) (*models.OperationMessage, error)
	Absorb(ctx context.Context, absorbingID, absorbedID int64) (*models.OperationMessage, error)
}

// GatewayInterface is the Remote Resource Gateway as seen by the client
type GatewayInterface interface {
	Organizations() ResourceInterface[models.Organization]
	Coordinates() ResourceInterface[models.Coordinates]
	Addresses() ResourceInterface[models.Address]
	Locations() ResourceInterface[models.Location]
	Imports() ListerInterface[models.ImportOperation]
	Operations() OperationsInterface
	OrganizationTypes(ctx context.Context) ([]models.OrganizationType, error)
}
