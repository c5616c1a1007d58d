package service

import (
	"context"
	"fmt"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/form"
	"registry-client/internal/gateway"
	"registry-client/internal/logger"
	"registry-client/internal/models"
	"registry-client/internal/push"
)

// OrganizationService handles the organization create and edit flows
type OrganizationService struct {
	gateway  gateway.GatewayInterface
	compiler *form.Compiler
	hub      *push.Hub
}

// NewOrganizationService creates a new organization service. hub may be nil
// when no list views need to be told about changes.
func NewOrganizationService(gw gateway.GatewayInterface, compiler *form.Compiler, hub *push.Hub) *OrganizationService {
	if compiler == nil {
		compiler = &form.Compiler{}
	}
	return &OrganizationService{
		gateway:  gw,
		compiler: compiler,
		hub:      hub,
	}
}

// Get fetches a single organization
func (s *OrganizationService) Get(ctx context.Context, id int64) (*models.Organization, error) {
	org, err := s.gateway.Organizations().Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization %d: %w", id, err)
	}
	return org, nil
}

// EditForm loads an organization and returns its edit form
func (s *OrganizationService) EditForm(ctx context.Context, id int64) (form.Organization, error) {
	org, err := s.Get(ctx, id)
	if err != nil {
		return form.Organization{}, err
	}
	return form.FromOrganization(*org), nil
}

// Submit compiles f and creates a new organization, or updates organization
// id when it is set. Validation failures never reach the Gateway.
func (s *OrganizationService) Submit(ctx context.Context, f form.Organization, id *int64) (*models.Organization, error) {
	payload, err := s.compiler.Compile(f)
	if err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	log := logger.WithContext(ctx).WithField("component", "service")

	var org *models.Organization
	if id == nil {
		org, err = s.gateway.Organizations().Create(ctx, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to create organization: %w", err)
		}
		log.WithField("id", org.ID).Info("organization created")
	} else {
		org, err = s.gateway.Organizations().Update(ctx, *id, payload)
		if apperrors.IsNotFound(err) {
			return nil, &apperrors.DeletedWhileViewingError{Entity: models.CollectionOrganizations.Entity(), ID: *id}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update organization %d: %w", *id, err)
		}
		log.WithField("id", *id).Info("organization updated")
	}

	if s.hub != nil {
		changed := append([]models.Collection{models.CollectionOrganizations}, payload.CreatesReferences()...)
		s.hub.Invalidate(changed...)
	}
	return org, nil
}
