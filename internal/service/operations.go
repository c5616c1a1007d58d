package service

import (
	"context"
	"fmt"
	"strconv"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/gateway"
	"registry-client/internal/logger"
	"registry-client/internal/models"
	"registry-client/internal/push"

	"golang.org/x/sync/errgroup"
)

// DefaultBulkConcurrency bounds the Gateway calls of one bulk operation
const DefaultBulkConcurrency = 4

// Outcome is the result of one record of a bulk operation
type Outcome struct {
	Target  string `json:"target" yaml:"target"`
	Message string `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string `json:"error,omitempty" yaml:"error,omitempty"`
	Err     error  `json:"-" yaml:"-"`
}

// Report aggregates a bulk operation per attempted record, in input order
type Report struct {
	Successes []Outcome `json:"successes" yaml:"successes"`
	Failures  []Outcome `json:"failures" yaml:"failures"`
}

// OK reports whether every record succeeded
func (r *Report) OK() bool {
	return len(r.Failures) == 0
}

// AbsorbPair names one absorb operation
type AbsorbPair struct {
	AbsorbingID int64
	AbsorbedID  int64
}

func (p AbsorbPair) String() string {
	return fmt.Sprintf("%d<-%d", p.AbsorbingID, p.AbsorbedID)
}

// OperationsService runs the special operations
type OperationsService struct {
	ops         gateway.OperationsInterface
	hub         *push.Hub
	concurrency int
}

// NewOperationsService creates a new operations service
func NewOperationsService(ops gateway.OperationsInterface, hub *push.Hub) *OperationsService {
	return &OperationsService{
		ops:         ops,
		hub:         hub,
		concurrency: DefaultBulkConcurrency,
	}
}

// MinimalCoordinates returns the organization with the smallest coordinates
func (s *OperationsService) MinimalCoordinates(ctx context.Context) (*models.Organization, error) {
	org, err := s.ops.MinimalCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find minimal coordinates: %w", err)
	}
	return org, nil
}

// GroupByRating returns the organization count per rating
func (s *OperationsService) GroupByRating(ctx context.Context) ([]models.RatingGroup, error) {
	groups, err := s.ops.GroupByRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group by rating: %w", err)
	}
	return groups, nil
}

// CountByType counts the organizations of one type
func (s *OperationsService) CountByType(ctx context.Context, orgType models.OrganizationType) (*models.TypeCount, error) {
	if !orgType.IsValid() {
		return nil, apperrors.NewValidationError("type", fmt.Sprintf("unknown organization type %q", orgType))
	}
	count, err := s.ops.CountByType(ctx, orgType)
	if err != nil {
		return nil, fmt.Errorf("failed to count %s organizations: %w", orgType, err)
	}
	return &models.TypeCount{Type: orgType, Count: count}, nil
}

// DismissEmployees dismisses all employees of every organization in ids
func (s *OperationsService) DismissEmployees(ctx context.Context, ids ...int64) *Report {
	outcomes := make([]Outcome, len(ids))
	s.bulk(len(ids), func(i int) {
		id := ids[i]
		outcomes[i] = outcome(strconv.FormatInt(id, 10), func() (*models.OperationMessage, error) {
			return s.ops.DismissEmployees(ctx, id)
		})
	})
	return s.report("dismiss-employees", outcomes)
}

// Absorb merges each absorbed organization into its absorbing one. Pairs
// naming the same organization twice fail without a Gateway call.
func (s *OperationsService) Absorb(ctx context.Context, pairs ...AbsorbPair) *Report {
	outcomes := make([]Outcome, len(pairs))
	s.bulk(len(pairs), func(i int) {
		pair := pairs[i]
		outcomes[i] = outcome(pair.String(), func() (*models.OperationMessage, error) {
			if pair.AbsorbingID == pair.AbsorbedID {
				return nil, apperrors.NewValidationError("absorbedId", "an organization cannot absorb itself")
			}
			return s.ops.Absorb(ctx, pair.AbsorbingID, pair.AbsorbedID)
		})
	})
	return s.report("absorb", outcomes)
}

// bulk runs fn for every index with bounded concurrency. A failing record
// never stops the others.
func (s *OperationsService) bulk(n int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *OperationsService) report(op string, outcomes []Outcome) *Report {
	report := &Report{Successes: []Outcome{}, Failures: []Outcome{}}
	for _, o := range outcomes {
		if o.Err != nil {
			report.Failures = append(report.Failures, o)
		} else {
			report.Successes = append(report.Successes, o)
		}
	}

	logger.ForComponent("service").WithFields(map[string]interface{}{
		"operation": op,
		"succeeded": len(report.Successes),
		"failed":    len(report.Failures),
	}).Info("bulk operation finished")

	if len(report.Successes) > 0 && s.hub != nil {
		s.hub.Invalidate(models.CollectionOrganizations)
	}
	return report
}

func outcome(target string, call func() (*models.OperationMessage, error)) Outcome {
	msg, err := call()
	if err != nil {
		return Outcome{Target: target, Error: err.Error(), Err: err}
	}
	o := Outcome{Target: target}
	if msg != nil {
		o.Message = msg.Message
	}
	return o
}
