package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/stockboard/stockboard/internal/stock"
	"github.com/stockboard/stockboard/internal/stock/repository"
	"github.com/stockboard/stockboard/pkg/logger"
	"github.com/stockboard/stockboard/pkg/metrics"
)

var (
	// ErrInvalidRecord is returned for candidates that must not be stored.
	ErrInvalidRecord = errors.New("invalid record")
	ErrMissingTitle  = fmt.Errorf("%w: title is required", ErrInvalidRecord)
)

// Service is the stock business layer used by the handlers and the CLI.
type Service struct {
	repo    repository.Repository
	backend string
}

// New wraps repo; backend names it in logs and metrics (xml, mongo, memory).
func New(repo repository.Repository, backend string) *Service {
	return &Service{repo: repo, backend: backend}
}

func (s *Service) Backend() string { return s.backend }

// List returns the whole collection, loaded fresh from the store.
func (s *Service) List(ctx context.Context) ([]stock.Record, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		s.fail("list", err)
		return nil, err
	}
	if records == nil {
		records = []stock.Record{}
	}
	metrics.CollectionSize.Set(float64(len(records)))
	return records, nil
}

// Add validates rec and appends it to the collection.
func (s *Service) Add(ctx context.Context, rec stock.Record) error {
	if err := Validate(rec); err != nil {
		return err
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		s.fail("append", err)
		return err
	}
	metrics.RecordsAppended.WithLabelValues(s.backend).Inc()
	logger.Debugf("stock appended backend=%s title=%q", s.backend, rec.Title())
	return nil
}

// Init creates an empty collection when the store supports it.
func (s *Service) Init(ctx context.Context) error {
	if in, ok := s.repo.(repository.Initializer); ok {
		return in.Init(ctx)
	}
	return nil
}

// Check reports whether the store is reachable.
func (s *Service) Check(ctx context.Context) error {
	if c, ok := s.repo.(repository.Checker); ok {
		return c.Check(ctx)
	}
	return nil
}

func (s *Service) fail(op string, err error) {
	kind := stock.KindOf(err)
	metrics.StoreErrors.WithLabelValues(op, kind).Inc()
	logger.Errorf("stock %s failed backend=%s kind=%s: %v", op, s.backend, kind, err)
}

// Validate applies the acceptance rules: a non-empty title and storable
// field names. Every other field may be empty or absent.
func Validate(rec stock.Record) error {
	if strings.TrimSpace(rec.Title()) == "" {
		return ErrMissingTitle
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}
