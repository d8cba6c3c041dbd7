package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/campus-suite/registry-service/internal/events"
	"github.com/campus-suite/registry-service/internal/formsession"
	"github.com/campus-suite/registry-service/internal/listview"
	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
	"github.com/campus-suite/registry-service/internal/validator"
)

// EntityService exposes the list/search/page view and the form workflows of
// one entity table. All records cross this boundary in display shape; the
// storage naming convention stays inside the gateway and the adapter.
type EntityService interface {
	List(ctx context.Context, search string, page, size int) (*listview.PageResult, error)
	Get(ctx context.Context, id any) (map[string]any, error)
	Create(ctx context.Context, draft map[string]any) (map[string]any, error)
	Update(ctx context.Context, id any, changes map[string]any) (map[string]any, error)
	Delete(ctx context.Context, id any) (bool, error)

	// ListBy returns every record whose display field equals the given
	// identity (grades of a student, enrollments of a course).
	ListBy(ctx context.Context, field string, id any) ([]map[string]any, error)

	Table() schema.Table
}

type entityService struct {
	table     schema.Table
	rules     validator.RuleSet
	gateway   recordstore.Gateway
	publisher *events.Publisher
	logger    *slog.Logger

	// The controller owns the collection exclusively and is not safe for
	// concurrent mutation, so the service serializes access to it.
	mu   sync.Mutex
	ctrl *listview.Controller
}

func NewEntityService(table schema.Table, rules validator.RuleSet, gateway recordstore.Gateway, publisher *events.Publisher, logger *slog.Logger) EntityService {
	return &entityService{
		table:     table,
		rules:     rules,
		gateway:   gateway,
		publisher: publisher,
		logger:    logger.With("table", table.Name),
		ctrl:      listview.NewController(table, gateway),
	}
}

func (s *entityService) Table() schema.Table { return s.table }

func (s *entityService) List(ctx context.Context, search string, page, size int) (*listview.PageResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ctrl.Reload(ctx); err != nil {
		s.logger.Error("collection reload failed", "error", err)
		return nil, err
	}
	s.ctrl.SetSearchTerm(search)
	result := s.ctrl.Page(page, size)
	return &result, nil
}

func (s *entityService) Get(ctx context.Context, id any) (map[string]any, error) {
	rec, err := s.gateway.GetByID(ctx, s.table.Name, id)
	if err != nil {
		return nil, err
	}
	return s.table.ToDisplay(rec), nil
}

func (s *entityService) Create(ctx context.Context, draft map[string]any) (map[string]any, error) {
	session := formsession.New(s.table, s.rules, s.gateway, s.publisher)
	session.OpenForCreate()
	if err := session.Apply(draft); err != nil {
		return nil, err
	}

	persisted, err := session.Submit(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("record created", "id", persisted["Id"])
	return s.table.ToDisplay(persisted), nil
}

func (s *entityService) Update(ctx context.Context, id any, changes map[string]any) (map[string]any, error) {
	existing, err := s.gateway.GetByID(ctx, s.table.Name, id)
	if err != nil {
		return nil, err
	}

	session := formsession.New(s.table, s.rules, s.gateway, s.publisher)
	if err := session.OpenForEdit(existing); err != nil {
		return nil, err
	}
	if err := session.Apply(changes); err != nil {
		return nil, err
	}

	persisted, err := session.Submit(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("record updated", "id", persisted["Id"])
	return s.table.ToDisplay(persisted), nil
}

func (s *entityService) Delete(ctx context.Context, id any) (bool, error) {
	deleted, err := s.gateway.Delete(ctx, s.table.Name, id)
	if err != nil {
		return false, err
	}
	if deleted {
		if n, coerceErr := recordstore.CoerceID(id); coerceErr == nil && s.publisher != nil {
			s.publisher.Publish(events.RecordEvent{
				Table:    s.table.Name,
				Action:   events.ActionDeleted,
				RecordID: n,
			})
		}
		s.logger.Info("record deleted", "id", id)
	}
	return deleted, nil
}

func (s *entityService) ListBy(ctx context.Context, field string, id any) ([]map[string]any, error) {
	f, ok := s.table.Field(field)
	if !ok {
		return nil, recordstore.ErrInvalidID
	}
	n, err := recordstore.CoerceID(id)
	if err != nil {
		return nil, err
	}

	recs, err := s.gateway.List(ctx, s.table.Name, recordstore.ListOptions{
		OrderBy:    "CreatedOn",
		Descending: true,
		Where:      []recordstore.Condition{{Field: f.Storage, Equals: n}},
	})
	if err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(recs))
	for _, rec := range recs {
		out = append(out, s.table.ToDisplay(rec))
	}
	return out, nil
}
