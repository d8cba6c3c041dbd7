package services

import (
	"log/slog"

	"github.com/campus-suite/registry-service/internal/events"
	"github.com/campus-suite/registry-service/internal/recordstore"
	"github.com/campus-suite/registry-service/internal/schema"
	"github.com/campus-suite/registry-service/internal/validator"
)

// ServiceManager owns one EntityService per entity table plus the reporting
// service, all sharing a single gateway and event publisher.
type ServiceManager interface {
	Entity(resource string) (EntityService, bool)
	Students() EntityService
	Courses() EntityService
	Grades() EntityService
	Enrollments() EntityService
	Documents() EntityService
	Reports() ReportService
}

type serviceManager struct {
	entities map[string]EntityService
	reports  ReportService
}

func NewServiceManager(gateway recordstore.Gateway, publisher *events.Publisher, logger *slog.Logger) ServiceManager {
	entities := make(map[string]EntityService, len(schema.All))
	for resource, table := range schema.All {
		entities[resource] = NewEntityService(table, validator.ForTable[resource], gateway, publisher, logger)
	}
	return &serviceManager{
		entities: entities,
		reports:  NewReportService(gateway, logger),
	}
}

func (m *serviceManager) Entity(resource string) (EntityService, bool) {
	svc, ok := m.entities[resource]
	return svc, ok
}

func (m *serviceManager) Students() EntityService    { return m.entities["students"] }
func (m *serviceManager) Courses() EntityService     { return m.entities["courses"] }
func (m *serviceManager) Grades() EntityService      { return m.entities["grades"] }
func (m *serviceManager) Enrollments() EntityService { return m.entities["enrollments"] }
func (m *serviceManager) Documents() EntityService   { return m.entities["documents"] }
func (m *serviceManager) Reports() ReportService     { return m.reports }
