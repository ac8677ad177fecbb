package metrics

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	usersRegistered      metric.Int64Counter
	userLogins           metric.Int64Counter
	employeesCreated     metric.Int64Counter
	employeesUpdated     metric.Int64Counter
	employeesDeleted     metric.Int64Counter
	employeesViewed      metric.Int64Counter
	employeesListViewed  metric.Int64Counter
	assetReleaseFailures metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.usersRegistered, err = meter.Int64Counter(
		"employee_service.users.registered",
		metric.WithDescription("Total number of users registered"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	m.userLogins, err = meter.Int64Counter(
		"employee_service.users.logins",
		metric.WithDescription("Total number of successful logins"),
		metric.WithUnit("{login}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesCreated, err = meter.Int64Counter(
		"employee_service.employees.created",
		metric.WithDescription("Total number of employees created"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesUpdated, err = meter.Int64Counter(
		"employee_service.employees.updated",
		metric.WithDescription("Total number of employees updated"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesDeleted, err = meter.Int64Counter(
		"employee_service.employees.deleted",
		metric.WithDescription("Total number of employees deleted"),
		metric.WithUnit("{employee}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesViewed, err = meter.Int64Counter(
		"employee_service.employees.viewed",
		metric.WithDescription("Total number of single-employee views"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.employeesListViewed, err = meter.Int64Counter(
		"employee_service.employees.list_viewed",
		metric.WithDescription("Total number of times the employee list was viewed"),
		metric.WithUnit("{view}"),
	)
	if err != nil {
		return nil, err
	}

	m.assetReleaseFailures, err = meter.Int64Counter(
		"employee_service.assets.release_failures",
		metric.WithDescription("Total number of best-effort image deletions that failed"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordUserRegistration(ctx context.Context) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

func (m *Metrics) RecordUserLogin(ctx context.Context) {
	if m != nil && m.userLogins != nil {
		m.userLogins.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeCreated(ctx context.Context) {
	if m != nil && m.employeesCreated != nil {
		m.employeesCreated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeUpdated(ctx context.Context) {
	if m != nil && m.employeesUpdated != nil {
		m.employeesUpdated.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeDeleted(ctx context.Context) {
	if m != nil && m.employeesDeleted != nil {
		m.employeesDeleted.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeeViewed(ctx context.Context) {
	if m != nil && m.employeesViewed != nil {
		m.employeesViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordEmployeesListViewed(ctx context.Context) {
	if m != nil && m.employeesListViewed != nil {
		m.employeesListViewed.Add(ctx, 1)
	}
}

func (m *Metrics) RecordAssetReleaseFailure(ctx context.Context) {
	if m != nil && m.assetReleaseFailures != nil {
		m.assetReleaseFailures.Add(ctx, 1)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{}
}
