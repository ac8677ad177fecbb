package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"employee-service/internal/events"
	"employee-service/internal/metrics"
	"employee-service/internal/storage"

	"github.com/go-playground/validator/v10"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailExists      = errors.New("email already exists")
	ErrInvalidInput     = errors.New("invalid input")
)

// AssetStore is the file persistence the service coordinates with the
// record store. storage.DiskStore implements it.
type AssetStore interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
	Open(locator string) (io.ReadCloser, error)
	Remove(locator string) error
}

// EventPublisher publishes employee lifecycle events.
type EventPublisher interface {
	Publish(ctx context.Context, event events.EmployeeEvent) error
}

type Service interface {
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest, image *Upload) (*Employee, error)
	GetAllEmployees(ctx context.Context) ([]Employee, error)
	GetEmployeeByID(ctx context.Context, id int) (*Employee, error)
	GetEmployeeImage(ctx context.Context, id int) (io.ReadCloser, string, error)
	UpdateEmployee(ctx context.Context, id int, req UpdateEmployeeRequest, image *Upload) (*Employee, error)
	DeleteEmployee(ctx context.Context, id int) error
}

type service struct {
	repo     Repository
	assets   AssetStore
	events   EventPublisher
	validate *validator.Validate
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewService builds the coordinator over the record and asset stores.
// publisher may be nil, in which case lifecycle events are skipped.
func NewService(repo Repository, assets AssetStore, publisher EventPublisher, logger *slog.Logger, m *metrics.Metrics) Service {
	return &service{
		repo:     repo,
		assets:   assets,
		events:   publisher,
		validate: validator.New(),
		logger:   logger,
		metrics:  m,
	}
}

// CreateEmployee validates the request, stores the image, then persists the
// record referencing it. Validation runs before the image is written so a
// rejected request leaves nothing behind. If persisting the record fails
// after the image was stored, the image is removed best-effort.
func (s *service) CreateEmployee(ctx context.Context, req CreateEmployeeRequest, image *Upload) (*Employee, error) {
	if err := s.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if image == nil {
		return nil, fmt.Errorf("%w: image is required", ErrInvalidInput)
	}

	courses, err := ParseCourses(req.Courses)
	if err != nil {
		return nil, fmt.Errorf("%w: at least one course is required", ErrInvalidInput)
	}

	if existing, err := s.repo.GetByEmail(ctx, req.Email); err != nil && !errors.Is(err, ErrEmployeeNotFound) {
		return nil, err
	} else if existing != nil {
		return nil, ErrEmailExists
	}

	locator, err := s.assets.Save(ctx, image.Filename, image.Content)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	created, err := s.repo.Create(ctx, &Employee{
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Designation:  req.Designation,
		Gender:       req.Gender,
		Courses:      courses,
		ImagePath:    locator,
	})
	if err != nil {
		// The image was written but the record never made it; reclaim it so
		// the miss does not leave an orphan behind.
		s.releaseAsset(ctx, locator)
		return nil, err
	}

	s.publish(ctx, events.EmployeeEvent{Action: events.ActionCreated, EmployeeID: created.ID, Email: created.Email})

	return created, nil
}

func (s *service) GetAllEmployees(ctx context.Context) ([]Employee, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetEmployeeByID(ctx context.Context, id int) (*Employee, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

// GetEmployeeImage resolves the record's locator and opens the stored image.
// The returned locator lets the caller derive a content type.
func (s *service) GetEmployeeImage(ctx context.Context, id int) (io.ReadCloser, string, error) {
	emp, err := s.GetEmployeeByID(ctx, id)
	if err != nil {
		return nil, "", err
	}

	rc, err := s.assets.Open(emp.ImagePath)
	if err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			return nil, "", fmt.Errorf("%w: image missing for employee %d", ErrEmployeeNotFound, id)
		}
		return nil, "", err
	}

	return rc, emp.ImagePath, nil
}

// UpdateEmployee replaces the mutable fields and, when a new image is
// provided, swaps the asset. The old image is released only after the record
// update committed, so the record never points at a released asset.
func (s *service) UpdateEmployee(ctx context.Context, id int, req UpdateEmployeeRequest, image *Upload) (*Employee, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	courses, err := ParseCourses(req.Courses)
	if err != nil {
		return nil, fmt.Errorf("%w: at least one course is required", ErrInvalidInput)
	}

	locator := existing.ImagePath
	if image != nil {
		locator, err = s.assets.Save(ctx, image.Filename, image.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store image: %w", err)
		}
	}

	updated := &Employee{
		ID:           id,
		Name:         req.Name,
		Email:        req.Email,
		MobileNumber: req.MobileNumber,
		Designation:  req.Designation,
		Gender:       req.Gender,
		Courses:      courses,
		ImagePath:    locator,
	}

	if err := s.repo.Update(ctx, updated); err != nil {
		if image != nil {
			s.releaseAsset(ctx, locator)
		}
		return nil, err
	}

	if image != nil && existing.ImagePath != locator {
		s.releaseAsset(ctx, existing.ImagePath)
	}

	s.publish(ctx, events.EmployeeEvent{Action: events.ActionUpdated, EmployeeID: id, Email: updated.Email})

	return updated, nil
}

// DeleteEmployee releases the record's image best-effort, then removes the
// record. A missing or unreachable file never blocks the deletion.
func (s *service) DeleteEmployee(ctx context.Context, id int) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	s.releaseAsset(ctx, existing.ImagePath)

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.EmployeeEvent{Action: events.ActionDeleted, EmployeeID: id, Email: existing.Email})

	return nil
}

// releaseAsset removes a stored image, logging failures instead of
// propagating them. An already-gone file is not an error worth surfacing.
func (s *service) releaseAsset(ctx context.Context, locator string) {
	if err := s.assets.Remove(locator); err != nil {
		if errors.Is(err, storage.ErrAssetNotFound) {
			s.logger.WarnContext(ctx, "image already gone", "locator", locator)
			return
		}
		s.logger.ErrorContext(ctx, "failed to release image", "locator", locator, "error", err)
		s.metrics.RecordAssetReleaseFailure(ctx)
	}
}

func (s *service) publish(ctx context.Context, event events.EmployeeEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish employee event", "action", event.Action, "error", err)
	}
}
