package employee_test

import (
	"context"
	"errors"
	"sync"

	"employee-service/internal/employee"
	"employee-service/internal/events"
)

// fakeRepository is an in-memory Repository with the same uniqueness
// semantics the Postgres schema enforces.
type fakeRepository struct {
	mu        sync.Mutex
	nextID    int
	employees map[int]employee.Employee

	failCreate error
	failUpdate error
}

func newFakeRepository() *fakeRepository {
	return &fakeRepository{nextID: 1, employees: make(map[int]employee.Employee)}
}

func (r *fakeRepository) Create(ctx context.Context, e *employee.Employee) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate != nil {
		return nil, r.failCreate
	}
	for _, existing := range r.employees {
		if existing.Email == e.Email {
			return nil, employee.ErrEmailExists
		}
	}

	e.ID = r.nextID
	r.nextID++
	r.employees[e.ID] = *e
	return e, nil
}

func (r *fakeRepository) GetAll(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		all = append(all, e)
	}
	return all, nil
}

func (r *fakeRepository) GetByID(ctx context.Context, id int) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return nil, employee.ErrEmployeeNotFound
	}
	return &e, nil
}

func (r *fakeRepository) GetByEmail(ctx context.Context, email string) (*employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range r.employees {
		if e.Email == email {
			copy := e
			return &copy, nil
		}
	}
	return nil, employee.ErrEmployeeNotFound
}

func (r *fakeRepository) Update(ctx context.Context, e *employee.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failUpdate != nil {
		return r.failUpdate
	}
	if _, ok := r.employees[e.ID]; !ok {
		return employee.ErrEmployeeNotFound
	}
	for id, existing := range r.employees {
		if id != e.ID && existing.Email == e.Email {
			return employee.ErrEmailExists
		}
	}

	r.employees[e.ID] = *e
	return nil
}

func (r *fakeRepository) Delete(ctx context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

var errRepoDown = errors.New("repository unavailable")

// fakePublisher records published lifecycle events.
type fakePublisher struct {
	mu     sync.Mutex
	events []events.EmployeeEvent
}

func (p *fakePublisher) Publish(ctx context.Context, event events.EmployeeEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) published() []events.EmployeeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.EmployeeEvent(nil), p.events...)
}
