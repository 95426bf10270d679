package directory

import (
	"context"
	"sync"

	"go-staff-console/internal/model"
)

type catalogSource interface {
	Roles(ctx context.Context) ([]model.Role, error)
	Departments(ctx context.Context) ([]model.Department, error)
}

// CatalogLoader caches the role and department catalogs for the lifetime of
// a view mount. Both are immutable from the console's perspective, so one
// fetch each is enough until Reset.
type CatalogLoader struct {
	backend catalogSource

	mu          sync.Mutex
	roles       []model.Role
	departments []model.Department
	hasRoles    bool
	hasDepts    bool
}

func NewCatalogLoader(backend catalogSource) *CatalogLoader {
	return &CatalogLoader{backend: backend}
}

func (l *CatalogLoader) Roles(ctx context.Context) ([]model.Role, error) {
	l.mu.Lock()
	if l.hasRoles {
		cached := l.roles
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	roles, err := l.backend.Roles(ctx)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.roles = roles
	l.hasRoles = true
	l.mu.Unlock()

	return roles, nil
}

func (l *CatalogLoader) Departments(ctx context.Context) ([]model.Department, error) {
	l.mu.Lock()
	if l.hasDepts {
		cached := l.departments
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	departments, err := l.backend.Departments(ctx)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.departments = departments
	l.hasDepts = true
	l.mu.Unlock()

	return departments, nil
}

// RoleByID resolves a role from the cached catalog, fetching it first if
// needed.
func (l *CatalogLoader) RoleByID(ctx context.Context, id int) (model.Role, error) {
	roles, err := l.Roles(ctx)
	if err != nil {
		return model.Role{}, err
	}

	for _, role := range roles {
		if role.ID == id {
			return role, nil
		}
	}

	return model.Role{}, model.ErrRoleNotFound
}

func (l *CatalogLoader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.roles = nil
	l.departments = nil
	l.hasRoles = false
	l.hasDepts = false
}
