package directory

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go-staff-console/internal/model"
	"go-staff-console/pkg/apierror"
)

type userMutator interface {
	CreateUser(ctx context.Context, payload model.UserPayload) (model.UserRecord, error)
	UpdateUser(ctx context.Context, regNo string, payload model.UserPayload) (model.UserRecord, error)
	DeleteUser(ctx context.Context, regNo string) (model.UserRecord, error)
}

type pageRefresher interface {
	Refresh(ctx context.Context) error
}

type sessionSource interface {
	Load(ctx context.Context) (model.Session, bool, error)
}

// Coordinator runs create/update/delete against the backend, gated by the
// access policy. Every successful mutation triggers a refetch of the current
// page; there is no optimistic local patching.
type Coordinator struct {
	backend  userMutator
	sessions sessionSource
	policy   AccessPolicy
	refresh  pageRefresher
	notifier *Notifier
}

func NewCoordinator(backend userMutator, sessions sessionSource, policy AccessPolicy, refresh pageRefresher, notifier *Notifier) *Coordinator {
	return &Coordinator{
		backend:  backend,
		sessions: sessions,
		policy:   policy,
		refresh:  refresh,
		notifier: notifier,
	}
}

func (c *Coordinator) Create(ctx context.Context, payload model.UserPayload) (model.UserRecord, error) {
	if err := c.authorize(ctx); err != nil {
		return model.UserRecord{}, err
	}

	if err := validatePayload(payload, true); err != nil {
		return model.UserRecord{}, err
	}

	created, err := c.backend.CreateUser(ctx, payload)
	if err != nil {
		slog.Error("failed to create user", "email", payload.EmailID, "error", err)
		c.notifier.Publish(NoticeError, "Failed to create user. Try again.")
		return model.UserRecord{}, err
	}

	c.notifier.Publish(NoticeSuccess, "User created successfully!")
	c.refetch(ctx)
	return created, nil
}

func (c *Coordinator) Update(ctx context.Context, regNo string, payload model.UserPayload) (model.UserRecord, error) {
	if err := c.authorize(ctx); err != nil {
		return model.UserRecord{}, err
	}

	regNo = strings.TrimSpace(regNo)
	if regNo == "" {
		return model.UserRecord{}, apierror.Validation("regNo is required", "regNo")
	}

	if err := validatePayload(payload, false); err != nil {
		return model.UserRecord{}, err
	}

	// A blank password means "no change", never "set to empty". Stripping
	// it here keeps the field off the wire via omitempty.
	payload.Password = strings.TrimSpace(payload.Password)

	updated, err := c.backend.UpdateUser(ctx, regNo, payload)
	if err != nil {
		slog.Error("failed to update user", "reg_no", regNo, "error", err)
		c.notifier.Publish(NoticeError, "Failed to update user. Try again.")
		return model.UserRecord{}, err
	}

	c.notifier.Publish(NoticeSuccess, "User updated successfully!")
	c.refetch(ctx)
	return updated, nil
}

// Delete removes a record. A NotFound from the backend means the record is
// already gone, which is the end state the operator asked for, so it is
// reported as success.
func (c *Coordinator) Delete(ctx context.Context, regNo string) error {
	if err := c.authorize(ctx); err != nil {
		return err
	}

	regNo = strings.TrimSpace(regNo)
	if regNo == "" {
		return apierror.Validation("regNo is required", "regNo")
	}

	_, err := c.backend.DeleteUser(ctx, regNo)
	if err != nil && !isNotFound(err) {
		slog.Error("failed to delete user", "reg_no", regNo, "error", err)
		c.notifier.Publish(NoticeError, "Failed to delete user. Try again.")
		return err
	}
	if err != nil {
		slog.Warn("delete target already absent", "reg_no", regNo)
	}

	c.notifier.Publish(NoticeSuccess, "User deleted successfully!")
	c.refetch(ctx)
	return nil
}

func (c *Coordinator) Notifier() *Notifier {
	return c.notifier
}

// authorize enforces the UX gate: even if a mutation affordance is somehow
// invoked by a non-admin, no backend call happens.
func (c *Coordinator) authorize(ctx context.Context) error {
	sess, ok, err := c.sessions.Load(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrUnauthorized
	}
	if !c.policy.CanMutate(sess) {
		return model.ErrForbidden
	}

	return nil
}

func (c *Coordinator) refetch(ctx context.Context) {
	if err := c.refresh.Refresh(ctx); err != nil {
		// The mutation itself succeeded; a failed refresh only leaves the
		// view stale until the next navigation.
		slog.Warn("post-mutation refresh failed", "error", err)
	}
}

func validatePayload(payload model.UserPayload, requirePassword bool) error {
	if strings.TrimSpace(payload.Name) == "" {
		return apierror.Validation("name is required", "name")
	}
	if strings.TrimSpace(payload.EmailID) == "" {
		return apierror.Validation("emailId is required", "emailId")
	}
	if strings.TrimSpace(payload.PhoneNumber) == "" {
		return apierror.Validation("phoneNumber is required", "phoneNumber")
	}
	if payload.RoleID <= 0 {
		return apierror.Validation("roleId is required", "roleId")
	}
	if payload.DeptID <= 0 {
		return apierror.Validation("deptId is required", "deptId")
	}
	if strings.TrimSpace(payload.Status) == "" {
		return apierror.Validation("status is required", "status")
	}
	if requirePassword && strings.TrimSpace(payload.Password) == "" {
		return apierror.Validation("password is required", "password")
	}

	return nil
}

func isNotFound(err error) bool {
	if errors.Is(err, model.ErrUserNotFound) {
		return true
	}

	var apiErr *apierror.APIError
	return errors.As(err, &apiErr) && apiErr.Code == "NOT_FOUND"
}
