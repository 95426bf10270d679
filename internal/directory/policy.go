package directory

import "go-staff-console/internal/model"

// AccessPolicy answers whether the current operator may mutate the
// directory. One fixed role is allowed to; everyone else gets read-only
// affordances. This is a UX gate, the backend remains the enforcer.
type AccessPolicy struct {
	adminRoleID int
}

func NewAccessPolicy(adminRoleID int) AccessPolicy {
	return AccessPolicy{adminRoleID: adminRoleID}
}

func (p AccessPolicy) CanMutate(sess model.Session) bool {
	return sess.Valid() && sess.RoleID == p.adminRoleID
}
