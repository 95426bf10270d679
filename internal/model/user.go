package model

import "math"

type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

type UserRecord struct {
	ID              int         `json:"id"`
	RegNo           string      `json:"regNo"`
	Name            string      `json:"name"`
	EmailID         string      `json:"emailId"`
	PhoneNumber     string      `json:"phoneNumber"`
	Address         string      `json:"address"`
	CurrentPosition string      `json:"currentPosition,omitempty"`
	Status          UserStatus  `json:"status"`
	RoleID          int         `json:"roleId"`
	DeptID          int         `json:"deptId"`
	JoinedDate      string      `json:"joinedDate,omitempty"`
	Role            *Role       `json:"role,omitempty"`
	Department      *Department `json:"department,omitempty"`
}

type Role struct {
	ID   int    `json:"id"`
	Name string `json:"roleName"`
}

type Department struct {
	ID   int    `json:"id"`
	Name string `json:"deptName"`
}

// PageState is the currently displayed slice of the directory plus its
// pagination metadata. It is always replaced wholesale, never patched.
type PageState struct {
	RoleID int          `json:"role_id"`
	Page   int          `json:"page"`
	Limit  int          `json:"limit"`
	Users  []UserRecord `json:"users"`
	Total  int          `json:"total"`
}

// TotalPages derives the page count from Total and Limit. A zero Total is
// still shown as a single empty page.
func (p PageState) TotalPages() int {
	if p.Limit <= 0 || p.Total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.Total) / float64(p.Limit)))
}

// EmptyPage is the display state after a failed fetch: no rows, page reset,
// limit preserved so the next attempt keeps the operator's page size.
func EmptyPage(roleID int, limit int) PageState {
	return PageState{RoleID: roleID, Page: 1, Limit: limit, Users: []UserRecord{}, Total: 0}
}
