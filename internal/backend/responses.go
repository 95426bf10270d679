package backend

import "go-staff-console/internal/model"

// Wire shapes of the backend's response envelopes. These mirror the REST
// contract exactly; nothing outside this package decodes backend JSON.

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt string    `json:"expiresAt"`
	Data      LoginData `json:"data"`
}

type LoginData struct {
	EmailID string `json:"emailId"`
	RegNo   string `json:"regNo"`
	RoleID  string `json:"roleId"`
}

type SignupResponse struct {
	Message string `json:"message"`
	User    struct {
		Name    string `json:"name"`
		EmailID string `json:"emailId"`
	} `json:"user"`
}

type rolesResponse struct {
	Data struct {
		Roles []model.Role `json:"roles"`
	} `json:"data"`
}

type departmentsResponse struct {
	Data struct {
		Departments []model.Department `json:"departments"`
	} `json:"data"`
}

type usersByRoleResponse struct {
	Data struct {
		Data  []model.UserRecord `json:"data"`
		Users []model.UserRecord `json:"users"`
		Total int                `json:"total"`
		Page  int                `json:"page"`
		Limit int                `json:"limit"`
	} `json:"data"`
}

type userResponse struct {
	Message string           `json:"message"`
	Data    model.UserRecord `json:"data"`
}
