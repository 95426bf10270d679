package model

type LoginRequest struct {
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	EmailID  string `json:"emailId"`
	Password string `json:"password"`
}

// UserPayload is the create/update body for a directory record. Password is
// omitted from the wire when blank so an update never resets it by accident.
type UserPayload struct {
	Name            string `json:"name"`
	EmailID         string `json:"emailId"`
	PhoneNumber     string `json:"phoneNumber"`
	Address         string `json:"address,omitempty"`
	CurrentPosition string `json:"currentPosition,omitempty"`
	RoleID          int    `json:"roleId"`
	DeptID          int    `json:"deptId"`
	Status          string `json:"status"`
	JoinedDate      string `json:"joinedDate,omitempty"`
	Password        string `json:"password,omitempty"`
}
