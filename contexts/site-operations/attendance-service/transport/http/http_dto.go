package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        int64  `json:"phone"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
}

type CreateEmployeeRequest struct {
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        int64  `json:"phone"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
}

type UpdateEmployeeRequest struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Phone        *int64  `json:"phone,omitempty"`
	Role         *string `json:"role,omitempty"`
	Organization *string `json:"organization,omitempty"`
}

type AttendanceRequest struct {
	WorksiteID string `json:"worksite_id"`
	EmployeeID string `json:"employee_id"`
}

type AttendanceEntryResponse struct {
	EventID    string `json:"event_id"`
	EmployeeID string `json:"employee_id"`
	WorksiteID string `json:"worksite_id"`
	RecordedAt string `json:"recorded_at"`
}
