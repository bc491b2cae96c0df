package hr

import "time"

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
	EmployeeVacation EmployeeStatus = "vacation"
)

type Employee struct {
	ID         string         `json:"id"`
	UserID     string         `json:"userId,omitempty"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Registry   string         `json:"registry"`
	Position   string         `json:"position"`
	Department string         `json:"department"`
	Salary     float64        `json:"salary"`
	HiredAt    time.Time      `json:"hiredAt"`
	Status     EmployeeStatus `json:"status"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

type VacationStatus string

const (
	VacationPending  VacationStatus = "pending"
	VacationApproved VacationStatus = "approved"
	VacationRejected VacationStatus = "rejected"
)

type VacationRequest struct {
	ID         string         `json:"id"`
	EmployeeID string         `json:"employeeId"`
	Employee   string         `json:"employee"`
	StartDate  time.Time      `json:"startDate"`
	EndDate    time.Time      `json:"endDate"`
	Days       int            `json:"days"`
	Status     VacationStatus `json:"status"`
	DecidedBy  string         `json:"decidedBy,omitempty"`
	DecidedAt  *time.Time     `json:"decidedAt,omitempty"`
	CreatedAt  time.Time      `json:"createdAt"`
}

type Payslip struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employeeId"`
	Employee   string    `json:"employee"`
	Reference  string    `json:"reference"`
	Gross      float64   `json:"gross"`
	Deductions float64   `json:"deductions"`
	Net        float64   `json:"net"`
	IssuedAt   time.Time `json:"issuedAt"`
}

// VacationAllowanceDays is the annual vacation entitlement.
const VacationAllowanceDays = 30
