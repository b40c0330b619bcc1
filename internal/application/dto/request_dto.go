package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubmitRequestRequest datos de entrada para crear una solicitud de vehículo.
type SubmitRequestRequest struct {
	RequesterID    string          `json:"requester_id" validate:"required"`
	CompanyID      string          `json:"company_id" validate:"required"`
	BrokerID       string          `json:"broker_id"`
	VehicleID      string          `json:"vehicle_id"`
	Brand          string          `json:"brand" validate:"required"`
	Model          string          `json:"model" validate:"required"`
	Trim           string          `json:"trim"`
	DurationMonths int             `json:"duration_months" validate:"required,gt=0"`
	MileagePerYear int             `json:"mileage_per_year" validate:"required,gt=0"`
	Color          string          `json:"color"`
	MonthlyRate    decimal.Decimal `json:"monthly_rate"`
	Kind           string          `json:"kind" validate:"omitempty,oneof=regular salary_conversion"`
	Category       string          `json:"category" validate:"omitempty,oneof=private company"`
	IsOrder        bool            `json:"is_order"`
	CompanyName    string          `json:"company_name"`
	EmployeeName   string          `json:"employee_name"`
}

// TransitionRequest cambio de estado ordinario de una solicitud.
type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
}

// DisplayInfo bloque denormalizado de empresa/empleado para listados.
// Siempre se resuelve: si falta la referencia se degradan a placeholders.
type DisplayInfo struct {
	CompanyName  string `json:"company_name"`
	EmployeeName string `json:"employee_name"`
}

// RequestResponse representación de una solicitud/pedido hacia fuera.
type RequestResponse struct {
	ID                string          `json:"id"`
	RequesterID       string          `json:"requester_id"`
	CompanyID         string          `json:"company_id"`
	BrokerID          string          `json:"broker_id,omitempty"`
	VehicleID         string          `json:"vehicle_id,omitempty"`
	Brand             string          `json:"brand"`
	Model             string          `json:"model"`
	Trim              string          `json:"trim,omitempty"`
	DurationMonths    int             `json:"duration_months"`
	MileagePerYear    int             `json:"mileage_per_year"`
	Color             string          `json:"color,omitempty"`
	MonthlyRate       decimal.Decimal `json:"monthly_rate"`
	Kind              string          `json:"kind"`
	Category          string          `json:"category,omitempty"`
	Status            string          `json:"status"`
	IsOrder           bool            `json:"is_order"`
	OrderNumber       string          `json:"order_number,omitempty"`
	OriginalRequestID string          `json:"original_request_id,omitempty"`
	Display           DisplayInfo     `json:"display"`
	DeliveryDate      *time.Time      `json:"delivery_date,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// RequestListResponse listado de solicitudes.
type RequestListResponse struct {
	Items []RequestResponse `json:"items"`
	Total int               `json:"total"`
}
