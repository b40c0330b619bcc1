package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestKind discrimina los dos flujos paralelos que comparte el ciclo de vida.
// Una solicitud de conversión salarial necesita aprobación del empleador antes
// de poder convertirse en pedido; una solicitud regular se convierte directamente.
type RequestKind string

const (
	KindRegular          RequestKind = "regular"
	KindSalaryConversion RequestKind = "salary_conversion"
)

// Category clasifica las solicitudes regulares.
type Category string

const (
	CategoryPrivate Category = "private"
	CategoryCompany Category = "company"
)

// Status estados del ciclo de vida de una solicitud/pedido.
type Status string

const (
	StatusPending                  Status = "pending"
	StatusApproved                 Status = "approved"
	StatusRejected                 Status = "rejected"
	StatusWithdrawn                Status = "withdrawn"
	StatusClosed                   Status = "closed"
	StatusCancelled                Status = "cancelled"
	StatusSalaryConversionApproved Status = "salary_conversion_approved"
	StatusSalaryConversionRejected Status = "salary_conversion_rejected"
	StatusCreditCheckStarted       Status = "credit_check_started"
	StatusCreditCheckPassed        Status = "credit_check_passed"
	StatusCreditCheckFailed        Status = "credit_check_failed"
	StatusLeaseContractSent        Status = "lease_contract_sent"
	StatusLeaseContractSigned      Status = "lease_contract_signed"
	StatusInDelivery               Status = "in_delivery"
	StatusDelivered                Status = "delivered"
)

// DisplaySnapshot datos denormalizados de empresa/empleado, congelados al crear
// la solicitud para evitar joins en el listado.
type DisplaySnapshot struct {
	CompanyName  string
	EmployeeName string
}

// VehicleRequest una solicitud de leasing; al convertirse en pedido (IsOrder)
// lleva número de pedido y referencia a la solicitud origen.
type VehicleRequest struct {
	ID                string
	RequesterID       string
	CompanyID         string
	BrokerID          string
	VehicleID         string
	Brand             string
	Model             string
	Trim              string
	DurationMonths    int
	MileagePerYear    int
	Color             string
	MonthlyRate       decimal.Decimal
	Kind              RequestKind
	Category          Category // solo solicitudes regulares
	Status            Status
	IsOrder           bool
	OrderNumber       string // presente si y solo si IsOrder
	OriginalRequestID string // solo en pedidos derivados de una aprobación
	Snapshot          *DisplaySnapshot
	DeliveryDate      *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// salaryOnlyStatuses estados exclusivos del flujo de conversión salarial.
var salaryOnlyStatuses = map[Status]bool{
	StatusSalaryConversionApproved: true,
	StatusSalaryConversionRejected: true,
}

// regularOnlyStatuses estados exclusivos del flujo regular.
var regularOnlyStatuses = map[Status]bool{
	StatusApproved: true,
}

// absorbingStatuses estados finales alcanzables desde cualquier estado no terminal
// por acción explícita.
var absorbingStatuses = map[Status]bool{
	StatusRejected:  true,
	StatusWithdrawn: true,
	StatusClosed:    true,
	StatusCancelled: true,
}

// forwardTransitions progresión ordenada del flujo post-pedido y de la fase pending.
var forwardTransitions = map[Status][]Status{
	StatusPending:             {StatusApproved, StatusSalaryConversionApproved, StatusSalaryConversionRejected},
	StatusCreditCheckStarted:  {StatusCreditCheckPassed, StatusCreditCheckFailed},
	StatusCreditCheckPassed:   {StatusLeaseContractSent},
	StatusLeaseContractSent:   {StatusLeaseContractSigned},
	StatusLeaseContractSigned: {StatusInDelivery},
	StatusInDelivery:          {StatusDelivered},
}

// ValidStatus informa si s es un estado conocido.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusWithdrawn, StatusClosed,
		StatusCancelled, StatusSalaryConversionApproved, StatusSalaryConversionRejected,
		StatusCreditCheckStarted, StatusCreditCheckPassed, StatusCreditCheckFailed,
		StatusLeaseContractSent, StatusLeaseContractSigned, StatusInDelivery, StatusDelivered:
		return true
	}
	return false
}

// StatusAllowedForKind impide asignar estados del flujo salarial a solicitudes
// regulares y viceversa.
func StatusAllowedForKind(kind RequestKind, s Status) bool {
	if kind == KindRegular && salaryOnlyStatuses[s] {
		return false
	}
	if kind == KindSalaryConversion && regularOnlyStatuses[s] {
		return false
	}
	return true
}

// Terminal informa si desde s ya no hay transición posible.
func (s Status) Terminal() bool {
	if absorbingStatuses[s] {
		return true
	}
	return s == StatusDelivered || s == StatusSalaryConversionRejected || s == StatusCreditCheckFailed
}

// IsConversion informa si s es un estado cuya asignación crea un pedido
// (debe pasar por la operación de conversión, no por Transition).
func (s Status) IsConversion() bool {
	return s == StatusApproved || s == StatusSalaryConversionApproved
}

// CanTransition valida el movimiento from -> to según la máquina de estados.
func CanTransition(from, to Status) bool {
	if from.Terminal() || from == to {
		return false
	}
	if absorbingStatuses[to] {
		return true
	}
	for _, next := range forwardTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Validate comprueba los invariantes estructurales de la entidad.
func (r *VehicleRequest) Validate() error {
	if r.IsOrder != (r.OrderNumber != "") {
		return errInvariantOrderNumber
	}
	if !StatusAllowedForKind(r.Kind, r.Status) {
		return errInvariantKindStatus
	}
	return nil
}
