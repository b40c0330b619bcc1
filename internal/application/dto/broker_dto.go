package dto

import "github.com/shopspring/decimal"

// BrokerStatsResponse resumen mensual del árbol de un broker.
type BrokerStatsResponse struct {
	BrokerID          string          `json:"broker_id"`
	ActiveCompanies   int             `json:"active_companies"`
	ActiveCustomers   int             `json:"active_customers"`
	DeliveredVehicles int             `json:"delivered_vehicles"`
	MonthlyCommission decimal.Decimal `json:"monthly_commission"`
	MonthLabel        string          `json:"month_label"`
}

// TopBrokerDTO una entrada del ranking de brokers por entregas del mes.
type TopBrokerDTO struct {
	BrokerID        string  `json:"broker_id"`
	Name            string  `json:"name"`
	DeliveredCount  int     `json:"delivered_count"`
	PercentageOfTop float64 `json:"percentage_of_top"`
}

// TopBrokersResponse ranking de los mejores brokers del árbol.
type TopBrokersResponse struct {
	Items []TopBrokerDTO `json:"items"`
}
