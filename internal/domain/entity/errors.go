package entity

import "errors"

// Invariantes estructurales de las entidades.
var (
	errInvariantOrderNumber = errors.New("orderNumber debe estar presente si y solo si isOrder es true")
	errInvariantKindStatus  = errors.New("el estado no corresponde al tipo de solicitud")
)
