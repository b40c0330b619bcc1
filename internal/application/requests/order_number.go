package requests

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// orderNumberPrefix prefijo fijo del número de pedido: VILO-YYYYMMDD-NNNN.
const orderNumberPrefix = "VILO"

// NewOrderNumber genera un número de pedido con la fecha de creación y un
// sufijo aleatorio de 4 dígitos. La unicidad no se garantiza aquí: la tabla
// lleva un índice único y la conversión reintenta con un número fresco si
// colisiona.
func NewOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		// crypto/rand solo falla sin fuente de entropía del SO; usar el reloj
		// mantiene el formato y el índice único sigue protegiendo la colisión.
		n = big.NewInt(now.UnixNano() % 10000)
	}
	return fmt.Sprintf("%s-%s-%04d", orderNumberPrefix, now.Format("20060102"), n.Int64())
}
