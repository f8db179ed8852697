package invoice

import (
	"fmt"
	"math/rand"
	"time"
)

// DefaultBillPrefix prefijo de numeración cuando la configuración no define uno.
const DefaultBillPrefix = "WT"

// GenerateBillNumber arma PREFIJO + yyMMdd + 4 dígitos aleatorios (ej. WT2610160042).
// rnd permite fijar la secuencia en tests; nil usa la fuente global.
func GenerateBillNumber(prefix string, now time.Time, rnd *rand.Rand) string {
	if prefix == "" {
		prefix = DefaultBillPrefix
	}
	var n int
	if rnd != nil {
		n = rnd.Intn(10000)
	} else {
		n = rand.Intn(10000)
	}
	return fmt.Sprintf("%s%s%04d", prefix, now.Format("060102"), n)
}
