// Package phone normaliza y valida teléfonos de clientes y proveedores.
package phone

import (
	"fmt"
	"strings"

	"github.com/ttacon/libphonenumber"
)

// Normalize valida raw para la región dada (ej. "PK") y lo devuelve en E.164.
// Un valor vacío es válido y devuelve "".
func Normalize(raw, region string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, region)
	if err != nil {
		return "", fmt.Errorf("teléfono %q: %w", raw, err)
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", fmt.Errorf("teléfono %q no es válido para %s", raw, region)
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}

// Display formatea un número E.164 en formato nacional de la región (ej. "0300 1234567").
// Si no se puede interpretar, devuelve el valor original.
func Display(e164, region string) string {
	if e164 == "" {
		return ""
	}
	num, err := libphonenumber.Parse(e164, region)
	if err != nil {
		return e164
	}
	return libphonenumber.Format(num, libphonenumber.NATIONAL)
}
