package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	customerPrefix = "VN"
	invoicePrefix  = "RG"

	digits       = "0123456789"
	upperAlnum   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts  = 10
)

// Generator produces human-readable customer and invoice identifiers.
// Randomness keeps the collision probability negligible; a bounded retry
// against the caller's taken-set removes it entirely.
type Generator struct{}

// New returns a Generator.
func New() *Generator { return &Generator{} }

// CustomerID returns an identifier of the form VN-<yy><6 digits>.
// taken reports whether an id is already in use.
func (g *Generator) CustomerID(now time.Time, taken func(string) bool) (string, error) {
	year := now.Format("06")
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := fmt.Sprintf("%s-%s%s", customerPrefix, year, randomString(digits, 6))
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("idgen: no free customer id after %d attempts", maxAttempts)
}

// InvoiceID returns an identifier of the form RG-<yy><mm>-<4 alnum uppercase>.
func (g *Generator) InvoiceID(now time.Time, taken func(string) bool) (string, error) {
	yearMonth := now.Format("0601")
	for attempt := 0; attempt < maxAttempts; attempt++ {
		id := fmt.Sprintf("%s-%s-%s", invoicePrefix, yearMonth, randomString(upperAlnum, 4))
		if taken == nil || !taken(id) {
			return id, nil
		}
	}
	return "", fmt.Errorf("idgen: no free invoice id after %d attempts", maxAttempts)
}

func randomString(alphabet string, length int) string {
	max := big.NewInt(int64(len(alphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails when the platform entropy source is
			// broken; fall back to the first symbol rather than panic.
			out[i] = alphabet[0]
			continue
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out)
}
