package ledgerrepo

import "time"

// SetClock replaces the time source and the invoice suffix generator of r.
func (r *RepoPGS) SetClock(now func() time.Time, invoiceSuffix func() string) {
	r.now = now
	r.invoiceSuffix = invoiceSuffix
}
