package payment

import "context"

var allowedMethods = map[string]bool{
	"card": true,
	"cod":  true,
}

// Mock is the in-process gateway used when no PAYMENT_URL is configured.
// It authorizes every known payment method; Decline lets tests force a
// decline for specific charges.
type Mock struct {
	Decline func(req ChargeRequest) bool
}

func (m *Mock) Charge(_ context.Context, req ChargeRequest) error {
	if !allowedMethods[req.Method] {
		return ErrDeclined
	}
	if m.Decline != nil && m.Decline(req) {
		return ErrDeclined
	}
	return nil
}
