package payment

import (
	"context"
	"errors"
)

var ErrDeclined = errors.New("payment declined")

type ChargeRequest struct {
	Reference string `json:"reference"`
	UserID    uint   `json:"user_id"`
	Amount    int64  `json:"amount"`
	Method    string `json:"method"`
}

// Charger authorizes a charge for an order about to be placed. A declined
// charge is ErrDeclined; anything else is a gateway failure.
type Charger interface {
	Charge(ctx context.Context, req ChargeRequest) error
}
