package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// ErrChargeDeclined reports a charge the gateway processed but refused.
var ErrChargeDeclined = errors.New("charge declined")

// Gateway abstracts the card processor. Charge returns the provider's
// charge reference on success.
type Gateway interface {
	Charge(ctx context.Context, amountCents int64, currency, cardToken, description string) (string, error)
	Refund(ctx context.Context, chargeRef string, amountCents int64) error
}

type omiseGateway struct {
	client *omise.Client
}

func NewOmiseGateway(publicKey, secretKey string) (Gateway, error) {
	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, err
	}
	client.SetDebug(false)
	return &omiseGateway{client: client}, nil
}

func (g *omiseGateway) Charge(ctx context.Context, amountCents int64, currency, cardToken, description string) (string, error) {
	charge := &omise.Charge{}
	err := g.client.Do(charge, &operations.CreateCharge{
		Amount:      amountCents,
		Currency:    currency,
		Card:        cardToken,
		Description: description,
	})
	if err != nil {
		return "", err
	}

	if string(charge.Status) != "successful" {
		msg := "payment was not accepted"
		if charge.FailureMessage != nil {
			msg = *charge.FailureMessage
		}
		return charge.ID, fmt.Errorf("%w: %s", ErrChargeDeclined, msg)
	}

	return charge.ID, nil
}

func (g *omiseGateway) Refund(ctx context.Context, chargeRef string, amountCents int64) error {
	refund := &omise.Refund{}
	return g.client.Do(refund, &operations.CreateRefund{
		ChargeID: chargeRef,
		Amount:   amountCents,
	})
}
