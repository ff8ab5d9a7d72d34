package gateway

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
)

// Stripe is the live backend.
type Stripe struct {
	api *client.API
}

func NewStripe(secretKey string) *Stripe {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Stripe{api: api}
}

func (s *Stripe) Mode() Mode {
	return ModeLive
}

func (s *Stripe) CreateIntent(ctx context.Context, req IntentRequest) (Intent, error) {
	currency, err := NormalizeCurrency(req.Currency)
	if err != nil {
		return Intent{}, &GatewayError{Op: "create", Err: err}
	}
	amount, err := ToMinorUnits(req.Amount, currency)
	if err != nil {
		return Intent{}, &GatewayError{Op: "create", Err: err}
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		log.Printf("[GATEWAY] error creating payment intent: %v", err)
		return Intent{}, fromStripeError("create", err)
	}
	return fromStripeIntent(pi), nil
}

func (s *Stripe) RetrieveIntent(ctx context.Context, id string) (Intent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Get(id, params)
	if err != nil {
		log.Printf("[GATEWAY] error retrieving payment intent %s: %v", id, err)
		return Intent{}, fromStripeError("retrieve", err)
	}
	return fromStripeIntent(pi), nil
}

func (s *Stripe) ConfirmIntent(ctx context.Context, req ConfirmRequest) (Intent, error) {
	id := IntentIDFromSecret(req.ClientSecret)
	if id == "" {
		return Intent{}, &GatewayError{Op: "confirm", Err: ErrInvalidSecret}
	}

	if err := s.attachBilling(ctx, id, req); err != nil {
		return Intent{}, err
	}

	params := confirmParams(req)
	params.Context = ctx

	pi, err := s.api.PaymentIntents.Confirm(id, params)
	if err != nil {
		log.Printf("[GATEWAY] error confirming payment intent %s: %v", id, err)
		return Intent{}, fromStripeError("confirm", err)
	}
	return fromStripeIntent(pi), nil
}

// attachBilling stores the payer's billing details on the payment method
// being confirmed: the one in req, or the one already on the intent.
func (s *Stripe) attachBilling(ctx context.Context, intentID string, req ConfirmRequest) error {
	billing := billingDetailsParams(req.Billing)
	if billing == nil {
		return nil
	}

	pmID := req.PaymentMethodID
	if pmID == "" {
		params := &stripe.PaymentIntentParams{}
		params.Context = ctx
		pi, err := s.api.PaymentIntents.Get(intentID, params)
		if err != nil {
			log.Printf("[GATEWAY] error retrieving payment intent %s: %v", intentID, err)
			return fromStripeError("confirm", err)
		}
		if pi.PaymentMethod == nil {
			return nil
		}
		pmID = pi.PaymentMethod.ID
	}

	params := &stripe.PaymentMethodParams{BillingDetails: billing}
	params.Context = ctx
	if _, err := s.api.PaymentMethods.Update(pmID, params); err != nil {
		log.Printf("[GATEWAY] error updating billing details of %s: %v", pmID, err)
		return fromStripeError("confirm", err)
	}
	return nil
}

func confirmParams(req ConfirmRequest) *stripe.PaymentIntentConfirmParams {
	params := &stripe.PaymentIntentConfirmParams{}
	if req.ReturnURL != "" {
		params.ReturnURL = stripe.String(req.ReturnURL)
	}
	if req.PaymentMethodID != "" {
		params.PaymentMethod = stripe.String(req.PaymentMethodID)
	}
	if req.Billing.Email != "" {
		params.ReceiptEmail = stripe.String(req.Billing.Email)
	}
	return params
}

// billingDetailsParams returns nil when b is empty.
func billingDetailsParams(b BillingDetails) *stripe.PaymentMethodBillingDetailsParams {
	if b == (BillingDetails{}) {
		return nil
	}
	params := &stripe.PaymentMethodBillingDetailsParams{}
	if b.Name != "" {
		params.Name = stripe.String(b.Name)
	}
	if b.Email != "" {
		params.Email = stripe.String(b.Email)
	}
	if b.Phone != "" {
		params.Phone = stripe.String(b.Phone)
	}
	return params
}

func (s *Stripe) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (string, error) {
	origin := strings.TrimRight(req.Origin, "/")
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(origin + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(origin + "/?canceled=true"),
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		log.Printf("[GATEWAY] error creating checkout session: %v", err)
		return "", fromStripeError("checkout", err)
	}
	if sess.URL == "" {
		return "", &GatewayError{Op: "checkout", Err: errors.New("session URL is null")}
	}
	return sess.URL, nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) Intent {
	in := Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Mode:         ModeLive,
		Status:       Status(pi.Status),
	}
	if pi.NextAction != nil && pi.NextAction.RedirectToURL != nil {
		in.NextActionURL = pi.NextAction.RedirectToURL.URL
	}
	return in
}

// fromStripeError keeps the processor's message verbatim so callers can
// surface it to the payer.
func fromStripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		msg := se.Msg
		if msg == "" {
			msg = string(se.Code)
		}
		return &GatewayError{Op: op, Message: msg, Err: err}
	}
	return &GatewayError{Op: op, Err: err}
}
