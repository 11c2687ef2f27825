package model

// RazorpayEvent is the provider event envelope posted to the Razorpay webhook.
// Only the fields the handler inspects are mapped; unknown fields are ignored.
type RazorpayEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity RazorpayPaymentEntity `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// RazorpayPaymentEntity is the payment object inside a Razorpay event.
// Any of these fields may be absent on partial payloads.
type RazorpayPaymentEntity struct {
	ID      string            `json:"id"`
	OrderID string            `json:"order_id"`
	Amount  int64             `json:"amount"`
	Status  string            `json:"status"`
	Notes   map[string]string `json:"notes"`
}

// PineLabsCallback is the flat callback body posted to the PineLabs webhook.
type PineLabsCallback struct {
	OrderID    string `json:"order_id"`
	PaymentID  string `json:"payment_id"`
	MerchantID string `json:"merchant_id"`
	Amount     int64  `json:"amount"`
	Status     string `json:"status"`
	PlanID     string `json:"plan_id"`
	Signature  string `json:"signature"`
}
