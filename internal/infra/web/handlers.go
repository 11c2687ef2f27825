// File: internal/infra/web/handlers.go
package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"merchant-payment-gateway/internal/domain"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/infra/logging"
	"merchant-payment-gateway/internal/infra/metrics"
)

const maxBodyBytes = 1 << 20

// razorpaySignatureHeader and pinelabsSignatureHeader carry the raw-body
// webhook signatures. For PineLabs the header takes precedence over the body
// field when both are present.
const (
	razorpaySignatureHeader = "X-Razorpay-Signature"
	pinelabsSignatureHeader = "X-Pinelabs-Signature"
)

type initiateRequest struct {
	PlanID       string `json:"planId"`
	Amount       int64  `json:"amount"`
	BillingCycle string `json:"billingCycle"`
}

func (s *Server) handleInitiate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req initiateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid request body", nil)
		return
	}
	req.PlanID = trimOnly(req.PlanID)
	req.BillingCycle = trimOnly(req.BillingCycle)
	if req.PlanID == "" || req.BillingCycle == "" || req.Amount <= 0 {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "planId, amount and billingCycle are required", nil)
		return
	}

	order, err := s.payUC.Initiate(ctx, req.PlanID, req.Amount, req.BillingCycle)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "unknown plan or amount mismatch", nil)
			return
		}
		logging.With(ctx, s.log).Error().Err(err).Str("plan_id", req.PlanID).Msg("payment initiation failed")
		writeError(w, http.StatusInternalServerError, domain.CodeInitFailed, "could not initiate payment", nil)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type verifyRequest struct {
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
	Signature string `json:"signature"`
	Provider  string `json:"provider"`
	PlanID    string `json:"planId"`
	Amount    int64  `json:"amount"`
}

type verifyResponse struct {
	Success        bool   `json:"success"`
	SubscriptionID string `json:"subscriptionId"`
	Amount         int64  `json:"amount"`
	PlanID         string `json:"planId"`
}

func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	result, reason := "fail", "unknown"
	defer func() {
		metrics.IncVerify(result, reason)
		metrics.ObserveVerifyDuration(result, time.Since(start).Seconds())
	}()

	var req verifyRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req); err != nil {
		reason = "bad_json"
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid request body", nil)
		return
	}

	// Crypto fields: whitespace trim only, nothing else.
	vr := &model.VerificationRequest{
		OrderID:   trimOnly(req.OrderID),
		PaymentID: trimOnly(req.PaymentID),
		Signature: trimOnly(req.Signature),
		PlanID:    trimOnly(req.PlanID),
		Amount:    req.Amount,
	}
	provider, ok := model.ParseProvider(req.Provider)
	if !ok || vr.OrderID == "" || vr.PaymentID == "" || vr.Signature == "" || vr.PlanID == "" || vr.Amount <= 0 {
		reason = "missing_fields"
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "orderId, paymentId, signature, provider, planId and amount are required", nil)
		return
	}
	vr.Provider = provider

	rec, err := s.payUC.Verify(ctx, vr)
	switch {
	case err == nil:
		result, reason = "ok", ""
		writeJSON(w, http.StatusOK, verifyResponse{
			Success:        true,
			SubscriptionID: rec.ID,
			Amount:         rec.Amount,
			PlanID:         rec.PlanID,
		})
	case errors.Is(err, domain.ErrVerificationFailed):
		reason = "bad_signature"
		writeError(w, http.StatusUnauthorized, domain.CodeVerificationFailed, "payment verification failed", nil)
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownProvider):
		reason = "missing_fields"
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid verification request", nil)
	default:
		// Internal failure after (or during) a signature check is never
		// reported as success.
		reason = "verify_error"
		logging.With(ctx, s.log).Error().Err(err).Msg("payment verification errored")
		writeError(w, http.StatusInternalServerError, domain.CodeVerificationFailed, "payment verification failed", nil)
	}
}

func (s *Server) handleRazorpayWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	// Signature check comes first, unconditionally. No body inspection
	// happens before it succeeds.
	sig := trimOnly(r.Header.Get(razorpaySignatureHeader))
	if sig == "" {
		metrics.IncWebhook("razorpay", "bad_signature")
		writeError(w, http.StatusUnauthorized, domain.CodeInvalidSignature, "missing webhook signature", nil)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		metrics.IncWebhook("razorpay", "bad_signature")
		writeError(w, http.StatusUnauthorized, domain.CodeInvalidSignature, "unreadable webhook body", nil)
		return
	}
	gw, err := s.gateways.Get(model.ProviderRazorpay)
	if err != nil || !gw.VerifyWebhook(body, sig) {
		metrics.IncWebhook("razorpay", "bad_signature")
		writeError(w, http.StatusUnauthorized, domain.CodeInvalidSignature, "invalid webhook signature", nil)
		return
	}

	// Signature verified: from here on the provider always gets a 200 so it
	// stops redelivering. Processing failures are logged and counted only.
	ack := func(outcome string) {
		metrics.IncWebhook("razorpay", outcome)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}

	if len(bytes.TrimSpace(body)) == 0 {
		ack("ignored")
		return
	}
	var ev model.RazorpayEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		log.Warn().Err(err).Msg("razorpay webhook: undecodable event payload")
		ack("error")
		return
	}
	if ev.Event != "payment.captured" {
		ack("ignored")
		return
	}

	entity := ev.Payload.Payment.Entity
	rec, created, err := s.payUC.Capture(ctx, model.ProviderRazorpay, entity.ID, entity.Notes["plan_id"], entity.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			log.Warn().Str("payment_id", entity.ID).Msg("razorpay webhook: partial payment entity, skipping")
		} else {
			log.Error().Err(err).Str("payment_id", entity.ID).Msg("razorpay webhook: capture failed")
		}
		ack("error")
		return
	}
	if created {
		log.Info().Str("subscription_id", rec.ID).Str("payment_id", entity.ID).Msg("razorpay webhook: subscription issued")
		ack("processed")
		return
	}
	ack("duplicate")
}

func (s *Server) handlePineLabsWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logging.With(ctx, s.log)

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "unreadable webhook body", nil)
		return
	}
	var cb model.PineLabsCallback
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &cb); err != nil {
			metrics.IncWebhook("pinelabs", "bad_request")
			writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "invalid webhook body", nil)
			return
		}
	}
	cb.OrderID = trimOnly(cb.OrderID)
	cb.PaymentID = trimOnly(cb.PaymentID)
	if cb.OrderID == "" || cb.PaymentID == "" {
		metrics.IncWebhook("pinelabs", "bad_request")
		writeError(w, http.StatusBadRequest, domain.CodeInvalidRequest, "Missing required webhook fields: order_id, payment_id", nil)
		return
	}

	// Header signature wins over the body field when both are present.
	sig := trimOnly(r.Header.Get(pinelabsSignatureHeader))
	if sig == "" {
		sig = trimOnly(cb.Signature)
	}
	if sig == "" {
		metrics.IncWebhook("pinelabs", "bad_signature")
		writeError(w, http.StatusUnauthorized, domain.CodeInvalidSignature, "missing webhook signature", nil)
		return
	}
	gw, err := s.gateways.Get(model.ProviderPineLabs)
	if err != nil || !gw.VerifyPayment(cb.OrderID, cb.PaymentID, sig) {
		metrics.IncWebhook("pinelabs", "bad_signature")
		writeError(w, http.StatusUnauthorized, domain.CodeInvalidSignature, "invalid webhook signature", nil)
		return
	}

	ack := func(outcome string) {
		metrics.IncWebhook("pinelabs", outcome)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}

	switch cb.Status {
	case "captured", "success":
	default:
		ack("ignored")
		return
	}

	rec, created, err := s.payUC.Capture(ctx, model.ProviderPineLabs, cb.PaymentID, trimOnly(cb.PlanID), cb.Amount)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidArgument) {
			log.Warn().Str("payment_id", cb.PaymentID).Msg("pinelabs webhook: partial callback, skipping")
		} else {
			log.Error().Err(err).Str("payment_id", cb.PaymentID).Msg("pinelabs webhook: capture failed")
		}
		ack("error")
		return
	}
	if created {
		log.Info().Str("subscription_id", rec.ID).Str("payment_id", cb.PaymentID).Msg("pinelabs webhook: subscription issued")
		ack("processed")
		return
	}
	ack("duplicate")
}

// handlePlans serves the pricing catalog the checkout page renders.
func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	plans := s.planUC.List(r.Context())
	response := struct {
		Data []*model.Plan `json:"data"`
	}{
		Data: plans,
	}
	writeJSON(w, http.StatusOK, response)
}
