package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"merchant-payment-gateway/internal/usecase"
)

type Server struct {
	payUC    usecase.PaymentUseCase
	planUC   usecase.PlanUseCase
	gateways usecase.GatewayResolver
	origins  []string
	log      *zerolog.Logger
}

func NewServer(
	payUC usecase.PaymentUseCase,
	planUC usecase.PlanUseCase,
	gateways usecase.GatewayResolver,
	allowedOrigins []string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		payUC:    payUC,
		planUC:   planUC,
		gateways: gateways,
		origins:  allowedOrigins,
		log:      logger,
	}
}

// Router builds the HTTP surface. Webhook routes skip the JSON content-type
// guard since providers own those requests end to end.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(TraceID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(15 * time.Second))
	r.Use(CORS(s.origins))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Get("/api/plans", s.handlePlans)

	r.Route("/payment", func(r chi.Router) {
		r.With(RequireJSON).Post("/initiate", s.handleInitiate)
		r.With(RequireJSON).Post("/verify", s.handleVerify)
		r.Post("/webhook/razorpay", s.handleRazorpayWebhook)
		r.Post("/webhook/pinelabs", s.handlePineLabsWebhook)
	})

	return r
}
