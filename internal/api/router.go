package api

import (
	"github.com/currencydesk/currency-orders/internal/api/handler"
	"github.com/currencydesk/currency-orders/internal/api/middleware"
	"github.com/currencydesk/currency-orders/internal/api/spec"
	"github.com/currencydesk/currency-orders/internal/config"
	"github.com/currencydesk/currency-orders/internal/rates"
	"github.com/currencydesk/currency-orders/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	cfg         *config.Config
	logger      *zap.Logger
	db          *pgxpool.Pool
	currencySvc *service.CurrencyService
	orderSvc    *service.OrderService
	rateSvc     *service.RateService
	quoteCache  *rates.Cache
}

func NewRouter(cfg *config.Config, logger *zap.Logger, db *pgxpool.Pool, currencySvc *service.CurrencyService, orderSvc *service.OrderService, rateSvc *service.RateService, quoteCache *rates.Cache) *Router {
	return &Router{
		cfg:         cfg,
		logger:      logger,
		db:          db,
		currencySvc: currencySvc,
		orderSvc:    orderSvc,
		rateSvc:     rateSvc,
		quoteCache:  quoteCache,
	}
}

func (api *Router) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.TraceMiddleware)
	r.Use(middleware.LoggingMiddleware(api.logger))
	r.Use(middleware.RecoverMiddleware(api.logger))
	r.Use(middleware.MetricsMiddleware)
	r.Use(middleware.PublicRateLimiter(api.cfg.PublicRateLimitRPS))

	currencyHandler := handler.NewCurrencyHandler(api.currencySvc, api.rateSvc, api.quoteCache)
	orderHandler := handler.NewOrderHandler(api.orderSvc)
	healthHandler := handler.NewHealthHandler(api.db)

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/openapi.yaml", spec.OpenAPIHandler())

	r.Route("/v1/currencies", func(r chi.Router) {
		r.Get("/", currencyHandler.ListAll)
		r.Get("/list", currencyHandler.ListActive)
		r.Get("/inactive", currencyHandler.ListInactive)
		r.Get("/source", currencyHandler.Source)
		r.Get("/refresh/status", currencyHandler.RefreshStatus)
		r.Get("/{code:[A-Z]{3}}", currencyHandler.Show)
		r.Post("/update/{code}/{field}/{value}", currencyHandler.UpdateField)
		r.Post("/updateAll", currencyHandler.UpdateAll)
		r.Post("/activate/{code}", currencyHandler.Activate)
		r.Post("/deactivate/{code}", currencyHandler.Deactivate)
		r.Post("/enableSendOrderEmail/{code}", currencyHandler.EnableSendOrderEmail)
		r.Post("/disableSendOrderEmail/{code}", currencyHandler.DisableSendOrderEmail)
	})

	r.Route("/v1/orders", func(r chi.Router) {
		r.Get("/", orderHandler.List)
		r.Post("/", orderHandler.Create)
		r.Get("/user/{userID}", orderHandler.ListByUser)
		r.Get("/currency/{currencyID}", orderHandler.ListByCurrency)
		r.Get("/{id}", orderHandler.Get)
		r.Delete("/{id}", orderHandler.Delete)
	})

	return r
}
