package http

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tindago/shop-backend-go/internal/handler/http/middleware"
	"github.com/tindago/shop-backend-go/internal/pkg/jwt"
)

func NewRouter(
	jwtService jwt.Service,
	authHandler AuthHandler,
	staffHandler StaffHandler,
	shiftHandler ShiftHandler,
	ledgerHandler LedgerHandler,
	payrollHandler PayrollHandler,
) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(false)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "shop-backend"),
		slog.String("version", "v1.0.0"),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.AllowContentEncoding("application/json"))
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.RefreshToken)
			r.Post("/logout", authHandler.Logout)
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(jwtService.JWTAuth()))
			r.Use(middleware.AuthRequired(jwtService.JWTAuth()))

			r.Route("/shifts", func(r chi.Router) {
				r.Post("/", shiftHandler.ClockIn)
				r.Get("/", shiftHandler.List)
				r.Get("/{shiftID}", shiftHandler.Get)
				r.Post("/{shiftID}/close", shiftHandler.ClockOut)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Post("/", ledgerHandler.Create)
				r.Get("/", ledgerHandler.List)
				r.Get("/{transactionID}", ledgerHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/{transactionID}/void", ledgerHandler.Void)
					r.Delete("/{transactionID}", ledgerHandler.Delete)
				})
			})

			r.Route("/staff", func(r chi.Router) {
				r.Get("/", staffHandler.List)
				r.Get("/{staffID}", staffHandler.Get)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Post("/", staffHandler.Create)
					r.Get("/{staffID}/payroll-profile", staffHandler.GetProfile)
					r.Put("/{staffID}/payroll-profile/default-rate", staffHandler.UpdateDefaultRate)
					r.Post("/{staffID}/payroll-profile/rate-changes", staffHandler.AddRateChange)
				})
			})

			// Admin only
			r.Route("/payroll", func(r chi.Router) {
				r.Use(middleware.AdminOnly)

				r.Get("/preview", payrollHandler.Preview)

				r.Route("/runs", func(r chi.Router) {
					r.Post("/", payrollHandler.CreateRun)
					r.Get("/", payrollHandler.ListRuns)

					r.Route("/{runID}", func(r chi.Router) {
						r.Get("/", payrollHandler.GetRun)
						r.Post("/save", payrollHandler.SaveDraft)
						r.Post("/finalize", payrollHandler.Finalize)
						r.Post("/void", payrollHandler.VoidRun)

						r.Route("/lines/{staffID}", func(r chi.Router) {
							r.Put("/rate", payrollHandler.SetLineRate)
							r.Put("/shifts/{shiftID}", payrollHandler.OverrideShift)
							r.Post("/adjustments", payrollHandler.AddAdjustment)
							r.Put("/adjustments/{adjustmentID}", payrollHandler.UpdateAdjustment)
							r.Delete("/adjustments/{adjustmentID}", payrollHandler.RemoveAdjustment)
						})

						r.Route("/paystubs", func(r chi.Router) {
							r.Get("/", payrollHandler.ListPaystubs)
							r.Get("/{staffID}", payrollHandler.GetPaystub)
						})
					})
				})
			})
		})
	})
	return r
}
