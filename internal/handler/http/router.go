package http

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/trackify/trackify-backend-go/internal/config"
	"github.com/trackify/trackify-backend-go/internal/domain/user"
	"github.com/trackify/trackify-backend-go/internal/handler/http/middleware"
	"github.com/trackify/trackify-backend-go/internal/pkg/jwt"
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Auth       AuthHandler
	Employee   EmployeeHandler
	Attendance AttendanceHandler
	Summary    SummaryHandler
	User       UserHandler
	Stream     StreamHandler
}

// NewRouter mounts the API. Writes and user administration are checked against
// the stored account through accounts; reads trust the access token.
func NewRouter(logger *slog.Logger, corsConfig config.CORSConfig, JWTService jwt.Service, accounts middleware.AccountLoader, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsConfig.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
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
			r.Post("/register", h.Auth.Register)
			r.Post("/login", h.Auth.Login)
		})

		// Stream tokens travel in the query string, not the Authorization header.
		r.Get("/stream", h.Stream.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService.JWTAuth()))

			r.Get("/auth/me", h.Auth.Me)
			r.Post("/auth/stream-token", h.Auth.StreamToken)

			r.Route("/employees", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.ActionEmployeeView)).Get("/", h.Employee.ListEmployees)
				r.With(middleware.RequireCurrentPermission(accounts, user.ActionEmployeeManage)).Post("/", h.Employee.CreateEmployee)
				r.Route("/{id}", func(r chi.Router) {
					r.With(middleware.RequirePermission(user.ActionEmployeeView)).Get("/", h.Employee.GetEmployee)
					r.With(middleware.RequireCurrentPermission(accounts, user.ActionEmployeeEdit)).Put("/", h.Employee.UpdateEmployee)
					r.With(middleware.RequireCurrentPermission(accounts, user.ActionEmployeeManage)).Delete("/", h.Employee.DeleteEmployee)
				})
			})

			r.With(middleware.RequirePermission(user.ActionEmployeeView)).Get("/sites", h.Employee.ListSites)

			r.Route("/attendance", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.ActionAttendanceView)).Get("/", h.Attendance.ListAttendance)
				r.With(middleware.RequireCurrentPermission(accounts, user.ActionAttendanceWrite)).Put("/{employeeID}/{date}", h.Attendance.MarkAttendance)
			})

			r.Route("/summary", func(r chi.Router) {
				r.With(middleware.RequirePermission(user.ActionSummaryView)).Get("/", h.Summary.GetMonthlySummary)
				r.Route("/export", func(r chi.Router) {
					r.Use(middleware.RequirePermission(user.ActionSummaryExport))
					r.Get("/all/{format}", h.Summary.ExportAllSites)
					r.Get("/{format}", h.Summary.ExportMonthly)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireCurrentPermission(accounts, user.ActionUserApprove))
				r.Get("/pending", h.User.ListPending)
				r.Post("/{id}/approve", h.User.Approve)
				r.Post("/{id}/reject", h.User.Reject)
				r.Put("/{id}/role", h.User.SetRole)
			})
		})
	})

	return r
}
