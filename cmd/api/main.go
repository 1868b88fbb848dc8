package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog/v3"
	"github.com/trackify/trackify-backend-go/internal/config"
	appHTTP "github.com/trackify/trackify-backend-go/internal/handler/http"
	"github.com/trackify/trackify-backend-go/internal/pkg/changefeed"
	"github.com/trackify/trackify-backend-go/internal/pkg/database"
	"github.com/trackify/trackify-backend-go/internal/pkg/jwt"
	"github.com/trackify/trackify-backend-go/internal/repository/postgresql"
	attendanceService "github.com/trackify/trackify-backend-go/internal/service/attendance"
	serviceAuth "github.com/trackify/trackify-backend-go/internal/service/auth"
	employeeService "github.com/trackify/trackify-backend-go/internal/service/employee"
	"github.com/trackify/trackify-backend-go/internal/service/export"
	summaryService "github.com/trackify/trackify-backend-go/internal/service/summary"
	userService "github.com/trackify/trackify-backend-go/internal/service/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFormat := httplog.SchemaECS.Concise(cfg.App.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", cfg.App.Name),
		slog.String("version", cfg.App.Version),
		slog.String("env", cfg.App.Env),
	)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	hub := changefeed.NewHub()
	var publisher changefeed.Publisher = hub
	if cfg.Changefeed.Mode == config.ChangefeedPostgres {
		publisher = postgresql.NewChangeNotifier(db, cfg.Changefeed.Channel)
		go changefeed.NewRelay(db.Pool, cfg.Changefeed.Channel, hub).Run(ctx)
	}
	slog.Info("changefeed ready", "mode", cfg.Changefeed.Mode, "channel", cfg.Changefeed.Channel)

	JWTService, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	if err != nil {
		return fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	userRepo := postgresql.NewUserRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	attendanceRepo := postgresql.NewAttendanceRepository(db)

	authService := serviceAuth.NewAuthService(userRepo, JWTService, publisher)
	userSvc := userService.NewUserService(postgresql.NewTransactor(db), userRepo, publisher)
	employeeSvc := employeeService.NewEmployeeService(employeeRepo, publisher)
	attendanceSvc := attendanceService.NewAttendanceService(attendanceRepo, employeeRepo, publisher)
	summarySvc := summaryService.NewSummaryService(
		employeeRepo,
		attendanceRepo,
		summaryService.NewAggregator(cfg.Export.Locale),
		export.New(),
	)

	router := appHTTP.NewRouter(logger, cfg.CORS, JWTService, appHTTP.AccountRoles(authService), appHTTP.Handlers{
		Auth:       appHTTP.NewAuthHandler(authService),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Attendance: appHTTP.NewAttendanceHandler(attendanceSvc),
		Summary:    appHTTP.NewSummaryHandler(summarySvc),
		User:       appHTTP.NewUserHandler(userSvc),
		Stream:     appHTTP.NewStreamHandler(JWTService, authService, hub),
	})

	// Cancelling the base context on shutdown ends open event streams.
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	server.RegisterOnShutdown(cancelBase)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
