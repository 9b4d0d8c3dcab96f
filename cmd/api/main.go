package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/tindago/shop-backend-go/internal/config"
	appHTTP "github.com/tindago/shop-backend-go/internal/handler/http"
	"github.com/tindago/shop-backend-go/internal/pkg/database"
	"github.com/tindago/shop-backend-go/internal/pkg/jwt"
	"github.com/tindago/shop-backend-go/internal/repository/postgresql"
	authService "github.com/tindago/shop-backend-go/internal/service/auth"
	ledgerService "github.com/tindago/shop-backend-go/internal/service/ledger"
	payrollService "github.com/tindago/shop-backend-go/internal/service/payroll"
	shiftService "github.com/tindago/shop-backend-go/internal/service/shift"
	staffService "github.com/tindago/shop-backend-go/internal/service/staff"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(
		slog.String("app", "shop-backend"),
	)

	staffRepo := postgresql.NewStaffRepository(db)
	shiftRepo := postgresql.NewShiftRepository(db)
	txRepo := postgresql.NewLedgerRepository(db, cfg.Payroll.MaxBatchOps)
	runRepo := postgresql.NewRunRepository(db, cfg.Payroll.MaxBatchOps)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := authService.NewAuthService(staffRepo, jwtService)
	staffSvc := staffService.NewStaffService(staffRepo)
	shiftSvc := shiftService.NewShiftService(shiftRepo, staffRepo)
	ledgerSvc := ledgerService.NewLedgerService(txRepo)
	payrollSvc := payrollService.NewPayrollService(runRepo, shiftRepo, staffRepo, txRepo, logger)

	authHandler := appHTTP.NewAuthHandler(authSvc, jwtService)
	staffHandler := appHTTP.NewStaffHandler(staffSvc)
	shiftHandler := appHTTP.NewShiftHandler(shiftSvc)
	ledgerHandler := appHTTP.NewLedgerHandler(ledgerSvc)
	payrollHandler := appHTTP.NewPayrollHandler(payrollSvc)

	router := appHTTP.NewRouter(
		jwtService,
		authHandler,
		staffHandler,
		shiftHandler,
		ledgerHandler,
		payrollHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
