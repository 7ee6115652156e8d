package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/monetra/FinanceTracker/internal/auth"
	database "github.com/monetra/FinanceTracker/internal/db"
	emailService "github.com/monetra/FinanceTracker/internal/email"
	"github.com/monetra/FinanceTracker/internal/finance/application"
	"github.com/monetra/FinanceTracker/internal/finance/infrastructure"
	"github.com/monetra/FinanceTracker/internal/finance/interfaces"
	"github.com/monetra/FinanceTracker/internal/user"
)

type Response struct {
	Message string `json:"message"`
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("Started %s %s", r.Method, r.URL.Path)

		next.ServeHTTP(w, r)

		log.Printf("Completed %s in %v", r.URL.Path, time.Since(start))
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errs ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}
	if len(errs) > 0 && len(errs[0]) > 0 {
		payload["errors"] = errs[0]
	}
	respondJSON(w, status, payload)
}

type Server struct {
	router             *http.ServeMux
	authHandler        *auth.Handler
	userHandler        *user.Handler
	authService        auth.Service
	transactionHandler *interfaces.TransactionHandler
	budgetHandler      *interfaces.BudgetHandler
	dashboardHandler   *interfaces.DashboardHandler
	dbService          *database.DBService
}

func NewServer(
	authHandler *auth.Handler,
	authService auth.Service,
	userHandler *user.Handler,
	transactionHandler *interfaces.TransactionHandler,
	budgetHandler *interfaces.BudgetHandler,
	dashboardHandler *interfaces.DashboardHandler,
	dbService *database.DBService,
) *Server {
	return &Server{
		authHandler:        authHandler,
		userHandler:        userHandler,
		authService:        authService,
		transactionHandler: transactionHandler,
		budgetHandler:      budgetHandler,
		dashboardHandler:   dashboardHandler,
		dbService:          dbService,
		router:             http.NewServeMux(),
	}
}

func notFoundHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(Response{Message: "Path not found"})
}

func checkConfiguration() error {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, continuing with system environment variables")
	}

	if os.Getenv("JWT_SECRET") == "" {
		return errors.New("no JWT_SECRET Provided")
	}
	return nil
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	stats := s.dbService.Health()
	if stats["status"] != "up" {
		respondJSON(w, http.StatusServiceUnavailable, stats)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) RegisterRoutes() {
	// Public routes
	publicRoutes := http.NewServeMux()
	publicRoutes.Handle("POST /api/register", http.HandlerFunc(s.userHandler.HandleRegister))
	publicRoutes.Handle("POST /api/email/verify", http.HandlerFunc(s.userHandler.HandleVerifyEmail))
	publicRoutes.Handle("POST /api/email/resend-code", http.HandlerFunc(s.userHandler.HandleResendVerificationCode))
	publicRoutes.Handle("POST /api/auth/login", http.HandlerFunc(s.authHandler.HandleLogin))
	publicRoutes.Handle("POST /api/auth/logout", http.HandlerFunc(s.authHandler.HandleLogout))
	publicRoutes.Handle("POST /api/auth/2fa/verify", http.HandlerFunc(s.authHandler.HandleVerifyTwoFactor))
	publicRoutes.Handle("POST /api/password-reset/request", http.HandlerFunc(s.authHandler.RequestPasswordResetHandler))
	publicRoutes.Handle("POST /api/password-reset/confirm", http.HandlerFunc(s.authHandler.ResetPasswordHandler))
	publicRoutes.Handle("GET /api/ready", http.HandlerFunc(s.handleReady))
	publicRoutes.Handle("GET /api/health", http.HandlerFunc(s.handleHealth))

	// Protected routes (using JWT Access Token Middleware)
	protectedRoutes := http.NewServeMux()
	protect := s.authService.JWTAccessTokenMiddleware()

	// account endpoints
	protectedRoutes.Handle("GET /api/protected/profile", protect(http.HandlerFunc(s.userHandler.HandleGetUserProfile)))
	protectedRoutes.Handle("POST /api/protected/change-password", protect(http.HandlerFunc(s.userHandler.HandleChangePassword)))

	protectedRoutes.Handle("POST /api/protected/2fa/register",
		protect(http.HandlerFunc(s.authHandler.HandleRegisterTwoFactor)))

	protectedRoutes.Handle("POST /api/protected/2fa/verify-registration",
		protect(http.HandlerFunc(s.authHandler.HandleVerifyTwoFactorCode)))

	protectedRoutes.Handle("POST /api/protected/2fa/request-email-code",
		protect(http.HandlerFunc(s.authHandler.HandleRequestEmail2FACode)))

	protectedRoutes.Handle("DELETE /api/protected/2fa/disable",
		protect(http.HandlerFunc(s.authHandler.HandleDisableTwoFactor)))

	// TRANSACTIONS API
	protectedRoutes.Handle("POST /api/protected/transactions",
		protect(http.HandlerFunc(s.transactionHandler.HandleCreate)))

	protectedRoutes.Handle("GET /api/protected/transactions",
		protect(http.HandlerFunc(s.transactionHandler.HandleList)))

	protectedRoutes.Handle("GET /api/protected/transactions/{transactionID}",
		protect(http.HandlerFunc(s.transactionHandler.HandleGet)))

	protectedRoutes.Handle("PUT /api/protected/transactions/{transactionID}",
		protect(http.HandlerFunc(s.transactionHandler.HandleUpdate)))

	protectedRoutes.Handle("DELETE /api/protected/transactions/{transactionID}",
		protect(http.HandlerFunc(s.transactionHandler.HandleDelete)))

	// BUDGETS API
	protectedRoutes.Handle("POST /api/protected/budgets",
		protect(http.HandlerFunc(s.budgetHandler.HandleCreate)))

	protectedRoutes.Handle("GET /api/protected/budgets",
		protect(http.HandlerFunc(s.budgetHandler.HandleList)))

	protectedRoutes.Handle("PUT /api/protected/budgets/{budgetID}",
		protect(http.HandlerFunc(s.budgetHandler.HandleUpdate)))

	protectedRoutes.Handle("DELETE /api/protected/budgets/{budgetID}",
		protect(http.HandlerFunc(s.budgetHandler.HandleDelete)))

	protectedRoutes.Handle("GET /api/protected/budgets/spent",
		protect(http.HandlerFunc(s.budgetHandler.HandleSpent)))

	protectedRoutes.Handle("GET /api/protected/budgets/comparison",
		protect(http.HandlerFunc(s.budgetHandler.HandleComparison)))

	// DASHBOARD API
	protectedRoutes.Handle("GET /api/protected/dashboard/summary",
		protect(http.HandlerFunc(s.dashboardHandler.HandleSummary)))

	protectedRoutes.Handle("GET /api/protected/dashboard/category-expense",
		protect(http.HandlerFunc(s.dashboardHandler.HandleCategoryExpense)))

	protectedRoutes.Handle("GET /api/protected/dashboard/monthly-trend",
		protect(http.HandlerFunc(s.dashboardHandler.HandleMonthlyTrend)))

	protectedRoutes.Handle("GET /api/protected/dashboard/recent",
		protect(http.HandlerFunc(s.dashboardHandler.HandleRecent)))

	// Refresh token routes
	refreshTokenRoutes := http.NewServeMux()
	refreshTokenRoutes.Handle("PUT /api/refresh/token", s.authService.JWTRefreshTokenMiddleware()(http.HandlerFunc(s.authHandler.RefreshAccessToken)))

	// Main router
	mainRouter := http.NewServeMux()

	// Combine public, protected, and refresh routes with distinct paths
	mainRouter.Handle("/api/", publicRoutes)
	mainRouter.Handle("/api/protected/", protectedRoutes)
	mainRouter.Handle("/api/refresh/", refreshTokenRoutes)
	mainRouter.Handle("/", http.HandlerFunc(notFoundHandler))

	s.router = mainRouter
}

func main() {
	if err := checkConfiguration(); err != nil {
		log.Fatalf("Missing configuration, update to start server")
	}

	dbService, err := database.NewDBService()
	if err != nil {
		log.Fatalf("Could not initialize database: %v", err)
	}
	defer dbService.Close()

	if err := dbService.EnsureSchema(); err != nil {
		log.Fatalf("Could not ensure database schema: %v", err)
	}

	authRepo := auth.NewUserRepository(dbService.DB)
	userRepo := user.NewUserRepository(dbService.DB)

	sessionManager := auth.NewSessionManager()
	jwtManager := auth.NewJWTManager()
	newEmailService := emailService.NewEmailService()
	authenticator := auth.Authenticator{}

	userService := user.NewUserService(userRepo, newEmailService)
	userHandler := user.NewHandler(userService)
	authService := auth.NewAuthService(authRepo, userService, sessionManager, jwtManager, newEmailService, authenticator)
	authHandler := auth.NewHandler(authService)

	transactionRepo := infrastructure.NewTransactionRepository(dbService.DB)
	budgetRepo := infrastructure.NewBudgetRepository(dbService.DB)

	transactionService := application.NewTransactionService(transactionRepo)
	budgetService := application.NewBudgetService(budgetRepo, transactionRepo)
	reportService := application.NewReportService(transactionRepo)

	transactionHandler := interfaces.NewTransactionHandler(transactionService, respondJSON, respondError)
	budgetHandler := interfaces.NewBudgetHandler(budgetService, reportService, nil, respondJSON, respondError)
	dashboardHandler := interfaces.NewDashboardHandler(reportService, nil, respondJSON, respondError)

	server := NewServer(authHandler, authService, userHandler, transactionHandler, budgetHandler, dashboardHandler, dbService)

	server.RegisterRoutes()

	if err := StartSessionCleanupScheduler(sessionManager); err != nil {
		log.Fatalf("Scheduler didn't start, stoping the app ...")
	}

	loggingMiddleware := loggingMiddleware(http.HandlerFunc(server.router.ServeHTTP))
	log.Println("Starting perf on port 6060...")
	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()
	log.Println("Server starting on port 8080...")
	if err := http.ListenAndServe(":8080", loggingMiddleware); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func StartSessionCleanupScheduler(sessionManager auth.SessionManagerInterface) error {
	c := cron.New()
	_, err := c.AddFunc("@every 10m", func() {
		removed := sessionManager.CleanupExpired()
		if removed > 0 {
			log.Printf("Removed %d expired session tokens", removed)
		}
	})
	if err != nil {
		return err
	}
	c.Start()
	return nil
}
