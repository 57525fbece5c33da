// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"realestate_backend/internal/common"
	"realestate_backend/internal/config"
	"realestate_backend/internal/firebase"
	"realestate_backend/internal/jobs"
	"realestate_backend/internal/middleware"
	"realestate_backend/internal/offer"
	"realestate_backend/internal/payment"
	"realestate_backend/internal/property"
	"realestate_backend/internal/review"
	"realestate_backend/internal/shared"
	"realestate_backend/internal/user"
	"realestate_backend/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Jobs
	saleReconciliationJob *jobs.SaleReconciliationJob
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	propertyHandler *property.Handler,
	offerHandler *offer.Handler,
	paymentHandler *payment.Handler,
	reviewHandler *review.Handler,
	wishlistHandler *wishlist.Handler,
	saleReconciliationJob *jobs.SaleReconciliationJob,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))
	userRoleMW := middleware.RoleAuthMiddleware(common.RoleUser)
	agentRoleMW := middleware.RoleAuthMiddleware(common.RoleAgent)
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "Real Estate API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	propertyHandler.RegisterRoutes(v1, authMW, agentRoleMW, adminRoleMW)
	offerHandler.RegisterRoutes(v1, authMW, userRoleMW, agentRoleMW)
	paymentHandler.RegisterRoutes(v1, authMW, userRoleMW)
	reviewHandler.RegisterRoutes(v1, authMW, userRoleMW, adminRoleMW)
	wishlistHandler.RegisterRoutes(v1, authMW)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer:            httpServer,
		router:                router,
		cfg:                   cfg,
		logger:                logger,
		saleReconciliationJob: saleReconciliationJob,
	}, nil
}

func (s *Server) Start() error {
	if s.saleReconciliationJob != nil {
		if err := s.saleReconciliationJob.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start sale reconciliation job", zap.Error(err))
		}
	} else {
		s.logger.Info("Sale reconciliation job is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.saleReconciliationJob != nil {
		s.saleReconciliationJob.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
