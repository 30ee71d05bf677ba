package v1

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"storekeeper/internal/core/id"
	"storekeeper/internal/core/numerator"
	"storekeeper/internal/domain/auth"
	"storekeeper/internal/domain/catalogs/category"
	"storekeeper/internal/domain/catalogs/department"
	"storekeeper/internal/domain/catalogs/employee"
	"storekeeper/internal/domain/catalogs/item"
	"storekeeper/internal/domain/catalogs/supplier"
	"storekeeper/internal/domain/ledger"
	"storekeeper/internal/domain/registers/balance"
	"storekeeper/internal/domain/reports"
	"storekeeper/internal/infrastructure/http/v1/handlers"
	"storekeeper/internal/infrastructure/http/v1/middleware"
	"storekeeper/internal/infrastructure/storage/postgres"
	"storekeeper/internal/infrastructure/storage/postgres/catalog_repo"
	"storekeeper/internal/infrastructure/storage/postgres/ledger_repo"
	"storekeeper/internal/infrastructure/storage/postgres/register_repo"
	"storekeeper/internal/infrastructure/storage/postgres/report_repo"
	"storekeeper/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs repository operations and transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for voucher and code generation
	Numerator numerator.Generator

	// LedgerAuditor records ledger mutations; optional
	LedgerAuditor ledger.Auditor

	// IdempotencyEnabled enables idempotency middleware
	IdempotencyEnabled bool

	// Version reported by the info endpoint
	Version string
}

// services bundles the domain services wired together with their
// cross-catalog guards.
type services struct {
	items       *item.Service
	categories  *category.Service
	departments *department.Service
	employees   *employee.Service
	suppliers   *supplier.Service

	balances *balance.Service
	ledger   *ledger.Service
	reports  *reports.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	// Set Gin mode based on environment
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	svcs := buildServices(cfg)

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		// Protected endpoints
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		// Apply idempotency middleware for mutating operations
		if cfg.IdempotencyEnabled {
			store := postgres.NewIdempotencyStore(cfg.TxManager, 10*time.Minute)
			protected.Use(middleware.Idempotency(store))
		}

		registerCatalogRoutes(protected, svcs)
		registerStockRoutes(protected, svcs)
		registerIssueRoutes(protected, svcs)
		registerReportRoutes(protected, svcs)
	}

	return router
}

// buildServices constructs repositories and services once and wires the
// referential guards between them.
func buildServices(cfg RouterConfig) *services {
	itemRepo := catalog_repo.NewItemRepo(cfg.TxManager)
	categoryRepo := catalog_repo.NewCategoryRepo(cfg.TxManager)
	departmentRepo := catalog_repo.NewDepartmentRepo(cfg.TxManager)
	employeeRepo := catalog_repo.NewEmployeeRepo(cfg.TxManager)
	supplierRepo := catalog_repo.NewSupplierRepo(cfg.TxManager)
	balanceRepo := register_repo.NewBalanceRepo(cfg.TxManager)
	ledgerRepo := ledger_repo.NewLedgerRepo(cfg.TxManager)
	reportRepo := report_repo.NewReportRepo(cfg.TxManager)

	itemSvc := item.NewService(itemRepo, cfg.TxManager, cfg.Numerator)
	categorySvc := category.NewService(categoryRepo, cfg.TxManager, cfg.Numerator)
	departmentSvc := department.NewService(departmentRepo, cfg.TxManager, cfg.Numerator)
	employeeSvc := employee.NewService(employeeRepo, cfg.TxManager, cfg.Numerator)
	supplierSvc := supplier.NewService(supplierRepo, cfg.TxManager, cfg.Numerator)

	balanceSvc := balance.NewService(balanceRepo)
	ledgerSvc := ledger.NewService(
		ledgerRepo,
		balanceSvc,
		itemRepo,
		employeeRepo,
		departmentRepo.Exists,
		cfg.TxManager,
		cfg.Numerator,
	)
	if cfg.LedgerAuditor != nil {
		ledgerSvc.SetAuditor(cfg.LedgerAuditor)
	}

	reportSvc := reports.NewService(reportRepo)

	// Guards: kind changes are blocked while unissued engraved units
	// exist, category deletion detaches its items, employees must point
	// at a real department, and departments in use cannot be deleted.
	itemSvc.SetEngravedUnitCounter(ledgerSvc.CountUnissuedEngraved)
	categorySvc.SetItemDetacher(itemRepo.ClearCategory)
	employeeSvc.SetDepartmentChecker(departmentRepo.Exists)
	departmentSvc.AddUsageChecker(balanceSvc.HasStock)
	departmentSvc.AddUsageChecker(ledgerSvc.HasStockForDepartment)
	departmentSvc.AddUsageChecker(func(ctx context.Context, departmentID id.ID) (bool, error) {
		n, err := employeeRepo.CountByDepartment(ctx, departmentID)
		return n > 0, err
	})

	return &services{
		items:       itemSvc,
		categories:  categorySvc,
		departments: departmentSvc,
		employees:   employeeSvc,
		suppliers:   supplierSvc,
		balances:    balanceSvc,
		ledger:      ledgerSvc,
		reports:     reportSvc,
	}
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, svcs *services) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	RegisterCatalogRoutes(catalogs.Group("/items"), handlers.NewItemHandler(baseHandler, svcs.items))
	RegisterCatalogRoutes(catalogs.Group("/categories"), handlers.NewCategoryHandler(baseHandler, svcs.categories))
	RegisterCatalogRoutes(catalogs.Group("/departments"), handlers.NewDepartmentHandler(baseHandler, svcs.departments))
	RegisterCatalogRoutes(catalogs.Group("/employees"), handlers.NewEmployeeHandler(baseHandler, svcs.employees))
	RegisterCatalogRoutes(catalogs.Group("/suppliers"), handlers.NewSupplierHandler(baseHandler, svcs.suppliers))
}

// registerStockRoutes registers stock receipt and balance endpoints.
func registerStockRoutes(rg *gin.RouterGroup, svcs *services) {
	baseHandler := handlers.NewBaseHandler()
	stockHandler := handlers.NewStockHandler(baseHandler, svcs.ledger, svcs.balances)
	write := writeAccess()

	stock := rg.Group("/stock")
	{
		stock.POST("/receive", write, stockHandler.Receive)
		stock.POST("/receive-engraved", write, stockHandler.ReceiveEngraved)
		stock.GET("/entries", stockHandler.List)
		stock.GET("/entries/:id", stockHandler.Get)
		stock.GET("/balances", stockHandler.Balances)
		stock.GET("/availability/:itemId", stockHandler.Availability)
	}
}

// registerIssueRoutes registers issuance endpoints.
func registerIssueRoutes(rg *gin.RouterGroup, svcs *services) {
	baseHandler := handlers.NewBaseHandler()
	issueHandler := handlers.NewIssueHandler(baseHandler, svcs.ledger)
	write := writeAccess()

	issues := rg.Group("/issues")
	{
		issues.POST("", write, issueHandler.Issue)
		issues.POST("/engraved", write, issueHandler.IssueEngraved)
		issues.GET("", issueHandler.List)
		issues.GET("/:id", issueHandler.Get)
	}
}

// registerReportRoutes registers report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, svcs *services) {
	baseHandler := handlers.NewBaseHandler()
	reportHandler := handlers.NewReportsHandler(baseHandler, svcs.reports)

	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/dashboard", reportHandler.Dashboard)
		reportsGroup.GET("/inflow", reportHandler.Inflow)
		reportsGroup.GET("/outflow", reportHandler.Outflow)
		reportsGroup.GET("/cost", reportHandler.Cost)
		reportsGroup.GET("/departments", reportHandler.Departments)
		reportsGroup.GET("/summary", reportHandler.Summary)
		reportsGroup.GET("/combined", reportHandler.Combined)
		reportsGroup.GET("/references", reportHandler.References)
		reportsGroup.GET("/remaining", reportHandler.Remaining)
	}
}
