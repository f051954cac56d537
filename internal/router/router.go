package router

import (
	"time"

	"retailcore/internal/config"
	"retailcore/internal/handler"
	"retailcore/internal/middleware"
	"retailcore/internal/repository"
	"retailcore/internal/service"
	"retailcore/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, dispatcher *worker.Dispatcher) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	productRepo := repository.NewProductRepository(db)
	pricingRepo := repository.NewPricingRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	stockRepo := repository.NewStockRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	financeRepo := repository.NewFinanceRepository(db)
	fiscalRepo := repository.NewFiscalRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	pricingSvc := service.NewPricingService(pricingRepo, productRepo)
	stockSvc := service.NewStockService(stockRepo)
	commissionSvc := service.NewCommissionService(commissionRepo)
	receivableSvc := service.NewReceivableService(financeRepo)
	fiscalSvc := service.NewFiscalService(fiscalRepo)
	reportSvc := service.NewReportService(reportRepo)
	saleSvc := service.NewSaleService(saleRepo, productRepo, pricingSvc, stockSvc, commissionSvc, receivableSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	salesH := handler.NewSalesHandler(saleSvc)
	stockH := handler.NewStockHandler(stockSvc)
	pricingH := handler.NewPricingHandler(pricingSvc, rdb, time.Duration(cfg.PriceCacheTTLSeconds)*time.Second)
	commissionsH := handler.NewCommissionsHandler(commissionSvc)
	receivablesH := handler.NewReceivablesHandler(receivableSvc)
	fiscalH := handler.NewFiscalHandler(fiscalSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb))

	v1 := r.Group("/v1")
	{
		v1.POST("/sales", salesH.CreateSale)
		v1.GET("/sales", salesH.ListSales)
		v1.GET("/sales/:id", salesH.GetSale)
		v1.DELETE("/sales/:id", salesH.CancelSale)
		v1.POST("/sales/:id/items", salesH.AddLineItem)
		v1.POST("/sales/:id/close", salesH.CloseSale)
		v1.POST("/sales/:id/invoice", salesH.InvoiceSale)
		v1.GET("/sales/:id/receivable", receivablesH.GetSaleReceivable)
		v1.GET("/sales/:id/fiscal", fiscalH.GetSaleFiscalDocument)

		v1.GET("/prices/:product_id", pricingH.CheckPrice)

		v1.POST("/stock/movements", stockH.RegisterMovement)
		v1.GET("/stock/movements", stockH.ListMovements)
		v1.GET("/stock/alerts", stockH.GetAlerts)
		v1.GET("/stock/ledger/:product_id", stockH.GetLedger)

		v1.GET("/commissions", commissionsH.ListCommissions)
		v1.POST("/commissions/:id/pay", commissionsH.PayCommission)

		v1.GET("/receivables/:id", receivablesH.GetReceivable)
		v1.POST("/installments/:id/pay", receivablesH.PayInstallment)

		v1.POST("/fiscal/:id/retry", fiscalH.RetryFiscalDocument)

		v1.GET("/reports/sales/daily", reportsH.DailySales)
		v1.GET("/reports/sales/monthly", reportsH.MonthlySales)
		v1.GET("/reports/stock/valuation", reportsH.StockValuation)
		v1.GET("/reports/stock/invoiced-cost", reportsH.InvoicedCost)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
