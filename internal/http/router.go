package api

import (
	"net/http"
	"os"
	"strings"
	"time"

	"billino/internal/config"
	h "billino/internal/http/handlers"
	"billino/internal/http/middleware"
	"billino/internal/logging"
	"billino/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(env config.Env, log logging.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(log.Named("http")), gin.Recovery(), corsMiddleware())

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Warn("failed to set trusted proxies", "err", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	invoiceSvc := services.InvoiceService{Log: log.Named("invoices")}
	pdfSvc := services.PDFService{Log: log.Named("pdfs")}

	auth := h.AuthHandler{Secret: []byte(env.JWTSecret)}
	customers := h.CustomerHandler{}
	profiles := h.BillingProfileHandler{}
	invoices := h.InvoiceHandler{Svc: invoiceSvc}
	summaries := h.SummaryInvoiceHandler{Svc: invoiceSvc}
	pdfs := h.PDFHandler{Svc: pdfSvc}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		api.POST("/auth/login", auth.Login)
		api.POST("/auth/register", auth.Register)

		authed := api.Group("", middleware.RequireAuth([]byte(env.JWTSecret)))

		c := authed.Group("/customers")
		c.GET("", customers.List)
		c.GET("/:id", customers.Get)
		c.POST("", customers.Create)
		c.PUT("/:id", customers.Update)
		c.DELETE("/:id", customers.Delete)

		p := authed.Group("/billing-profiles")
		p.GET("", profiles.List)
		p.GET("/:id", profiles.Get)
		p.POST("", profiles.Create)
		p.PUT("/:id", profiles.Update)
		p.DELETE("/:id", profiles.Delete)

		i := authed.Group("/invoices")
		i.GET("", invoices.List)
		i.GET("/:id", invoices.Get)
		i.POST("", invoices.Create)
		i.PUT("/:id", invoices.Update)
		i.DELETE("/:id", invoices.Delete)

		s := authed.Group("/summary-invoices")
		s.GET("", summaries.List)
		s.GET("/:id", summaries.Get)
		s.GET("/:id/invoices", summaries.ListMembers)
		s.POST("", summaries.Create)
		s.DELETE("/:id", summaries.Delete)

		d := authed.Group("/pdfs")
		d.GET("/by-invoice/:id", pdfs.GetByInvoice)
		d.GET("/by-a6-invoice/:id", pdfs.GetByA6Invoice)
		d.GET("/by-summary/:id", pdfs.GetBySummary)
		d.POST("/invoices/:id", pdfs.CreateInvoicePDF)
		d.POST("/a6-invoices/:id", pdfs.CreateA6InvoicePDF)
		d.POST("/summary-invoices/:id", pdfs.CreateSummaryPDF)
	}

	return r
}

func corsMiddleware() gin.HandlerFunc {
	origins := []string{
		"http://localhost:3000", "http://127.0.0.1:3000",
		"http://localhost:5173", "http://127.0.0.1:5173",
	}
	if env := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); env != "" {
		origins = origins[:0]
		for _, o := range strings.Split(env, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	})
}
