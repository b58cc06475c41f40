package router

import (
	"net/http"
	"time"

	"github.com/Kaytxt/xd/internal/config"
	"github.com/Kaytxt/xd/internal/handler"
	"github.com/Kaytxt/xd/internal/middleware"
	"github.com/Kaytxt/xd/internal/omie"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures the Gin engine and the API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB, omieClient *omie.Client) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "API Azenha Cartões",
			"status":  "online",
			"version": "1.0.0",
		})
	})
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireHours)
	api.POST("/login", authHandler.Login)
	api.POST("/admin/login", authHandler.AdminLogin)

	clienteHandler := handler.NewClienteHandler(db, cfg.Security.EncryptionKey, cfg.Security.BcryptCost)
	lancamentoHandler := handler.NewLancamentoHandler(db)
	omieHandler := handler.NewOmieHandler(db, omieClient, cfg.Security.EncryptionKey)
	planilhaHandler := handler.NewPlanilhaHandler(db)

	// rotas de cliente
	protected := api.Group("")
	protected.Use(
		middleware.AuthMiddleware(jwtSecret, db),
		middleware.AuditMiddleware(db),
	)

	protected.GET("/cliente/info", clienteHandler.Info)

	protected.POST("/lancamentos", lancamentoHandler.Create)
	protected.GET("/lancamentos", lancamentoHandler.List)
	protected.PUT("/lancamentos/:id", lancamentoHandler.Update)
	protected.DELETE("/lancamentos/:id", lancamentoHandler.Delete)
	protected.DELETE("/lancamentos", lancamentoHandler.BulkDelete)
	protected.GET("/lancamentos/planilha", planilhaHandler.Export)

	protected.POST("/omie/fornecedores", omieHandler.Fornecedores)
	protected.POST("/omie/categorias", omieHandler.Categorias)
	protected.POST("/omie/contas-correntes", omieHandler.ContasCorrentes)
	protected.POST("/omie/lancamentos-lote", omieHandler.ExportBatch)

	protected.POST("/perfil/senha", handler.ChangePassword(db, cfg.Security.BcryptCost))

	// rotas de admin
	admin := api.Group("/admin")
	admin.Use(
		middleware.AdminAuthMiddleware(jwtSecret),
		middleware.AuditMiddleware(db),
	)

	admin.GET("/clients", clienteHandler.ListClients)
	admin.POST("/clients", clienteHandler.CreateAccount)

	admin.GET("/lancamentos", lancamentoHandler.AdminList)
	admin.PUT("/lancamentos/:id", lancamentoHandler.AdminUpdate)
	admin.DELETE("/lancamentos/:id", lancamentoHandler.AdminDelete)

	admin.POST("/omie/fornecedores", omieHandler.AdminFornecedores)
	admin.POST("/omie/categorias", omieHandler.AdminCategorias)
	admin.POST("/omie/contas-correntes", omieHandler.AdminContasCorrentes)
	admin.POST("/omie/lancamentos-lote", omieHandler.AdminExportBatch)

	return r
}
