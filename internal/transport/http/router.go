package httpserver

import (
	"github.com/Skotchmaster/pos_backend/internal/handlers"
	"github.com/Skotchmaster/pos_backend/internal/service/token"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type Deps struct {
	DB              *gorm.DB
	ProductHandler  *handlers.ProductHandler
	ClientHandler   *handlers.ClientHandler
	SaleHandler     *handlers.SaleHandler
	CreditHandler   *handlers.CreditHandler
	EntryHandler    *handlers.EntryHandler
	ActivityHandler *handlers.ActivityHandler
	AuthHandler     *handlers.AuthHandler
	SearchHandler   *handlers.SearchHandler
	BackupHandler   *handlers.BackupHandler
	ReportHandler   *handlers.ReportHandler
	LiveHandler     *handlers.LiveHandler
	UpdateHandler   *handlers.UpdateHandler
	ServiceHandler  *token.TokenService
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	v1 := e.Group("/api/v1")

	v1.POST("/register", d.AuthHandler.Register)
	v1.POST("/login", d.AuthHandler.Login)
	v1.POST("/logout", d.AuthHandler.LogOut)
	v1.GET("/search", d.SearchHandler.Search)
	v1.GET("/update", d.UpdateHandler.Check)
	v1.GET("/live/:collection", d.LiveHandler.Stream)

	products := v1.Group("/products")

	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/expiring", d.ProductHandler.GetExpiring)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.GET("/:id/barcode", d.ProductHandler.GetBarcode)

	v1.GET("/entries", d.EntryHandler.GetEntries)

	clients := v1.Group("/clients")

	clients.GET("", d.ClientHandler.GetClients)
	clients.GET("/:id", d.ClientHandler.GetClient)

	auth := v1.Group("", d.ServiceHandler.AutoRefreshMiddleware)

	auth.POST("/sales", d.SaleHandler.CreateSale)
	auth.GET("/sales", d.SaleHandler.GetSales)
	auth.GET("/sales/:id", d.SaleHandler.GetSale)
	auth.GET("/credits", d.CreditHandler.GetCredits)
	auth.GET("/credits/:id", d.CreditHandler.GetClientCredit)
	auth.GET("/reports/sales/:id/ticket", d.ReportHandler.SaleTicket)

	admin := v1.Group("/admin", d.ServiceHandler.AutoRefreshMiddlewareAdmin)

	admin.POST("/products", d.ProductHandler.CreateProduct)
	admin.PATCH("/products/:id", d.ProductHandler.PatchProduct)
	admin.DELETE("/products/:id", d.ProductHandler.DeleteProduct)

	admin.POST("/clients", d.ClientHandler.CreateClient)
	admin.PATCH("/clients/:id", d.ClientHandler.PatchClient)
	admin.DELETE("/clients/:id", d.ClientHandler.DeleteClient)

	admin.DELETE("/sales/:id", d.SaleHandler.DeleteSale)

	admin.GET("/users", d.AuthHandler.GetUsers)
	admin.PATCH("/users/:id/role", d.AuthHandler.PatchUserRole)
	admin.DELETE("/users/:id", d.AuthHandler.DeleteUser)

	admin.GET("/activity", d.ActivityHandler.GetActivity)

	admin.GET("/backup", d.BackupHandler.Export)
	admin.POST("/backup", d.BackupHandler.Import)

	admin.GET("/reports/inventory/pdf", d.ReportHandler.InventoryPDF)
	admin.GET("/reports/inventory/xlsx", d.ReportHandler.InventoryXLSX)
	admin.GET("/reports/sales/pdf", d.ReportHandler.SalesPDF)
	admin.GET("/reports/sales/xlsx", d.ReportHandler.SalesXLSX)
	admin.GET("/reports/credits/:id/pdf", d.ReportHandler.CreditStatement)
}
