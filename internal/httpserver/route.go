package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Skotchmaster/marketplace/internal/metrics"
	mw "github.com/Skotchmaster/marketplace/internal/middleware/auth"
	"github.com/Skotchmaster/marketplace/internal/models"
)

type Deps struct {
	DB      *gorm.DB
	Guard   *mw.Guard
	Metrics *metrics.Metrics

	AuthHandler     *AuthHTTP
	UserHandler     *UserHTTP
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	CommentHandler  *CommentHTTP
	OrderHandler    *OrderHTTP
	RegionHandler   *RegionHTTP
	UploadHandler   *UploadHTTP

	UploadDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", d.ready)
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}
	if d.UploadDir != "" {
		e.Static("/image", d.UploadDir)
	}

	authed := d.Guard.Require()
	admins := d.Guard.Require(models.RoleAdmin, models.RoleSuperAdmin)
	sellers := d.Guard.Require(models.RoleSeller, models.RoleAdmin, models.RoleSuperAdmin)

	users := e.Group("/users")
	users.POST("/register", d.AuthHandler.Register)
	users.POST("/login", d.AuthHandler.Login)
	users.POST("/refresh", d.AuthHandler.Refresh)
	users.POST("/send-otp", d.AuthHandler.SendOTP)
	users.POST("/verify-otp", d.AuthHandler.VerifyOTP)
	users.GET("", d.UserHandler.GetUsers, admins)
	users.GET("/:id", d.UserHandler.GetUser, authed)
	users.PATCH("/:id", d.UserHandler.PatchUser, authed)
	users.DELETE("/:id", d.UserHandler.DeleteUser, authed)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	products.POST("", d.ProductHandler.CreateProduct, sellers)
	products.PATCH("/:id", d.ProductHandler.PatchProduct, sellers)
	products.DELETE("/:id", d.ProductHandler.DeleteProduct, sellers)

	categories := e.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categories.POST("", d.CategoryHandler.CreateCategory, admins)
	categories.PATCH("/:id", d.CategoryHandler.PatchCategory, admins)
	categories.DELETE("/:id", d.CategoryHandler.DeleteCategory, admins)

	comments := e.Group("/comments")
	comments.GET("", d.CommentHandler.GetComments)
	comments.GET("/:id", d.CommentHandler.GetComment)
	comments.POST("", d.CommentHandler.CreateComment, authed)
	comments.PATCH("/:id", d.CommentHandler.PatchComment, authed)
	comments.DELETE("/:id", d.CommentHandler.DeleteComment, authed)

	orders := e.Group("/orders")
	orders.GET("", d.OrderHandler.GetOrders, admins)
	orders.GET("/my", d.OrderHandler.GetMyOrders, authed)
	orders.GET("/:id", d.OrderHandler.GetOrder, authed)
	orders.POST("", d.OrderHandler.CreateOrder, authed)
	orders.PATCH("/:id", d.OrderHandler.PatchOrder,
		d.Guard.Require(models.RoleAdmin, models.RoleSeller, models.RoleSuperAdmin))
	orders.DELETE("/:id", d.OrderHandler.DeleteOrder, authed)

	regions := e.Group("/regions")
	regions.GET("", d.RegionHandler.GetRegions)
	regions.GET("/:id", d.RegionHandler.GetRegion)
	regions.POST("", d.RegionHandler.CreateRegion, admins)
	regions.PATCH("/:id", d.RegionHandler.PatchRegion, admins)
	regions.DELETE("/:id", d.RegionHandler.DeleteRegion, admins)

	e.POST("/upload", d.UploadHandler.Upload, authed)
}

func (d *Deps) ready(c echo.Context) error {
	if d.DB == nil {
		return c.NoContent(http.StatusOK)
	}
	sqlDB, err := d.DB.DB()
	if err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return c.NoContent(http.StatusServiceUnavailable)
	}
	return c.NoContent(http.StatusOK)
}
