package routes

import (
	"shopez/controllers"
	"shopez/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Auth       *controllers.AuthController
	Cart       *controllers.CartController
	Orders     *controllers.OrderController
	Products   *controllers.ProductController
	Categories *controllers.CategoryController
	Admin      *controllers.AdminController
	Health     *controllers.HealthController
}

func RegisterRoutes(r *gin.Engine, h Handlers, authn middleware.Authenticator) {
	r.GET("/health", h.Health.Health)

	r.POST("/register", h.Auth.Register)
	r.POST("/login", h.Auth.Login)

	r.GET("/fetch-products", h.Products.FetchProducts)
	r.GET("/fetch-product-details/:id", h.Products.FetchProductDetails)
	r.GET("/search-products", h.Products.SearchProducts)
	r.GET("/fetch-featured-products", h.Products.FetchFeaturedProducts)
	r.GET("/fetch-products-by-category/:category", h.Products.FetchProductsByCategory)
	r.GET("/fetch-category-details/:category", h.Products.FetchCategoryDetails)
	r.GET("/fetch-categories", h.Categories.FetchCategories)
	r.GET("/fetch-categories-with-counts", h.Categories.FetchCategoriesWithCounts)
	r.GET("/fetch-banner", h.Admin.FetchBanner)

	protected := r.Group("/")
	protected.Use(middleware.AuthMiddleware(authn))
	{
		protected.POST("/logout", h.Auth.Logout)

		protected.POST("/add-to-cart", h.Cart.AddToCart)
		protected.PUT("/increase-cart-quantity", h.Cart.IncreaseQuantity)
		protected.PUT("/decrease-cart-quantity", h.Cart.DecreaseQuantity)
		protected.DELETE("/remove-cart-item/:id", h.Cart.RemoveItem)
		protected.GET("/fetch-cart/:userId", h.Cart.FetchCart)
		protected.DELETE("/clear-cart/:userId", h.Cart.ClearCart)
		protected.GET("/cart-summary/:userId", h.Cart.Summary)

		protected.POST("/place-cart-order", h.Orders.PlaceCartOrder)
		protected.POST("/buy-product", h.Orders.BuyProduct)
		protected.GET("/fetch-orders/:userId", h.Orders.FetchOrders)
		protected.GET("/fetch-order/:id", h.Orders.FetchOrder)
		protected.PUT("/cancel-order/:id", h.Orders.CancelOrder)

		admin := protected.Group("/")
		admin.Use(middleware.AdminMiddleware())
		{
			admin.GET("/fetch-all-orders", h.Orders.FetchAllOrders)
			admin.PUT("/update-order-status/:id", h.Orders.UpdateOrderStatus)

			admin.POST("/add-new-product", h.Products.AddNewProduct)
			admin.PUT("/update-product/:id", h.Products.UpdateProduct)
			admin.DELETE("/delete-product/:id", h.Products.DeleteProduct)

			admin.POST("/add-category", h.Categories.AddCategory)
			admin.PUT("/rename-category/:id", h.Categories.RenameCategory)
			admin.DELETE("/delete-category/:id", h.Categories.DeleteCategory)

			admin.POST("/update-banner", h.Admin.UpdateBanner)
			admin.GET("/fetch-users", h.Admin.FetchUsers)
			admin.GET("/admin-stats", h.Admin.Stats)
		}
	}
}
