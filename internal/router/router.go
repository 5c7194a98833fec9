package router

import (
	"github.com/gin-gonic/gin"
	"github.com/hyeonpark/dongnemarket-backend/config"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/controller"
	"github.com/hyeonpark/dongnemarket-backend/internal/app/model"
	"github.com/hyeonpark/dongnemarket-backend/internal/middleware"
)

type Router struct {
	authController     *controller.AuthController
	shopController     *controller.ShopController
	productController  *controller.ProductController
	reviewController   *controller.ReviewController
	categoryController *controller.CategoryController
	uploadController   *controller.UploadController
	authMiddleware     *middleware.AuthMiddleware
	config             *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	shopController *controller.ShopController,
	productController *controller.ProductController,
	reviewController *controller.ReviewController,
	categoryController *controller.CategoryController,
	uploadController *controller.UploadController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:     authController,
		shopController:     shopController,
		productController:  productController,
		reviewController:   reviewController,
		categoryController: categoryController,
		uploadController:   uploadController,
		authMiddleware:     authMiddleware,
		config:             cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "DONGNEMARKET API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh-token", r.authController.RefreshToken)
			auth.POST("/logout", r.authMiddleware.Authenticate(), r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
			auth.PUT("/me", r.authMiddleware.Authenticate(), r.authController.UpdateProfile)
		}

		shops := v1.Group("/shops")
		{
			shops.GET("", r.shopController.ListShops)
			shops.GET("/search", r.shopController.SearchShops)
			shops.GET("/user/my-shop",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeShopOwner, model.UserTypeAdmin),
				r.shopController.GetMyShop,
			)
			shops.GET("/:id", r.shopController.GetShop)

			shops.POST("", r.authMiddleware.Authenticate(), r.shopController.CreateShop)
			shops.PUT("/:id", r.authMiddleware.Authenticate(), r.shopController.UpdateShop)
			shops.DELETE("/:id", r.authMiddleware.Authenticate(), r.shopController.DeleteShop)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.ListProducts)
			products.GET("/featured", r.productController.ListFeaturedProducts)
			products.GET("/search", r.productController.SearchProducts)
			products.GET("/shop/:shopId", r.productController.ListShopProducts)
			products.GET("/user/my-products",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeShopOwner, model.UserTypeAdmin),
				r.productController.ListMyProducts,
			)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeShopOwner, model.UserTypeAdmin),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeShopOwner, model.UserTypeAdmin),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeShopOwner, model.UserTypeAdmin),
				r.productController.DeleteProduct,
			)
		}

		reviews := v1.Group("/reviews")
		{
			reviews.GET("/item/:id", r.reviewController.GetReview)
			reviews.GET("/user/my-reviews", r.authMiddleware.Authenticate(), r.reviewController.ListMyReviews)
			reviews.GET("/summary/:targetType/:targetId", r.reviewController.GetTargetRatingSummary)
			reviews.GET("/:targetType/:targetId", r.reviewController.ListTargetReviews)

			// 반응 카운터는 인증 없이 증가할 수 있다
			reviews.PATCH("/:id/helpful", r.reviewController.MarkHelpful)
			reviews.PATCH("/:id/unhelpful", r.reviewController.MarkUnhelpful)

			reviews.POST("", r.authMiddleware.Authenticate(), r.reviewController.CreateReview)
			reviews.PUT("/:id", r.authMiddleware.Authenticate(), r.reviewController.UpdateReview)
			reviews.DELETE("/:id", r.authMiddleware.Authenticate(), r.reviewController.DeleteReview)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", r.categoryController.ListCategories)
			categories.GET("/slug/:slug", r.categoryController.GetCategoryBySlug)
			categories.GET("/:id", r.categoryController.GetCategory)

			categories.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeAdmin),
				r.categoryController.CreateCategory,
			)
			categories.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeAdmin),
				r.categoryController.UpdateCategory,
			)
			categories.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireUserType(model.UserTypeAdmin),
				r.categoryController.DeleteCategory,
			)
		}

		upload := v1.Group("/upload")
		{
			upload.POST("/presign", r.authMiddleware.Authenticate(), r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
