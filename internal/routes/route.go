package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/tripta-app/server/internal/container"
	"github.com/tripta-app/server/internal/handlers"
	"github.com/tripta-app/server/internal/middleware"
	"github.com/tripta-app/server/internal/models"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(c *container.Container) *gin.Engine {
	if c.Config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{c.Config.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(c.Logger))
	r.Use(middleware.ErrorHandler(c.Logger))
	r.Use(gin.Recovery())

	auth := middleware.AuthMiddleware(c.UserRepo, c.Config.JWTSecret, c.Logger)
	adminOnly := middleware.RequireRoles(models.RoleSuperAdmin)
	anyAdmin := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleCompanyAdmin)
	staff := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleCompanyAdmin, models.RoleCompanyUser)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(200, gin.H{
				"status":  "OK",
				"service": "tripta-api",
			})
		})

		// public routes
		v1.POST("/auth/signup", handlers.Signup(c.AuthService))
		v1.POST("/auth/login", handlers.Login(c.AuthService))
		v1.POST("/auth/logout", handlers.Logout())
		v1.POST("/auth/forgot-password", handlers.ForgotPassword(c.AuthService))
		v1.POST("/auth/verify-reset-code", handlers.VerifyResetCode(c.AuthService))
		v1.POST("/auth/reset-password", handlers.ResetPassword(c.AuthService))

		// the catalog is browsable without an account
		v1.GET("/categories", handlers.ListCategories(c.CategoryService))
		v1.GET("/categories/:id", handlers.GetCategory(c.CategoryService))
		v1.GET("/trips", handlers.ListTrips(c.TripService))
		v1.GET("/trips/search", handlers.SearchTrips(c.TripService))
		v1.GET("/trips/:id", handlers.GetTrip(c.TripService))
		v1.GET("/trips/:id/check-availability", handlers.CheckTripAvailability(c.TripService))

		// payment gateway callback authenticates with its signature header
		v1.POST("/order/webhook", handlers.PaymentWebhook(c.Gateway, c.OrderService))
	}

	protected := v1.Group("/")
	protected.Use(auth)

	me := protected.Group("/me")
	{
		me.GET("", handlers.Me())
		me.PATCH("", handlers.UpdateMe(c.UserService))
		me.PATCH("/password", handlers.ChangeMyPassword(c.UserService, c.AuthService))
		me.DELETE("", handlers.DeactivateMe(c.UserService))
		me.GET("/wishlist", handlers.MyWishlist(c.UserService))
		me.POST("/wishlist/:tripId", handlers.AddToWishlist(c.UserService))
		me.DELETE("/wishlist/:tripId", handlers.RemoveFromWishlist(c.UserService))
	}

	userRoutes := protected.Group("/users", adminOnly)
	{
		userRoutes.GET("", handlers.ListUsers(c.UserService))
		userRoutes.POST("", handlers.CreateUser(c.UserService))
		userRoutes.GET("/:id", handlers.GetUser(c.UserService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(c.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(c.UserService))
	}

	categoryRoutes := protected.Group("/categories", adminOnly)
	{
		categoryRoutes.POST("", handlers.CreateCategory(c.CategoryService))
		categoryRoutes.PATCH("/:id", handlers.UpdateCategory(c.CategoryService))
		categoryRoutes.DELETE("/:id", handlers.DeleteCategory(c.CategoryService))
	}

	tripRoutes := protected.Group("/trips")
	{
		tripRoutes.POST("", anyAdmin, handlers.CreateTrip(c.TripService))
		tripRoutes.PATCH("/:id", staff, handlers.UpdateTrip(c.TripService))
		tripRoutes.DELETE("/:id", anyAdmin, handlers.DeleteTrip(c.TripService))
		tripRoutes.POST("/:id/reviews", handlers.AddTripReview(c.TripService))
		tripRoutes.POST("/:id/images", staff, handlers.UploadTripImages(c.TripService))
	}

	bookingRoutes := protected.Group("/bookings")
	{
		bookingRoutes.POST("", handlers.CreateBooking(c.BookingService))
		bookingRoutes.GET("", handlers.ListBookings(c.BookingService))
		bookingRoutes.GET("/:id", handlers.GetBooking(c.BookingService))
		bookingRoutes.PATCH("/:id/confirm", anyAdmin, handlers.ConfirmBooking(c.BookingService))
		bookingRoutes.PATCH("/:id/cancel", handlers.CancelBooking(c.BookingService))
	}

	companyRoutes := protected.Group("/companies")
	{
		companyRoutes.GET("", staff, handlers.ListCompanies(c.CompanyService))
		companyRoutes.POST("", adminOnly, handlers.CreateCompany(c.CompanyService))
		companyRoutes.GET("/:id", handlers.GetCompany(c.CompanyService))
		companyRoutes.PATCH("/:id", anyAdmin, handlers.UpdateCompany(c.CompanyService))
		companyRoutes.DELETE("/:id", adminOnly, handlers.DeleteCompany(c.CompanyService))
		companyRoutes.POST("/:id/logo", anyAdmin, handlers.UploadCompanyLogo(c.CompanyService))
		companyRoutes.GET("/:id/users", anyAdmin, handlers.ListSubAccounts(c.CompanyService))
		companyRoutes.POST("/:id/users", anyAdmin, handlers.InviteSubAccount(c.CompanyService))
		companyRoutes.PATCH("/:id/users/:userId", anyAdmin, handlers.UpdateSubAccountRole(c.CompanyService))
		companyRoutes.DELETE("/:id/users/:userId", anyAdmin, handlers.DeleteSubAccount(c.CompanyService))
	}

	customTripRoutes := protected.Group("/custom-trips")
	{
		customTripRoutes.POST("", handlers.CreateCustomTrip(c.CustomTripService))
		customTripRoutes.GET("", handlers.ListMyCustomTrips(c.CustomTripService))
	}

	protected.POST("/order/checkout-session", handlers.CreateCheckoutSession(c.OrderService))

	return r
}
