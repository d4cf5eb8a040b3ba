package container

import (
	"log/slog"

	"github.com/cloudinary/cloudinary-go/v2"
	stripeclient "github.com/stripe/stripe-go/v82/client"
	"github.com/tripta-app/server/internal/config"
	"github.com/tripta-app/server/internal/models"
	"github.com/tripta-app/server/internal/services"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container holds all application dependencies
type Container struct {
	Logger        *slog.Logger
	Config        *config.Config
	MongoDBClient *mongo.Client

	UserRepo models.UserRepo
	Gateway  services.PaymentGateway

	AuthService       *services.AuthService
	UserService       *services.UserService
	CompanyService    *services.CompanyService
	CategoryService   *services.CategoryService
	TripService       *services.TripService
	BookingService    *services.BookingService
	OrderService      *services.OrderService
	CustomTripService *services.CustomTripService
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	mongoDBClient *mongo.Client,
	cld *cloudinary.Cloudinary,
	stripeAPI *stripeclient.API,
	mailer services.Mailer,
) *Container {
	mdb := models.MongodbNewRepo(mongoDBClient, cfg.MongoDBName)

	users := models.NewUserRepo(mdb)
	companies := models.NewCompanyRepo(mdb)
	categories := models.NewCategoryRepo(mdb)
	trips := models.NewTripRepo(mdb)
	bookings := models.NewBookingRepo(mdb)
	events := models.NewPaymentEventRepo(mdb)
	customTrips := models.NewCustomTripRepo(mdb)

	gateway := services.NewStripeGateway(stripeAPI, cfg.StripeWebhookSecret,
		cfg.FrontendURL+"/checkout/success", cfg.FrontendURL+"/checkout/canceled")

	authService := services.NewAuthService(users, mailer, logger, cfg.JWTSecret, cfg.JWTExpiresIn)
	userService := services.NewUserService(users, companies, trips, logger)
	companyService := services.NewCompanyService(companies, users, mailer, cld, logger)
	categoryService := services.NewCategoryService(categories)
	tripService := services.NewTripService(trips, categories, cld, logger)
	bookingService := services.NewBookingService(bookings, trips, mailer, logger)
	orderService := services.NewOrderService(gateway, bookingService, trips, users, events, logger)
	customTripService := services.NewCustomTripService(customTrips, logger)

	return &Container{
		Logger:            logger,
		Config:            cfg,
		MongoDBClient:     mongoDBClient,
		UserRepo:          users,
		Gateway:           gateway,
		AuthService:       authService,
		UserService:       userService,
		CompanyService:    companyService,
		CategoryService:   categoryService,
		TripService:       tripService,
		BookingService:    bookingService,
		OrderService:      orderService,
		CustomTripService: customTripService,
	}
}
