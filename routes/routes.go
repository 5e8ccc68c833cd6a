package routes

import (
	"time"

	"subercraftex/constants"
	bookingController "subercraftex/controllers/booking"
	serviceController "subercraftex/controllers/service"
	"subercraftex/logger"
	"subercraftex/middleware"
	"subercraftex/services/availability"
	bookingService "subercraftex/services/booking"
	"subercraftex/types"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	DB           *gorm.DB
	Bookings     *bookingService.Service
	Availability *availability.Calculator
	JWTSecret    string
	// RequestLog persists request logs when non-nil.
	RequestLog *logger.AsyncLogger
}

// NewApp builds the fiber app with the shared middleware stack.
func NewApp(frontendURL string) *fiber.App {
	app := fiber.New(fiber.Config{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     frontendURL,
		AllowMethods:     "GET,POST,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: frontendURL != "*",
	}))
	return app
}

func SetupRoutes(app *fiber.App, deps Dependencies) {
	bookings := bookingController.NewBookingController(deps.Bookings)
	slots := serviceController.NewAvailabilityController(deps.Availability)

	api := app.Group("/api")
	if deps.RequestLog != nil {
		api.Use(middleware.RequestLogger(deps.RequestLog))
	}

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api.Get("/health", func(c *fiber.Ctx) error {
		if deps.DB != nil {
			sqlDB, err := deps.DB.DB()
			if err != nil || sqlDB.PingContext(c.UserContext()) != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
					Message: "Database unreachable",
					Status:  fiber.StatusServiceUnavailable,
				})
			}
		}
		return c.JSON(types.ApiResponse{Message: "OK", Status: fiber.StatusOK})
	})
	api.Get("/services/:id/availability", slots.Show)

	/*=============================================================================
	| Booking Routes
	===============================================================================*/
	requireAuth := middleware.RequireAuthentication(deps.JWTSecret)
	adminOnly := middleware.RequireRoles(constants.RoleAdmin)

	bookingGroup := api.Group("/bookings")
	bookingGroup.Post("/", middleware.OptionalAuthentication(deps.JWTSecret), bookings.Store)
	bookingGroup.Get("/", requireAuth, bookings.Index)
	bookingGroup.Get("/:id", requireAuth, bookings.Show)
	bookingGroup.Patch("/:id", requireAuth, bookings.Update)
	bookingGroup.Delete("/:id", requireAuth, bookings.Destroy)
	bookingGroup.Post("/:id/materials/acquire", requireAuth, adminOnly, bookings.AcquireMaterials)

	// Quote flow for custom-production and collect-repair bookings
	bookingGroup.Post("/:id/quote", requireAuth, adminOnly, bookings.SendQuote)
	bookingGroup.Post("/:id/quote/respond", requireAuth, bookings.RespondQuote)
	bookingGroup.Post("/:id/quote/estimate", requireAuth, adminOnly, bookings.EstimateQuote)
}
