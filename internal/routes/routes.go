package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/slotwise/scheduling-api/internal/config"
	"github.com/slotwise/scheduling-api/internal/handlers"
	infraRepo "github.com/slotwise/scheduling-api/internal/infra/repository"
	"github.com/slotwise/scheduling-api/internal/middleware"
	"github.com/slotwise/scheduling-api/internal/notification"
	ucBooking "github.com/slotwise/scheduling-api/internal/usecase/booking"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	notify *notification.Dispatcher,
	cfg *config.Config,
	log zerolog.Logger,
) {

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware())

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	bookingRepo := infraRepo.NewBookingGormRepository(db)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	slotsUC := ucBooking.NewGetAvailableSlots(bookingRepo)

	createBookingUC := ucBooking.NewCreateBooking(bookingRepo, notify)

	confirmBookingUC := ucBooking.NewConfirmBooking(bookingRepo)

	cancelBookingUC := ucBooking.NewCancelBooking(bookingRepo, notify)

	completeBookingUC := ucBooking.NewCompleteBooking(bookingRepo)

	noShowUC := ucBooking.NewMarkNoShow(bookingRepo)

	listBookingsUC := ucBooking.NewListBookingsByRange(bookingRepo)

	lookupByTokenUC := ucBooking.NewLookupBookingByToken(bookingRepo)

	cancelByTokenUC := ucBooking.NewCancelBookingByToken(bookingRepo, notify)

	rescheduleByTokenUC := ucBooking.NewRescheduleBookingByToken(
		bookingRepo,
		createBookingUC,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	scheduleHandler := handlers.NewScheduleHandler(db)
	eventTypeHandler := handlers.NewEventTypeHandler(db)

	bookingHandler := handlers.NewBookingHandler(
		confirmBookingUC,
		cancelBookingUC,
		completeBookingUC,
		noShowUC,
		listBookingsUC,
	)

	publicHandler := handlers.NewPublicHandler(
		db,
		bookingRepo,
		slotsUC,
		createBookingUC,
		lookupByTokenUC,
		cancelByTokenUC,
		rescheduleByTokenUC,
	)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC API (invitee side)
		// ------------------------------
		publicAPI := api.Group("/public")
		publicAPI.Use(middleware.RateLimitMiddleware(
			rdb,
			cfg.PublicRateLimit,
			cfg.PublicRateWindow,
			log,
		))
		{
			publicAPI.GET("/hosts/:slug", publicHandler.HostPage)
			publicAPI.GET("/hosts/:slug/event-types/:event_slug", publicHandler.EventType)
			publicAPI.GET("/event-types/:id/slots", publicHandler.Slots)

			publicAPI.POST("/bookings", publicHandler.CreateBooking)
			publicAPI.GET("/bookings/:uid", publicHandler.Lookup)
			publicAPI.POST("/bookings/:uid/cancel", publicHandler.Cancel)
			publicAPI.POST("/bookings/:uid/reschedule", publicHandler.Reschedule)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE API (host side)
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me/schedules", scheduleHandler.List)
			secured.POST("/me/schedules", scheduleHandler.Create)
			secured.PATCH("/me/schedules/:id", scheduleHandler.Update)
			secured.DELETE("/me/schedules/:id", scheduleHandler.Delete)
			secured.PUT("/me/schedules/:id/rules", scheduleHandler.PutRules)

			secured.GET("/me/event-types", eventTypeHandler.List)
			secured.POST("/me/event-types", eventTypeHandler.Create)
			secured.PATCH("/me/event-types/:id", eventTypeHandler.Update)

			// ------------------------------
			// BOOKINGS
			// ------------------------------
			secured.GET("/me/bookings", bookingHandler.List)
			secured.PATCH("/me/bookings/:id/confirm", bookingHandler.Confirm)
			secured.PATCH("/me/bookings/:id/cancel", bookingHandler.Cancel)
			secured.PATCH("/me/bookings/:id/complete", bookingHandler.Complete)
			secured.PATCH("/me/bookings/:id/no-show", bookingHandler.NoShow)
		}
	}
}
