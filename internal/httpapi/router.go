package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/linguameet/linguameet/internal/apperr"
	"github.com/linguameet/linguameet/internal/model"
	"github.com/linguameet/linguameet/internal/service"
	"github.com/linguameet/linguameet/internal/ws"
)

// Deps is everything the router needs wired in.
type Deps struct {
	Auth          *service.AuthService
	Users         *service.UserService
	Availability  *service.AvailabilityService
	Slots         *service.SlotService
	Bookings      *service.BookingService
	Notifications *service.NotificationService
	Chat          *service.ChatService
	Social        *service.SocialService
	Payments      *service.PaymentService
	Hub           *ws.Hub

	AllowedOrigins string
	AvatarDir      string
	Logger         *zap.Logger
}

// New builds the fiber app with all routes registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "linguameet",
		ErrorHandler: errorHandler(d.Logger),
	})

	app.Use(recover.New())
	app.Use(requestLogger(d.Logger))
	if d.AllowedOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: d.AllowedOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		}))
	} else {
		app.Use(cors.New())
	}

	app.Static("/avatars", d.AvatarDir)

	authH := &authHandler{auth: d.Auth}
	userH := &userHandler{users: d.Users, social: d.Social}
	availH := &availabilityHandler{availability: d.Availability}
	slotH := &slotHandler{slots: d.Slots}
	bookingH := &bookingHandler{bookings: d.Bookings}
	notifH := &notificationHandler{notifications: d.Notifications}
	chatH := &chatHandler{chat: d.Chat, hub: d.Hub, logger: d.Logger}
	socialH := &socialHandler{social: d.Social}
	paymentH := &paymentHandler{payments: d.Payments}

	authed := requireAuth(d.Auth)
	professorOnly := requireRole(model.RoleProfessor)

	api := app.Group("/api")

	// auth
	api.Post("/auth/signup", authH.signUp)
	api.Post("/auth/signin", authH.signIn)
	api.Get("/auth/me", authed, authH.me)

	// users and profiles
	api.Get("/users/search", userH.search)
	api.Get("/users/:id", optionalAuth(d.Auth), userH.getProfile)
	api.Patch("/users/me", authed, userH.updateProfile)
	api.Put("/users/me/lists/:field", authed, userH.replaceList)
	api.Post("/users/me/avatar", authed, userH.uploadAvatar)

	// availability
	api.Get("/professors/:id/availability", availH.listWeeklyRules)
	api.Post("/availability/weekly", authed, professorOnly, availH.addWeeklyRule)
	api.Put("/availability/weekly", authed, professorOnly, availH.replaceWeeklyRules)
	api.Delete("/availability/weekly/:id", authed, professorOnly, availH.removeWeeklyRule)
	api.Get("/professors/:id/windows", availH.listWindows)
	api.Post("/availability/windows", authed, professorOnly, availH.addWindow)
	api.Delete("/availability/windows/:id", authed, professorOnly, availH.removeWindow)

	// slots
	api.Get("/slots", slotH.list)

	// bookings
	api.Post("/bookings", authed, bookingH.create)
	api.Get("/bookings", authed, bookingH.list)
	api.Get("/bookings/:id", authed, bookingH.get)
	api.Patch("/bookings/:id/status", authed, bookingH.setStatus)

	// notifications
	api.Get("/notifications", authed, notifH.list)
	api.Patch("/notifications/:id/read", authed, notifH.markRead)

	// chat
	api.Get("/bookings/:id/chat-room", authed, chatH.roomForBooking)
	api.Get("/chat-rooms/:id/messages", authed, chatH.listMessages)
	api.Post("/chat-rooms/:id/messages", authed, chatH.sendMessage)
	api.Patch("/messages/:id/read", authed, chatH.markMessageRead)

	// social
	api.Post("/posts", authed, socialH.createPost)
	api.Get("/feed", authed, socialH.feed)
	api.Get("/users/:id/posts", socialH.postsByUser)
	api.Post("/users/:id/follow", authed, socialH.follow)
	api.Delete("/users/:id/follow", authed, socialH.unfollow)
	api.Get("/users/:id/following", socialH.following)
	api.Post("/professors/:id/reviews", authed, socialH.addReview)
	api.Get("/professors/:id/reviews", socialH.listReviews)
	api.Get("/progress", authed, socialH.getProgress)
	api.Post("/progress/lessons", authed, socialH.recordLesson)

	// payments
	api.Post("/payments/onboarding", authed, professorOnly, paymentH.createOnboardingLink)
	api.Post("/payments/webhook", paymentH.webhook)

	// websocket chat delivery
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}
		return c.Next()
	})
	app.Get("/ws/chat-rooms/:id", requireAuth(d.Auth), chatH.subscribe())

	return app
}

// errorHandler is the single translation point from the error taxonomy to
// HTTP statuses. Internal errors are logged with their cause and returned
// as an opaque 500.
func errorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
		}

		status := fiber.StatusInternalServerError
		switch apperr.KindOf(err) {
		case apperr.KindValidation:
			status = fiber.StatusBadRequest
		case apperr.KindUnauthorized:
			status = fiber.StatusUnauthorized
		case apperr.KindForbidden:
			status = fiber.StatusForbidden
		case apperr.KindNotFound:
			status = fiber.StatusNotFound
		case apperr.KindConflict:
			status = fiber.StatusConflict
		}

		if status == fiber.StatusInternalServerError {
			logger.Error("Unhandled error",
				zap.String("path", c.Path()),
				zap.Error(err),
			)
			return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
		}

		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}
}
