package routes

import (
	"Fridge-Management-Backend/internal/api/handlers"
	"Fridge-Management-Backend/internal/middleware"
	"Fridge-Management-Backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                 *fiber.App
	UserHandler         handlers.UserHandler
	FridgeHandler       handlers.FridgeHandler
	AllocationHandler   handlers.AllocationHandler
	BundleHandler       handlers.BundleHandler
	InspectionHandler   handlers.InspectionHandler
	NotificationHandler handlers.NotificationHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Fridges()
	c.Allocations()
	c.Bundles()
	c.Inspections()
	c.Notifications()
	c.GuestRoute()
}

func (c *Config) User() {
	user := c.App.Group("/api/v1/users")
	// user routes
	{
		user.Post("/register", c.UserHandler.Register)
		user.Post("/login", c.UserHandler.Login)
		user.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Fridges() {
	fridges := c.App.Group("/api/v1/fridges", c.Middleware.AuthMiddleware(c.JWTService))
	fridges.Post("", c.FridgeHandler.CreateFridgeUnit)
	fridges.Get("", c.FridgeHandler.GetFridgeUnits)
	fridges.Post("/compartments/:id/lock", c.FridgeHandler.LockCompartment)
	fridges.Post("/compartments/:id/unlock", c.FridgeHandler.UnlockCompartment)

	rooms := c.App.Group("/api/v1/rooms", c.Middleware.AuthMiddleware(c.JWTService))
	rooms.Post("", c.FridgeHandler.CreateRoom)
	rooms.Get("", c.FridgeHandler.GetRooms)
}

func (c *Config) Allocations() {
	allocations := c.App.Group("/api/v1/floors/:floor/allocations", c.Middleware.AuthMiddleware(c.JWTService))
	allocations.Get("/preview", c.AllocationHandler.Preview)
	allocations.Post("/apply", c.AllocationHandler.Apply)
}

func (c *Config) Bundles() {
	bundles := c.App.Group("/api/v1/bundles", c.Middleware.AuthMiddleware(c.JWTService))
	bundles.Post("", c.BundleHandler.CreateBundle)
	bundles.Get("/mine", c.BundleHandler.GetMyBundles)
	bundles.Get("/:id", c.BundleHandler.GetBundle)
	bundles.Delete("/:id", c.BundleHandler.DeleteBundle)
	bundles.Post("/:id/items", c.BundleHandler.AddItem)
	bundles.Patch("/items/:itemId", c.BundleHandler.UpdateItem)
	bundles.Delete("/items/:itemId", c.BundleHandler.RemoveItem)
}

func (c *Config) Inspections() {
	inspections := c.App.Group("/api/v1/inspections", c.Middleware.AuthMiddleware(c.JWTService))
	inspections.Post("", c.InspectionHandler.Start)
	inspections.Post("/:id/actions", c.InspectionHandler.RecordActions)
	inspections.Post("/:id/submit", c.InspectionHandler.Submit)
	inspections.Post("/:id/cancel", c.InspectionHandler.Cancel)
	inspections.Post("/:id/evidence", c.InspectionHandler.UploadEvidence)
}

func (c *Config) Notifications() {
	notifications := c.App.Group("/api/v1/notifications", c.Middleware.AuthMiddleware(c.JWTService))
	notifications.Get("", c.NotificationHandler.GetNotifications)
	notifications.Patch("/:id/read", c.NotificationHandler.MarkRead)
	notifications.Put("/preferences", c.NotificationHandler.UpdatePreference)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
