package config

import (
	"Fridge-Management-Backend/internal/api/handlers"
	"Fridge-Management-Backend/internal/api/routes"
	"Fridge-Management-Backend/internal/middleware"
	"Fridge-Management-Backend/internal/utils"
	"Fridge-Management-Backend/internal/utils/mailing"
	"Fridge-Management-Backend/internal/utils/storage"
	"Fridge-Management-Backend/pkg/allocation"
	"Fridge-Management-Backend/pkg/bundle"
	"Fridge-Management-Backend/pkg/fridge"
	"Fridge-Management-Backend/pkg/inspection"
	"Fridge-Management-Backend/pkg/jwt"
	"Fridge-Management-Backend/pkg/label"
	"Fridge-Management-Backend/pkg/notification"
	"Fridge-Management-Backend/pkg/user"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB) (*fiber.App, *fridge.LockSweeper, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Asia/Jakarta",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3 := storage.NewAwsS3()
	mailer := mailing.NewSMTPMailer()

	// Repository
	userRepository := user.NewUserRepository(db)
	fridgeRepository := fridge.NewFridgeRepository(db)
	allocationRepository := allocation.NewAllocationRepository(db)
	labelRepository := label.NewLabelRepository(db)
	bundleRepository := bundle.NewBundleRepository(db)
	inspectionRepository := inspection.NewInspectionRepository(db)
	notificationRepository := notification.NewNotificationRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	fridgeService := fridge.NewFridgeService(fridgeRepository)
	allocationService := allocation.NewAllocationService(db, allocationRepository, fridgeRepository)
	lockGuard := fridge.NewLockGuard(fridgeRepository)
	labelAllocator := label.NewLabelAllocator(labelRepository)
	bundleService := bundle.NewBundleService(db, bundleRepository, fridgeRepository, lockGuard, labelAllocator)
	notificationGateway := notification.NewNotificationGateway(notificationRepository, mailer)
	preferenceGateway := notification.NewPreferenceGateway(notificationRepository)
	notificationService := notification.NewNotificationService(notificationRepository)
	inspectionService := inspection.NewInspectionService(
		db,
		inspectionRepository,
		bundleRepository,
		fridgeRepository,
		bundleService,
		notificationGateway,
		preferenceGateway,
		s3,
	)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	fridgeHandler := handlers.NewFridgeHandler(fridgeService, validator)
	allocationHandler := handlers.NewAllocationHandler(allocationService, validator)
	bundleHandler := handlers.NewBundleHandler(bundleService, validator)
	inspectionHandler := handlers.NewInspectionHandler(inspectionService, validator)
	notificationHandler := handlers.NewNotificationHandler(notificationService, validator)

	// background sweep for expired compartment locks
	sweepInterval, err := time.ParseDuration(utils.GetConfig("LOCK_SWEEP_INTERVAL"))
	if err != nil {
		sweepInterval = 0
	}
	lockSweeper := fridge.NewLockSweeper(fridgeRepository, sweepInterval)

	// routes
	routesConfig := routes.Config{
		App:                 app,
		UserHandler:         userHandler,
		FridgeHandler:       fridgeHandler,
		AllocationHandler:   allocationHandler,
		BundleHandler:       bundleHandler,
		InspectionHandler:   inspectionHandler,
		NotificationHandler: notificationHandler,
		Middleware:          middlewares,
		JWTService:          jwtService,
	}
	routesConfig.Setup()
	return app, lockSweeper, nil
}
