package main

import (
	"Fridge-Management-Backend/cmd/config"
	migration "Fridge-Management-Backend/cmd/database/migrate"
	"Fridge-Management-Backend/internal/utils"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	utils.LoadConfig()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, lockSweeper, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	lockSweeper.Start()
	defer lockSweeper.Stop()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		lockSweeper.Stop()
		_ = app.Shutdown()
	}()

	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
