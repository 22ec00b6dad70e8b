package migration

import (
	"Fridge-Management-Backend/entities"
	"fmt"
	"log"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";")

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		log.Fatalf("Error migrating user database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Room{}); err != nil {
		log.Fatalf("Error migrating room database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.FridgeUnit{}, &entities.FridgeCompartment{}); err != nil {
		log.Fatalf("Error migrating fridge database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.CompartmentRoomAccess{}); err != nil {
		log.Fatalf("Error migrating compartment access database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.BundleLabelSequence{}); err != nil {
		log.Fatalf("Error migrating label sequence database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.FridgeBundle{}, &entities.FridgeItem{}); err != nil {
		log.Fatalf("Error migrating bundle database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.InspectionSession{}, &entities.InspectionAction{}); err != nil {
		log.Fatalf("Error migrating inspection database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.Notification{}, &entities.NotificationPreference{}); err != nil {
		log.Fatalf("Error migrating notification database: %v", err)
		return err
	}

	// One label number at a time per compartment; soft-deleted bundles free
	// theirs for reuse.
	db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_active_compartment_label
		ON fridge_bundles (compartment_id, label_number)
		WHERE status = 'ACTIVE'`)

	fmt.Println("Database migration complete")
	return nil
}
