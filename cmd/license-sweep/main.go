package main

import (
	"log"

	intconfig "github.com/quirkbeesdevtech/amberisle-be/internal/config"
	intdb "github.com/quirkbeesdevtech/amberisle-be/internal/db"
	"github.com/quirkbeesdevtech/amberisle-be/internal/services"
	"github.com/quirkbeesdevtech/amberisle-be/internal/utils"
)

// Runs the driver license reconciliation once and reports the result. Meant
// for cron; the same sweep is reachable over HTTP for the admin console.
func main() {
	env := intconfig.LoadEnv()
	conn := intconfig.ConnectDB(env)
	defer intconfig.CloseDB()

	if err := intdb.EnsureSchema(conn); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	svc := services.DriverService{RequestID: "license-sweep"}

	deactivated, restored, err := svc.BulkReconcile()
	if err != nil {
		log.Fatalf("sweep failed: %v", err)
	}
	log.Printf("sweep done: deactivated=%d restored=%d", deactivated, restored)

	expiring, err := svc.ExpiringLicenses()
	if err != nil {
		log.Fatalf("failed to list expiring licenses: %v", err)
	}
	for _, d := range expiring {
		log.Printf("license expiring soon: %s (%s) expires %s",
			d.FullName, d.LicenseNumber, utils.FormatDate(d.LicenseExpiry))
	}

	expired, err := svc.Expired()
	if err != nil {
		log.Fatalf("failed to list expired licenses: %v", err)
	}
	for _, d := range expired {
		log.Printf("license expired: %s (%s) expired %s",
			d.FullName, d.LicenseNumber, utils.FormatDate(d.LicenseExpiry))
	}
}
