package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/mroshb/liveroom/internal/models"
	"github.com/mroshb/liveroom/internal/reports"
	"github.com/mroshb/liveroom/internal/repositories"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	out := flag.String("out", "agency_transfers.xlsx", "output workbook path")
	limit := flag.Int("limit", 5000, "maximum rows to export")
	agentID := flag.Uint("agent", 0, "filter by agent id (0 = all)")
	flag.Parse()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	repo := repositories.NewAgencyRepository(db)

	var logs []models.AgencyTransferLog
	if *agentID > 0 {
		logs, err = repo.ListLogsByAgent(context.Background(), uint(*agentID), *limit)
	} else {
		logs, err = repo.ListLogs(context.Background(), *limit)
	}
	if err != nil {
		log.Fatal("failed to read transfer logs:", err)
	}

	f, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := reports.WriteAgencyLogXLSX(f, logs); err != nil {
		log.Fatal("failed to write workbook:", err)
	}

	fmt.Printf("Exported %d transfers to %s\n", len(logs), *out)
}
