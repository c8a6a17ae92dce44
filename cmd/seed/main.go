package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/daeldrn/fdashboardtemplate/internal/config"
	"github.com/daeldrn/fdashboardtemplate/internal/database"
	"github.com/daeldrn/fdashboardtemplate/internal/models"
	"github.com/daeldrn/fdashboardtemplate/internal/util"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var sampleCards = []models.FuelCard{
	{Number: "9200-0001", CardType: "Crédito", FuelType: "Gasolina", FuelPrice: decimal.RequireFromString("1.50"), Currency: "CUP"},
	{Number: "9200-0002", CardType: "Débito", FuelType: "Diésel", FuelPrice: decimal.RequireFromString("1.25"), Currency: "CUP"},
	{Number: "9200-0003", CardType: "Prepago", FuelType: "Gasolina", FuelPrice: decimal.RequireFromString("1.10"), Currency: "USD", IsReservoir: true},
}

var sampleVehicles = []models.Vehicle{
	{Plate: "P-100200", Brand: "Toyota", Model: "Hilux"},
	{Plate: "P-100201", Brand: "Hyundai", Model: "H100"},
	{Plate: "B-300400", Brand: "Yutong", Model: "ZK6122"},
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	operator := flag.String("operator", "", "mint a bearer token for this operator (requires jwt.secret)")
	name := flag.String("name", "", "display name stored in the token")
	genKey := flag.Bool("gen-key", false, "print a random value usable as jwt.secret or security.encryption_key")
	skipData := flag.Bool("skip-data", false, "do not insert sample cards and vehicles")
	flag.Parse()

	if *genKey {
		key, err := util.RandomString(32)
		if err != nil {
			fmt.Printf("Error generating key: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(key)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	if !*skipData {
		if err := seed(cfg.Database); err != nil {
			fmt.Printf("Error seeding database: %v\n", err)
			os.Exit(1)
		}
	}

	if *operator != "" {
		if cfg.JWT.Secret == "" {
			fmt.Println("jwt.secret is not configured, the API runs without a token guard")
			os.Exit(1)
		}
		ttl := time.Duration(cfg.JWT.ExpireHours) * time.Hour
		token, err := util.GenerateToken(cfg.JWT.Secret, cfg.JWT.Issuer, *operator, *name, ttl)
		if err != nil {
			fmt.Printf("Error generating token: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Token for %s (valid %s):\n%s\n", *operator, ttl, token)
	}
}

func seed(dbCfg config.DatabaseConfig) error {
	db, err := database.Init(dbCfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		for _, c := range sampleCards {
			card := c
			if err := tx.Where(models.FuelCard{Number: card.Number}).FirstOrCreate(&card).Error; err != nil {
				return fmt.Errorf("card %s: %w", card.Number, err)
			}
			fmt.Printf("Fuel card %d: %s (%s, %s %s/L)\n", card.ID, card.Number, card.CardType, card.FuelPrice.StringFixed(2), card.Currency)
		}
		for _, v := range sampleVehicles {
			vehicle := v
			if err := tx.Where(models.Vehicle{Plate: vehicle.Plate}).FirstOrCreate(&vehicle).Error; err != nil {
				return fmt.Errorf("vehicle %s: %w", vehicle.Plate, err)
			}
			fmt.Printf("Vehicle %d: %s %s %s\n", vehicle.ID, vehicle.Plate, vehicle.Brand, vehicle.Model)
		}
		return nil
	})
}
