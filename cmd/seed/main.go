package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/tharanics/kiranakart-backend/pkg/config"
	"github.com/tharanics/kiranakart-backend/pkg/db"
	"github.com/tharanics/kiranakart-backend/pkg/db/models"
	"github.com/tharanics/kiranakart-backend/pkg/enums"
	"github.com/tharanics/kiranakart-backend/pkg/logger"
	"github.com/tharanics/kiranakart-backend/pkg/security"
)

type seedUser struct {
	email string
	name  string
	phone string
	role  enums.UserRole
}

var seedUsers = []seedUser{
	{email: "admin@kiranakart.in", name: "Ops Admin", phone: "+919800000001", role: enums.UserRoleAdmin},
	{email: "ravi@kiranakart.in", name: "Ravi Kumar", phone: "+919800000002", role: enums.UserRoleDelivery},
	{email: "sunita@kiranakart.in", name: "Sunita Devi", phone: "+919800000003", role: enums.UserRoleDelivery},
	{email: "arjun@kiranakart.in", name: "Arjun Shah", phone: "+919800000004", role: enums.UserRoleDelivery},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	password := flag.String("password", "changeme123", "password assigned to every seeded account")
	withOrders := flag.Bool("orders", true, "also create demo orders")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		fmt.Fprintln(os.Stderr, "refusing to seed a prod environment")
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	hash, err := security.HashPassword(*password, cfg.Password)
	if err != nil {
		logg.Error(ctx, "failed to hash seed password", err)
		os.Exit(1)
	}

	couriers := make([]uuid.UUID, 0, len(seedUsers))
	for _, su := range seedUsers {
		user, err := upsertUser(ctx, dbClient.DB(), su, hash)
		if err != nil {
			logg.Error(logg.WithField(ctx, "email", su.email), "failed to seed user", err)
			os.Exit(1)
		}
		if user.Role == enums.UserRoleDelivery {
			couriers = append(couriers, user.ID)
		}
		logg.Info(logg.WithFields(ctx, map[string]any{"email": su.email, "role": string(su.role)}), "seeded user")
	}

	if *withOrders {
		if err := seedOrders(ctx, dbClient.DB(), couriers); err != nil {
			logg.Error(ctx, "failed to seed orders", err)
			os.Exit(1)
		}
		logg.Info(ctx, "seeded demo orders")
	}
}

func upsertUser(ctx context.Context, conn *gorm.DB, su seedUser, hash string) (*models.User, error) {
	var existing models.User
	err := conn.WithContext(ctx).Where("email = ?", su.email).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	phone := su.phone
	user := models.User{
		ID:           uuid.New(),
		Email:        su.email,
		PasswordHash: hash,
		Name:         su.name,
		Phone:        &phone,
		Role:         su.role,
		IsActive:     true,
	}
	if err := conn.WithContext(ctx).Create(&user).Error; err != nil {
		// A parallel seed run may have created the row between the lookup
		// and the insert; fall back to the winner.
		if db.IsUniqueViolation(err, "") {
			if findErr := conn.WithContext(ctx).Where("email = ?", su.email).First(&existing).Error; findErr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}
	return &user, nil
}

func seedOrders(ctx context.Context, conn *gorm.DB, couriers []uuid.UUID) error {
	demo := []models.Order{
		{
			ID:            uuid.New(),
			CustomerName:  "Meera Nair",
			CustomerPhone: "+919900000001",
			Address:       "14 MG Road, Indiranagar, Bengaluru",
			TotalPaisa:    45900,
			Items: []models.OrderItem{
				{ID: uuid.New(), ProductName: "Toor Dal", Unit: "1kg pack", Quantity: 2, UnitPricePaisa: 17500},
				{ID: uuid.New(), ProductName: "Basmati Rice", Unit: "5kg bag", Quantity: 1, UnitPricePaisa: 10900},
			},
		},
		{
			ID:            uuid.New(),
			CustomerName:  "Farhan Ali",
			CustomerPhone: "+919900000002",
			Address:       "3rd Cross, Koramangala, Bengaluru",
			TotalPaisa:    23800,
			Items: []models.OrderItem{
				{ID: uuid.New(), ProductName: "Sunflower Oil", Unit: "1L bottle", Quantity: 2, UnitPricePaisa: 11900},
			},
		},
		{
			ID:            uuid.New(),
			CustomerName:  "Priya Menon",
			CustomerPhone: "+919900000003",
			Address:       "22 Residency Road, Bengaluru",
			TotalPaisa:    8400,
			Items: []models.OrderItem{
				{ID: uuid.New(), ProductName: "Atta", Unit: "2kg pack", Quantity: 1, UnitPricePaisa: 8400},
			},
		},
	}

	// Hand one order to the first courier so the board has a mix of states.
	if len(couriers) > 0 {
		demo[1].AssignedToID = &couriers[0]
		demo[1].DeliveryStatus = enums.DeliveryStatusAssigned
	}

	for i := range demo {
		if demo[i].Status == "" {
			demo[i].Status = enums.OrderStatusPending
		}
		if demo[i].DeliveryStatus == "" {
			demo[i].DeliveryStatus = enums.DeliveryStatusPending
		}
		for j := range demo[i].Items {
			demo[i].Items[j].OrderID = demo[i].ID
		}
		if err := conn.WithContext(ctx).Create(&demo[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
