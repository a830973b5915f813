// Command seed initializes the database with the schema, an admin user
// and the default catalog and site settings.
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nordlayer/printing-platform/internal/config"
	"github.com/nordlayer/printing-platform/internal/database"
	"github.com/nordlayer/printing-platform/pkg/logger"
	"github.com/nordlayer/printing-platform/pkg/models"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.NewLogger(cfg.LogLevel, cfg.IsDevelopment())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.New(
		cfg.Database.Driver,
		cfg.Database.DSN,
		cfg.Database.MaxOpenConns,
		cfg.Database.MaxIdleConns,
		cfg.Database.ConnMaxLifetime,
	)
	if err != nil {
		log.Fatal("failed to connect database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	if err := seedAdmin(db, log); err != nil {
		log.Fatal("failed to seed admin user", zap.Error(err))
	}
	if err := seedServices(db, log); err != nil {
		log.Fatal("failed to seed services", zap.Error(err))
	}
	if err := seedColors(db, log); err != nil {
		log.Fatal("failed to seed colors", zap.Error(err))
	}
	if err := seedSettings(db, log); err != nil {
		log.Fatal("failed to seed settings", zap.Error(err))
	}
	log.Info("seeding complete")
}

// seedAdmin creates the initial admin account. The password comes from
// ADMIN_PASSWORD; without it an existing deployment is left untouched.
func seedAdmin(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.User{}).Where("is_admin = ?", true).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info("admin user already present, skipping")
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		return fmt.Errorf("ADMIN_PASSWORD must be set to create the initial admin")
	}
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@example.com"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:           uuid.New(),
		Username:     "admin",
		Email:        email,
		PasswordHash: string(hash),
		FullName:     "Administrator",
		IsActive:     true,
		IsAdmin:      true,
		Role:         "admin",
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	log.Info("admin user created", zap.String("email", email))
	return nil
}

func seedServices(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.Service{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	services := []models.Service{
		{
			ID:          uuid.New(),
			Name:        "FDM Printing",
			Description: "Layer-by-layer printing in PLA, PETG and ABS for functional parts and prototypes.",
			Category:    "printing",
			Features:    []string{"0.1-0.3mm layer height", "up to 300x300x400mm", "wide material choice"},
			Icon:        "cube",
			IsActive:    true,
		},
		{
			ID:          uuid.New(),
			Name:        "3D Modeling",
			Description: "Custom model design from drawings, photos or a physical sample.",
			Category:    "design",
			Features:    []string{"CAD modeling", "reverse engineering", "print-ready output"},
			Icon:        "pencil",
			IsActive:    true,
		},
		{
			ID:          uuid.New(),
			Name:        "Post-Processing",
			Description: "Sanding, priming and painting of printed parts.",
			Category:    "finishing",
			Features:    []string{"surface smoothing", "painting", "assembly"},
			Icon:        "brush",
			IsActive:    true,
		},
	}
	if err := db.Create(&services).Error; err != nil {
		return err
	}
	log.Info("default services created", zap.Int("count", len(services)))
	return nil
}

func seedColors(db *gorm.DB, log *zap.Logger) error {
	var count int64
	if err := db.Model(&models.Color{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	intensity := 0.7
	colors := []models.Color{
		{ID: uuid.New(), Name: "Classic Black", Type: models.ColorTypeSolid, HexCode: "#1a1a1a", IsActive: true, SortOrder: 1, PriceModifier: 1.0},
		{ID: uuid.New(), Name: "Pure White", Type: models.ColorTypeSolid, HexCode: "#fafafa", IsActive: true, SortOrder: 2, PriceModifier: 1.0},
		{ID: uuid.New(), Name: "Signal Red", Type: models.ColorTypeSolid, HexCode: "#d32f2f", IsActive: true, SortOrder: 3, PriceModifier: 1.0},
		{
			ID: uuid.New(), Name: "Sunset", Type: models.ColorTypeGradient,
			GradientColors: []models.GradientStop{
				{Color: "#ff9800", Position: 0},
				{Color: "#e91e63", Position: 100},
			},
			GradientDirection: "linear", IsActive: true, IsNew: true, SortOrder: 10, PriceModifier: 1.3,
		},
		{
			ID: uuid.New(), Name: "Steel", Type: models.ColorTypeMetallic,
			MetallicBase: "#9e9e9e", MetallicIntensity: &intensity,
			IsActive: true, SortOrder: 20, PriceModifier: 1.5,
		},
	}
	if err := db.Create(&colors).Error; err != nil {
		return err
	}
	log.Info("default colors created", zap.Int("count", len(colors)))
	return nil
}

func seedSettings(db *gorm.DB, log *zap.Logger) error {
	defaults := []models.SiteSetting{
		{ID: uuid.New(), Key: "site_name", Value: "Printing Platform", ValueType: "text", Category: "general", IsPublic: true},
		{ID: uuid.New(), Key: "contact_email", Value: "hello@example.com", ValueType: "text", Category: "contact", IsPublic: true},
		{ID: uuid.New(), Key: "orders_enabled", Value: "true", ValueType: "boolean", Category: "orders", IsPublic: true},
		{ID: uuid.New(), Key: "maintenance_mode", Value: "false", ValueType: "boolean", Category: "general", IsPublic: true},
	}

	created := 0
	for _, setting := range defaults {
		var count int64
		if err := db.Model(&models.SiteSetting{}).Where("key = ?", setting.Key).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if err := db.Create(&setting).Error; err != nil {
			return err
		}
		created++
	}
	if created > 0 {
		log.Info("default settings created", zap.Int("count", created))
	}
	return nil
}
