package seeders

import (
	"subercraftex/logger"
	"subercraftex/models/material"
	"subercraftex/models/service"

	"gorm.io/gorm"
)

func intPtr(v int) *int { return &v }

// DemoServices is the bookable catalog inserted by `migrate --seed`.
func DemoServices() []service.Service {
	return []service.Service{
		{Name: "Tailoring Consultation", Slug: "tailoring-consultation", Price: 0, Duration: service.DurationHalfHour, BufferMinutes: 10, IsActive: true},
		{Name: "Suit Fitting", Slug: "suit-fitting", Price: 45, Duration: service.DurationOneHour, BufferMinutes: 15, MaxBookingsPerDay: intPtr(6), IsActive: true},
		{Name: "Leather Workshop", Slug: "leather-workshop", Price: 120, Duration: service.DurationThreeHours, MaxBookingsPerDay: intPtr(2), IsActive: true},
		{Name: "Bespoke Garment", Slug: "bespoke-garment", Duration: service.DurationCustom, CustomDurationMinutes: intPtr(90), IsActive: true},
		{Name: "Furniture Repair", Slug: "furniture-repair", Duration: service.DurationHalfDay, IsActive: true},
	}
}

// DemoMaterials is the material catalog inserted by `migrate --seed`.
func DemoMaterials() []material.Material {
	return []material.Material{
		{Name: "Wool Suiting", SKU: "FAB-WOOL-01", Unit: "meter", Price: 38.5, StockQuantity: 120, IsActive: true},
		{Name: "Linen", SKU: "FAB-LINEN-01", Unit: "meter", Price: 22, StockQuantity: 80, IsActive: true},
		{Name: "Horn Buttons", SKU: "TRM-BTN-HORN", Unit: "piece", Price: 1.2, StockQuantity: 500, IsActive: true},
		{Name: "Full-grain Leather", SKU: "LTH-FG-01", Unit: "sq_ft", Price: 9.75, StockQuantity: 200, IsActive: true},
	}
}

// SeedCatalog inserts any demo service or material missing by slug or SKU.
func SeedCatalog(db *gorm.DB) error {
	var existingSlugs []string
	if err := db.Model(&service.Service{}).Pluck("slug", &existingSlugs).Error; err != nil {
		return err
	}
	haveSlug := make(map[string]bool, len(existingSlugs))
	for _, s := range existingSlugs {
		haveSlug[s] = true
	}

	var existingSKUs []string
	if err := db.Model(&material.Material{}).Pluck("sku", &existingSKUs).Error; err != nil {
		return err
	}
	haveSKU := make(map[string]bool, len(existingSKUs))
	for _, s := range existingSKUs {
		haveSKU[s] = true
	}

	services, materials := 0, 0
	for _, svc := range DemoServices() {
		if haveSlug[svc.Slug] {
			continue
		}
		if err := svc.Validate(); err != nil {
			logger.Warning("Skipping invalid demo service", "slug", svc.Slug, "error", err.Error())
			continue
		}
		if err := db.Create(&svc).Error; err != nil {
			return err
		}
		services++
	}
	for _, m := range DemoMaterials() {
		if haveSKU[m.SKU] {
			continue
		}
		if err := db.Create(&m).Error; err != nil {
			return err
		}
		materials++
	}

	if services == 0 && materials == 0 {
		logger.Info("Catalog already seeded, nothing to insert")
		return nil
	}
	logger.Success("Seeded catalog", "services", services, "materials", materials)
	return nil
}
