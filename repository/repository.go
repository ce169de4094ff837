// Package repository implements data access layer for the application
package repository

import (
	"errors"
	"log"
	"time"

	apperrors "cityweather.app/errors"
	"cityweather.app/models"
	"gorm.io/gorm"
)

// CityRepository handles data access operations for the city search history.
// There is at most one record per composite (lat_lon) key; saving the same
// location repeatedly updates the record instead of duplicating it.
type CityRepository struct {
	db *gorm.DB
}

// NewCityRepository creates a new repository for city history data
func NewCityRepository(db *gorm.DB) *CityRepository {
	return &CityRepository{db: db}
}

// LoadRecent retrieves all saved cities, most recently used first.
// Ties on last_used_date are broken by composite key to keep the order
// deterministic.
func (r *CityRepository) LoadRecent() ([]models.City, error) {
	log.Println("[DEBUG] CityRepository.LoadRecent called")

	var records []models.SavedCity
	result := r.db.Order("last_used_date DESC, composite_key ASC").Find(&records)
	if result.Error != nil {
		log.Printf("[ERROR] Database error when loading recent cities: %v\n", result.Error)
		return nil, apperrors.NewDatabaseError("failed to load recent cities", result.Error)
	}

	cities := make([]models.City, 0, len(records))
	for _, record := range records {
		cities = append(cities, record.ToCity())
	}

	log.Printf("[DEBUG] Loaded %d recent cities\n", len(cities))
	return cities, nil
}

// Save upserts a city by its composite key. An existing record gets a fresh
// last_used_date and a non-destructive merge of the last-known weather
// fields: a save without weather data never erases previously stored values.
func (r *CityRepository) Save(city models.City) error {
	key := city.CompositeKey()
	log.Printf("[DEBUG] CityRepository.Save: key=%s, name=%s\n", key, city.Name)

	var existing models.SavedCity
	result := r.db.Where("composite_key = ?", key).First(&existing)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			record := models.NewSavedCity(city, time.Now())
			if createResult := r.db.Create(&record); createResult.Error != nil {
				log.Printf("[ERROR] Database error when creating city record: %v\n", createResult.Error)
				return apperrors.NewDatabaseError("failed to create city record", createResult.Error)
			}
			log.Printf("[DEBUG] Created city record: %s\n", key)
			return nil
		}
		log.Printf("[ERROR] Database error when finding city record: %v\n", result.Error)
		return apperrors.NewDatabaseError("failed to find city record", result.Error)
	}

	existing.LastUsedDate = time.Now()
	if city.LastKnownTemp != nil {
		existing.LastKnownTemp = city.LastKnownTemp
	}
	if city.LastKnownWeatherCode != nil {
		existing.LastKnownWeatherCode = city.LastKnownWeatherCode
	}

	if saveResult := r.db.Save(&existing); saveResult.Error != nil {
		log.Printf("[ERROR] Database error when updating city record: %v\n", saveResult.Error)
		return apperrors.NewDatabaseError("failed to update city record", saveResult.Error)
	}

	log.Printf("[DEBUG] Updated city record: %s\n", key)
	return nil
}
