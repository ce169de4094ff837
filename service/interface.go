package service

import (
	"cityweather.app/models"
)

// CityHistoryInterface defines history store operations used by the controllers
type CityHistoryInterface interface {
	LoadRecent() ([]models.City, error)
	Save(city models.City) error
}
