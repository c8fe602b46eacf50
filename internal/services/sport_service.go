package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/models"
	"gorm.io/gorm"
)

type SportService struct {
	db *gorm.DB
}

func NewSportService(db *gorm.DB) *SportService {
	return &SportService{db: db}
}

func (s *SportService) List(ctx context.Context) ([]models.Sport, error) {
	sports := make([]models.Sport, 0)
	err := s.db.WithContext(ctx).Order("name ASC").Find(&sports).Error
	return sports, err
}
