package goal

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateWithImages(g *Goal, images []GoalImage) error
	FindByID(id uuid.UUID) (*Goal, error)
	FindAllByUserID(userID uuid.UUID) ([]Goal, error)
	UpdateOptionalField(id uuid.UUID, column string, value *string) error
	DeleteCascade(id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// CreateWithImages inserts the goal row and its image rows as one
// unit of work. Image files written before this point are not rolled
// back with it.
func (r *repository) CreateWithImages(g *Goal, images []GoalImage) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(g).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].GoalID = g.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				return err
			}
		}
		g.Images = images
		return nil
	})
}

func (r *repository) FindByID(id uuid.UUID) (*Goal, error) {
	var g Goal
	if err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&g, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) FindAllByUserID(userID uuid.UUID) ([]Goal, error) {
	var goals []Goal
	if err := r.db.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Where("user_id = ?", userID).Order("created_at DESC").Find(&goals).Error; err != nil {
		return nil, err
	}
	return goals, nil
}

func (r *repository) UpdateOptionalField(id uuid.UUID, column string, value *string) error {
	return r.db.Model(&Goal{}).Where("id = ?", id).Update(column, value).Error
}

// DeleteCascade removes the goal and both child sets in one
// transaction. The cascade is spelled out here instead of leaning on
// the FK constraints so the atomicity boundary stays visible.
func (r *repository) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM savings_transactions WHERE goal_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("goal_id = ?", id).Delete(&GoalImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Goal{}, "id = ?", id).Error
	})
}
