package repository

import (
	"habitloop_backend/internal/model"

	"gorm.io/gorm"
)

type HabitRepository struct {
	DB *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{DB: db}
}

func (r *HabitRepository) Create(habit *model.Habit) error {
	return r.DB.Create(habit).Error
}

func (r *HabitRepository) FindByID(id string) (*model.Habit, error) {
	var habit model.Habit
	err := r.DB.First(&habit, "id = ?", id).Error
	return &habit, err
}

// FindByOwner 某用户的全部习惯，按创建时间排序
func (r *HabitRepository) FindByOwner(ownerID uint) ([]model.Habit, error) {
	var habits []model.Habit
	err := r.DB.Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&habits).Error
	return habits, err
}

func (r *HabitRepository) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Habit{}).
		Where("owner_id = ?", ownerID).
		Count(&count).Error
	return count, err
}

func (r *HabitRepository) Update(habit *model.Habit) error {
	return r.DB.Save(habit).Error
}

// Delete 删除习惯并级联清掉打卡历史
func (r *HabitRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", id).Delete(&model.CheckIn{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Habit{}, "id = ?", id).Error
	})
}
