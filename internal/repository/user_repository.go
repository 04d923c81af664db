package repository

import (
	"habitloop_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", time.Now()).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_seen", time.Now()).Error
}

// FuzzySearch 按昵称或邮箱模糊搜索未禁用的用户
func (r *UserRepository) FuzzySearch(query string, limit int) ([]model.User, error) {
	var users []model.User
	searchTerm := "%" + query + "%"
	err := r.DB.Select("id, name, email, avatar, bio").
		Where("disabled = ?", false).
		Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm).
		Limit(limit).
		Find(&users).Error
	return users, err
}
