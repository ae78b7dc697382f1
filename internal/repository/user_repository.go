package repository

import (
	"time"

	"github.com/devspacehq/devspace-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmails finds all users whose email is in the given set
func (r *GormUserRepository) FindByEmails(emails []string) ([]models.User, error) {
	if len(emails) == 0 {
		return []models.User{}, nil
	}

	var users []models.User
	if err := r.db.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdatePlan updates a user's subscription plan
func (r *GormUserRepository) UpdatePlan(id uint64, plan models.Plan) error {
	return r.db.Model(&models.User{}).Where("id = ?", id).Update("plan", plan).Error
}

// ListWithBirthday lists users whose birthday falls on the given month and day
func (r *GormUserRepository) ListWithBirthday(month time.Month, day int) ([]models.User, error) {
	var users []models.User

	// strftime works on SQLite; MySQL and Postgres deployments use the
	// equivalent EXTRACT expressions.
	query := r.db.Where("birthday IS NOT NULL")
	switch r.db.Dialector.Name() {
	case "sqlite":
		query = query.Where("CAST(strftime('%m', birthday) AS INTEGER) = ? AND CAST(strftime('%d', birthday) AS INTEGER) = ?", int(month), day)
	default:
		query = query.Where("EXTRACT(MONTH FROM birthday) = ? AND EXTRACT(DAY FROM birthday) = ?", int(month), day)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
