package database

import (
	"errors"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"studio/models"
)

// SeedAdmin creates or refreshes the admin account. An empty password
// leaves the table untouched.
func SeedAdmin(db *gorm.DB, email, password string, cost int) error {
	if email == "" || password == "" {
		log.Println("Warning: ADMIN_PASSWORD not set. Admin login is disabled.")
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return err
	}

	var user models.User
	err = db.Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = models.User{Name: "Studio admin", Email: email, Role: models.RoleAdmin, Password: string(hashed)}
		return db.Create(&user).Error
	case err != nil:
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil && user.Role == models.RoleAdmin {
		return nil
	}
	return db.Model(&user).Updates(map[string]interface{}{
		"password": string(hashed),
		"role":     models.RoleAdmin,
	}).Error
}
