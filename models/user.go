package models

// User is an account row. Password holds the bcrypt hash, never plaintext.
type User struct {
	ID                  uint   `gorm:"primaryKey" json:"id"`
	Username            string `gorm:"uniqueIndex" json:"username"`
	Name                string `json:"name"`
	Age                 int    `json:"age"`
	Language            string `json:"language"`
	Password            string `json:"-"`
	WorkingProfessional bool   `json:"working_professional"`
}
