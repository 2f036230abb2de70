package models

type User struct {
	BaseModel
	Email           string   `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash    string   `gorm:"not null" json:"-"`
	Role            UserRole `gorm:"type:varchar(20);not null" json:"role"`
	FullName        string   `json:"full_name"`
	Phone           string   `json:"phone,omitempty"`
	ProfileImageURL string   `json:"profile_image_url,omitempty"`

	// Relations
	Worker *Worker `gorm:"foreignKey:UserID" json:"worker,omitempty"`
	Jobs   []Job   `gorm:"foreignKey:ClientID" json:"-"`
}
