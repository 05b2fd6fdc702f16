package model

import "time"

// Volunteer 志愿者报名（创建后只读）
type Volunteer struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name         string    `json:"name" gorm:"type:varchar(255);not null"`
	Email        string    `json:"email" gorm:"type:varchar(255);index:idx_volunteers_email;not null"`
	Phone        string    `json:"phone" gorm:"type:varchar(32);not null"`
	Message      string    `json:"message" gorm:"type:text"`
	Distribution string    `json:"distribution" gorm:"type:varchar(255)"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index:idx_volunteers_created;not null"`
}

func (Volunteer) TableName() string { return "volunteers" }

// VolunteerSubmission 按邮箱去重的报名记录，志愿者删除时尽力清理
type VolunteerSubmission struct {
	Email       string    `gorm:"primaryKey;type:varchar(255)"`
	VolunteerID string    `gorm:"type:varchar(36);index"`
	CreatedAt   time.Time
}

func (VolunteerSubmission) TableName() string { return "volunteers_submissions" }

// VolunteerForm 公开报名表单
type VolunteerForm struct {
	Name         string `json:"name" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email,max=255"`
	Phone        string `json:"phone" validate:"required,min=6,max=32"`
	Message      string `json:"message" validate:"max=2000"`
	Distribution string `json:"distribution" validate:"max=255"`
}
