package model

import "time"

// DateLayout 活动日期格式，字典序即时间序
const DateLayout = "2006-01-02"

// Event 活动
type Event struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title     string    `json:"title" gorm:"type:varchar(255);not null"`
	Date      string    `json:"date" gorm:"type:varchar(10);index:idx_events_date;not null"`
	Time      string    `json:"time" gorm:"type:varchar(32)"`
	Location  string    `json:"location" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Event) TableName() string { return "events" }

// EventForm 新建/更新活动的输入
type EventForm struct {
	Title    string `json:"title" validate:"required,max=255"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"max=32"`
	Location string `json:"location" validate:"max=255"`
}
