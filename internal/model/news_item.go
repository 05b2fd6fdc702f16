package model

import "time"

// NewsItem 新闻，最多保留若干条（按 date 淘汰最旧的）
type NewsItem struct {
	ID      string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title   string    `json:"title" gorm:"type:varchar(255);not null"`
	Content string    `json:"content" gorm:"type:text;not null"`
	Image   *string   `json:"image" gorm:"type:text"` // 公开可访问的图片 URL
	Date    time.Time `json:"date" gorm:"index:idx_news_date;not null"`
}

func (NewsItem) TableName() string { return "news" }

// NewsForm 新建新闻的输入
type NewsForm struct {
	Title   string       `validate:"required,max=255"`
	Content string       `validate:"required"`
	Image   *ImageUpload `validate:"omitempty"`
}

// ImageUpload 原始上传图片
type ImageUpload struct {
	Name        string `validate:"required"`
	ContentType string
	Data        []byte `validate:"required"`
}
