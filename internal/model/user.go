package model

import "time"

// User 注册用户；Password 仅存 bcrypt 哈希，永不序列化
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	Email     string    `gorm:"type:varchar(128);uniqueIndex:ux_user_email;not null" json:"email"`
	Password  string    `gorm:"type:varchar(128);not null" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// AuthorBrief 列表/详情里嵌入的作者投影（展示用，绝不含哈希）
type AuthorBrief struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Brief() AuthorBrief {
	return AuthorBrief{ID: u.ID, Name: u.Name, Email: u.Email}
}
