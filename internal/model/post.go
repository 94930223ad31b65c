package model

import "time"

// Post 博文主体
type Post struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_post_author;not null" json:"authorId"`
	Author    *User     `gorm:"foreignKey:AuthorID" json:"-"`
	CreatedAt time.Time `gorm:"index:idx_post_created" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Post) TableName() string { return "posts" }

// PostView 响应视图：Post + 作者投影
type PostView struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Author    *AuthorBrief `json:"author,omitempty"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

func (p *Post) View() PostView {
	v := PostView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Author != nil {
		b := p.Author.Brief()
		v.Author = &b
	}
	return v
}
