package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-api/internal/model"
)

type PostRepository interface {
	Create(ctx context.Context, title, content, authorID string) (*model.Post, error)
	FindByID(ctx context.Context, id string) (*model.Post, error)
	// FindAll 按创建时间倒序返回全部博文，并带出作者
	FindAll(ctx context.Context) ([]*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, title, content, authorID string) (*model.Post, error) {
	p := &model.Post{ID: uuid.New().String(), Title: title, Content: content, AuthorID: authorID}
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	// 回查带出作者投影
	return r.FindByID(ctx, p.ID)
}

func (r *postRepository) FindByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) FindAll(ctx context.Context) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).Preload("Author").Order("created_at DESC").Find(&res).Error
	return res, err
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Model(post).
		Updates(map[string]any{"title": post.Title, "content": post.Content}).Error
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Post{}).Error
}
