package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/d60-Lab/blog-api/internal/model"
	"github.com/d60-Lab/blog-api/internal/repository"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotOwner     = errors.New("not the post owner")
)

// PostService 博文 CRUD；写操作带属主校验
type PostService interface {
	Create(ctx context.Context, authorID, title, content string) (*model.Post, error)
	Get(ctx context.Context, id string) (*model.Post, error)
	List(ctx context.Context) ([]*model.Post, error)
	// Update 空字段保留原值；仅属主可改
	Update(ctx context.Context, callerID, id, title, content string) (*model.Post, error)
	Delete(ctx context.Context, callerID, id string) error
}

type postService struct {
	postRepo repository.PostRepository
}

func NewPostService(postRepo repository.PostRepository) PostService {
	return &postService{postRepo: postRepo}
}

func (s *postService) Create(ctx context.Context, authorID, title, content string) (*model.Post, error) {
	return s.postRepo.Create(ctx, title, content, authorID)
}

func (s *postService) Get(ctx context.Context, id string) (*model.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]*model.Post, error) {
	return s.postRepo.FindAll(ctx)
}

func (s *postService) Update(ctx context.Context, callerID, id, title, content string) (*model.Post, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	// 先 404 后 403：资源不存在时不做属主判断
	if post.AuthorID != callerID {
		return nil, ErrNotOwner
	}
	if title != "" {
		post.Title = title
	}
	if content != "" {
		post.Content = content
	}
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *postService) Delete(ctx context.Context, callerID, id string) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != callerID {
		return ErrNotOwner
	}
	return s.postRepo.Delete(ctx, id)
}
