package book

import (
	"context"
	"strings"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装跨实体的业务规则:引用解析、归属校验、标签替换
// 2. 不开启事务,多步写操作由application层包在TxManager中
type Service interface {
	// Create 解析作者/分类 → 插入图书 → 解析标签 → 写入标签关联
	Create(ctx context.Context, ownerID uint, d Draft) (*Book, error)

	// Update 部分更新,只有发布者本人可以修改
	Update(ctx context.Context, ownerID, id uint, p Patch) (*Book, error)

	// Delete 删除图书,只有发布者本人可以删除
	Delete(ctx context.Context, ownerID, id uint) error

	// Get 查询图书详情(公开)
	Get(ctx context.Context, id uint) (*Book, error)

	// List 分页查询,defaultSort在未指定排序时使用
	List(ctx context.Context, q ListQuery, defaultSort string) ([]*Book, int64, ListQuery, error)
}

type service struct {
	repo Repository
	refs ReferenceRepository
}

// NewService 创建图书领域服务
func NewService(repo Repository, refs ReferenceRepository) Service {
	return &service{repo: repo, refs: refs}
}

// Create 创建图书
func (s *service) Create(ctx context.Context, ownerID uint, d Draft) (*Book, error) {
	if d.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	b := NewBook(d, ownerID)

	// 1. 解析作者和分类(不存在则创建)
	authorID, err := s.resolve(ctx, KindAuthor, b.Author)
	if err != nil {
		return nil, err
	}
	categoryID, err := s.resolve(ctx, KindCategory, b.Category)
	if err != nil {
		return nil, err
	}
	b.AuthorID = authorID
	b.CategoryID = categoryID

	// 2. 插入图书(书名重复由唯一索引拦截)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// 3. 解析标签并写入关联
	if len(b.Tags) > 0 {
		if err := s.replaceTags(ctx, b.ID, b.Tags); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Update 更新图书
// 业务规则:
// 1. 图书不存在与不属于当前用户返回同一个错误(不泄露图书是否存在)
// 2. 只修改提供的字段
func (s *service) Update(ctx context.Context, ownerID, id uint, p Patch) (*Book, error) {
	if p.IsEmpty() {
		return nil, ErrEmptyPatch
	}
	if p.Price != nil && *p.Price <= 0 {
		return nil, ErrInvalidPrice
	}

	b, err := s.repo.FindOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	b.ApplyScalars(p)

	if p.Author != nil {
		name := strings.TrimSpace(*p.Author)
		if b.AuthorID, err = s.resolve(ctx, KindAuthor, name); err != nil {
			return nil, err
		}
		b.Author = name
	}
	if p.Category != nil {
		name := strings.TrimSpace(*p.Category)
		if b.CategoryID, err = s.resolve(ctx, KindCategory, name); err != nil {
			return nil, err
		}
		b.Category = name
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}

	if p.Tags != nil {
		tags := NormalizeTags(*p.Tags)
		if err := s.replaceTags(ctx, b.ID, tags); err != nil {
			return nil, err
		}
		b.Tags = tags
	}

	return b, nil
}

// Delete 删除图书
func (s *service) Delete(ctx context.Context, ownerID, id uint) error {
	if _, err := s.repo.FindOwned(ctx, id, ownerID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// Get 查询图书详情
func (s *service) Get(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// List 分页查询
func (s *service) List(ctx context.Context, q ListQuery, defaultSort string) ([]*Book, int64, ListQuery, error) {
	q.Normalize(defaultSort)
	books, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, 0, q, err
	}
	return books, total, q, nil
}

func (s *service) resolve(ctx context.Context, kind ReferenceKind, name string) (uint, error) {
	if name == "" {
		return 0, ErrInvalidReference
	}
	return s.refs.ResolveOrCreate(ctx, kind, name)
}

// replaceTags 逐个解析标签名称后整体替换关联(tags已规范化)
func (s *service) replaceTags(ctx context.Context, bookID uint, tags []string) error {
	ids := make([]uint, 0, len(tags))
	for _, name := range tags {
		id, err := s.refs.ResolveOrCreate(ctx, KindTag, name)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return s.repo.ReplaceTags(ctx, bookID, ids)
}
