package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

// bookRepository 图书仓储实现
// 设计说明:
// 1. 实现domain/book/repository.go定义的接口
// 2. 查询统一联表作者、分类,标签按页批量加载(避免N+1)
// 3. 处理数据库特定的错误(如书名重复),转换为业务错误
type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository 创建图书仓储
func NewBookRepository(db *gorm.DB) book.Repository {
	return &bookRepository{db: db}
}

const bookColumns = "books.*, authors.name AS author_name, categories.name AS category_name"

// joined 图书联表查询基础语句
func (r *bookRepository) joined(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Table("books").
		Joins("JOIN authors ON authors.id = books.author_id").
		Joins("JOIN categories ON categories.id = books.category_id")
}

// Create 创建图书
func (r *bookRepository) Create(ctx context.Context, b *book.Book) error {
	model := &BookModel{
		Title:       b.Title,
		Description: b.Description,
		Price:       b.Price,
		Thumbnail:   b.Thumbnail,
		AuthorID:    b.AuthorID,
		CategoryID:  b.CategoryID,
		CreatorID:   b.CreatorID,
	}

	if err := conn(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return book.ErrDuplicateTitle
		}
		return apperrors.Wrap(err, "创建图书失败")
	}

	b.ID = model.ID
	b.CreatedAt = model.CreatedAt
	b.UpdatedAt = model.UpdatedAt
	return nil
}

// FindByID 根据ID查找图书
func (r *bookRepository) FindByID(ctx context.Context, id uint) (*book.Book, error) {
	return r.findOne(ctx, book.ErrBookNotFound, "books.id = ?", id)
}

// FindOwned 查找属于ownerID的图书
func (r *bookRepository) FindOwned(ctx context.Context, id, ownerID uint) (*book.Book, error) {
	return r.findOne(ctx, book.ErrNotFoundOrForbidden, "books.id = ? AND books.creator_id = ?", id, ownerID)
}

func (r *bookRepository) findOne(ctx context.Context, notFound error, query string, args ...interface{}) (*book.Book, error) {
	var rows []bookRow
	err := r.joined(ctx).Select(bookColumns).Where(query, args...).Limit(1).Scan(&rows).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询图书失败")
	}
	if len(rows) == 0 {
		return nil, notFound
	}

	books := []*book.Book{rows[0].toEntity()}
	if err := r.loadTags(ctx, books); err != nil {
		return nil, err
	}
	return books[0], nil
}

// Update 更新图书字段
func (r *bookRepository) Update(ctx context.Context, b *book.Book) error {
	err := conn(ctx, r.db).Model(&BookModel{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":       b.Title,
		"description": b.Description,
		"price":       b.Price,
		"thumbnail":   b.Thumbnail,
		"author_id":   b.AuthorID,
		"category_id": b.CategoryID,
		"updated_at":  b.UpdatedAt,
	}).Error
	if err != nil {
		if isDuplicateError(err) {
			return book.ErrDuplicateTitle
		}
		return apperrors.Wrap(err, "更新图书失败")
	}
	return nil
}

// Delete 删除图书
// 顺序:先删除标签关联,再删除图书(物理删除)
func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	db := conn(ctx, r.db)

	if err := db.Where("book_id = ?", id).Delete(&BookTagModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除图书标签失败")
	}

	result := db.Delete(&BookModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除图书失败")
	}
	if result.RowsAffected == 0 {
		return book.ErrBookNotFound
	}
	return nil
}

// ReplaceTags 替换图书的全部标签关联
func (r *bookRepository) ReplaceTags(ctx context.Context, bookID uint, tagIDs []uint) error {
	db := conn(ctx, r.db)

	if err := db.Where("book_id = ?", bookID).Delete(&BookTagModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清除图书标签失败")
	}
	if len(tagIDs) == 0 {
		return nil
	}

	links := make([]BookTagModel, len(tagIDs))
	for i, tagID := range tagIDs {
		links[i] = BookTagModel{BookID: bookID, TagID: tagID}
	}
	if err := db.Create(&links).Error; err != nil {
		return apperrors.Wrap(err, "保存图书标签失败")
	}
	return nil
}

// List 分页查询图书列表
// 学习要点:
// 1. COUNT与分页查询使用相同的联表和过滤条件,保证total与数据一致
// 2. 按书名排序,书名相同时按ID排序保证分页稳定
func (r *bookRepository) List(ctx context.Context, q book.ListQuery) ([]*book.Book, int64, error) {
	var total int64
	if err := r.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书总数失败")
	}
	if total == 0 {
		return []*book.Book{}, 0, nil
	}

	direction := "ASC"
	if q.SortOrder == book.SortDesc {
		direction = "DESC"
	}

	var rows []bookRow
	err := r.filtered(ctx, q).
		Select(bookColumns).
		Order("books.title " + direction).
		Order("books.id " + direction).
		Offset(q.Offset()).
		Limit(q.Limit).
		Scan(&rows).Error
	if err != nil {
		return nil, 0, apperrors.Wrap(err, "查询图书列表失败")
	}

	books := make([]*book.Book, len(rows))
	for i := range rows {
		books[i] = rows[i].toEntity()
	}
	if err := r.loadTags(ctx, books); err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// filtered 应用过滤条件
func (r *bookRepository) filtered(ctx context.Context, q book.ListQuery) *gorm.DB {
	db := r.joined(ctx)

	if q.CreatorID != 0 {
		db = db.Where("books.creator_id = ?", q.CreatorID)
	}
	if q.Title != "" {
		db = db.Where("LOWER(books.title) LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(q.Title))
	}
	if q.Category != "" {
		db = db.Where("LOWER(categories.name) LIKE ? ESCAPE '"+likeEscape+"'", containsPattern(q.Category))
	}
	if q.MinPrice != nil {
		db = db.Where("books.price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		db = db.Where("books.price <= ?", *q.MaxPrice)
	}
	return db
}

// tagRow 标签批量查询结果
type tagRow struct {
	BookID uint
	Name   string
}

// loadTags 一次查询加载多本图书的标签
func (r *bookRepository) loadTags(ctx context.Context, books []*book.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]uint, len(books))
	index := make(map[uint]*book.Book, len(books))
	for i, b := range books {
		ids[i] = b.ID
		index[b.ID] = b
	}

	var rows []tagRow
	err := conn(ctx, r.db).
		Table("book_tags").
		Select("book_tags.book_id, tags.name").
		Joins("JOIN tags ON tags.id = book_tags.tag_id").
		Where("book_tags.book_id IN ?", ids).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return apperrors.Wrap(err, "查询图书标签失败")
	}

	for _, row := range rows {
		if b, ok := index[row.BookID]; ok {
			b.Tags = append(b.Tags, row.Name)
		}
	}
	return nil
}
