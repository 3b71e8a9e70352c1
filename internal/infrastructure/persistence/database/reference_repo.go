package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/bookshop/internal/domain/book"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
	"github.com/xiebiao/bookshop/pkg/tracing"
)

// referenceRepository 作者/分类/标签仓储
// 三张表结构相同（id + 唯一name），按kind选择表
type referenceRepository struct {
	db *gorm.DB
}

// NewReferenceRepository 创建引用实体仓储
func NewReferenceRepository(db *gorm.DB) book.ReferenceRepository {
	return &referenceRepository{db: db}
}

// referenceRecord 三张引用表共用的扫描结构
type referenceRecord struct {
	ID   uint
	Name string
}

// ResolveOrCreate 按名称查找，不存在则创建
//
// 并发安全策略（唯一索引 + 冲突重读）：
// 1. SELECT：已存在直接返回
// 2. INSERT ... ON CONFLICT DO NOTHING：不会因并发插入报错，也不会中断PostgreSQL事务
// 3. 没有插入行说明其他请求已创建，用锁定读重新SELECT
//    MySQL可重复读下普通SELECT读的是事务快照，看不到刚提交的行；锁定读读取最新提交版本
func (r *referenceRepository) ResolveOrCreate(ctx context.Context, kind book.ReferenceKind, name string) (id uint, err error) {
	ctx, span := tracing.StartSpan(ctx, "reference.ResolveOrCreate",
		trace.WithAttributes(attribute.String("reference.kind", string(kind))))
	defer func() { tracing.EndSpan(span, err) }()

	name = strings.TrimSpace(name)
	if name == "" {
		return 0, book.ErrInvalidReference
	}

	model, err := newReference(kind, name)
	if err != nil {
		return 0, err
	}
	db := conn(ctx, r.db)

	// 1. 查询
	id, found, err := r.find(db, model, name)
	if err != nil || found {
		return id, err
	}

	// 2. 插入（冲突时什么都不做）
	result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(model)
	if result.Error != nil {
		return 0, apperrors.Wrapf(result.Error, "创建%s失败", kind)
	}
	if result.RowsAffected > 0 {
		return referenceID(model), nil
	}

	// 3. 并发冲突，重新读取
	id, found, err = r.find(db.Clauses(clause.Locking{Strength: clause.LockingStrengthShare}), model, name)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, apperrors.Wrapf(fmt.Errorf("%s %q 插入冲突后仍不存在", kind, name), "解析%s失败", kind)
	}
	return id, nil
}

func (r *referenceRepository) find(db *gorm.DB, model interface{}, name string) (uint, bool, error) {
	var rec referenceRecord
	err := db.Model(model).Select("id", "name").Where("name = ?", name).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, apperrors.Wrap(err, "查询引用数据失败")
	}
	return rec.ID, true, nil
}

func newReference(kind book.ReferenceKind, name string) (interface{}, error) {
	switch kind {
	case book.KindAuthor:
		return &AuthorModel{Name: name}, nil
	case book.KindCategory:
		return &CategoryModel{Name: name}, nil
	case book.KindTag:
		return &TagModel{Name: name}, nil
	default:
		return nil, apperrors.Wrap(fmt.Errorf("unknown reference kind %q", kind), "系统内部错误")
	}
}

func referenceID(model interface{}) uint {
	switch m := model.(type) {
	case *AuthorModel:
		return m.ID
	case *CategoryModel:
		return m.ID
	case *TagModel:
		return m.ID
	}
	return 0
}
