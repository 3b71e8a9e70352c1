package book

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database/dbtest"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

type fixture struct {
	db    *gorm.DB
	mr    *miniredis.Miniredis
	owner uint
	other uint

	create     *CreateBookUseCase
	update     *UpdateBookUseCase
	del        *DeleteBookUseCase
	get        *GetBookUseCase
	listPublic *ListPublicBooksUseCase
	listOwned  *ListOwnedBooksUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db := dbtest.New(t)
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	users := database.NewUserRepository(db)
	owner := user.NewUser("owner", "owner@example.com", "hash")
	other := user.NewUser("other", "other@example.com", "hash")
	require.NoError(t, users.Create(ctx, owner))
	require.NoError(t, users.Create(ctx, other))

	svc := book.NewService(database.NewBookRepository(db), database.NewReferenceRepository(db))
	tx := database.NewTxManager(db)
	cache := redis.NewBookCache(client)

	return &fixture{
		db:         db,
		mr:         mr,
		owner:      owner.ID,
		other:      other.ID,
		create:     NewCreateBookUseCase(users, svc, tx),
		update:     NewUpdateBookUseCase(svc, tx, cache),
		del:        NewDeleteBookUseCase(svc, tx, cache),
		get:        NewGetBookUseCase(svc, cache, Config{CacheTTL: time.Minute}),
		listPublic: NewListPublicBooksUseCase(svc),
		listOwned:  NewListOwnedBooksUseCase(svc),
	}
}

func (f *fixture) mustCreate(t *testing.T, ownerID uint, title string, price int64, tags ...string) *BookInfo {
	t.Helper()
	info, err := f.create.Execute(context.Background(), ownerID, CreateBookRequest{
		Title:       title,
		Description: title + "的简介",
		Price:       price,
		Author:      "刘慈欣",
		Category:    "科幻小说",
		Tags:        tags,
	})
	require.NoError(t, err)
	return info
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Table(table).Count(&n).Error)
	return n
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	info := f.mustCreate(t, f.owner, "三体", 4550, " 经典 ", "科幻", "经典", "")
	assert.Equal(t, "45.50", info.Price)
	assert.Equal(t, "刘慈欣", info.Author)
	assert.Equal(t, "科幻小说", info.Category)
	assert.ElementsMatch(t, []string{"经典", "科幻"}, info.Tags)
	assert.Equal(t, f.owner, info.CreatorID)

	t.Run("发布者不存在", func(t *testing.T) {
		_, err := f.create.Execute(ctx, 9999, CreateBookRequest{Title: "x", Description: "x", Price: 1, Author: "a", Category: "c"})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("书名冲突整体回滚", func(t *testing.T) {
		authors, tags := f.count(t, "authors"), f.count(t, "tags")

		_, err := f.create.Execute(ctx, f.other, CreateBookRequest{
			Title:       "三体",
			Description: "重复",
			Price:       100,
			Author:      "新作者",
			Category:    "科幻小说",
			Tags:        []string{"新标签"},
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateTitle)
		assert.Equal(t, authors, f.count(t, "authors"), "事务回滚后不应留下新作者")
		assert.Equal(t, tags, f.count(t, "tags"))
		assert.Equal(t, int64(1), f.count(t, "books"))
	})
}

func TestUpdateAndDeleteBook(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.mustCreate(t, f.owner, "三体", 4550, "科幻", "经典")
	f.mustCreate(t, f.owner, "球状闪电", 3900)

	title := "三体Ⅰ"
	t.Run("非发布者无法修改", func(t *testing.T) {
		_, err := f.update.Execute(ctx, f.other, created.ID, UpdateBookRequest{Title: &title})
		assert.ErrorIs(t, err, apperrors.ErrNotFoundOrForbidden)

		_, err = f.update.Execute(ctx, f.owner, 9999, UpdateBookRequest{Title: &title})
		assert.ErrorIs(t, err, apperrors.ErrNotFoundOrForbidden)
	})

	t.Run("修改为已存在的书名", func(t *testing.T) {
		dup := "球状闪电"
		_, err := f.update.Execute(ctx, f.owner, created.ID, UpdateBookRequest{Title: &dup})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateTitle)
	})

	t.Run("部分更新并使缓存失效", func(t *testing.T) {
		_, found, err := f.get.Execute(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		require.True(t, f.mr.Exists("book:detail:"+itoa(created.ID)))

		price := int64(5000)
		author := "大刘"
		info, err := f.update.Execute(ctx, f.owner, created.ID, UpdateBookRequest{Title: &title, Price: &price, Author: &author})
		require.NoError(t, err)
		assert.Equal(t, "三体Ⅰ", info.Title)
		assert.Equal(t, "50.00", info.Price)
		assert.Equal(t, "大刘", info.Author)
		assert.Equal(t, "科幻小说", info.Category, "未提供的字段保持不变")
		assert.ElementsMatch(t, []string{"科幻", "经典"}, info.Tags)
		assert.False(t, f.mr.Exists("book:detail:"+itoa(created.ID)))
	})

	t.Run("空标签清空", func(t *testing.T) {
		empty := []string{}
		info, err := f.update.Execute(ctx, f.owner, created.ID, UpdateBookRequest{Tags: &empty})
		require.NoError(t, err)
		assert.Empty(t, info.Tags)
		assert.Equal(t, int64(0), f.count(t, "book_tags"))
	})

	t.Run("空更新", func(t *testing.T) {
		_, err := f.update.Execute(ctx, f.owner, created.ID, UpdateBookRequest{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidParams)
	})

	t.Run("删除", func(t *testing.T) {
		tags := []string{"科幻"}
		_, err := f.update.Execute(ctx, f.owner, created.ID, UpdateBookRequest{Tags: &tags})
		require.NoError(t, err)

		assert.ErrorIs(t, f.del.Execute(ctx, f.other, created.ID), apperrors.ErrNotFoundOrForbidden)
		require.NoError(t, f.del.Execute(ctx, f.owner, created.ID))
		assert.Equal(t, int64(0), f.count(t, "book_tags"))

		_, found, err := f.get.Execute(ctx, created.ID)
		require.NoError(t, err)
		assert.False(t, found)

		assert.ErrorIs(t, f.del.Execute(ctx, f.owner, created.ID), apperrors.ErrNotFoundOrForbidden)
	})
}

func TestGetBook_Cache(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	created := f.mustCreate(t, f.owner, "三体", 4550, "科幻")

	first, found, err := f.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)

	// 直接改库,命中缓存时仍返回旧数据
	require.NoError(t, f.db.Table("books").Where("id = ?", created.ID).Update("price", 1).Error)
	second, found, err := f.get.Execute(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, []string{"科幻"}, second.Tags)

	t.Run("Redis不可用时回源数据库", func(t *testing.T) {
		f.mr.SetError("server down")
		defer f.mr.SetError("")

		info, found, err := f.get.Execute(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, "0.01", info.Price)
	})

	t.Run("不存在", func(t *testing.T) {
		info, found, err := f.get.Execute(ctx, 9999)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Nil(t, info)
	})
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for _, title := range []string{"A书", "B书", "C书", "D书"} {
		f.mustCreate(t, f.owner, title, 1000)
	}
	f.mustCreate(t, f.other, "E书", 2000)

	t.Run("分页总数一致", func(t *testing.T) {
		var sizes []int
		for page := 1; page <= 3; page++ {
			resp, err := f.listPublic.Execute(ctx, ListBooksRequest{Page: page, Limit: 2})
			require.NoError(t, err)
			assert.Equal(t, int64(5), resp.Total)
			assert.Equal(t, 3, resp.TotalPages)
			sizes = append(sizes, len(resp.List))
		}
		assert.Equal(t, []int{2, 2, 1}, sizes)
	})

	t.Run("公开列表默认降序", func(t *testing.T) {
		resp, err := f.listPublic.Execute(ctx, ListBooksRequest{})
		require.NoError(t, err)
		assert.Equal(t, "E书", resp.List[0].Title)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, 10, resp.Limit)
	})

	t.Run("我的图书默认升序且只含本人", func(t *testing.T) {
		resp, err := f.listOwned.Execute(ctx, f.owner, ListBooksRequest{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), resp.Total)
		assert.Equal(t, "A书", resp.List[0].Title)
	})

	t.Run("价格区间", func(t *testing.T) {
		min := int64(1500)
		resp, err := f.listPublic.Execute(ctx, ListBooksRequest{MinPrice: &min})
		require.NoError(t, err)
		require.Len(t, resp.List, 1)
		assert.Equal(t, "20.00", resp.List[0].Price)
	})
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
