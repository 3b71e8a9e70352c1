package database_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database/dbtest"
)

func TestUserRepository(t *testing.T) {
	db := dbtest.New(t)
	repo := database.NewUserRepository(db)
	ctx := context.Background()

	alice := user.NewUser("alice", "alice@example.com", "hash")
	require.NoError(t, repo.Create(ctx, alice))
	require.NotZero(t, alice.ID)

	t.Run("用户名重复返回冲突", func(t *testing.T) {
		err := repo.Create(ctx, user.NewUser("alice", "other@example.com", "hash"))
		assert.ErrorIs(t, err, user.ErrDuplicateUser)
	})

	t.Run("邮箱重复返回冲突", func(t *testing.T) {
		err := repo.Create(ctx, user.NewUser("other", "alice@example.com", "hash"))
		assert.ErrorIs(t, err, user.ErrDuplicateUser)
	})

	t.Run("按用户名或邮箱查找", func(t *testing.T) {
		byName, err := repo.FindByIdentifier(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byName.ID)

		byEmail, err := repo.FindByIdentifier(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, byEmail.ID)

		_, err = repo.FindByIdentifier(ctx, "nobody")
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("唯一性预检查", func(t *testing.T) {
		exists, err := repo.ExistsByUsernameOrEmail(ctx, "alice", "x@example.com", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsernameOrEmail(ctx, "bob", "alice@example.com", 0)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByUsernameOrEmail(ctx, "alice", "", alice.ID)
		require.NoError(t, err)
		assert.False(t, exists, "排除自身")
	})

	t.Run("更新资料和密码", func(t *testing.T) {
		name := "alice2"
		alice.ChangeProfile(&name, nil)
		alice.ChangePasswordHash("new-hash")
		require.NoError(t, repo.Update(ctx, alice))

		got, err := repo.FindByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice2", got.Username)
		assert.Equal(t, "new-hash", got.PasswordHash)
	})

	t.Run("更新为已存在的邮箱返回冲突", func(t *testing.T) {
		bob := user.NewUser("bob", "bob@example.com", "hash")
		require.NoError(t, repo.Create(ctx, bob))

		email := "alice@example.com"
		bob.ChangeProfile(nil, &email)
		assert.ErrorIs(t, repo.Update(ctx, bob), user.ErrDuplicateUser)
	})

	t.Run("更新不存在的用户", func(t *testing.T) {
		ghost := user.NewUser("ghost", "ghost@example.com", "hash")
		ghost.ID = 9999
		assert.ErrorIs(t, repo.Update(ctx, ghost), user.ErrUserNotFound)
	})

	t.Run("分页列表", func(t *testing.T) {
		users, total, err := repo.List(ctx, 1, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, users, 1)
		assert.Equal(t, alice.ID, users[0].ID)
	})
}

func TestUserRepository_Delete(t *testing.T) {
	db := dbtest.New(t)
	users := database.NewUserRepository(db)
	books := database.NewBookRepository(db)
	refs := database.NewReferenceRepository(db)
	ctx := context.Background()

	owner := user.NewUser("owner", "owner@example.com", "hash")
	require.NoError(t, users.Create(ctx, owner))

	authorID, err := refs.ResolveOrCreate(ctx, book.KindAuthor, "作者")
	require.NoError(t, err)
	categoryID, err := refs.ResolveOrCreate(ctx, book.KindCategory, "分类")
	require.NoError(t, err)

	b := &book.Book{Title: "书", Description: "d", Price: 100, AuthorID: authorID, CategoryID: categoryID, CreatorID: owner.ID}
	require.NoError(t, books.Create(ctx, b))

	t.Run("仍有图书时拒绝删除", func(t *testing.T) {
		assert.ErrorIs(t, users.Delete(ctx, owner.ID), user.ErrUserHasBooks)
	})

	t.Run("删除图书后可以删除用户", func(t *testing.T) {
		require.NoError(t, books.Delete(ctx, b.ID))
		require.NoError(t, users.Delete(ctx, owner.ID))

		_, err := users.FindByID(ctx, owner.ID)
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("删除不存在的用户", func(t *testing.T) {
		assert.ErrorIs(t, users.Delete(ctx, 9999), user.ErrUserNotFound)
	})
}
