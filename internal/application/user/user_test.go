package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/user"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/database/dbtest"
	apperrors "github.com/xiebiao/bookshop/pkg/errors"
)

func TestUserManagement(t *testing.T) {
	ctx := context.Background()
	db := dbtest.New(t)
	repo := database.NewUserRepository(db)
	svc := user.NewService(repo)

	create := NewCreateUserUseCase(svc)
	get := NewGetUserUseCase(repo)
	list := NewListUsersUseCase(repo)
	update := NewUpdateUserUseCase(svc, repo)
	del := NewDeleteUserUseCase(repo)

	alice, err := create.Execute(ctx, CreateUserRequest{Username: "alice", Email: "alice@example.com", Password: "secret123"})
	require.NoError(t, err)
	bob, err := create.Execute(ctx, CreateUserRequest{Username: "bob", Email: "bob@example.com", Password: "secret123"})
	require.NoError(t, err)

	t.Run("创建重复用户", func(t *testing.T) {
		_, err := create.Execute(ctx, CreateUserRequest{Username: "alice", Email: "x@example.com", Password: "secret123"})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)
	})

	t.Run("查询", func(t *testing.T) {
		info, err := get.Execute(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", info.Username)

		_, err = get.Execute(ctx, 9999)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("分页列表", func(t *testing.T) {
		resp, err := list.Execute(ctx, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), resp.Total)
		assert.Equal(t, 1, resp.Page)
		require.Len(t, resp.List, 1)
		assert.Equal(t, alice.ID, resp.List[0].ID)

		resp, err = list.Execute(ctx, 1, 1000)
		require.NoError(t, err)
		assert.Equal(t, 100, resp.Limit)
	})

	t.Run("更新", func(t *testing.T) {
		_, err := update.Execute(ctx, alice.ID, UpdateUserRequest{})
		assert.ErrorIs(t, err, apperrors.ErrInvalidParams)

		email := "bob@example.com"
		_, err = update.Execute(ctx, alice.ID, UpdateUserRequest{Email: &email})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateUser)

		name, pass := "alice2", "changed123"
		info, err := update.Execute(ctx, alice.ID, UpdateUserRequest{Username: &name, Password: &pass})
		require.NoError(t, err)
		assert.Equal(t, "alice2", info.Username)
		_, err = svc.Authenticate(ctx, "alice2", "changed123")
		assert.NoError(t, err)

		_, err = update.Execute(ctx, 9999, UpdateUserRequest{Username: &name})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	})

	t.Run("删除仍有图书的用户", func(t *testing.T) {
		books := book.NewService(database.NewBookRepository(db), database.NewReferenceRepository(db))
		_, err := books.Create(ctx, bob.ID, book.Draft{
			Title: "三体", Description: "科幻", Price: 4500, Author: "刘慈欣", Category: "科幻",
		})
		require.NoError(t, err)

		assert.ErrorIs(t, del.Execute(ctx, bob.ID), apperrors.ErrConflict)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, del.Execute(ctx, alice.ID))
		assert.ErrorIs(t, del.Execute(ctx, alice.ID), apperrors.ErrUserNotFound)
	})
}
