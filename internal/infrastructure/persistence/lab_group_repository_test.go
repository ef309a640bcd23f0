package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGormLabGroupRepository_FindDescendantIDs(t *testing.T) {
	t.Run("subtree includes the group itself", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLabGroupRepository(gormDB)

		rootID := uuid.New()
		childID := uuid.New()
		grandchildID := uuid.New()

		mock.ExpectQuery(`WITH RECURSIVE descendants AS`).
			WithArgs(rootID).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).
				AddRow(rootID).
				AddRow(childID).
				AddRow(grandchildID))

		ids, err := repo.FindDescendantIDs(context.Background(), rootID)

		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{rootID, childID, grandchildID}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLabGroupRepository_IsDirectMemberOfAny(t *testing.T) {
	t.Run("empty group list short-circuits", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLabGroupRepository(gormDB)

		member, err := repo.IsDirectMemberOfAny(context.Background(), nil, uuid.New())

		assert.NoError(t, err)
		assert.False(t, member)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("checks membership across the subtree", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLabGroupRepository(gormDB)

		groupIDs := []uuid.UUID{uuid.New(), uuid.New()}
		userID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "lab_group_members" WHERE lab_group_id IN \(\$1,\$2\) AND user_id = \$3`).
			WithArgs(groupIDs[0], groupIDs[1], userID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		member, err := repo.IsDirectMemberOfAny(context.Background(), groupIDs, userID)

		assert.NoError(t, err)
		assert.True(t, member)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormLabGroupRepository_FindMemberIDs(t *testing.T) {
	t.Run("plucks the member ids", func(t *testing.T) {
		gormDB, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormLabGroupRepository(gormDB)

		groupID := uuid.New()
		memberID := uuid.New()

		mock.ExpectQuery(`SELECT "user_id" FROM "lab_group_members" WHERE lab_group_id = \$1`).
			WithArgs(groupID).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(memberID))

		ids, err := repo.FindMemberIDs(context.Background(), groupID)

		assert.NoError(t, err)
		assert.Equal(t, []uuid.UUID{memberID}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
