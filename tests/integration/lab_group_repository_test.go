package integration

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cupcake/backend/internal/domain/accounts"
	"github.com/cupcake/backend/internal/domain/shared"
	"github.com/cupcake/backend/internal/infrastructure/persistence"
)

// TestLabGroupRepository_Integration tests group CRUD, the hierarchy
// queries, memberships, and permission rows against a real database.
func TestLabGroupRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormLabGroupRepository(testDB.DB)
	ctx := context.Background()

	creator := testDB.CreateTestUser("pi-user", "pi@example.org")

	t.Run("Create and FindByID", func(t *testing.T) {
		group, err := accounts.NewLabGroup("Proteomics Core", creator.ID)
		require.NoError(t, err)
		group.SetDescription("Mass spec core facility")

		require.NoError(t, repo.Create(ctx, group))

		found, err := repo.FindByID(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Proteomics Core", found.Name)
		assert.Equal(t, "Mass spec core facility", found.Description)
		assert.Equal(t, creator.ID, found.CreatedBy)
		assert.Nil(t, found.ParentGroupID)
	})

	t.Run("Hierarchy queries", func(t *testing.T) {
		root, err := accounts.NewLabGroup("Institute", creator.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, root))

		dept, err := accounts.NewLabGroup("Biochemistry", creator.ID)
		require.NoError(t, err)
		require.NoError(t, dept.SetParent(&root.ID))
		require.NoError(t, repo.Create(ctx, dept))

		lab, err := accounts.NewLabGroup("Smith Lab", creator.ID)
		require.NoError(t, err)
		require.NoError(t, lab.SetParent(&dept.ID))
		require.NoError(t, repo.Create(ctx, lab))

		children, err := repo.FindChildren(ctx, root.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, dept.ID, children[0].ID)

		// Chain is ordered root first, the group itself last
		chain, err := repo.FindAncestorChain(ctx, lab.ID)
		require.NoError(t, err)
		require.Len(t, chain, 3)
		assert.Equal(t, root.ID, chain[0].ID)
		assert.Equal(t, dept.ID, chain[1].ID)
		assert.Equal(t, lab.ID, chain[2].ID)

		// Subtree ids include the group itself
		ids, err := repo.FindDescendantIDs(ctx, root.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{root.ID, dept.ID, lab.ID}, ids)

		ids, err = repo.FindDescendantIDs(ctx, lab.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{lab.ID}, ids)
	})

	t.Run("Membership", func(t *testing.T) {
		group, err := accounts.NewLabGroup("Membership Group", creator.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, group))

		member := testDB.CreateTestUser("member1", "member1@example.org")

		require.NoError(t, repo.AddMember(ctx, group.ID, member.ID))

		// Adding the same member twice is a no-op
		require.NoError(t, repo.AddMember(ctx, group.ID, member.ID))

		isMember, err := repo.IsDirectMember(ctx, group.ID, member.ID)
		require.NoError(t, err)
		assert.True(t, isMember)

		memberIDs, err := repo.FindMemberIDs(ctx, group.ID)
		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{member.ID}, memberIDs)

		groupIDs, err := repo.FindDirectMemberGroupIDs(ctx, member.ID)
		require.NoError(t, err)
		assert.Contains(t, groupIDs, group.ID)

		any, err := repo.IsDirectMemberOfAny(ctx, []uuid.UUID{uuid.New(), group.ID}, member.ID)
		require.NoError(t, err)
		assert.True(t, any)

		require.NoError(t, repo.RemoveMember(ctx, group.ID, member.ID))
		isMember, err = repo.IsDirectMember(ctx, group.ID, member.ID)
		require.NoError(t, err)
		assert.False(t, isMember)

		// Removing again reports not found
		err = repo.RemoveMember(ctx, group.ID, member.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("Permissions upsert on group and user", func(t *testing.T) {
		group, err := accounts.NewLabGroup("Permission Group", creator.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, group))

		member := testDB.CreateTestUser("member2", "member2@example.org")

		perm := accounts.NewLabGroupPermission(group.ID, member.ID)
		require.NoError(t, repo.SavePermission(ctx, perm))

		found, err := repo.FindPermission(ctx, group.ID, member.ID)
		require.NoError(t, err)
		assert.True(t, found.CanView)
		assert.False(t, found.CanManage)

		// Saving again updates the existing row instead of inserting
		perm.CanManage = true
		perm.CanProcessJobs = true
		require.NoError(t, repo.SavePermission(ctx, perm))

		found, err = repo.FindPermission(ctx, group.ID, member.ID)
		require.NoError(t, err)
		assert.True(t, found.CanManage)
		assert.True(t, found.CanProcessJobs)

		require.NoError(t, repo.DeletePermission(ctx, group.ID, member.ID))
		_, err = repo.FindPermission(ctx, group.ID, member.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("FindAll with filters", func(t *testing.T) {
		group, err := accounts.NewLabGroup("Filterable Group", creator.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, group))

		filter := accounts.NewLabGroupFilter().WithKeyword("Filterable")
		groups, total, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, groups, 1)
		assert.Equal(t, group.ID, groups[0].ID)
	})

	t.Run("Delete", func(t *testing.T) {
		group, err := accounts.NewLabGroup("Doomed Group", creator.ID)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, group))

		require.NoError(t, repo.Delete(ctx, group.ID))
		_, err = repo.FindByID(ctx, group.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}
