package services

import (
	"context"
	"testing"

	"github.com/Bekzhanizb/SocialHabitsBackend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFollowSelfRejected(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	user := createTestUser(t, dbConn, "alice")

	err := svc.Follow(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, ErrInvalidOperation)
}

func TestFollowIdempotent(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	alice := createTestUser(t, dbConn, "alice")
	bob := createTestUser(t, dbConn, "bob")
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))

	var count int64
	require.NoError(t, dbConn.Model(&models.Follow{}).
		Where("follower_id = ?", alice.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestFollowUnknownTarget(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	alice := createTestUser(t, dbConn, "alice")

	err := svc.Follow(context.Background(), alice.ID, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnfollowDeletesEdge(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	alice := createTestUser(t, dbConn, "alice")
	bob := createTestUser(t, dbConn, "bob")
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))

	// The row itself is gone: membership and counting both reflect it.
	following, err := svc.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	isFollowing, err := svc.IsFollowing(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, isFollowing)

	// Unfollowing someone never followed succeeds silently.
	assert.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
}

func TestFollowingSet(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	alice := createTestUser(t, dbConn, "alice")
	bob := createTestUser(t, dbConn, "bob")
	carol := createTestUser(t, dbConn, "carol")
	ctx := context.Background()

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, svc.Follow(ctx, alice.ID, carol.ID))

	following, err := svc.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{bob.ID, carol.ID}, following)

	followers, err := svc.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID}, followers)
}

func TestSearchUsersTermTooShort(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	alice := createTestUser(t, dbConn, "alice")

	_, err := svc.SearchUsers(context.Background(), "a", alice.ID)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SearchUsers(context.Background(), " a ", alice.ID)
	assert.ErrorIs(t, err, ErrValidation)

	// Characters, not bytes: one multibyte rune is still one character.
	_, err = svc.SearchUsers(context.Background(), "ж", alice.ID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSearchUsersTermIsLiteralNotPattern(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	searcher := createTestUser(t, dbConn, "searcher")
	createTestUser(t, dbConn, "a_b")
	createTestUser(t, dbConn, "axb")
	createTestUser(t, dbConn, "bob")

	// "_" must match only itself, not any single character.
	results, err := svc.SearchUsers(context.Background(), "a_", searcher.ID)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a_b", results[0].Username)

	// "%" must not become a match-everything wildcard.
	results, err = svc.SearchUsers(context.Background(), "%%", searcher.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchUsersPrefixMatch(t *testing.T) {
	dbConn := testDB(t)
	svc := NewSocialService(dbConn, testLogger())
	searcher := createTestUser(t, dbConn, "albert")
	createTestUser(t, dbConn, "Alice")
	createTestUser(t, dbConn, "alina")
	createTestUser(t, dbConn, "bob")
	createTestUser(t, dbConn, "malcolm") // contains "al" but not as prefix

	results, err := svc.SearchUsers(context.Background(), "al", searcher.ID)
	require.NoError(t, err)

	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Username)
	}
	// Case-insensitive prefix, caller excluded, substring matches out.
	assert.ElementsMatch(t, []string{"Alice", "alina"}, names)
}

func TestUsernameUniqueCaseInsensitive(t *testing.T) {
	dbConn := testDB(t)
	createTestUser(t, dbConn, "Alice")

	// The username_lower unique index rejects a differently-cased twin
	// even without the handler's pre-check.
	dup := models.User{Username: "alice", PasswordHash: "x", Role: models.RoleUser}
	assert.Error(t, dbConn.Create(&dup).Error)
}
