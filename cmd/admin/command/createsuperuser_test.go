package command

import (
	"context"
	"testing"

	"yamdb/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSuperuser(t *testing.T) {
	db := testutil.NewTestDB(t)

	user, err := createSuperuser(context.Background(), db, "root", " Root@Example.com ")
	require.NoError(t, err)

	assert.Equal(t, "root@example.com", user.Email)
	assert.True(t, user.IsSuperuser)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsAdmin())

	_, err = createSuperuser(context.Background(), db, "root", "other@example.com")
	assert.ErrorContains(t, err, "already exists")
}

func TestCreateSuperuserValidates(t *testing.T) {
	db := testutil.NewTestDB(t)

	_, err := createSuperuser(context.Background(), db, "me", "me@example.com")
	assert.ErrorContains(t, err, "invalid username")

	_, err = createSuperuser(context.Background(), db, "root", "not-an-email")
	assert.ErrorContains(t, err, "invalid email")
}
