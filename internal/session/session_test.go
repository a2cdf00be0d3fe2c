package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/kioskarr/internal/models"
)

func TestSessionAuthenticationNeedsTokenAndUser(t *testing.T) {
	s := New()
	assert.False(t, s.IsAuthenticated())

	s.SetToken("abc")
	assert.False(t, s.IsAuthenticated(), "token alone is not enough")

	s.SetUser(&models.User{ID: 1, Username: "neo", Role: models.RoleUser})
	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.IsAdmin())

	s.Set("def", &models.User{ID: 2, Username: "morpheus", Role: models.RoleAdmin})
	assert.True(t, s.IsAdmin())
	assert.Equal(t, "def", s.Token())

	s.Clear()
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestUserIsReturnedAsCopy(t *testing.T) {
	s := New()
	s.Set("abc", &models.User{Username: "neo"})

	u := s.User()
	u.Username = "smith"
	assert.Equal(t, "neo", s.User().Username)
}

func TestExpireTokenIgnoresStaleToken(t *testing.T) {
	s := New()
	calls := 0
	s.OnExpire(func(*models.User) { calls++ })

	s.Set("new", &models.User{Username: "neo"})
	assert.False(t, s.ExpireToken("old"))
	assert.False(t, s.ExpireToken(""))
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, 0, calls)

	assert.True(t, s.ExpireToken("new"))
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, 1, calls)

	// Already expired
	assert.False(t, s.ExpireToken("new"))
	assert.Equal(t, 1, calls)
}

func TestMemoryTokenStore(t *testing.T) {
	store := NewMemoryTokenStore()

	_, err := store.LoadToken()
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, store.SaveToken("abc"))
	token, err := store.LoadToken()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	require.NoError(t, store.DeleteToken())
	_, err = store.LoadToken()
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestSetInstallsTokenAndUserTogether(t *testing.T) {
	s := New()
	neo := &models.User{Username: "neo", Role: models.RoleUser}
	morpheus := &models.User{Username: "morpheus", Role: models.RoleAdmin}
	s.Set("user-token", neo)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			if i%2 == 0 {
				s.Set("admin-token", morpheus)
			} else {
				s.Set("user-token", neo)
			}
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		token, user := s.Snapshot()
		require.NotNil(t, user)
		if token == "admin-token" {
			require.Equal(t, "morpheus", user.Username)
		} else {
			require.Equal(t, "neo", user.Username)
		}
	}
}

func TestExpireTokenPassesExpiredUser(t *testing.T) {
	s := New()
	var got []*models.User
	s.OnExpire(func(u *models.User) { got = append(got, u) })

	s.SetToken("restoring")
	require.True(t, s.ExpireToken("restoring"))

	s.Set("live", &models.User{Username: "neo"})
	require.True(t, s.ExpireToken("live"))

	require.Len(t, got, 2)
	assert.Nil(t, got[0], "no user loaded yet")
	require.NotNil(t, got[1])
	assert.Equal(t, "neo", got[1].Username)
}
