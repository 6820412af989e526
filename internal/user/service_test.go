package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLabelPrefersDisplayName(t *testing.T) {
	name := "Alice B."
	u := &User{Username: "alice", DisplayName: &name}
	assert.Equal(t, "Alice B.", u.Label())

	empty := ""
	u = &User{Username: "alice", DisplayName: &empty}
	assert.Equal(t, "alice", u.Label())

	u = &User{Username: "alice"}
	assert.Equal(t, "alice", u.Label())
}

func TestCreateRejectsInvalidUsername(t *testing.T) {
	svc := NewService(nil)

	for _, username := range []string{"", "ab", "  a  "} {
		_, err := svc.Create(context.Background(), &CreateUserRequest{
			Username: username,
			Email:    "a@example.com",
		})
		require.ErrorIs(t, err, ErrInvalidUsername, "username %q", username)
	}
}
