package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActorRoles(t *testing.T) {
	admin := Actor{ID: "u1", Role: "admin"}
	tailor := Actor{ID: "u2", Role: "tailor"}
	customer := Actor{ID: "u3", Role: "customer"}

	assert.True(t, admin.IsAdmin())
	assert.True(t, admin.IsStaff())
	assert.False(t, tailor.IsAdmin())
	assert.True(t, tailor.IsStaff())
	assert.False(t, customer.IsStaff())

	assert.True(t, Guest.IsGuest())
	assert.Equal(t, "guest", Guest.Label())
	assert.Equal(t, "u3", customer.Label())
}
