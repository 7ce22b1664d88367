package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidRole(t *testing.T) {
	assert.True(t, IsValidRole("USER"))
	assert.True(t, IsValidRole("VENDOR"))
	assert.True(t, IsValidRole("ADMIN"))
	assert.False(t, IsValidRole("admin"))
	assert.False(t, IsValidRole(""))
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Asha Rao", (&User{FirstName: "Asha", LastName: "Rao"}).FullName())
	assert.Equal(t, "Asha", (&User{FirstName: "Asha"}).FullName())
}
