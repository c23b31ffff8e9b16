package validate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func TestStructAcceptsValidInput(t *testing.T) {
	t.Parallel()

	err := Struct(signupForm{Username: "alice", Email: "alice@example.com", Password: "password1"})
	require.NoError(t, err)
}

func TestStructReportsFieldErrors(t *testing.T) {
	t.Parallel()

	err := Struct(signupForm{Username: "al", Email: "not-an-email", Password: "short"})
	require.Error(t, err)

	var fieldErrs *FieldErrors
	require.ErrorAs(t, err, &fieldErrs)

	fields := fieldErrs.Fields()
	require.Equal(t, "must be at least 3 characters", fields["username"])
	require.Equal(t, "must be a valid email address", fields["email"])
	require.Equal(t, "must be at least 8 characters", fields["password"])

	require.Contains(t, fieldErrs.Error(), "field 'email' must be a valid email address")
}
