package validatorx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	validatorx "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/validator"
)

type sample struct {
	Name  string  `json:"name" validate:"notblank"`
	Email string  `json:"email" validate:"required,email"`
	Price float64 `json:"price" validate:"gte=0"`
}

func TestValidateStruct_OK(t *testing.T) {
	err := validatorx.ValidateStruct(sample{Name: "Bob", Email: "bob@mail.com", Price: 10})
	require.NoError(t, err)
}

func TestValidateStruct_MessageUsesJSONNames(t *testing.T) {
	err := validatorx.ValidateStruct(sample{Name: "   ", Email: "nope", Price: -1})
	require.Error(t, err)

	msg := validatorx.Message(err)
	require.Contains(t, msg, "name: notblank")
	require.Contains(t, msg, "email: email")
	require.Contains(t, msg, "price: gte")
}
