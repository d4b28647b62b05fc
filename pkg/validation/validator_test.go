package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type bookRequest struct {
	Title    string `json:"title" validate:"required,notblank"`
	PubYear  int    `json:"pub_year" validate:"pubyear"`
	Edition  int    `json:"edition" validate:"min=1"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"omitempty,pwd"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	Register(v)
	return v
}

func TestToDetails_UsesJSONNames(t *testing.T) {
	err := newValidator().Struct(bookRequest{Title: "  ", PubYear: 900, Edition: 0, Email: "nope", Password: "abc"})

	details := ToDetails(err)
	assert.Equal(t, map[string]string{
		"title":    "must not be blank",
		"pub_year": "must be a plausible publication year",
		"edition":  "must be at least 1",
		"email":    "must be a valid email",
		"password": "must be at least 6 characters long",
	}, details)
}

func TestToDetails_ValidPayload(t *testing.T) {
	err := newValidator().Struct(bookRequest{Title: "Dune", PubYear: 1965, Edition: 1})
	assert.NoError(t, err)
	assert.Nil(t, ToDetails(err))
}

func TestToDetails_JSONErrors(t *testing.T) {
	var req bookRequest
	err := json.Unmarshal([]byte(`{"title":`), &req)
	assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))

	err = json.Unmarshal([]byte(`{"edition":"first"}`), &req)
	assert.Equal(t, map[string]string{"edition": "must be of type int"}, ToDetails(err))
}

func TestPassword_LimitCountsBytes(t *testing.T) {
	v := newValidator()

	// 30 runes, 90 bytes
	err := v.Struct(bookRequest{Title: "Dune", PubYear: 1965, Edition: 1, Password: strings.Repeat("語", 30)})
	assert.Equal(t, map[string]string{"password": "must be at most 72 bytes long"}, ToDetails(err))

	err = v.Struct(bookRequest{Title: "Dune", PubYear: 1965, Edition: 1, Password: strings.Repeat("語", 24)})
	assert.NoError(t, err)
}
