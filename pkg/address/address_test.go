package address

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/01001000/json/":
			io.WriteString(w, `{"cep":"01001-000","logradouro":"Praça da Sé","bairro":"Sé","localidade":"São Paulo","uf":"SP"}`)
		case "/99999999/json/":
			io.WriteString(w, `{"erro": true}`)
		case "/88888888/json/":
			io.WriteString(w, `{"erro": "true"}`)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, srv.Client())
	ctx := context.Background()

	a, err := c.Lookup(ctx, "01001-000")
	require.NoError(t, err)
	assert.Equal(t, Address{PostalCode: "01001-000", Street: "Praça da Sé", District: "Sé", City: "São Paulo", State: "SP"}, a)

	_, err = c.Lookup(ctx, "99999999")
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = c.Lookup(ctx, "88888888")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.Lookup(ctx, "1234")
	assert.True(t, errors.Is(err, ErrInvalidPostalCode))

	_, err = c.Lookup(ctx, "12345678")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}
