package service

import (
	"context"
	"testing"

	"github.com/andy/invoicer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClientDelete_GuardedByInvoices(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 1}},
	})
	require.NoError(t, err)

	err = env.clients.Delete(ctx, client.ID)
	assert.True(t, domain.IsInvalidState(err))

	require.NoError(t, env.invoices.Delete(ctx, number))
	require.NoError(t, env.clients.Delete(ctx, client.ID))

	_, err = env.clients.Get(ctx, client.ID)
	assert.True(t, domain.IsNotFound(err))
}

func TestClientResolve(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	byName, err := env.clients.Resolve(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, client.ID, byName.ID)

	byID, err := env.clients.Resolve(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", byID.Name)

	_, err = env.clients.Resolve(ctx, "Nobody")
	assert.True(t, domain.IsNotFound(err))
}

func TestClientCreate_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	err := env.clients.Create(ctx, domain.NewClient("   "))
	assert.True(t, domain.IsValidation(err))

	c := domain.NewClient("Acme")
	c.Email = "not-an-email"
	err = env.clients.Create(ctx, c)
	assert.True(t, domain.IsValidation(err))
}

func TestContractor_SingleProfile(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	ok, err := env.contractor.IsSetUp(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	err = env.contractor.Update(ctx, domain.NewContractor("Nobody"))
	assert.True(t, domain.IsNotFound(err))

	c := domain.NewContractor("Jane Doe")
	require.NoError(t, env.contractor.Save(ctx, c))

	err = env.contractor.Create(ctx, domain.NewContractor("Second"))
	assert.True(t, domain.IsInvalidState(err))

	c.Phone = "555-0199"
	require.NoError(t, env.contractor.Save(ctx, c))

	got, err := env.contractor.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.Name)
	assert.Equal(t, "555-0199", got.Phone)
	assert.Equal(t, 1, env.countRows(t, "SELECT COUNT(*) FROM contractor"))
}
