package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/andy/invoicer/internal/domain"
	"github.com/andy/invoicer/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvoice_AcmeScenario(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "Consulting", Quantity: 3, Rate: 9.99}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", number)

	inv, err := env.invoices.Get(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.InDelta(t, 29.97, inv.Total, 1e-9)
	assert.Equal(t, "29.97", domain.FormatMoney(inv.Total))
	assert.Equal(t, "Acme", inv.Client.Name)
	require.Len(t, inv.LineItems, 1)

	receipt, err := env.invoices.MarkPaid(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, "REC-0001", receipt.ReceiptNumber)
	assert.InDelta(t, 29.97, receipt.PaidAmount, 1e-9)

	err = env.invoices.Update(ctx, number, UpdateInvoiceParams{
		Items: []domain.LineItemInput{{ServiceName: "Consulting", Quantity: 4, Rate: 9.99}},
	})
	assert.True(t, domain.IsInvalidState(err))

	inv, err = env.invoices.Get(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, "REC-0001", inv.ReceiptNumber)
	assert.InDelta(t, 29.97, inv.Total, 1e-9)
}

func TestCreateInvoice_TotalFollowsItems(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items: []domain.LineItemInput{
			{ServiceName: "A", Quantity: 2, Rate: 10},
			{ServiceName: "B", Quantity: 1, Rate: 5},
		},
	})
	require.NoError(t, err)

	inv, err := env.invoices.Get(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, "25.00", domain.FormatMoney(inv.Total))
	assert.Equal(t, domain.SumAmounts(inv.LineItems), inv.Total)

	receipt, err := env.invoices.MarkPaid(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, 25.0, receipt.PaidAmount)
	assert.NotEqual(t, number, receipt.ReceiptNumber)
}

func TestUpdateInvoice_ReplacesItemsAndTotal(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 100}},
	})
	require.NoError(t, err)

	other := domain.NewClient("Globex")
	require.NoError(t, env.clients.Create(ctx, other))

	err = env.invoices.Update(ctx, number, UpdateInvoiceParams{
		ClientID:       other.ID,
		LeaveDateBlank: true,
		Items: []domain.LineItemInput{
			{ServiceName: "X", Quantity: 2, Rate: 7.5},
			{ServiceName: "Y", Quantity: 3, Rate: 1},
			{ServiceName: "Z", Quantity: 1, Rate: 0.25},
		},
	})
	require.NoError(t, err)

	inv, err := env.invoices.Get(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, number, inv.InvoiceNumber)
	assert.Equal(t, other.ID, inv.ClientID)
	assert.True(t, inv.LeaveDateBlank)
	assert.Equal(t, "2024-03-15", inv.InvoiceDate.Format("2006-01-02"))
	require.Len(t, inv.LineItems, 3)
	assert.Equal(t, []string{"X", "Y", "Z"}, []string{
		inv.LineItems[0].ServiceName, inv.LineItems[1].ServiceName, inv.LineItems[2].ServiceName,
	})
	assert.InDelta(t, 18.25, inv.Total, 1e-9)
	assert.Equal(t, domain.SumAmounts(inv.LineItems), inv.Total)
	assert.Equal(t, 3, env.countRows(t, "SELECT COUNT(*) FROM invoice_items"))
}

func TestMarkPaid_TwiceIssuesOneReceipt(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 10}},
	})
	require.NoError(t, err)

	_, err = env.invoices.MarkPaid(ctx, number)
	require.NoError(t, err)

	_, err = env.invoices.MarkPaid(ctx, number)
	var stateErr *domain.InvalidStateError
	require.True(t, errors.As(err, &stateErr))
	assert.Equal(t, "paid", stateErr.Status)

	assert.Equal(t, 1, env.countRows(t, "SELECT COUNT(*) FROM receipts"))
}

func TestMarkPaid_ConcurrentCallersIssueOneReceipt(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 10}},
	})
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.invoices.MarkPaid(ctx, number)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, domain.IsInvalidState(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, env.countRows(t, "SELECT COUNT(*) FROM receipts"))
}

func TestPaidInvoice_UpdateAndDeleteRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 2, Rate: 10}},
	})
	require.NoError(t, err)
	_, err = env.invoices.MarkPaid(ctx, number)
	require.NoError(t, err)

	err = env.invoices.Update(ctx, number, UpdateInvoiceParams{
		Items: []domain.LineItemInput{{ServiceName: "B", Quantity: 1, Rate: 1}},
	})
	assert.True(t, domain.IsInvalidState(err))

	err = env.invoices.Delete(ctx, number)
	assert.True(t, domain.IsInvalidState(err))

	inv, err := env.invoices.Get(ctx, number)
	require.NoError(t, err)
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "A", inv.LineItems[0].ServiceName)
	assert.Equal(t, 20.0, inv.Total)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
}

func TestDeleteInvoice_PendingCascadesItems(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items: []domain.LineItemInput{
			{ServiceName: "A", Quantity: 1, Rate: 1},
			{ServiceName: "B", Quantity: 1, Rate: 2},
		},
	})
	require.NoError(t, err)

	require.NoError(t, env.invoices.Delete(ctx, number))

	_, err = env.invoices.Get(ctx, number)
	assert.True(t, domain.IsNotFound(err))
	assert.Equal(t, 0, env.countRows(t, "SELECT COUNT(*) FROM invoice_items"))

	err = env.invoices.Delete(ctx, number)
	assert.True(t, domain.IsNotFound(err))
}

func TestDeleteInvoice_PendingWithReceiptRejected(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 1}},
	})
	require.NoError(t, err)

	inv, err := env.invoices.Get(ctx, number)
	require.NoError(t, err)

	// Receipt without the status flip: the abnormal state delete must refuse.
	_, err = env.receipts.Issue(ctx, inv.ID, inv.Total)
	require.NoError(t, err)

	err = env.invoices.Delete(ctx, number)
	assert.True(t, domain.IsInvalidState(err))
	assert.Equal(t, 1, env.countRows(t, "SELECT COUNT(*) FROM invoices"))
	assert.Equal(t, 1, env.countRows(t, "SELECT COUNT(*) FROM invoice_items"))
}

func TestMarkPaid_ReceiptFailureRollsBack(t *testing.T) {
	failing := newTestEnv(t, func(r repository.ReceiptRepository) repository.ReceiptRepository {
		return &failingReceiptRepo{ReceiptRepository: r}
	})
	client := failing.setup(t)
	ctx := context.Background()

	number, err := failing.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 10}},
	})
	require.NoError(t, err)

	_, err = failing.invoices.MarkPaid(ctx, number)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)

	inv, err := failing.invoiceRepo.GetByNumber(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceStatusPending, inv.Status)
	assert.Equal(t, 0, failing.countRows(t, "SELECT COUNT(*) FROM receipts"))
	assert.Equal(t, 0, failing.countRows(t, "SELECT last_value FROM sequences WHERE name = 'receipt'"))
}

func TestCreateInvoice_ItemFailureRollsBack(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	_, err := env.invoicesFailingItems().Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 2, Rate: 10}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)

	assert.Equal(t, 0, env.countRows(t, "SELECT COUNT(*) FROM invoices"))
	assert.Equal(t, 0, env.countRows(t, "SELECT COUNT(*) FROM invoice_items"))
	list, err := env.invoices.List(ctx, domain.InvoiceFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 2, Rate: 10}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", number)
}

func TestUpdateInvoice_ItemFailureRollsBack(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 2, Rate: 10}},
	})
	require.NoError(t, err)

	err = env.invoicesFailingItems().Update(ctx, number, UpdateInvoiceParams{
		InvoiceDate:    time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		LeaveDateBlank: true,
		Items: []domain.LineItemInput{
			{ServiceName: "B", Quantity: 1, Rate: 5},
			{ServiceName: "C", Quantity: 3, Rate: 1},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStore)

	inv, err := env.invoices.Get(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, 20.0, inv.Total)
	assert.False(t, inv.LeaveDateBlank)
	assert.Equal(t, "2024-03-15", inv.InvoiceDate.Format("2006-01-02"))
	require.Len(t, inv.LineItems, 1)
	assert.Equal(t, "A", inv.LineItems[0].ServiceName)
	assert.Equal(t, 2, inv.LineItems[0].Quantity)
}

func TestCreateInvoice_RejectsEmptyItems(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	_, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
	})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 0, env.countRows(t, "SELECT COUNT(*) FROM invoices"))

	number, err := env.invoices.Create(ctx, CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", number)
}

func TestCreateInvoice_RequiresContractorAndClient(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	items := []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 1}}

	client := domain.NewClient("Acme")
	require.NoError(t, env.clients.Create(ctx, client))

	_, err := env.invoices.Create(ctx, CreateInvoiceParams{ClientID: client.ID, InvoiceDate: march15(), Items: items})
	assert.True(t, domain.IsNotFound(err))

	require.NoError(t, env.contractor.Create(ctx, domain.NewContractor("Jane Doe")))

	_, err = env.invoices.Create(ctx, CreateInvoiceParams{ClientID: 999, InvoiceDate: march15(), Items: items})
	assert.True(t, domain.IsNotFound(err))

	_, err = env.invoices.Create(ctx, CreateInvoiceParams{ClientID: client.ID, ContractorID: 7, InvoiceDate: march15(), Items: items})
	assert.True(t, domain.IsNotFound(err))

	_, err = env.invoices.Create(ctx, CreateInvoiceParams{ClientID: client.ID, Items: items})
	assert.True(t, domain.IsValidation(err))

	assert.Equal(t, 0, env.countRows(t, "SELECT COUNT(*) FROM invoices"))
}

func TestInvoiceNumbers_NotReusedAfterDelete(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()
	params := CreateInvoiceParams{
		ClientID:    client.ID,
		InvoiceDate: march15(),
		Items:       []domain.LineItemInput{{ServiceName: "A", Quantity: 1, Rate: 1}},
	}

	first, err := env.invoices.Create(ctx, params)
	require.NoError(t, err)
	require.NoError(t, env.invoices.Delete(ctx, first))

	second, err := env.invoices.Create(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, "INV-0001", first)
	assert.Equal(t, "INV-0002", second)
}

func TestInvoiceListAndStats(t *testing.T) {
	env := newTestEnv(t, nil)
	client := env.setup(t)
	ctx := context.Background()

	var numbers []string
	for _, rate := range []float64{10, 20, 30} {
		n, err := env.invoices.Create(ctx, CreateInvoiceParams{
			ClientID:    client.ID,
			InvoiceDate: march15(),
			Items:       []domain.LineItemInput{{ServiceName: "Work", Quantity: 1, Rate: rate}},
		})
		require.NoError(t, err)
		numbers = append(numbers, n)
	}
	_, err := env.invoices.MarkPaid(ctx, numbers[1])
	require.NoError(t, err)

	stats, err := env.invoices.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalCount)
	assert.Equal(t, 2, stats.PendingCount)
	assert.Equal(t, 1, stats.PaidCount)
	assert.Equal(t, 60.0, stats.TotalAmount)
	assert.Equal(t, 40.0, stats.PendingAmount)
	assert.Equal(t, 20.0, stats.PaidAmount)

	paid := domain.InvoiceStatusPaid
	list, err := env.invoices.List(ctx, domain.InvoiceFilter{Status: &paid})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, numbers[1], list[0].InvoiceNumber)
	assert.Equal(t, "REC-0001", list[0].ReceiptNumber)
}
