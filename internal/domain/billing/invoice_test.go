package billing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice_Lifecycle(t *testing.T) {
	newDraft := func() *Invoice {
		inv, err := NewInvoice(uuid.New(), uuid.New(), "2026-08", decimal.NewFromInt(350000))
		require.NoError(t, err)
		return inv
	}

	t.Run("draft to issued to paid", func(t *testing.T) {
		inv := newDraft()
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.MarkPaid())
		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.NotNil(t, inv.PaidAt)
	})

	t.Run("cannot pay a draft", func(t *testing.T) {
		assert.Error(t, newDraft().MarkPaid())
	})

	t.Run("cannot void a paid invoice", func(t *testing.T) {
		inv := newDraft()
		require.NoError(t, inv.Issue())
		require.NoError(t, inv.MarkPaid())
		assert.Error(t, inv.Void())
	})

	t.Run("void is terminal", func(t *testing.T) {
		inv := newDraft()
		require.NoError(t, inv.Void())
		assert.Error(t, inv.Void())
		assert.Error(t, inv.Issue())
	})

	t.Run("rejects malformed month and negative amount", func(t *testing.T) {
		_, err := NewInvoice(uuid.New(), uuid.New(), "August", decimal.NewFromInt(1))
		assert.Error(t, err)
		_, err = NewInvoice(uuid.New(), uuid.New(), "2026-08", decimal.NewFromInt(-1))
		assert.Error(t, err)
	})
}
