package webscraper_test

import (
	"testing"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretProposal(t *testing.T) {
	t.Parallel()

	t.Run("extracts proposal fields", func(t *testing.T) {
		t.Parallel()

		text := "Grand\n\nTotal:\n$450.00\nDiscount\n10%\nTerm:\n12 months auto-renew\n"

		p, err := webscraper.InterpretProposal(text)

		require.NoError(t, err)
		assert.Equal(t, webscraper.Found("$450.00"), p.GrandTotal)
		assert.Equal(t, webscraper.Found("10%"), p.Discount)
		assert.Equal(t, webscraper.Found("12 months auto-renew"), p.Term)
		assert.Equal(t, webscraper.Found("12"), p.TermLength)
		assert.True(t, p.AutoRenew)
		assert.False(t, p.Basic)
		assert.False(t, p.TrialPeriod.OK())
	})

	t.Run("tolerates runs of blank lines between cells", func(t *testing.T) {
		t.Parallel()

		text := "Grand\n\n\nTotal:\n\n\n\n$450.00\n\n\nTerm:\n\n\n\n12 months auto-renew\n"

		p, err := webscraper.InterpretProposal(text)

		require.NoError(t, err)
		assert.Equal(t, webscraper.Found("$450.00"), p.GrandTotal)
		assert.Equal(t, webscraper.Found("12"), p.TermLength)
		assert.True(t, p.AutoRenew)
	})

	t.Run("detects basic plan and trial period", func(t *testing.T) {
		t.Parallel()

		text := "Plan: Basic\nTerm:\n6 months\nTrial\nPeriod:\n30 days\n"

		p, err := webscraper.InterpretProposal(text)

		require.NoError(t, err)
		assert.True(t, p.Basic)
		assert.False(t, p.AutoRenew)
		assert.Equal(t, webscraper.Found("6"), p.TermLength)
		assert.Equal(t, webscraper.Found("30"), p.TrialPeriod)
	})

	t.Run("auto-renew requires the marker in the term", func(t *testing.T) {
		t.Parallel()

		text := "Term:\n12 months\nNotes:\nauto-renew disabled\n"

		p, err := webscraper.InterpretProposal(text)

		require.NoError(t, err)
		assert.False(t, p.AutoRenew)
	})

	t.Run("auto-renew at the start of the term", func(t *testing.T) {
		t.Parallel()

		p, err := webscraper.InterpretProposal("Term:\nauto-renew monthly\n")

		require.NoError(t, err)
		assert.True(t, p.AutoRenew)
		assert.Equal(t, webscraper.Found("auto-renew"), p.TermLength)
	})

	t.Run("missing labels leave fields absent", func(t *testing.T) {
		t.Parallel()

		p, err := webscraper.InterpretProposal("an unrelated document\n")

		require.NoError(t, err)
		require.NotNil(t, p)
		assert.False(t, p.GrandTotal.OK())
		assert.False(t, p.Discount.OK())
		assert.False(t, p.Term.OK())
		assert.False(t, p.TermLength.OK())
		assert.False(t, p.AutoRenew)
		assert.False(t, p.TrialPeriod.OK())
	})

	t.Run("malformed field does not block the others", func(t *testing.T) {
		t.Parallel()

		text := "Discount\n5%\nGrand\nTotal:\n$99"

		p, err := webscraper.InterpretProposal(text)

		require.Error(t, err)
		assert.Equal(t, webscraper.EMALFORMED, webscraper.ErrorCode(err))
		assert.False(t, p.GrandTotal.OK())
		assert.Equal(t, webscraper.Found("5%"), p.Discount)
	})

	t.Run("is idempotent", func(t *testing.T) {
		t.Parallel()

		text := "Grand\nTotal:\n$10\nTerm:\n1 year auto-renew\nBasic\n"

		first, err1 := webscraper.InterpretProposal(text)
		second, err2 := webscraper.InterpretProposal(text)

		assert.Equal(t, first, second)
		assert.Equal(t, err1, err2)
	})
}
