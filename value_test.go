package webscraper_test

import (
	"testing"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/stretchr/testify/assert"
)

func TestValue(t *testing.T) {
	t.Parallel()

	t.Run("zero value is absent", func(t *testing.T) {
		t.Parallel()

		var v webscraper.Value
		s, ok := v.Get()

		assert.False(t, ok)
		assert.False(t, v.OK())
		assert.Empty(t, s)
		assert.Equal(t, "n/a", v.Or("n/a"))
	})

	t.Run("found empty is distinct from absent", func(t *testing.T) {
		t.Parallel()

		v := webscraper.Found("")

		assert.True(t, v.OK())
		assert.Empty(t, v.String())
		assert.Empty(t, v.Or("n/a"))
		assert.NotEqual(t, webscraper.Value{}, v)
	})

	t.Run("found holds string", func(t *testing.T) {
		t.Parallel()

		v := webscraper.Found("$450.00")
		s, ok := v.Get()

		assert.True(t, ok)
		assert.Equal(t, "$450.00", s)
		assert.Equal(t, "$450.00", v.String())
	})
}
