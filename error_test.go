package webscraper_test

import (
	"errors"
	"fmt"
	"testing"

	webscraper "github.com/dmtanner/authenticated-webscraper"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := webscraper.Errorf(webscraper.EMALFORMED, "no %q after label %q", "\n", "Term:")

	assert.Equal(t, webscraper.EMALFORMED, webscraper.ErrorCode(err))
	assert.Equal(t, `no "\n" after label "Term:"`, webscraper.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, webscraper.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, webscraper.ErrorMessage(nil))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("row 3: %w", webscraper.Errorf(webscraper.EFETCH, "HTTP 500"))

	assert.Equal(t, webscraper.EFETCH, webscraper.ErrorCode(err))
	assert.Equal(t, "HTTP 500", webscraper.ErrorMessage(err))
}

func TestErrorCode_Joined(t *testing.T) {
	t.Parallel()

	err := errors.Join(errors.New("plain"), webscraper.Errorf(webscraper.EMALFORMED, "bad"))

	assert.Equal(t, webscraper.EMALFORMED, webscraper.ErrorCode(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, webscraper.EINTERNAL, webscraper.ErrorCode(err))
	assert.Equal(t, "Internal error.", webscraper.ErrorMessage(err))
}
