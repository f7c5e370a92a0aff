package text_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"book-insight/internal/utils/text"
)

func TestTokenCounter_UnknownEncodingFallsBackToWords(t *testing.T) {
	counter := text.NewTokenCounter("no-such-encoding")

	assert.False(t, counter.Exact())
	assert.Equal(t, 4, counter.Count("John went to Paris."))
	assert.Equal(t, 0, counter.Count(""))
}
