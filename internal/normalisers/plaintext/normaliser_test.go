package plaintext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	normaliser := New()

	got := normaliser.Render("First.\r\n\r\n\r\n\r\nSecond.\n")

	assert.Equal(t, "First.\n\nSecond.", got)
}

func TestRender_Empty(t *testing.T) {
	assert.Empty(t, New().Render("   \n  "))
}
