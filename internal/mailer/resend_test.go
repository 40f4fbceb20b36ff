package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDisabled(t *testing.T) {
	m := New(Config{Enabled: false, APIKey: "re_123"})

	assert.False(t, m.Enabled())
	assert.Error(t, m.Send(context.Background(), "subject", "<p>body</p>"))
}

func TestNewWithoutKeyIsInert(t *testing.T) {
	m := New(Config{Enabled: true})

	assert.False(t, m.Enabled())
	assert.Error(t, m.Send(context.Background(), "subject", "<p>body</p>"))
}

func TestNewEnabled(t *testing.T) {
	m := New(Config{
		Enabled:     true,
		APIKey:      "re_123",
		FromName:    "Galen",
		FromAddress: "noreply@galen.agency",
		ToAddress:   "inbox@galen.agency",
	})

	assert.True(t, m.Enabled())
	assert.Equal(t, "Galen <noreply@galen.agency>", m.from)
	assert.Equal(t, "noreply@galen.agency", m.replyTo)
	assert.Equal(t, "inbox@galen.agency", m.to)
}
