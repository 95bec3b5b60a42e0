package bypass_test

import (
	"testing"

	"go.uber.org/zap"

	"github.com/mikey/llm-email-analyzer/internal/bypass"
	"github.com/stretchr/testify/assert"
)

func TestShouldBypass(t *testing.T) {
	checker := bypass.NewChecker(
		[]string{"internal.example"},
		[]string{"noreply@", "no-reply@", "mailer-daemon@", "postmaster@"},
		zap.NewNop(),
	)

	tests := []struct {
		name   string
		sender string
		want   bool
	}{
		{"noreply prefix", "noreply@alerts.example.com", true},
		{"prefix is case insensitive", "NoReply@alerts.example.com", true},
		{"mailer daemon", "mailer-daemon@mx.example.net", true},
		{"display name form", "Alerts <noreply@svc.io>", true},
		{"whitelisted domain", "anna@internal.example", true},
		{"regular sender", "customer@gmail.com", false},
		{"not an address", "just-a-name", false},
		{"empty sender", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checker.ShouldBypass(tt.sender))
		})
	}
}

func TestShouldBypassWithNoRules(t *testing.T) {
	checker := bypass.NewChecker(nil, nil, zap.NewNop())
	assert.False(t, checker.ShouldBypass("noreply@alerts.example.com"))
}
