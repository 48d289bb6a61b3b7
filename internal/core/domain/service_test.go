package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Custom Website Development!", "custom-website-development"},
		{"UI/UX Design Services", "ui-ux-design-services"},
		{"API Development & Integration", "api-development-integration"},
		{"  --Leading and trailing--  ", "leading-and-trailing"},
		{"Already-a-slug", "already-a-slug"},
		{"Café Über 2024", "caf-ber-2024"},
		{"!!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, Slugify(got), "slugify must be idempotent")
		})
	}
}

func TestService_Rename(t *testing.T) {
	svc := &Service{Name: "Cybersecurity Audit", Slug: "cybersecurity-audit"}

	assert.False(t, svc.Rename("Cybersecurity Audit"))
	assert.Equal(t, "cybersecurity-audit", svc.Slug)

	assert.True(t, svc.Rename("Security Audit Pro"))
	assert.Equal(t, "Security Audit Pro", svc.Name)
	assert.Equal(t, "security-audit-pro", svc.Slug)
}

func TestCategory_IsValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.IsValid(), c)
	}
	assert.False(t, Category("marketing").IsValid())
	assert.False(t, Category("").IsValid())
}
