package s3

import (
	"testing"

	"innkeep/config"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		domain string
		want   string
	}{
		{name: "plain domain", domain: "https://cdn.innkeep.local", want: "https://cdn.innkeep.local/folios/stay-1.json"},
		{name: "trailing slash", domain: "https://cdn.innkeep.local/", want: "https://cdn.innkeep.local/folios/stay-1.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, publicURL(tt.domain, "folios/stay-1.json"))
		})
	}
}

func TestEnabled(t *testing.T) {
	cfg := &config.Config{}
	svc := &s3Impl{cfg: cfg}

	assert.False(t, svc.Enabled())

	cfg.External.S3.BucketName = "innkeep-folios"
	assert.True(t, svc.Enabled())
}
