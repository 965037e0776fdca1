package postgres

import (
	"net/url"
	"testing"

	"innkeep/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpoints(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Prefix = "staging_"
	cfg.DB.Postgres.Read.Host = "replica"
	cfg.DB.Postgres.Read.Port = "5433"
	cfg.DB.Postgres.Read.Name = "innkeep"
	cfg.DB.Postgres.Write.Host = "primary"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "innkeep"

	read, write := endpoints(cfg)

	assert.Equal(t, "read", read.role)
	assert.Equal(t, "replica", read.host)
	assert.Equal(t, "staging_innkeep", read.name)
	assert.Equal(t, "write", write.role)
	assert.Equal(t, "primary", write.host)
	assert.Equal(t, "staging_innkeep", write.name)
}

func TestEndpoint_DSN(t *testing.T) {
	tests := []struct {
		name      string
		endpoint  endpoint
		wantQuery url.Values
	}{
		{
			name: "all options",
			endpoint: endpoint{
				host: "db", port: "5432", user: "innkeep", password: "s3cr#t?", name: "innkeep",
				sslMode: "require", timezone: "Africa/Lagos",
			},
			wantQuery: url.Values{"sslmode": {"require"}, "timezone": {"Africa/Lagos"}},
		},
		{
			name:      "empty options are omitted",
			endpoint:  endpoint{host: "db", port: "5432", user: "innkeep", password: "pw", name: "innkeep"},
			wantQuery: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := url.Parse(tt.endpoint.dsn())
			require.NoError(t, err)

			password, _ := parsed.User.Password()

			assert.Equal(t, "postgres", parsed.Scheme)
			assert.Equal(t, "db:5432", parsed.Host)
			assert.Equal(t, "/innkeep", parsed.Path)
			assert.Equal(t, tt.endpoint.password, password)
			assert.Equal(t, tt.wantQuery, parsed.Query())
		})
	}
}
