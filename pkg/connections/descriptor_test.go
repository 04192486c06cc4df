package connections

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDescriptorFile(t *testing.T) {
	raw := `
service_id: 7a9f0a8e-3a62-4be5-9c17-1f6b9a3c2d41
type: trino
host: trino.internal
port: 8080
username: probe
password: secret
database: hive
ssl:
  ca_certificate: ca-pem
connection_arguments:
  connect_timeout: 10
`
	path := filepath.Join(t.TempDir(), "trino.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	d, err := LoadDescriptorFile(path)
	require.NoError(t, err)

	assert.Equal(t, "trino", d.Type)
	assert.Equal(t, "trino.internal", d.Host)
	assert.Equal(t, 8080, d.Port)
	assert.Equal(t, "hive", d.Database)
	require.NotNil(t, d.SSL)
	assert.Equal(t, "ca-pem", d.SSL.CACertificate)
	assert.Equal(t, 10, d.ConnectionArguments["connect_timeout"])
	assert.Equal(t, "7a9f0a8e-3a62-4be5-9c17-1f6b9a3c2d41", d.ServiceID.String())
}

func TestLoadDescriptorFileMissing(t *testing.T) {
	_, err := LoadDescriptorFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadDescriptorFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("type: [unclosed"), 0o600))

	_, err := LoadDescriptorFile(path)
	assert.Error(t, err)
}
