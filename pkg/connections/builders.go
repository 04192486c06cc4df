package connections

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"sync"

	"github.com/dataprobe-io/probe-engine/pkg/apperrors"
	"github.com/dataprobe-io/probe-engine/pkg/dialect"
)

var (
	inDockerOnce sync.Once
	inDocker     bool
)

func runningInDocker() bool {
	inDockerOnce.Do(func() {
		_, err := os.Stat("/.dockerenv")
		inDocker = err == nil
	})
	return inDocker
}

// resolveHost maps loopback hosts to host.docker.internal when the
// connector itself runs inside Docker, so descriptors written for a
// datasource on the host machine keep working.
func resolveHost(host string) string {
	if !runningInDocker() {
		return host
	}
	if host == "localhost" || host == "127.0.0.1" {
		return "host.docker.internal"
	}
	return host
}

// ConnectionURLFn renders a driver DSN from a descriptor.
type ConnectionURLFn func(d *Descriptor) (string, error)

// ConnectionArgsFn produces the driver argument map for a descriptor.
type ConnectionArgsFn func(d *Descriptor) map[string]any

// InitEmptyConnectionArguments returns a fresh empty argument map.
func InitEmptyConnectionArguments() map[string]any {
	return make(map[string]any)
}

// MergeSSLArguments folds the descriptor's TLS material into its
// connection arguments under a nested "ssl" map, setting ssl_ca,
// ssl_cert and ssl_key only for the fields that are present. When no
// TLS field is set the descriptor is left untouched; in particular no
// argument map is created. Idempotent.
func MergeSSLArguments(d *Descriptor) {
	if !d.SSL.isConfigured() {
		return
	}

	if d.ConnectionArguments == nil {
		d.ConnectionArguments = InitEmptyConnectionArguments()
	}

	sslArgs, _ := d.ConnectionArguments["ssl"].(map[string]any)
	if sslArgs == nil {
		sslArgs = make(map[string]any)
	}
	if d.SSL.CACertificate != "" {
		sslArgs["ssl_ca"] = d.SSL.CACertificate
	}
	if d.SSL.SSLCertificate != "" {
		sslArgs["ssl_cert"] = d.SSL.SSLCertificate
	}
	if d.SSL.SSLKey != "" {
		sslArgs["ssl_key"] = d.SSL.SSLKey
	}
	d.ConnectionArguments["ssl"] = sslArgs
}

// GetConnectionURL builds a URL-shaped DSN from the descriptor.
// IMPORTANT: user-provided fields are URL-escaped so special characters
// in passwords (@, /, #, ?) don't break URL parsing. Dialects whose DSN
// is not URL-shaped (sqlite) need a caller-supplied ConnectionURLFn.
func GetConnectionURL(d *Descriptor) (string, error) {
	if !dialect.IsRegistered(d.Type) {
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnknownDialect, d.Type)
	}

	userInfo := ""
	if d.Username != "" || d.Password != "" {
		userInfo = url.QueryEscape(d.Username)
		if d.Password != "" {
			userInfo += ":" + url.QueryEscape(d.Password)
		}
		userInfo += "@"
	}

	host := resolveHost(d.Host)
	if d.Port > 0 {
		host = fmt.Sprintf("%s:%d", host, d.Port)
	}

	return fmt.Sprintf("%s://%s%s/%s", d.Type, userInfo, host, url.QueryEscape(d.Database)), nil
}

// GetConnectionArgs returns the descriptor's argument map as-is,
// including anything MergeSSLArguments folded in.
func GetConnectionArgs(d *Descriptor) map[string]any {
	return d.ConnectionArguments
}

// CreateGenericDBConnection opens an engine for the descriptor using
// the injected URL and argument builders. Builder failures propagate
// unmodified; there are no retries at this layer.
func CreateGenericDBConnection(d *Descriptor, urlFn ConnectionURLFn, argsFn ConnectionArgsFn) (*Engine, error) {
	reg, ok := dialect.Lookup(d.Type)
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownDialect, d.Type)
	}

	connURL, err := urlFn(d)
	if err != nil {
		return nil, err
	}
	args := argsFn(d)

	db, err := sql.Open(reg.DriverName, connURL)
	if err != nil {
		return nil, err
	}

	return &Engine{
		DB:      db,
		URL:     connURL,
		Args:    args,
		Dialect: reg,
	}, nil
}

// BuildEngine merges the descriptor's TLS material into its connection
// arguments and delegates engine construction to the generic builder.
func BuildEngine(d *Descriptor) (*Engine, error) {
	MergeSSLArguments(d)
	return CreateGenericDBConnection(d, GetConnectionURL, GetConnectionArgs)
}
