package connections

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// SSLConfig holds the TLS material for a datasource connection.
// Partial configuration is legal: a CA certificate without a client
// cert/key pair is passed through as-is.
type SSLConfig struct {
	CACertificate  string `yaml:"ca_certificate"`
	SSLCertificate string `yaml:"ssl_certificate"`
	SSLKey         string `yaml:"ssl_key"`
}

// isConfigured reports whether any TLS field is present.
func (s *SSLConfig) isConfigured() bool {
	if s == nil {
		return false
	}
	return s.CACertificate != "" || s.SSLCertificate != "" || s.SSLKey != ""
}

// Descriptor declaratively describes how to reach and authenticate
// against a database. It is supplied by the caller and mutated in place
// only to lazily fill SSL-related connection arguments; callers inspect
// the merged arguments afterward in some code paths.
type Descriptor struct {
	ServiceID uuid.UUID `yaml:"service_id"`
	Type      string    `yaml:"type"` // dialect type, e.g. "trino", "postgres"
	Host      string    `yaml:"host"`
	Port      int       `yaml:"port"`
	Username  string    `yaml:"username"`
	Password  string    `yaml:"password"`
	Database  string    `yaml:"database"`

	SSL *SSLConfig `yaml:"ssl,omitempty"`

	// ConnectionArguments is a free-form map of driver arguments. Nil
	// until something (the caller, or the SSL merge) needs it.
	ConnectionArguments map[string]any `yaml:"connection_arguments,omitempty"`
}

// UnmarshalYAML decodes a descriptor, parsing service_id from its
// string form (yaml.v3 has no native uuid support).
func (d *Descriptor) UnmarshalYAML(value *yaml.Node) error {
	type plainDescriptor struct {
		ServiceID           string         `yaml:"service_id"`
		Type                string         `yaml:"type"`
		Host                string         `yaml:"host"`
		Port                int            `yaml:"port"`
		Username            string         `yaml:"username"`
		Password            string         `yaml:"password"`
		Database            string         `yaml:"database"`
		SSL                 *SSLConfig     `yaml:"ssl"`
		ConnectionArguments map[string]any `yaml:"connection_arguments"`
	}

	var plain plainDescriptor
	if err := value.Decode(&plain); err != nil {
		return err
	}

	if plain.ServiceID != "" {
		id, err := uuid.Parse(plain.ServiceID)
		if err != nil {
			return fmt.Errorf("parse service_id: %w", err)
		}
		d.ServiceID = id
	}

	d.Type = plain.Type
	d.Host = plain.Host
	d.Port = plain.Port
	d.Username = plain.Username
	d.Password = plain.Password
	d.Database = plain.Database
	d.SSL = plain.SSL
	d.ConnectionArguments = plain.ConnectionArguments
	return nil
}

// LoadDescriptorFile reads a YAML connection descriptor from disk.
func LoadDescriptorFile(path string) (*Descriptor, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read descriptor %s: %w", path, err)
	}

	var d Descriptor
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("parse descriptor %s: %w", path, err)
	}
	return &d, nil
}
