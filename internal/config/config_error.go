package config

import "fmt"

type ConfigErrorCode string

const (
	ConfigErrorInvalidFile     ConfigErrorCode = "invalid_file"
	ConfigErrorMissingNeo4jURI ConfigErrorCode = "missing_neo4j_uri"
	ConfigErrorInvalidNeo4jURI ConfigErrorCode = "invalid_neo4j_uri"
	ConfigErrorInvalidCount    ConfigErrorCode = "invalid_count"
	ConfigErrorUnknownSource   ConfigErrorCode = "unknown_source"
	ConfigErrorMissingIMAP     ConfigErrorCode = "missing_imap"
	ConfigErrorMissingEMLDir   ConfigErrorCode = "missing_eml_dir"
)

type ConfigError struct {
	Code  ConfigErrorCode
	Value string
	Cause error
}

func (e *ConfigError) Error() string {
	if e == nil {
		return "invalid mailgraph config"
	}
	switch e.Code {
	case ConfigErrorInvalidFile:
		return fmt.Sprintf("cannot read config file %q: %v", e.Value, e.Cause)
	case ConfigErrorMissingNeo4jURI:
		return "NEO4J_URI is required"
	case ConfigErrorInvalidNeo4jURI:
		return fmt.Sprintf("invalid NEO4J_URI=%q; expected bolt:// or neo4j:// URI like bolt://localhost:7687", e.Value)
	case ConfigErrorInvalidCount:
		return fmt.Sprintf("invalid MAILGRAPH_COUNT=%q; expected a non-negative integer", e.Value)
	case ConfigErrorUnknownSource:
		return fmt.Sprintf("unknown MAILGRAPH_SOURCE=%q; expected synthetic, exchange, imap or eml", e.Value)
	case ConfigErrorMissingIMAP:
		return fmt.Sprintf("imap source requires %s", e.Value)
	case ConfigErrorMissingEMLDir:
		return "eml source requires EML_DIR"
	default:
		return "invalid mailgraph config"
	}
}

func (e *ConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
