// Package dbresolver validates configured store addresses and falls back
// to a safe local store when the configuration is missing or unusable.
package dbresolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tasknest/tasknest-api/internal/platform/logger"
	"github.com/tasknest/tasknest-api/internal/redact"
)

// ErrInvalidAddress is returned when a store address fails validation and
// fallback is not permitted. This is a configuration error: it surfaces at
// startup, never mid-request.
var ErrInvalidAddress = errors.New("invalid store address")

// Known-safe local addresses. Both are file-backed sqlite stores in the
// working directory, which is writable in the container image.
const (
	// FallbackAddress is substituted when the configured address is missing
	// or invalid and fallback is allowed.
	FallbackAddress = "sqlite://tasknest.db"

	// EmergencyAddress is the second safety net: used when opening a
	// connection at the resolved address fails for any reason.
	EmergencyAddress = "sqlite://tasknest-emergency.db"
)

// database/sql driver names for the supported schemes.
const (
	driverPostgres = "pgx"
	driverSQLite   = "sqlite3"
)

// Address is a validated store address, split into the driver name and DSN
// that database/sql needs to open it.
type Address struct {
	Raw    string // the address as configured or substituted
	Driver string // database/sql driver name
	DSN    string // driver-specific data source name
}

// IsLocal reports whether the address points at a file-backed local store.
func (a Address) IsLocal() bool {
	return a.Driver == driverSQLite
}

// Parse validates a store address against the supported address grammar
// and splits it into driver and DSN. An address is valid iff it parses as
// a URL, its scheme is on the allow-list, and the scheme-specific required
// parts are present: postgres needs a host and a database name, sqlite
// needs a file path.
func Parse(raw string) (Address, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Address{}, fmt.Errorf("%w: address is empty", ErrInvalidAddress)
	}

	u, err := url.Parse(trimmed)
	if err != nil {
		return Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "postgres", "postgresql":
		if u.Hostname() == "" {
			return Address{}, fmt.Errorf("%w: postgres address requires a host", ErrInvalidAddress)
		}
		if strings.Trim(u.Path, "/") == "" {
			return Address{}, fmt.Errorf("%w: postgres address requires a database name", ErrInvalidAddress)
		}
		return Address{Raw: trimmed, Driver: driverPostgres, DSN: trimmed}, nil

	case "sqlite":
		// Accept both sqlite://relative.db (path lands in the host part)
		// and sqlite:///absolute/path.db forms.
		path := u.Opaque
		if path == "" {
			path = u.Host + u.Path
		}
		if path == "" {
			return Address{}, fmt.Errorf("%w: sqlite address requires a file path", ErrInvalidAddress)
		}
		return Address{Raw: trimmed, Driver: driverSQLite, DSN: path}, nil

	case "":
		return Address{}, fmt.Errorf("%w: address has no scheme", ErrInvalidAddress)

	default:
		return Address{}, fmt.Errorf("%w: unsupported scheme %q", ErrInvalidAddress, u.Scheme)
	}
}

// Resolve validates the configured address and yields a usable one.
// A present, valid address is returned verbatim. A missing or invalid
// address resolves to FallbackAddress when allowFallback is set (logged as
// a warning, never fatal), and to ErrInvalidAddress otherwise.
func Resolve(ctx context.Context, configured string, allowFallback bool) (Address, error) {
	log := logger.FromContext(ctx)

	trimmed := strings.TrimSpace(configured)
	if trimmed == "" {
		if !allowFallback {
			return Address{}, fmt.Errorf("%w: no store address configured and fallback is disabled", ErrInvalidAddress)
		}
		log.Warn("no store address configured, falling back to local store",
			"fallback", FallbackAddress)
		return mustParse(FallbackAddress), nil
	}

	addr, err := Parse(trimmed)
	if err == nil {
		return addr, nil
	}

	if !allowFallback {
		return Address{}, err
	}

	// The raw address may embed credentials; redact before logging.
	log.Warn("configured store address is invalid, falling back to local store",
		"error", redact.Error(err),
		"fallback", FallbackAddress)
	return mustParse(FallbackAddress), nil
}

// mustParse is for the package's own constant addresses, which are valid
// by construction.
func mustParse(raw string) Address {
	addr, err := Parse(raw)
	if err != nil {
		// ALLOW-PANIC: package constant failed to parse, unreachable
		panic(fmt.Sprintf("dbresolver: bad built-in address %q: %v", raw, err))
	}
	return addr
}
