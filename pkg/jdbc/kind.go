package jdbc

import (
	"strings"
)

// Kind is a supported database kind.
type Kind int

const (
	// KindSQLite is a file based sqlite database, addressed by path.
	KindSQLite Kind = iota + 1
	// KindSQLServer is Microsoft SQL Server, using semicolon separated parameters.
	KindSQLServer
	// KindMongoDB is MongoDB.
	KindMongoDB
	// KindMySQL is MySQL.
	KindMySQL
	// KindPostgreSQL is PostgreSQL.
	KindPostgreSQL
	// KindOracle is Oracle Database.
	KindOracle
)

// kindInfo describes registered kind.
type kindInfo struct {
	name        string
	defaultPort int
}

// registry is indexed by Kind, zero value is unused.
var registry = [...]kindInfo{
	KindSQLite:     {name: "sqlite", defaultPort: 0},
	KindSQLServer:  {name: "sqlserver", defaultPort: 1433},
	KindMongoDB:    {name: "mongodb", defaultPort: 27017},
	KindMySQL:      {name: "mysql", defaultPort: 3306},
	KindPostgreSQL: {name: "postgresql", defaultPort: 5432},
	KindOracle:     {name: "oracle", defaultPort: 1521},
}

// Kinds returns all supported kinds in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(registry)-1)
	for kind := KindSQLite; int(kind) < len(registry); kind++ {
		kinds = append(kinds, kind)
	}

	return kinds
}

// Resolve returns kind by its name, case-insensitive.
func Resolve(token string) (Kind, error) {
	for _, kind := range Kinds() {
		if strings.EqualFold(registry[kind].name, token) {
			return kind, nil
		}
	}

	return 0, ErrUnsupportedKind.New("%q", token)
}

// DefaultPort returns default network port of the kind, 0 for file based kinds.
func DefaultPort(kind Kind) int {
	if !kind.valid() {
		return 0
	}

	return registry[kind].defaultPort
}

// DefaultPort returns default network port of the kind.
func (kind Kind) DefaultPort() int {
	return DefaultPort(kind)
}

// String returns canonical lowercase name of the kind.
func (kind Kind) String() string {
	if !kind.valid() {
		return "unknown"
	}

	return registry[kind].name
}

// MarshalText implements encoding.TextMarshaler.
func (kind Kind) MarshalText() ([]byte, error) {
	if !kind.valid() {
		return nil, ErrUnsupportedKind.New("%d", int(kind))
	}

	return []byte(kind.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (kind *Kind) UnmarshalText(text []byte) error {
	resolved, err := Resolve(string(text))
	if err != nil {
		return err
	}

	*kind = resolved
	return nil
}

func (kind Kind) valid() bool {
	return kind >= KindSQLite && int(kind) < len(registry)
}
