// Package jdbc parses jdbc connection urls into connection descriptors.
//
// Supported shapes:
//
//	jdbc:mysql://host:port/name?k=v&k2=v2
//	jdbc:postgresql://host/name?k=v
//	jdbc:oracle://host/name
//	jdbc:sqlserver://host:port;databaseName=name;k=v
//	jdbc:mongodb://host/name?k=v
//	jdbc:sqlite:/absolute/or/relative/path
package jdbc

import (
	"regexp"
	"strconv"
	"strings"
)

const scheme = "jdbc:"

// pattern maps capture groups of a structural expression to url fields,
// zero group index means the field is not captured by the pattern.
type pattern struct {
	expr       *regexp.Regexp
	host       int
	port       int
	name       int
	properties int
}

// fields are raw url parts captured by pattern.
type fields struct {
	host       string
	port       string
	name       string
	properties string
}

// match reports whether the whole url matches the pattern.
func (p pattern) match(url string) (fields, bool) {
	groups := p.expr.FindStringSubmatch(url)
	if groups == nil {
		return fields{}, false
	}

	group := func(index int) string {
		if index == 0 {
			return ""
		}
		return groups[index]
	}

	return fields{
		host:       group(p.host),
		port:       group(p.port),
		name:       group(p.name),
		properties: group(p.properties),
	}, true
}

// rule is an ordered list of candidate patterns of a kind, first match wins.
type rule struct {
	patterns []pattern
	build    func(kind Kind, raw fields) (Descriptor, error)
}

var (
	standardPattern = pattern{
		expr:       regexp.MustCompile(`^jdbc:(\w+)://([^:/?]*)(?::([^/?;]*))?/([^?;]*)(?:[?&;](.*))?$`),
		host:       2,
		port:       3,
		name:       4,
		properties: 5,
	}
	// standardHostOnlyPattern captures everything up to the first separator as host.
	// It never captures name, so urls matched by it fail name validation.
	standardHostOnlyPattern = pattern{
		expr:       regexp.MustCompile(`^jdbc:(\w+)://([^?;]+)(?:[?;](.*))?$`),
		host:       2,
		properties: 3,
	}
	// sqlServerPattern host runs up to optional port and the first ;databaseName= literal.
	sqlServerPattern = pattern{
		expr:       regexp.MustCompile(`^jdbc:(?i:sqlserver)://([^:]*?)(?::([^;]*))?;databaseName=([^?;]*)(?:[?&;](.*))?$`),
		host:       1,
		port:       2,
		name:       3,
		properties: 4,
	}
	mongoDBPattern = pattern{
		expr:       regexp.MustCompile(`^jdbc:(?i:mongodb)://([^:/]*)(?::([^/?;]*))?/([^?;]*)(?:[?&;](.*))?$`),
		host:       1,
		port:       2,
		name:       3,
		properties: 4,
	}
	sqlitePattern = pattern{
		expr: regexp.MustCompile(`^jdbc:(?i:sqlite):(.*)$`),
		name: 1,
	}
)

var (
	standardRule = rule{
		patterns: []pattern{standardPattern, standardHostOnlyPattern},
		build:    buildNetwork,
	}

	rules = map[Kind]rule{
		KindSQLite: {
			patterns: []pattern{sqlitePattern},
			build:    buildFile,
		},
		KindSQLServer: {
			patterns: []pattern{sqlServerPattern},
			build:    buildNetwork,
		},
		KindMongoDB: {
			patterns: []pattern{mongoDBPattern},
			build:    buildNetwork,
		},
	}
)

// ruleFor returns structural rule of the kind, kinds without own rule use the standard one.
func ruleFor(kind Kind) rule {
	if r, ok := rules[kind]; ok {
		return r
	}

	return standardRule
}

// Parse parses jdbc url into descriptor.
// Errors are of classes ErrMalformedURL, ErrUnsupportedKind, ErrInvalidPort and ErrInvalidName.
func Parse(url string) (Descriptor, error) {
	rest, ok := strings.CutPrefix(url, scheme)
	if !ok {
		return Descriptor{}, ErrMalformedURL.New("missing jdbc: prefix")
	}

	token, _, _ := strings.Cut(rest, ":")
	kind, err := Resolve(token)
	if err != nil {
		return Descriptor{}, err
	}

	r := ruleFor(kind)
	for _, p := range r.patterns {
		raw, ok := p.match(url)
		if !ok {
			continue
		}

		return r.build(kind, raw)
	}

	return Descriptor{}, ErrMalformedURL.New("invalid %s url format", kind)
}

// buildFile builds descriptor of file based kind, path is taken verbatim and is not validated.
func buildFile(kind Kind, raw fields) (Descriptor, error) {
	return Descriptor{
		Kind:       kind,
		Name:       raw.name,
		Host:       "",
		Port:       strconv.Itoa(DefaultPort(kind)),
		Properties: []string{"path=" + raw.name},
	}, nil
}

// buildNetwork validates host, port and name in that order.
func buildNetwork(kind Kind, raw fields) (Descriptor, error) {
	host := validateHost(raw.host)

	port, err := validatePort(raw.port, kind)
	if err != nil {
		return Descriptor{}, err
	}

	name, err := validateName(raw.name)
	if err != nil {
		return Descriptor{}, err
	}

	return Descriptor{
		Kind:       kind,
		Name:       name,
		Host:       host,
		Port:       port,
		Properties: splitProperties(raw.properties),
	}, nil
}
