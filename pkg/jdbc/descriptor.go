package jdbc

import (
	"strconv"
	"strings"
)

// Descriptor holds connection parameters extracted from jdbc url.
type Descriptor struct {
	Kind Kind `json:"kind"`
	// Name is database or schema name, for sqlite it is file path.
	Name string `json:"name"`
	// Host is empty for sqlite.
	Host string `json:"host"`
	// Port is explicit port or default port of the kind.
	Port string `json:"port"`
	// Properties are raw key=value tokens in order of appearance.
	Properties []string `json:"properties"`
}

// PortNumber returns port as a number.
func (descriptor Descriptor) PortNumber() int {
	port, err := strconv.Atoi(descriptor.Port)
	if err != nil {
		return 0
	}

	return port
}

// Property returns value of the first property with the given key.
func (descriptor Descriptor) Property(key string) (string, bool) {
	for _, property := range descriptor.Properties {
		name, value, _ := strings.Cut(property, "=")
		if name == key {
			return value, true
		}
	}

	return "", false
}

// String renders descriptor as kind, name, host, port and properties.
func (descriptor Descriptor) String() string {
	var b strings.Builder

	b.WriteString("Descriptor{kind='")
	b.WriteString(descriptor.Kind.String())
	b.WriteString("', name='")
	b.WriteString(descriptor.Name)
	b.WriteString("', host='")
	b.WriteString(descriptor.Host)
	b.WriteString("', port='")
	b.WriteString(descriptor.Port)
	b.WriteString("', properties=[")
	b.WriteString(strings.Join(descriptor.Properties, ", "))
	b.WriteString("]}")

	return b.String()
}
