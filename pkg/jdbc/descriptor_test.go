package jdbc_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jdbcurl/pkg/jdbc"
)

func TestDescriptorString(t *testing.T) {
	descriptor, err := jdbc.Parse("jdbc:mysql://localhost:3306/mydatabase?user=root&password=secret")
	require.NoError(t, err)

	expected := "Descriptor{kind='mysql', name='mydatabase', host='localhost', port='3306', properties=[user=root, password=secret]}"
	assert.Equal(t, expected, descriptor.String())

	descriptor, err = jdbc.Parse("jdbc:oracle://192.168.1.100/testdb")
	require.NoError(t, err)
	assert.Equal(t, "Descriptor{kind='oracle', name='testdb', host='192.168.1.100', port='1521', properties=[]}", descriptor.String())
}

func TestDescriptorJSON(t *testing.T) {
	descriptor, err := jdbc.Parse("jdbc:mongodb://127.0.0.1/mydb?replicaSet=mySet")
	require.NoError(t, err)

	data, err := json.Marshal(descriptor)
	require.NoError(t, err)
	assert.JSONEq(t, `{"kind":"mongodb","name":"mydb","host":"127.0.0.1","port":"27017","properties":["replicaSet=mySet"]}`, string(data))

	var decoded jdbc.Descriptor
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, descriptor, decoded)
}

func TestDescriptorHelpers(t *testing.T) {
	descriptor, err := jdbc.Parse("jdbc:postgresql://db:5433/app?sslmode=require&application_name=a=b&flag")
	require.NoError(t, err)

	assert.Equal(t, 5433, descriptor.PortNumber())

	value, ok := descriptor.Property("sslmode")
	assert.True(t, ok)
	assert.Equal(t, "require", value)

	value, ok = descriptor.Property("application_name")
	assert.True(t, ok)
	assert.Equal(t, "a=b", value)

	value, ok = descriptor.Property("flag")
	assert.True(t, ok)
	assert.Equal(t, "", value)

	_, ok = descriptor.Property("missing")
	assert.False(t, ok)

	sqlite, err := jdbc.Parse("jdbc:sqlite:app.db")
	require.NoError(t, err)
	assert.Equal(t, 0, sqlite.PortNumber())

	path, ok := sqlite.Property("path")
	assert.True(t, ok)
	assert.Equal(t, "app.db", path)
}
