package spoongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	City  string
	Lines []string
}

type user struct {
	Name      string
	FirstName string
	Address   *address
	Tags      map[int]string
	secret    string
	admin     bool
}

func (u user) Greeting() string { return "hello " + u.Name }

func (u *user) IsAdmin() bool { return u.admin }

func (u user) GetSecret() (string, error) {
	if u.secret == "" {
		return "", errors.New("no secret")
	}

	return u.secret, nil
}

type status string

func TestLookup(t *testing.T) {
	alice := &user{
		Name:      "Alice",
		FirstName: "Alice",
		Address:   &address{City: "Kyoto", Lines: []string{"1-2-3", "Sakyo"}},
		Tags:      map[int]string{7: "seven"},
		secret:    "s3cret",
		admin:     true,
	}

	context := map[string]any{
		"user":    alice,
		"items":   []any{"a", map[string]any{"id": 42}},
		"matrix":  [][]int{{1, 2}, {3, 4}},
		"word":    "héllo",
		"states":  map[status]int{"open": 1},
		"counts":  map[uint8]string{3: "three"},
		"nothing": nil,
	}

	tests := []struct {
		name     string
		path     []string
		expected any
	}{
		{"root", []string{"word"}, "héllo"},
		{"nested map in slice", []string{"items", "1", "id"}, 42},
		{"slice index", []string{"items", "0"}, "a"},
		{"nested slices", []string{"matrix", "1", "0"}, 3},
		{"string index by rune", []string{"word", "1"}, "é"},
		{"struct field through pointer", []string{"user", "Name"}, "Alice"},
		{"lower-case field", []string{"user", "address", "city"}, "Kyoto"},
		{"snake case field", []string{"user", "first_name"}, "Alice"},
		{"slice in struct", []string{"user", "Address", "Lines", "1"}, "Sakyo"},
		{"integer map key", []string{"user", "Tags", "7"}, "seven"},
		{"unsigned map key", []string{"counts", "3"}, "three"},
		{"named string map key", []string{"states", "open"}, 1},
		{"getter", []string{"user", "greeting"}, "hello Alice"},
		{"pointer receiver Is getter", []string{"user", "admin"}, true},
		{"getter with error result", []string{"user", "secret"}, "s3cret"},
		{"nil leaf", []string{"nothing"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(context, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLookupEmptyPath(t *testing.T) {
	got, err := Lookup(map[string]int{"a": 1}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"a": 1}, got)
}

func TestLookupErrors(t *testing.T) {
	context := map[string]any{
		"list":    []int{1, 2, 3},
		"user":    user{Name: "Bob"},
		"nothing": nil,
		"empty":   (*user)(nil),
		"number":  12,
	}

	tests := []struct {
		name string
		path []string
		err  error
		msg  string
	}{
		{"missing map key", []string{"missing"}, ErrKeyNotFound, "key not found: missing"},
		{"index out of range", []string{"list", "3"}, ErrIndexOutOfRange, "index out of range: 3 of 3: list.3"},
		{"negative index", []string{"list", "-1"}, ErrIndexOutOfRange, ""},
		{"non-numeric index", []string{"list", "first"}, ErrNotIndexable, ""},
		{"missing struct field", []string{"user", "age"}, ErrKeyNotFound, "key not found: user.age"},
		{"pointer receiver getter on value", []string{"user", "admin"}, ErrKeyNotFound, ""},
		{"through nil", []string{"nothing", "x"}, ErrNilValue, "nil value: nothing.x"},
		{"through nil pointer", []string{"empty", "Name"}, ErrNilValue, ""},
		{"scalar", []string{"number", "x"}, ErrNotIndexable, "value is not indexable: int: number.x"},
		{"scalar element", []string{"list", "1", "x"}, ErrNotIndexable, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(context, tt.path)
			assert.Nil(t, got)
			assert.ErrorIs(t, err, tt.err)
			if tt.msg != "" {
				assert.EqualError(t, err, tt.msg)
			}
		})
	}
}

func TestLookupGetterError(t *testing.T) {
	_, err := Lookup(user{}, []string{"secret"})
	assert.EqualError(t, err, "no secret: secret")
}

func TestCamelCase(t *testing.T) {
	assert.Equal(t, "FirstName", camelCase("first_name"))
	assert.Equal(t, "UserID", camelCase("userID"))
	assert.Equal(t, "3", camelCase("3"))
	assert.Equal(t, []string{"Name", "GetName", "IsName", "HasName"}, getterNames("name"))
	assert.Equal(t, []string{"Name"}, fieldNames("Name"))
}
