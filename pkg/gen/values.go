package gen

import (
	"fmt"
	"strings"

	"github.com/aretw0/mutagraph/pkg/domain"
)

var metasyntactic = []string{
	"foo", "bar", "baz", "qux", "quux", "corge", "grault",
	"garply", "waldo", "fred", "plugh", "xyzzy", "thud",
}

// Metasyntactic returns a random placeholder word.
func Metasyntactic(src Source) string {
	return Choose(src, metasyntactic)
}

// Keyspace returns a random keyspace name. Keyspace names only use lowercase
// letters, digits and underscores.
func Keyspace(src Source) string {
	return fmt.Sprintf("%s_%d", Metasyntactic(src), src.IntN(1000))
}

// TypeLabel returns a random type label built from one to three placeholder
// words joined by dashes.
func TypeLabel(src Source) domain.Label {
	n := 1 + src.IntN(3)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = Metasyntactic(src)
	}
	return domain.Label(strings.Join(parts, "-"))
}

// DataType returns a random resource data type.
func DataType(src Source) domain.DataType {
	return Choose(src, domain.DataTypes())
}

// Value returns a random value accepted by the data type.
func Value(src Source, dataType domain.DataType) any {
	switch dataType {
	case domain.DataTypeString:
		return Metasyntactic(src)
	case domain.DataTypeLong:
		return int64(src.IntN(200) - 100)
	case domain.DataTypeDouble:
		return float64(src.IntN(2000)-1000) / 8
	case domain.DataTypeBoolean:
		return src.Bool()
	default:
		panic(fmt.Sprintf("gen: unsupported data type %q", dataType))
	}
}
