package domain

import "fmt"

// DataType is the value type carried by the instances of a resource type.
type DataType string

const (
	DataTypeString  DataType = "string"
	DataTypeLong    DataType = "long"
	DataTypeDouble  DataType = "double"
	DataTypeBoolean DataType = "boolean"
)

// DataTypes lists the supported resource data types.
func DataTypes() []DataType {
	return []DataType{DataTypeString, DataTypeLong, DataTypeDouble, DataTypeBoolean}
}

// Accepts reports whether v is a valid value for the data type.
func (d DataType) Accepts(v any) bool {
	switch d {
	case DataTypeString:
		_, ok := v.(string)
		return ok
	case DataTypeLong:
		_, ok := v.(int64)
		return ok
	case DataTypeDouble:
		_, ok := v.(float64)
		return ok
	case DataTypeBoolean:
		_, ok := v.(bool)
		return ok
	default:
		return false
	}
}

// Render returns the data type as it is written in a trace.
func (d DataType) Render() string {
	return "DataType." + string(d)
}

// Format renders a value of the data type as a literal.
func (d DataType) Format(v any) string {
	if d == DataTypeString {
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%v", v)
}
