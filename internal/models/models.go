package models

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
type JSONValue interface{}

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// JSONObject represents a JSON object with its keys kept in document order.
// encoding/json decodes objects into unordered maps, which would make field
// ordering in the generated code depend on map iteration; the parser builds
// this type instead so that declaration order matches the input document.
type JSONObject struct {
	keys   []string
	values map[string]JSONValue
}

// NewJSONObject creates an empty ordered object.
func NewJSONObject() *JSONObject {
	return &JSONObject{values: make(map[string]JSONValue)}
}

// Set stores a value under key, preserving first-insertion order.
// Setting an existing key overwrites the value without moving the key.
func (o *JSONObject) Set(key string, value JSONValue) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Get returns the value for key and whether it was present.
func (o *JSONObject) Get(key string) (JSONValue, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns the object's keys in insertion order.
func (o *JSONObject) Keys() []string {
	return o.keys
}

// Len returns the number of keys in the object.
func (o *JSONObject) Len() int {
	return len(o.keys)
}

// IntermediateRepresentation holds the parsed JSON data in a form that is
// easy for the inference engine to work with.
type IntermediateRepresentation struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}
