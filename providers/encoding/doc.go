/*
Package encoding implements the pluggable value-encoding adapters a node
consults when storing or emitting a byte-buffer value.

An encoder descriptor is a string of the form "name", "name.sub", or
"name(args...)" — e.g. "utf8", "array(utf8)", "string.fixed(10)" — resolved
through a Registry into an Adapter exposing Encode/Decode. Descriptors
compose recursively: "array(utf8)" decodes a length-prefixed sequence of
utf8-decoded elements, reusing the "utf8" adapter for each element.

The "json" adapter's Decode path is grounded on the teacher's
core/parse.ParseStringAs / internal/utils.ParseStringAs idiom: attempt
encoding/json.Unmarshal first, and on failure fall back to
github.com/kaptinlin/jsonrepair before retrying, so a node typed with the
"json" encoding tolerates the same class of malformed input the teacher's
LLM-output parser does.
*/
package encoding
