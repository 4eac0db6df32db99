// Package todo holds the task model, the in-memory task list, and the
// whole-file JSON store that persists it.
//
// The store file is a pretty-printed JSON array:
//
//	[
//	  {
//	    "id": 0,
//	    "motacongviec": "buy milk",
//	    "trangthai": false,
//	    "nguoitao": "alice"
//	  }
//	]
//
// Field names follow the established file format so existing files keep
// loading: "motacongviec" is the description, "trangthai" the done flag and
// "nguoitao" the creator.
//
// # Identifiers
//
// Ids are unsigned 32-bit integers. A new task gets max(existing ids) + 1, or
// 0 when the list is empty. The next id is tracked as a high-water mark for the
// lifetime of a List, so deleting tasks never causes an id to be handed out
// again.
//
// # Validation
//
// Load validates the decoded document against a JSON Schema. The schema is
// embedded in the binary (tasks.schema.json) and can be replaced by an
// external file through StoreOptions.SchemaPath.
//
// # File Format
//
// When writing the store file, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - "[]" for an empty list
package todo
