// Package diagnostic collects the non-fatal findings of a transformation.
//
// A decode keeps going when it meets something it can recover from:
//   - a bridged type name that no longer resolves
//   - a metadata option it does not recognize
//
// Each finding is recorded with a code so callers can filter on it.
package diagnostic
