// Package tracker provides a typed key-value state store persisted to a
// single JSON file.
//
// A Tracker maps instances of a key shape K to instances of a state shape S.
// Keys are indexed by a canonical string produced by a KeyShape; states are
// copied, decoded and validated by a StateShape. The whole mapping is written
// on an explicit Save and read back by Load (or at construction).
//
// Copy isolation:
//
//	Every state handed to Set, returned by Get/Lookup/All, or passed into an
//	Edit function is a deep copy. Mutating it never changes the tracker.
//
// Read-modify-write:
//
//	err := t.Edit(key, func(s *State) error {
//		s.Value = "changed"
//		return nil
//	})
//
//	The working copy is committed only when the function returns nil.
//
// Persisted format:
//
//	{
//	  "{\"a\":\"foo\",\"b\":1}": {
//	    "value": "bar",
//	    "flag": true
//	  }
//	}
//
// A Tracker is safe for concurrent use within one process, but Edit is not
// atomic against concurrent writers of the same key (last writer wins), and
// nothing coordinates several processes sharing one file.
package tracker
