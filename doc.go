// Package flatcol provides an embedded, single-file, typed document store.
//
// A Collection persists a set of documents to one flat file of fixed-width,
// newline-terminated, space-padded text lines. Every document occupies exactly
// one slot; slot i starts at byte i*(width+1), where width is the current slot
// width shared by the whole file. An in-memory index maps document keys to
// slot positions, so point lookups are a single seek and read. All slot widths
// grow together: when a document's encoded form outgrows the current width,
// the file is rewritten with every line re-padded to the next multiple of the
// growth increment.
//
// # Quick Start
//
//	type User struct {
//	    ID   uuid.UUID `json:"id"`
//	    Name string    `json:"name"`
//	}
//
//	func (u User) Key() string { return u.ID.String() }
//
//	func (u User) CheckAgainst(candidate User) error {
//	    if u.Name == candidate.Name {
//	        return errors.New("name already in use")
//	    }
//	    return nil
//	}
//
//	col, _ := flatcol.Open[User]("users.col")
//	defer col.Close()
//
//	_ = col.Insert(User{ID: uuid.New(), Name: "bob"})
//	u, ok := col.ByKey(id.String())
//	bobs := col.Filter(func(u User) bool { return u.Name == "bob" })
//
// # Durability Model
//
// The store favors simplicity over crash safety: there is no write-ahead log
// and no file header. Structural rewrites (width growth, deletion) build the
// complete new file in a temporary location and atomically rename it over the
// live file, so a crash mid-rewrite leaves the previous contents intact.
// In-place slot writes (insert without growth, update) are not journaled.
//
// The current slot width is not persisted. Within a session it only grows;
// on reopen it is recomputed from the widest surviving document. If the
// document that forced the last growth was deleted, a reopened store can
// compute a narrower width than the file's physical padding, which breaks
// point lookups until the next structural rewrite. This is a known
// inconsistency of the header-less format; see Open.
//
// # Concurrency
//
// A Collection performs no internal locking and assumes one caller at a time.
// Wrap it in a Shared handle to serve multiple goroutines.
package flatcol
