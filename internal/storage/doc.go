// Package storage keeps the controller parameters in a non-volatile region.
//
// A Store sits on top of an nvs.Medium and offers two views of the same
// configuration:
//   - typed item access: Get and Set address one parameter by ItemID
//   - document access: LoadConfig and SaveConfig move the whole Snapshot
//
// # Region strategies
//
// The document strategy (default) keeps one JSON object at offset 0 followed
// by a NUL terminator. The raw strategy keeps each item at a fixed offset of
// the binary Layout, behind a two-byte layout version header. Both sit
// behind the same accessor contract; the strategy is chosen per Store.
//
// # Never-written items
//
// An item that has never been stored reads its factory default. In the raw
// form, a numeric item whose bytes are all 0xFF or a text item without a NUL
// in its window counts as never written; in the document form, a missing
// field does. The default comes from DefaultTable at the item's own layout
// offset, so the fallback is identical for both strategies.
//
// Because all-ones marks "never written", Set rejects any numeric value
// that encodes to all 0xFF bytes (for example uint16(0xFFFF)).
//
// # Lifecycle
//
//	store, err := storage.New(storage.Options{Medium: nvs.NewFile(path)})
//	ok, err := store.Setup(ctx)
//	pidOn, err := storage.Get[bool](store, params.PidOn)
//	err = storage.Set(store, params.BrewSetpoint, 94.5, storage.WithCommit())
//
// Setup opens the medium and validates the region. An invalid region is
// erased and seeded with the defaults, so a fresh device is usable on
// first boot.
//
// # Commit
//
// Writes land in the medium's RAM shadow. Commit (or WithCommit) persists
// the whole shadow while the Store's WriteGuard is held. Uncommitted
// writes are lost on power loss.
//
// # Thread Safety
//
// All Store methods and the generic accessors are safe for concurrent use.
// Change listeners registered with OnChange run after the store lock is
// released.
package storage
