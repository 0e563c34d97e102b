// Package nvs provides the non-volatile byte region that the parameter store
// persists into.
//
// A Medium behaves like the EEPROM emulation found on ESP32-class boards: a
// fixed-capacity RAM shadow that reads and writes operate on, plus a Commit
// that makes the shadow durable. Uncommitted writes are visible to reads in
// the same session and are lost on power loss.
//
// # Implementations
//
//   - Memory: RAM-only durable copy, used by tests and for power-cycle simulation
//   - File: single image file, committed via write-to-temp and rename
//   - SQLite: one BLOB row per named region in the nvs_regions table
//
// An erased (never written) region reads as BlankByte (0xFF) everywhere.
//
// # Usage
//
//	medium := nvs.NewFile("./data/eeprom.bin")
//	if err := medium.Open(nvs.DefaultCapacity); err != nil {
//	    return err
//	}
//	defer medium.Close()
//
//	if err := medium.WriteBytes(0, []byte{0x01}); err != nil {
//	    return err
//	}
//	return medium.Commit()
//
// Media are not safe for concurrent use; the storage.Store serialises access.
package nvs
