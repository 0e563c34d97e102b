// Package params defines the persistent parameter set of the espresso
// controller.
//
// It owns three tables that must stay in step:
//   - the item enumeration (ItemID) with storage kind and width
//   - the Snapshot struct that holds the whole configuration as one value
//   - per-field presentation metadata (Field) used by the web UI and MQTT
//
// # Item identifiers
//
// ItemID values are append-only. Storage addresses are derived from the
// layout in package storage, never from the identifier value, so adding an
// item above ItemCount never moves existing data.
//
// # Defaults
//
// Defaults returns the factory configuration. Package storage encodes it
// into the default table that backs every unwritten item.
//
// # Metadata
//
// Field metadata is never persisted. ShowIf predicates are expr-lang
// expressions over document field names, for example:
//
//	ShowIf: "pidBdOn"
//	ShowIf: "mqttOn && mqttServerPort != 1883"
//
// ValidateDocument checks API and MQTT input against a JSON Schema derived
// from the metadata before it reaches storage.
package params
