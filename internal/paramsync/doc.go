// Package paramsync mirrors the stored parameters onto MQTT.
//
// Every numeric and toggle field is published, retained, to
// <prefix><hostname>/<field>. Values written to <prefix><hostname>/<field>/set
// are parsed, checked against the field bounds, stored and committed.
// Text fields carry credentials and addresses and never leave the machine.
//
// With discovery enabled the bridge also publishes one Home Assistant
// discovery document per field: toggles as switch entities, counters as
// sensors, everything else as number entities bounded by the field
// metadata. Entities are tied to the <prefix><hostname>/status
// availability topic the MQTT client maintains.
//
// # Usage
//
//	bridge := paramsync.New(store, client, paramsync.Options{
//	    Topics:          client.Topics(),
//	    QoS:             1,
//	    Discovery:       true,
//	    DiscoveryPrefix: "homeassistant",
//	    Device:          paramsync.Device{Hostname: "silvia"},
//	})
//	store.OnChange(bridge.HandleChange)
//	go bridge.Run(ctx)
package paramsync
