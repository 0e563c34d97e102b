package paramsync

import (
	"encoding/json"

	"github.com/nerrad567/pidstore/internal/infrastructure/mqtt"
	"github.com/nerrad567/pidstore/internal/params"
)

// manufacturer is reported in the discovery device block.
const manufacturer = "pidstore"

// Device describes the machine in discovery documents.
type Device struct {
	Hostname string
	Name     string
	Model    string
}

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model,omitempty"`
	Manufacturer string   `json:"manufacturer"`
}

// discoveryConfig is a Home Assistant MQTT discovery document for a
// number, switch or sensor entity.
type discoveryConfig struct {
	Name                string          `json:"name"`
	UniqueID            string          `json:"unique_id"`
	StateTopic          string          `json:"state_topic"`
	CommandTopic        string          `json:"command_topic,omitempty"`
	AvailabilityTopic   string          `json:"availability_topic"`
	PayloadAvailable    string          `json:"payload_available"`
	PayloadNotAvailable string          `json:"payload_not_available"`
	Min                 *float64        `json:"min,omitempty"`
	Max                 *float64        `json:"max,omitempty"`
	Step                float64         `json:"step,omitempty"`
	Mode                string          `json:"mode,omitempty"`
	Unit                string          `json:"unit_of_measurement,omitempty"`
	PayloadOn           string          `json:"payload_on,omitempty"`
	PayloadOff          string          `json:"payload_off,omitempty"`
	EntityCategory      string          `json:"entity_category,omitempty"`
	Device              discoveryDevice `json:"device"`
}

// Entity is one discovery document ready to publish.
type Entity struct {
	Topic   string
	Payload []byte
}

// uniqueID identifies a field across machines: pidstore-<host>-<field>.
func uniqueID(hostname, field string) string {
	return manufacturer + "-" + hostname + "-" + field
}

// component picks the Home Assistant entity type of f.
func component(f params.Field) string {
	switch {
	case !Settable(f):
		return mqtt.ComponentSensor
	case f.Type == params.TypeToggle:
		return mqtt.ComponentSwitch
	default:
		return mqtt.ComponentNumber
	}
}

// DiscoveryEntities builds the discovery document of every exposed field.
//
// Toggles become switches, read-only numbers sensors and the other
// numbers number entities in box mode with the field bounds and step.
// All entities share the machine's availability topic and device block.
func DiscoveryEntities(topics mqtt.Topics, discoveryPrefix string, dev Device) ([]Entity, error) {
	device := discoveryDevice{
		Identifiers:  []string{dev.Hostname},
		Name:         dev.Name,
		Model:        dev.Model,
		Manufacturer: manufacturer,
	}
	if device.Name == "" {
		device.Name = dev.Hostname
	}

	var out []Entity
	for _, f := range params.Fields() {
		if !Exposed(f) {
			continue
		}

		id := uniqueID(dev.Hostname, f.Name)
		cfg := discoveryConfig{
			Name:                f.DisplayName,
			UniqueID:            id,
			StateTopic:          topics.Param(f.Name),
			AvailabilityTopic:   topics.Status(),
			PayloadAvailable:    mqtt.StatusOnline,
			PayloadNotAvailable: mqtt.StatusOffline,
			Unit:                f.Unit,
			Device:              device,
		}

		comp := component(f)
		switch comp {
		case mqtt.ComponentSwitch:
			cfg.CommandTopic = topics.ParamSet(f.Name)
			cfg.PayloadOn = PayloadOn
			cfg.PayloadOff = PayloadOff
			cfg.Unit = ""
			cfg.EntityCategory = "config"
		case mqtt.ComponentNumber:
			lo, hi := f.Min, f.Max
			cfg.CommandTopic = topics.ParamSet(f.Name)
			cfg.Min = &lo
			cfg.Max = &hi
			cfg.Step = f.Step
			cfg.Mode = "box"
			cfg.EntityCategory = "config"
		}

		payload, err := json.Marshal(cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, Entity{
			Topic:   mqtt.Discovery(discoveryPrefix, comp, id),
			Payload: payload,
		})
	}
	return out, nil
}
