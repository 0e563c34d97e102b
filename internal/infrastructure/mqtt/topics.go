package mqtt

import "strings"

// Status payloads published to the availability topic. They match the
// payload_available and payload_not_available defaults of Home Assistant.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Discovery components used for parameter entities.
const (
	ComponentNumber = "number"
	ComponentSwitch = "switch"
	ComponentSensor = "sensor"
)

// Topics builds the topic names for one machine.
//
// Every parameter lives under a base of prefix + hostname:
//
//	topics := mqtt.NewTopics("custom/kitchen.", "silvia")
//	topics.Param("brewSetpoint")    // custom/kitchen.silvia/brewSetpoint
//	topics.ParamSet("brewSetpoint") // custom/kitchen.silvia/brewSetpoint/set
//	topics.Status()                 // custom/kitchen.silvia/status
//
// The prefix is used verbatim, so it carries its own separator.
type Topics struct {
	Prefix   string
	Hostname string
}

// NewTopics returns the topic builder for hostname under prefix.
func NewTopics(prefix, hostname string) Topics {
	return Topics{Prefix: prefix, Hostname: hostname}
}

// Base returns the topic root of the machine.
func (t Topics) Base() string {
	return t.Prefix + t.Hostname
}

// Param returns the retained state topic of a parameter.
func (t Topics) Param(field string) string {
	return t.Base() + "/" + field
}

// ParamSet returns the command topic of a parameter.
func (t Topics) ParamSet(field string) string {
	return t.Param(field) + "/set"
}

// AllParamSets returns the pattern matching every command topic.
//
// Pattern: <base>/+/set
func (t Topics) AllParamSets() string {
	return t.Base() + "/+/set"
}

// Status returns the availability topic (also the LWT topic).
func (t Topics) Status() string {
	return t.Base() + "/status"
}

// FieldFromSetTopic extracts the parameter name from a command topic.
// It returns false for topics outside this machine's command space.
func (t Topics) FieldFromSetTopic(topic string) (string, bool) {
	rest, ok := strings.CutPrefix(topic, t.Base()+"/")
	if !ok {
		return "", false
	}
	field, ok := strings.CutSuffix(rest, "/set")
	if !ok || field == "" || strings.Contains(field, "/") {
		return "", false
	}
	return field, true
}

// Discovery returns the Home Assistant discovery config topic of an entity.
//
// Example: homeassistant/number/pidstore-silvia-brewSetpoint/config
func Discovery(discoveryPrefix, component, objectID string) string {
	return discoveryPrefix + "/" + component + "/" + objectID + "/config"
}
