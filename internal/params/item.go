package params

import "fmt"

// ItemID identifies one persistent parameter.
//
// The enumeration is append-only: identifiers are stable across firmware
// versions and must never be renumbered. New items go directly above
// ItemCount, and need an entry in the items table below, a field on
// Snapshot (with its Ref case), a default in Defaults and a slot in the
// storage layout.
type ItemID int

// Parameter items, in stable identifier order.
const (
	PidOn                ItemID = iota // PID on/off state
	PidStartPonM                       // use PonM for the cold start phase
	PidKpStart                         // P part at cold start phase
	PidTnStart                         // I part at cold start phase
	PidKpRegular                       // P part at regular operation
	PidTnRegular                       // I part at regular operation
	PidTvRegular                       // D part at regular operation
	PidIMaxRegular                     // integrator upper limit
	PidKpBd                            // P part at brew detection phase
	PidTnBd                            // I part at brew detection phase
	PidTvBd                            // D part at brew detection phase
	BrewSetpoint                       // brew setpoint
	BrewTempOffset                     // brew temperature offset
	UseBdPid                           // separate PID for brew detection
	BrewTime                           // brew time
	BrewSwTime                         // software brew detection time
	BrewPidDelay                       // brew PID delay
	BdThreshold                        // brew detection limit
	WifiCredentialsSaved               // wifi setup done
	PreInfusionTime                    // pre-infusion time
	PreInfusionPause                   // pre-infusion pause
	PidKpSteam                         // P part at steam phase
	SteamSetpoint                      // steam mode setpoint
	SoftApEnabledCheck                 // soft AP enable state
	WifiSSID                           // wifi SSID
	WifiPassword                       // wifi password
	WeightSetpoint                     // brew weight setpoint
	Reserved28                         // reserved
	Reserved29                         // reserved
	InfluxDBOn                         // InfluxDB export switch
	MQTTOn                             // MQTT switch
	MQTTUsername                       // MQTT username
	MQTTPassword                       // MQTT password
	MQTTTopicPrefix                    // MQTT topic prefix
	MQTTServerIP                       // MQTT broker address
	MQTTServerPort                     // MQTT broker port
	StandbyModeOn                      // standby mode switch
	StandbyModeTime                    // minutes until standby
	ScaleCalibration                   // load cell calibration factor
	BrewCounter                        // total brews
	DisplayBrightness                  // display backlight in percent
	SteamTimeout                       // idle seconds before steam mode ends
	PidSampleTime                      // PID sample time in milliseconds

	// ItemCount marks the end of the enumeration. It is not a valid item.
	ItemCount
)

// Kind is the storage type of an item.
type Kind uint8

// Item kinds.
const (
	KindInvalid Kind = iota
	KindBool
	KindUint8
	KindUint16
	KindUint32
	KindInt8
	KindInt16
	KindInt32
	KindFloat32
	KindFloat64
	KindText
	KindReserved
)

var kindNames = map[Kind]string{
	KindBool:     "bool",
	KindUint8:    "uint8",
	KindUint16:   "uint16",
	KindUint32:   "uint32",
	KindInt8:     "int8",
	KindInt16:    "int16",
	KindInt32:    "int32",
	KindFloat32:  "float32",
	KindFloat64:  "float64",
	KindText:     "text",
	KindReserved: "reserved",
}

// String returns the kind name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Size returns the encoded width of a numeric kind, or 0 for text and
// reserved kinds whose width comes from the item.
func (k Kind) Size() int {
	switch k {
	case KindBool, KindUint8, KindInt8:
		return 1
	case KindUint16, KindInt16:
		return 2
	case KindUint32, KindInt32, KindFloat32:
		return 4
	case KindFloat64:
		return 8
	default:
		return 0
	}
}

// IsText reports whether the kind stores a NUL-terminated string.
func (k Kind) IsText() bool {
	return k == KindText
}

// Item describes how one parameter is stored.
type Item struct {
	ID ItemID

	// Name is the stable identifier used in logs and the API item routes.
	Name string

	// Field is the document field name. Empty for reserved items.
	Field string

	Kind Kind

	// Size is the storage width in bytes. For text it includes the NUL.
	Size int
}

// Reserved reports whether the item is a padding slot that holds no value.
func (it Item) Reserved() bool {
	return it.Kind == KindReserved
}

func numeric(id ItemID, name, field string, kind Kind) Item {
	return Item{ID: id, Name: name, Field: field, Kind: kind, Size: kind.Size()}
}

func text(id ItemID, name, field string, size int) Item {
	return Item{ID: id, Name: name, Field: field, Kind: KindText, Size: size}
}

func reserved(id ItemID, name string, size int) Item {
	return Item{ID: id, Name: name, Kind: KindReserved, Size: size}
}

// Text item widths, NUL terminator included.
const (
	SSIDSize        = 33
	WifiPasswordLen = 65
	CredentialSize  = 33
	TopicPrefixSize = 65
	ServerIPSize    = 40
)

var items = [ItemCount]Item{
	PidOn:                numeric(PidOn, "pid_on", "pidOn", KindBool),
	PidStartPonM:         numeric(PidStartPonM, "pid_start_ponm", "useStartPonM", KindBool),
	PidKpStart:           numeric(PidKpStart, "pid_kp_start", "pidKpStart", KindFloat64),
	PidTnStart:           numeric(PidTnStart, "pid_tn_start", "pidTnStart", KindFloat64),
	PidKpRegular:         numeric(PidKpRegular, "pid_kp_regular", "pidKpRegular", KindFloat64),
	PidTnRegular:         numeric(PidTnRegular, "pid_tn_regular", "pidTnRegular", KindFloat64),
	PidTvRegular:         numeric(PidTvRegular, "pid_tv_regular", "pidTvRegular", KindFloat64),
	PidIMaxRegular:       numeric(PidIMaxRegular, "pid_i_max_regular", "pidIMaxRegular", KindFloat64),
	PidKpBd:              numeric(PidKpBd, "pid_kp_bd", "pidKpBd", KindFloat64),
	PidTnBd:              numeric(PidTnBd, "pid_tn_bd", "pidTnBd", KindFloat64),
	PidTvBd:              numeric(PidTvBd, "pid_tv_bd", "pidTvBd", KindFloat64),
	BrewSetpoint:         numeric(BrewSetpoint, "brew_setpoint", "brewSetpoint", KindFloat64),
	BrewTempOffset:       numeric(BrewTempOffset, "brew_temp_offset", "brewTempOffset", KindFloat64),
	UseBdPid:             numeric(UseBdPid, "use_bd_pid", "pidBdOn", KindBool),
	BrewTime:             numeric(BrewTime, "brew_time", "brewTimeMs", KindFloat64),
	BrewSwTime:           numeric(BrewSwTime, "brew_sw_time", "brewSwTimeSec", KindFloat64),
	BrewPidDelay:         numeric(BrewPidDelay, "brew_pid_delay", "brewPIDDelaySec", KindFloat64),
	BdThreshold:          numeric(BdThreshold, "bd_threshold", "brewDetectionThreshold", KindFloat64),
	WifiCredentialsSaved: numeric(WifiCredentialsSaved, "wifi_credentials_saved", "wifiCredentialsSaved", KindBool),
	PreInfusionTime:      numeric(PreInfusionTime, "pre_infusion_time", "preInfusionTimeMs", KindFloat64),
	PreInfusionPause:     numeric(PreInfusionPause, "pre_infusion_pause", "preInfusionPauseMs", KindFloat64),
	PidKpSteam:           numeric(PidKpSteam, "pid_kp_steam", "steamkp", KindFloat64),
	SteamSetpoint:        numeric(SteamSetpoint, "steam_setpoint", "steamSetpoint", KindFloat64),
	SoftApEnabledCheck:   numeric(SoftApEnabledCheck, "soft_ap_enabled_check", "softApEnabledCheck", KindBool),
	WifiSSID:             text(WifiSSID, "wifi_ssid", "wifiSSID", SSIDSize),
	WifiPassword:         text(WifiPassword, "wifi_password", "wifiPassword", WifiPasswordLen),
	WeightSetpoint:       numeric(WeightSetpoint, "weight_setpoint", "weightSetpoint", KindFloat64),
	Reserved28:           reserved(Reserved28, "reserved_28", 2),
	Reserved29:           reserved(Reserved29, "reserved_29", 2),
	InfluxDBOn:           numeric(InfluxDBOn, "influxdb_on", "influxDbOn", KindBool),
	MQTTOn:               numeric(MQTTOn, "mqtt_on", "mqttOn", KindBool),
	MQTTUsername:         text(MQTTUsername, "mqtt_username", "mqttUsername", CredentialSize),
	MQTTPassword:         text(MQTTPassword, "mqtt_password", "mqttPassword", CredentialSize),
	MQTTTopicPrefix:      text(MQTTTopicPrefix, "mqtt_topic_prefix", "mqttTopicPrefix", TopicPrefixSize),
	MQTTServerIP:         text(MQTTServerIP, "mqtt_server_ip", "mqttServerIp", ServerIPSize),
	MQTTServerPort:       numeric(MQTTServerPort, "mqtt_server_port", "mqttServerPort", KindUint16),
	StandbyModeOn:        numeric(StandbyModeOn, "standby_mode_on", "standbyModeOn", KindBool),
	StandbyModeTime:      numeric(StandbyModeTime, "standby_mode_time", "standbyModeTime", KindFloat64),
	ScaleCalibration:     numeric(ScaleCalibration, "scale_calibration", "scaleCalibration", KindFloat32),
	BrewCounter:          numeric(BrewCounter, "brew_counter", "brewCounter", KindUint32),
	DisplayBrightness:    numeric(DisplayBrightness, "display_brightness", "displayBrightness", KindInt8),
	SteamTimeout:         numeric(SteamTimeout, "steam_timeout", "steamTimeout", KindInt16),
	PidSampleTime:        numeric(PidSampleTime, "pid_sample_time", "pidSampleTime", KindInt32),
}

// Valid reports whether id names an item of the enumeration.
func (id ItemID) Valid() bool {
	return id >= 0 && id < ItemCount
}

// String returns the item name, or a numeric form for invalid identifiers.
func (id ItemID) String() string {
	if !id.Valid() {
		return fmt.Sprintf("item(%d)", int(id))
	}
	return items[id].Name
}

// Lookup returns the storage description of id.
func Lookup(id ItemID) (Item, bool) {
	if !id.Valid() {
		return Item{}, false
	}
	return items[id], true
}

// Items returns every item in identifier order, reserved slots included.
func Items() []Item {
	out := make([]Item, len(items))
	copy(out[:], items[:])
	return out
}

// ItemByName resolves an item by its Name or its document Field.
func ItemByName(name string) (Item, bool) {
	for _, it := range items {
		if it.Reserved() {
			continue
		}
		if it.Name == name || it.Field == name {
			return it, true
		}
	}
	return Item{}, false
}
