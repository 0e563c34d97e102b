package params

// FieldType is the presentation type of a field.
type FieldType string

// Field types.
const (
	TypeInteger  FieldType = "integer"
	TypeUInt8    FieldType = "uint8"
	TypeFloat    FieldType = "float"
	TypeDuration FieldType = "duration"
	TypeText     FieldType = "text"
	TypeToggle   FieldType = "toggle"
)

// Section groups fields on the settings page.
type Section int

// UI sections, in display order.
const (
	SectionPID Section = iota
	SectionBrew
	SectionBrewDetection
	SectionSteam
	SectionScale
	SectionStandby
	SectionNetwork
	SectionSystem
)

var sectionNames = [...]string{
	SectionPID:           "PID",
	SectionBrew:          "Brew",
	SectionBrewDetection: "Brew detection",
	SectionSteam:         "Steam",
	SectionScale:         "Scale",
	SectionStandby:       "Standby",
	SectionNetwork:       "Network",
	SectionSystem:        "System",
}

// String returns the section title.
func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionNames) {
		return "Other"
	}
	return sectionNames[s]
}

// Field is presentation metadata for one item. It is never persisted.
type Field struct {
	Item        ItemID
	Name        string // document field name
	DisplayName string
	Help        string
	Type        FieldType
	Section     Section
	Position    int

	// Min and Max are inclusive bounds. Numeric bounds never admit the
	// item's all-ones encoding. For text Max is the length in bytes.
	Min float64
	Max float64

	Step float64
	Unit string

	// ShowIf is an expression over the snapshot values that decides
	// whether the field is shown. Empty means always shown.
	ShowIf string

	// Secret fields are never echoed back by network consumers.
	Secret bool
}

// Numeric reports whether the field carries a number or toggle.
func (f Field) Numeric() bool {
	return f.Type != TypeText
}

var fields = []Field{
	{Item: PidOn, DisplayName: "Enable PID controller", Type: TypeToggle, Section: SectionPID, Position: 0, Max: 1,
		Help: "Turns the boiler temperature controller on"},
	{Item: PidStartPonM, DisplayName: "Use PonM for cold start", Type: TypeToggle, Section: SectionPID, Position: 1, Max: 1,
		Help: "Use proportional on measurement during the cold start phase"},
	{Item: PidKpStart, DisplayName: "Start Kp", Type: TypeFloat, Section: SectionPID, Position: 2, Max: 350, Step: 0.1,
		ShowIf: "useStartPonM", Help: "Proportional gain for the cold start phase"},
	{Item: PidTnStart, DisplayName: "Start Tn", Type: TypeFloat, Section: SectionPID, Position: 3, Max: 999, Step: 0.1,
		ShowIf: "useStartPonM", Help: "Integral time constant for the cold start phase"},
	{Item: PidKpRegular, DisplayName: "PID Kp", Type: TypeFloat, Section: SectionPID, Position: 4, Max: 200, Step: 0.1,
		Help: "Proportional gain in regular operation"},
	{Item: PidTnRegular, DisplayName: "PID Tn (=Kp/Ki)", Type: TypeFloat, Section: SectionPID, Position: 5, Max: 999, Step: 0.1,
		Help: "Integral time constant in regular operation"},
	{Item: PidTvRegular, DisplayName: "PID Tv (=Kd/Kp)", Type: TypeFloat, Section: SectionPID, Position: 6, Max: 999, Step: 0.1,
		Help: "Differential time constant in regular operation"},
	{Item: PidIMaxRegular, DisplayName: "PID Integrator Max", Type: TypeFloat, Section: SectionPID, Position: 7, Max: 999, Step: 0.1,
		Help: "Upper limit of the integrator output"},
	{Item: PidSampleTime, DisplayName: "PID sample time", Type: TypeInteger, Section: SectionPID, Position: 8, Min: 100, Max: 10000, Step: 1,
		Unit: "ms", Help: "Interval between controller updates"},
	{Item: BrewSetpoint, DisplayName: "Setpoint", Type: TypeFloat, Section: SectionBrew, Position: 0, Min: 20, Max: 105, Step: 0.1,
		Unit: "°C", Help: "Target boiler temperature for brewing"},
	{Item: BrewTempOffset, DisplayName: "Offset", Type: TypeFloat, Section: SectionBrew, Position: 1, Max: 20, Step: 0.1,
		Unit: "°C", Help: "Difference between boiler and brew group temperature"},
	{Item: BrewTime, DisplayName: "Brew Time", Type: TypeDuration, Section: SectionBrew, Position: 2, Max: 180000, Step: 100,
		Unit: "ms", Help: "Pump run time of a shot, including pre-infusion"},
	{Item: PreInfusionTime, DisplayName: "Preinfusion Time", Type: TypeDuration, Section: SectionBrew, Position: 3, Max: 10000, Step: 100,
		Unit: "ms", Help: "Pump on time before the pause"},
	{Item: PreInfusionPause, DisplayName: "Preinfusion Pause Time", Type: TypeDuration, Section: SectionBrew, Position: 4, Max: 20000, Step: 100,
		Unit: "ms", Help: "Pause between pre-infusion and the shot"},
	{Item: WeightSetpoint, DisplayName: "Brew weight setpoint", Type: TypeFloat, Section: SectionBrew, Position: 5, Max: 500, Step: 0.1,
		Unit: "g", Help: "Stop the shot when the scale reaches this weight"},
	{Item: BrewCounter, DisplayName: "Brew counter", Type: TypeInteger, Section: SectionBrew, Position: 6, Max: 4294967294, Step: 1,
		Help: "Total number of shots brewed"},
	{Item: UseBdPid, DisplayName: "Enable Brew PID", Type: TypeToggle, Section: SectionBrewDetection, Position: 0, Max: 1,
		Help: "Use separate PID parameters while brewing"},
	{Item: PidKpBd, DisplayName: "BD Kp", Type: TypeFloat, Section: SectionBrewDetection, Position: 1, Max: 200, Step: 0.1,
		ShowIf: "pidBdOn", Help: "Proportional gain while brewing"},
	{Item: PidTnBd, DisplayName: "BD Tn (=Kp/Ki)", Type: TypeFloat, Section: SectionBrewDetection, Position: 2, Max: 999, Step: 0.1,
		ShowIf: "pidBdOn", Help: "Integral time constant while brewing"},
	{Item: PidTvBd, DisplayName: "BD Tv (=Kd/Kp)", Type: TypeFloat, Section: SectionBrewDetection, Position: 3, Max: 999, Step: 0.1,
		ShowIf: "pidBdOn", Help: "Differential time constant while brewing"},
	{Item: BrewSwTime, DisplayName: "Brew software time", Type: TypeFloat, Section: SectionBrewDetection, Position: 4, Min: 1, Max: 40, Step: 0.1,
		Unit: "s", Help: "Time the brew PID stays active after a detected shot"},
	{Item: BrewPidDelay, DisplayName: "Brew PID Delay", Type: TypeFloat, Section: SectionBrewDetection, Position: 5, Max: 60, Step: 0.1,
		Unit: "s", Help: "Delay before the brew PID takes over"},
	{Item: BdThreshold, DisplayName: "Brew detection threshold", Type: TypeFloat, Section: SectionBrewDetection, Position: 6, Max: 999, Step: 0.1,
		Help: "Temperature drop rate that counts as a shot"},
	{Item: PidKpSteam, DisplayName: "Steam Kp", Type: TypeFloat, Section: SectionSteam, Position: 0, Max: 500, Step: 0.1,
		Help: "Proportional gain in steam mode"},
	{Item: SteamSetpoint, DisplayName: "Steam Setpoint", Type: TypeFloat, Section: SectionSteam, Position: 1, Min: 100, Max: 140, Step: 0.1,
		Unit: "°C", Help: "Target boiler temperature in steam mode"},
	{Item: SteamTimeout, DisplayName: "Steam timeout", Type: TypeInteger, Section: SectionSteam, Position: 2, Max: 1800, Step: 10,
		Unit: "s", Help: "Idle time before steam mode switches off, 0 keeps it on"},
	{Item: ScaleCalibration, DisplayName: "Calibration factor", Type: TypeFloat, Section: SectionScale, Position: 0, Min: -100000, Max: 100000, Step: 0.01,
		Help: "Load cell raw counts per gram"},
	{Item: StandbyModeOn, DisplayName: "Enable Standby Timer", Type: TypeToggle, Section: SectionStandby, Position: 0, Max: 1,
		Help: "Turn the heater off after a period of inactivity"},
	{Item: StandbyModeTime, DisplayName: "Standby Time", Type: TypeFloat, Section: SectionStandby, Position: 1, Min: 1, Max: 240, Step: 1,
		Unit: "min", ShowIf: "standbyModeOn", Help: "Minutes of inactivity before standby"},
	{Item: WifiCredentialsSaved, DisplayName: "Wifi configured", Type: TypeToggle, Section: SectionNetwork, Position: 0, Max: 1,
		Help: "Set once wifi setup has completed"},
	{Item: SoftApEnabledCheck, DisplayName: "Soft AP enabled", Type: TypeToggle, Section: SectionNetwork, Position: 1, Max: 1,
		Help: "Start the setup access point on boot"},
	{Item: WifiSSID, DisplayName: "Wifi SSID", Type: TypeText, Section: SectionNetwork, Position: 2, Max: SSIDSize - 1,
		Help: "Network name to join"},
	{Item: WifiPassword, DisplayName: "Wifi password", Type: TypeText, Section: SectionNetwork, Position: 3, Max: WifiPasswordLen - 1,
		Secret: true, Help: "Network passphrase"},
	{Item: InfluxDBOn, DisplayName: "Enable InfluxDB", Type: TypeToggle, Section: SectionNetwork, Position: 4, Max: 1,
		Help: "Export configuration changes to InfluxDB"},
	{Item: MQTTOn, DisplayName: "Enable MQTT", Type: TypeToggle, Section: SectionNetwork, Position: 5, Max: 1,
		Help: "Publish and accept parameters over MQTT"},
	{Item: MQTTServerIP, DisplayName: "MQTT broker", Type: TypeText, Section: SectionNetwork, Position: 6, Max: ServerIPSize - 1,
		ShowIf: "mqttOn", Help: "Broker host name or address"},
	{Item: MQTTServerPort, DisplayName: "MQTT port", Type: TypeInteger, Section: SectionNetwork, Position: 7, Min: 1, Max: 65534, Step: 1,
		ShowIf: "mqttOn", Help: "Broker TCP port"},
	{Item: MQTTUsername, DisplayName: "MQTT username", Type: TypeText, Section: SectionNetwork, Position: 8, Max: CredentialSize - 1,
		ShowIf: "mqttOn"},
	{Item: MQTTPassword, DisplayName: "MQTT password", Type: TypeText, Section: SectionNetwork, Position: 9, Max: CredentialSize - 1,
		ShowIf: "mqttOn", Secret: true},
	{Item: MQTTTopicPrefix, DisplayName: "MQTT topic prefix", Type: TypeText, Section: SectionNetwork, Position: 10, Max: TopicPrefixSize - 1,
		ShowIf: "mqttOn", Help: "Prefix of every published topic"},
	{Item: DisplayBrightness, DisplayName: "Display brightness", Type: TypeInteger, Section: SectionSystem, Position: 0, Max: 100, Step: 5,
		Unit: "%", Help: "Backlight level of the machine display"},
}

func init() {
	for i := range fields {
		fields[i].Name = items[fields[i].Item].Field
	}
}

// Fields returns the metadata of every non-reserved item.
func Fields() []Field {
	out := make([]Field, len(fields))
	copy(out, fields)
	return out
}

// FieldByName returns the metadata of the named document field.
func FieldByName(name string) (Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldFor returns the metadata of id.
func FieldFor(id ItemID) (Field, bool) {
	for _, f := range fields {
		if f.Item == id {
			return f, true
		}
	}
	return Field{}, false
}

// InRange reports whether v lies within the field's inclusive bounds.
func (f Field) InRange(v float64) bool {
	return v >= f.Min && v <= f.Max
}
