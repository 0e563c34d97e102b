package params

// Snapshot is the whole configuration as one value.
//
// Field order is the document serialization order. JSON names are the
// document field names and must match the Field column of the items table.
type Snapshot struct {
	PidKpRegular           float64 `json:"pidKpRegular" yaml:"pidKpRegular"`
	PidTnRegular           float64 `json:"pidTnRegular" yaml:"pidTnRegular"`
	PidOn                  bool    `json:"pidOn" yaml:"pidOn"`
	PidTvRegular           float64 `json:"pidTvRegular" yaml:"pidTvRegular"`
	PidIMaxRegular         float64 `json:"pidIMaxRegular" yaml:"pidIMaxRegular"`
	BrewSetpoint           float64 `json:"brewSetpoint" yaml:"brewSetpoint"`
	BrewTempOffset         float64 `json:"brewTempOffset" yaml:"brewTempOffset"`
	BrewTimeMs             float64 `json:"brewTimeMs" yaml:"brewTimeMs"`
	PreInfusionTimeMs      float64 `json:"preInfusionTimeMs" yaml:"preInfusionTimeMs"`
	PreInfusionPauseMs     float64 `json:"preInfusionPauseMs" yaml:"preInfusionPauseMs"`
	PidBdOn                bool    `json:"pidBdOn" yaml:"pidBdOn"`
	PidKpBd                float64 `json:"pidKpBd" yaml:"pidKpBd"`
	PidTnBd                float64 `json:"pidTnBd" yaml:"pidTnBd"`
	PidTvBd                float64 `json:"pidTvBd" yaml:"pidTvBd"`
	BrewSwTimeSec          float64 `json:"brewSwTimeSec" yaml:"brewSwTimeSec"`
	BrewPIDDelaySec        float64 `json:"brewPIDDelaySec" yaml:"brewPIDDelaySec"`
	BrewDetectionThreshold float64 `json:"brewDetectionThreshold" yaml:"brewDetectionThreshold"`
	WifiCredentialsSaved   bool    `json:"wifiCredentialsSaved" yaml:"wifiCredentialsSaved"`
	UseStartPonM           bool    `json:"useStartPonM" yaml:"useStartPonM"`
	PidKpStart             float64 `json:"pidKpStart" yaml:"pidKpStart"`
	SoftApEnabledCheck     bool    `json:"softApEnabledCheck" yaml:"softApEnabledCheck"`
	PidTnStart             float64 `json:"pidTnStart" yaml:"pidTnStart"`
	WifiSSID               string  `json:"wifiSSID" yaml:"wifiSSID"`
	WifiPassword           string  `json:"wifiPassword" yaml:"wifiPassword"`
	WeightSetpoint         float64 `json:"weightSetpoint" yaml:"weightSetpoint"`
	SteamKp                float64 `json:"steamkp" yaml:"steamkp"`
	SteamSetpoint          float64 `json:"steamSetpoint" yaml:"steamSetpoint"`
	StandbyModeOn          bool    `json:"standbyModeOn" yaml:"standbyModeOn"`
	StandbyModeTime        float64 `json:"standbyModeTime" yaml:"standbyModeTime"`
	InfluxDBOn             bool    `json:"influxDbOn" yaml:"influxDbOn"`
	MQTTOn                 bool    `json:"mqttOn" yaml:"mqttOn"`
	MQTTUsername           string  `json:"mqttUsername" yaml:"mqttUsername"`
	MQTTPassword           string  `json:"mqttPassword" yaml:"mqttPassword"`
	MQTTTopicPrefix        string  `json:"mqttTopicPrefix" yaml:"mqttTopicPrefix"`
	MQTTServerIP           string  `json:"mqttServerIp" yaml:"mqttServerIp"`
	MQTTServerPort         uint16  `json:"mqttServerPort" yaml:"mqttServerPort"`
	ScaleCalibration       float32 `json:"scaleCalibration" yaml:"scaleCalibration"`
	BrewCounter            uint32  `json:"brewCounter" yaml:"brewCounter"`
	DisplayBrightness      int8    `json:"displayBrightness" yaml:"displayBrightness"`
	SteamTimeout           int16   `json:"steamTimeout" yaml:"steamTimeout"`
	PidSampleTime          int32   `json:"pidSampleTime" yaml:"pidSampleTime"`
}

// Ref returns a pointer to the Snapshot field backing id, or nil for
// reserved and invalid items. The pointer type matches the item kind:
// *bool, *float64, *float32, *string, *uint16, *uint32, *int8, *int16 or
// *int32.
func (s *Snapshot) Ref(id ItemID) any {
	switch id {
	case PidOn:
		return &s.PidOn
	case PidStartPonM:
		return &s.UseStartPonM
	case PidKpStart:
		return &s.PidKpStart
	case PidTnStart:
		return &s.PidTnStart
	case PidKpRegular:
		return &s.PidKpRegular
	case PidTnRegular:
		return &s.PidTnRegular
	case PidTvRegular:
		return &s.PidTvRegular
	case PidIMaxRegular:
		return &s.PidIMaxRegular
	case PidKpBd:
		return &s.PidKpBd
	case PidTnBd:
		return &s.PidTnBd
	case PidTvBd:
		return &s.PidTvBd
	case BrewSetpoint:
		return &s.BrewSetpoint
	case BrewTempOffset:
		return &s.BrewTempOffset
	case UseBdPid:
		return &s.PidBdOn
	case BrewTime:
		return &s.BrewTimeMs
	case BrewSwTime:
		return &s.BrewSwTimeSec
	case BrewPidDelay:
		return &s.BrewPIDDelaySec
	case BdThreshold:
		return &s.BrewDetectionThreshold
	case WifiCredentialsSaved:
		return &s.WifiCredentialsSaved
	case PreInfusionTime:
		return &s.PreInfusionTimeMs
	case PreInfusionPause:
		return &s.PreInfusionPauseMs
	case PidKpSteam:
		return &s.SteamKp
	case SteamSetpoint:
		return &s.SteamSetpoint
	case SoftApEnabledCheck:
		return &s.SoftApEnabledCheck
	case WifiSSID:
		return &s.WifiSSID
	case WifiPassword:
		return &s.WifiPassword
	case WeightSetpoint:
		return &s.WeightSetpoint
	case InfluxDBOn:
		return &s.InfluxDBOn
	case MQTTOn:
		return &s.MQTTOn
	case MQTTUsername:
		return &s.MQTTUsername
	case MQTTPassword:
		return &s.MQTTPassword
	case MQTTTopicPrefix:
		return &s.MQTTTopicPrefix
	case MQTTServerIP:
		return &s.MQTTServerIP
	case MQTTServerPort:
		return &s.MQTTServerPort
	case StandbyModeOn:
		return &s.StandbyModeOn
	case StandbyModeTime:
		return &s.StandbyModeTime
	case ScaleCalibration:
		return &s.ScaleCalibration
	case BrewCounter:
		return &s.BrewCounter
	case DisplayBrightness:
		return &s.DisplayBrightness
	case SteamTimeout:
		return &s.SteamTimeout
	case PidSampleTime:
		return &s.PidSampleTime
	default:
		return nil
	}
}

// Get returns the value of id as its native Go type, or nil for reserved
// and invalid items.
func (s *Snapshot) Get(id ItemID) any {
	switch p := s.Ref(id).(type) {
	case *bool:
		return *p
	case *float64:
		return *p
	case *float32:
		return *p
	case *string:
		return *p
	case *uint16:
		return *p
	case *uint32:
		return *p
	case *int8:
		return *p
	case *int16:
		return *p
	case *int32:
		return *p
	default:
		return nil
	}
}

// Values returns every non-reserved item keyed by document field name.
func (s *Snapshot) Values() map[string]any {
	out := make(map[string]any, int(ItemCount))
	for _, it := range items {
		if it.Reserved() {
			continue
		}
		out[it.Field] = s.Get(it.ID)
	}
	return out
}

// Clone returns a copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	return &c
}
