package params

// Factory defaults. These seed an erased region and stand in for any item
// that has never been written.
const (
	DefaultStartKp          = 60.0
	DefaultStartTn          = 130.0
	DefaultKp               = 62.0
	DefaultTn               = 52.0
	DefaultTv               = 11.5
	DefaultIMax             = 55.0
	DefaultBdKp             = 50.0
	DefaultBdTn             = 0.0
	DefaultBdTv             = 20.0
	DefaultBrewSetpoint     = 95.0
	DefaultBrewTempOffset   = 0.0
	DefaultBrewTimeMs       = 25000.0
	DefaultBrewSwTimeSec    = 25.0
	DefaultBrewPIDDelaySec  = 10.0
	DefaultBdThreshold      = 35.0
	DefaultPreInfusionMs    = 2000.0
	DefaultPreInfusionPause = 5000.0
	DefaultSteamKp          = 150.0
	DefaultSteamSetpoint    = 120.0
	DefaultWeightSetpoint   = 30.0
	DefaultStandbyMinutes   = 30.0
	DefaultMQTTPort         = 1883
	DefaultMQTTTopicPrefix  = "custom/kitchen."
	DefaultScaleCalibration = 3195.83
	DefaultSteamTimeoutSec  = 600
	DefaultDisplayPercent   = 80
	DefaultPidSampleTimeMs  = 1000
)

// Defaults returns a new snapshot holding the factory defaults.
func Defaults() *Snapshot {
	return &Snapshot{
		PidKpRegular:           DefaultKp,
		PidTnRegular:           DefaultTn,
		PidOn:                  false,
		PidTvRegular:           DefaultTv,
		PidIMaxRegular:         DefaultIMax,
		BrewSetpoint:           DefaultBrewSetpoint,
		BrewTempOffset:         DefaultBrewTempOffset,
		BrewTimeMs:             DefaultBrewTimeMs,
		PreInfusionTimeMs:      DefaultPreInfusionMs,
		PreInfusionPauseMs:     DefaultPreInfusionPause,
		PidBdOn:                false,
		PidKpBd:                DefaultBdKp,
		PidTnBd:                DefaultBdTn,
		PidTvBd:                DefaultBdTv,
		BrewSwTimeSec:          DefaultBrewSwTimeSec,
		BrewPIDDelaySec:        DefaultBrewPIDDelaySec,
		BrewDetectionThreshold: DefaultBdThreshold,
		WifiCredentialsSaved:   false,
		UseStartPonM:           false,
		PidKpStart:             DefaultStartKp,
		SoftApEnabledCheck:     false,
		PidTnStart:             DefaultStartTn,
		WifiSSID:               "",
		WifiPassword:           "",
		WeightSetpoint:         DefaultWeightSetpoint,
		SteamKp:                DefaultSteamKp,
		SteamSetpoint:          DefaultSteamSetpoint,
		StandbyModeOn:          false,
		StandbyModeTime:        DefaultStandbyMinutes,
		InfluxDBOn:             false,
		MQTTOn:                 false,
		MQTTUsername:           "",
		MQTTPassword:           "",
		MQTTTopicPrefix:        DefaultMQTTTopicPrefix,
		MQTTServerIP:           "",
		MQTTServerPort:         DefaultMQTTPort,
		ScaleCalibration:       DefaultScaleCalibration,
		BrewCounter:            0,
		DisplayBrightness:      DefaultDisplayPercent,
		SteamTimeout:           DefaultSteamTimeoutSec,
		PidSampleTime:          DefaultPidSampleTimeMs,
	}
}
