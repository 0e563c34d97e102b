// Package mqtt provides MQTT client connectivity for the pidstore service.
//
// This package manages:
//   - Connection to the broker with auto-reconnect
//   - Message publishing with QoS guarantees
//   - Topic subscriptions with wildcard support
//   - Last Will and Testament (LWT) on the availability topic
//   - Connection health monitoring
//
// # Topic Layout
//
// Each machine owns the topics below prefix + hostname, where prefix is the
// stored mqttTopicPrefix parameter (default "custom/kitchen.") and hostname
// the stored hostname:
//
//	custom/kitchen.silvia/status               online | offline (retained, LWT)
//	custom/kitchen.silvia/brewSetpoint         current value (retained)
//	custom/kitchen.silvia/brewSetpoint/set     command, plain number payload
//
// Home Assistant discovery documents go to
// <discovery prefix>/<component>/<object id>/config; see Discovery.
//
// # Security Considerations
//
//   - TLS is recommended whenever the broker is not on the local host
//   - Stored broker credentials (Credentials) override the service config
//   - Message payloads are not encrypted beyond TLS transport
//
// # Usage
//
//	topics := mqtt.NewTopics(prefix, hostname)
//	client, err := mqtt.Connect(cfg.MQTT, topics, &mqtt.Credentials{
//	    Username: user,
//	    Password: pass,
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	err = client.Subscribe(topics.AllParamSets(), 1,
//	    func(topic string, payload []byte) error {
//	        field, _ := topics.FieldFromSetTopic(topic)
//	        log.Printf("set %s = %s", field, payload)
//	        return nil
//	    })
//
//	client.PublishRetained(topics.Param("brewSetpoint"), []byte("94.5"))
package mqtt
