package config

// Embedded configuration per board id. The id is the value placed in the
// context under CtxDeviceKey.

const cfgPico = `{
  "mic": {
    "bus": "i2c0",
    "addr": 72,
    "sda": 4,
    "scl": 5,
    "sample_rate": 860,
    "buffer_size": 64,
    "hz": 400000,
    "configure": true
  },
  "stream": {
    "uart": "uart0",
    "baud": 115200,
    "tx": 0,
    "rx": 1,
    "queue": 2048
  },
  "heartbeat": {
    "interval": 5
  }
}`

const cfgSim = `{
  "mic": {
    "bus": "sim",
    "addr": 72,
    "sample_rate": 860,
    "buffer_size": 128,
    "configure": true
  },
  "stream": {
    "queue": 8192
  },
  "heartbeat": {
    "interval": 2
  }
}`

var embeddedConfigs = map[string][]byte{
	"pico": []byte(cfgPico),
	"sim":  []byte(cfgSim),
}
