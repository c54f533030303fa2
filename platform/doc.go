// Package platform brings up the buses a board needs. On RP2040/RP2350 it
// hands out machine I²C and uartx UART instances; on the host it provides
// a simulated ADS1115.
package platform
