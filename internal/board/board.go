// Package board reads the physical inputs: GPIO buttons and sensors through
// periph.io, the dial through an ADC. TinyGo builds use machine pins.
package board

// AnalogMax is the top of the scale ReadAnalog reports, a 10-bit ADC.
const AnalogMax = 1023
