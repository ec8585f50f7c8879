// Package indicators provides technical analysis indicators computed over a
// trailing window of a bar series ending at a given index.
//
// Indicators here are pure functions of the series; they never mutate it and
// return a documented sentinel instead of an error when the window is too short.
package indicators

// DefaultRSIPeriod is the classic 14-bar RSI window.
const DefaultRSIPeriod = 14

// NeutralRSI is returned when there is not enough history to compute RSI.
const NeutralRSI = 50.0
