// Package stats provides the typing speed and accuracy math shared by the
// scoring path and the bot simulator.
package stats

// GrossWPM is words per minute from total correct characters, ignoring
// errors, at five characters per word. Zero or negative elapsed time yields 0.
func GrossWPM(chars int, seconds float64) float64 {
	if seconds <= 0 {
		return 0
	}
	return (float64(chars) / 5.0) / (seconds / 60.0)
}

// NetWPM is gross WPM minus one word per minute for each uncorrected error.
func NetWPM(chars int, seconds float64, errors int) float64 {
	if seconds <= 0 {
		return 0
	}
	return GrossWPM(chars, seconds) - float64(errors)*60.0/seconds
}

// Accuracy is the percentage of attempted characters that were correct.
// With no attempts the player has made no mistakes, so it reports 100.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 100
	}
	return float64(correct) / float64(total) * 100
}
