package hyperop

// ProgressUpdate carries the progress of one calculator from the evaluation
// goroutine to the user interface.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator among those running
	// concurrently.
	CalculatorIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressReporter is the callback through which evaluation reports its
// normalized progress (0.0 to 1.0).
type ProgressReporter func(progress float64)

// ProgressReportThreshold is the minimum progress change reported between
// two calls to a ProgressReporter. Outer loops can run billions of times;
// reporting every step would swamp the observers.
const ProgressReportThreshold = 0.01

// reportStep forwards progress to reporter when it moved by at least
// ProgressReportThreshold since lastReported, or when it reaches 1.0.
// It returns the value that should be remembered as last reported.
func reportStep(reporter ProgressReporter, lastReported, progress float64) float64 {
	if progress > 1.0 {
		progress = 1.0
	}
	if progress-lastReported >= ProgressReportThreshold || (progress >= 1.0 && lastReported < 1.0) {
		reporter(progress)
		return progress
	}
	return lastReported
}
