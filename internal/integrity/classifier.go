package integrity

// ProctoringData bundles the typed violation counters reported by the
// client-side proctoring widget. TotalViolations may be supplied by the
// client; when zero it is derived as the sum of the six categories.
type ProctoringData struct {
	TabSwitching    int `json:"tab_switching"`
	WindowBlur      int `json:"window_blur"`
	FullscreenExit  int `json:"fullscreen_exit"`
	FaceNotVisible  int `json:"face_not_visible"`
	MultipleFaces   int `json:"multiple_faces"`
	PhoneDetected   int `json:"phone_detected"`
	TotalViolations int `json:"total_violations"`
}

// Counters is the full anti-cheat signal for one submission: the legacy
// counters plus the proctoring bundle.
type Counters struct {
	TabSwitchCount int            `json:"tab_switch_count"`
	EscCount       int            `json:"esc_count"`
	Proctoring     ProctoringData `json:"proctoring"`
}

type Level string

const (
	Clean    Level = "clean"
	Flagged  Level = "flagged"
	HighRisk Level = "high_risk"
)

// Classification is the triage verdict for one submission. It is display
// material only and never feeds back into grading.
type Classification struct {
	Level Level  `json:"level"`
	Label string `json:"label"`
}

var labels = map[Level]string{
	Clean:    "Clean",
	Flagged:  "Flagged",
	HighRisk: "High Risk",
}

// Classify maps raw counters to a risk level. Legacy and proctoring
// tab-switch counters are combined before thresholding.
func Classify(c Counters) Classification {
	total := c.Proctoring.TotalViolations
	if total == 0 {
		total = c.Proctoring.TabSwitching + c.Proctoring.WindowBlur +
			c.Proctoring.FullscreenExit + c.Proctoring.FaceNotVisible +
			c.Proctoring.MultipleFaces + c.Proctoring.PhoneDetected
	}
	tabSwitches := c.TabSwitchCount + c.Proctoring.TabSwitching

	level := Clean
	switch {
	case tabSwitches > 5 || total > 8:
		level = HighRisk
	case tabSwitches > 1 || total > 4:
		level = Flagged
	}
	return Classification{Level: level, Label: labels[level]}
}
