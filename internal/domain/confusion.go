package domain

// ConfusionMatrix tabulates two binary decision sources over the same sample.
// For a precision audit the reference is the human label and the candidate is
// the machine decision; for a stability audit both are machine runs.
type ConfusionMatrix struct {
	TP int // reference 1, candidate 1
	TN int // reference 0, candidate 0
	FP int // reference 0, candidate 1
	FN int // reference 1, candidate 0
}

// Add records one (reference, candidate) decision pair.
func (m *ConfusionMatrix) Add(reference, candidate int) {
	switch {
	case reference == 1 && candidate == 1:
		m.TP++
	case reference == 0 && candidate == 0:
		m.TN++
	case reference == 0 && candidate == 1:
		m.FP++
	default:
		m.FN++
	}
}

// Total is the number of evaluated pairs.
func (m ConfusionMatrix) Total() int { return m.TP + m.TN + m.FP + m.FN }

// Accuracy is the agreement rate (tp+tn)/total, 0 on an empty matrix.
func (m ConfusionMatrix) Accuracy() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.TP+m.TN) / float64(total)
}

// Precision is tp/(tp+fp), 0 when the candidate source never said yes.
func (m ConfusionMatrix) Precision() float64 {
	if m.TP+m.FP == 0 {
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FP)
}

// Recall is tp/(tp+fn), 0 when the reference source never said yes.
func (m ConfusionMatrix) Recall() float64 {
	if m.TP+m.FN == 0 {
		return 0
	}
	return float64(m.TP) / float64(m.TP+m.FN)
}
