package classifier

// Metrics are computed over the held-out partition.
type Metrics struct {
	MicroF1 float64 `json:"f1_micro"`
	MacroF1 float64 `json:"f1_macro"`
}

// Evaluate compares predicted indicator rows with the truth. An empty held-out
// set scores 0 for both averages, as does a label that is never predicted nor
// present.
func Evaluate(truth, pred [][]bool) Metrics {
	if len(truth) == 0 || len(truth[0]) == 0 {
		return Metrics{}
	}

	labels := len(truth[0])
	tp := make([]int, labels)
	fp := make([]int, labels)
	fn := make([]int, labels)

	for i := range truth {
		for j := 0; j < labels; j++ {
			switch {
			case truth[i][j] && pred[i][j]:
				tp[j]++
			case pred[i][j]:
				fp[j]++
			case truth[i][j]:
				fn[j]++
			}
		}
	}

	var sumTP, sumFP, sumFN int
	var macro float64
	for j := 0; j < labels; j++ {
		sumTP += tp[j]
		sumFP += fp[j]
		sumFN += fn[j]
		macro += f1(tp[j], fp[j], fn[j])
	}

	return Metrics{
		MicroF1: f1(sumTP, sumFP, sumFN),
		MacroF1: macro / float64(labels),
	}
}

func f1(tp, fp, fn int) float64 {
	denom := 2*tp + fp + fn
	if denom == 0 {
		return 0
	}
	return float64(2*tp) / float64(denom)
}
