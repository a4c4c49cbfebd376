package forecast

import "sort"

// SkillRecord is the scoring of one protocol at one horizon. For the
// rolling protocol RMSE and Skill are arithmetic means over the
// contributing origins; for the static protocol they come from a single
// forecast (Samples == 1).
type SkillRecord struct {
	RMSE    float64
	Skill   float64
	Samples int
}

// HorizonRecords maps forecast horizon (hours ahead) to its skill record.
// Horizons that fell outside the usable series range are absent, not
// zeroed.
type HorizonRecords map[int]SkillRecord

// Horizons returns the recorded horizons in ascending order.
func (r HorizonRecords) Horizons() []int {
	hs := make([]int, 0, len(r))
	for h := range r {
		hs = append(hs, h)
	}
	sort.Ints(hs)
	return hs
}

// SkillScore is the relative squared-error improvement over the
// persistence baseline. A zero persistence error is defined as skill 0
// rather than a division fault.
func SkillScore(errModel, errPersist float64) float64 {
	if errPersist > 0 {
		return 1 - errModel/errPersist
	}
	return 0
}

// HStar is the operational predictability limit: the largest horizon whose
// skill strictly exceeds threshold, or 0 if none does. An empty record set
// yields 0.
func HStar(records HorizonRecords, threshold float64) int {
	hs := records.Horizons()
	for i := len(hs) - 1; i >= 0; i-- {
		if records[hs[i]].Skill > threshold {
			return hs[i]
		}
	}
	return 0
}
