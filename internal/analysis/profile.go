package analysis

// UserProfile is optional and only personalizes the summaries.
type UserProfile struct {
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	HeightCm float64 `json:"height"`
	WeightKg float64 `json:"weight"`
}

// BMI returns weight / height^2 in kg/m^2, or 0 when height or weight is unknown.
func (p UserProfile) BMI() float64 {
	if p.HeightCm <= 0 || p.WeightKg <= 0 {
		return 0
	}
	heightM := p.HeightCm / 100
	return p.WeightKg / (heightM * heightM)
}

func (p UserProfile) FitnessLevel() string {
	bmi := p.BMI()
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal weight"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// ProfileSnapshot is the profile as it appears in a report.
type ProfileSnapshot struct {
	Name         string  `json:"name"`
	Age          int     `json:"age"`
	HeightCm     float64 `json:"height"`
	WeightKg     float64 `json:"weight"`
	BMI          float64 `json:"bmi"`
	FitnessLevel string  `json:"fitness_level"`
}

func (p UserProfile) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		Name:         p.Name,
		Age:          p.Age,
		HeightCm:     p.HeightCm,
		WeightKg:     p.WeightKg,
		BMI:          p.BMI(),
		FitnessLevel: p.FitnessLevel(),
	}
}
