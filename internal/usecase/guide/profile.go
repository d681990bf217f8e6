package guide

import "strings"

// PetProfile describes the dog a training guide is written for.
type PetProfile struct {
	Name            string   `json:"name" binding:"required"`
	AgeMonths       int      `json:"ageMonths" binding:"required,min=1,max=240"`
	Breed           string   `json:"breed"`
	EnergyLevel     string   `json:"energyLevel" binding:"required,oneof=low medium high"`
	Environment     string   `json:"environment" binding:"required,oneof=apartment house rural"`
	ExperienceLevel string   `json:"experienceLevel" binding:"required,oneof=none basic intermediate"`
	TrainingGoals   []string `json:"trainingGoals" binding:"required,min=1,dive,required"`
	BehaviorIssues  []string `json:"behaviorIssues" binding:"omitempty,dive,required"`
	HealthNotes     string   `json:"healthNotes"`
}

// Normalize trims every text field and drops blank list entries.
func (p *PetProfile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Breed = strings.TrimSpace(p.Breed)
	p.HealthNotes = strings.TrimSpace(p.HealthNotes)
	p.TrainingGoals = compact(p.TrainingGoals)
	p.BehaviorIssues = compact(p.BehaviorIssues)
}

func compact(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
