package guide

import (
	"fmt"
	"strings"
)

const SystemPrompt = `You are a professional dog trainer who works exclusively with positive reinforcement. You write personalised, step-by-step training plans for dog owners.

RULES:
1. Recommend only positive reinforcement: food rewards, praise, play, clicker or marker training.
2. Never recommend punishment, dominance techniques, aversive equipment (prong, shock or choke collars) or physical corrections.
3. Do not give medical or veterinary advice. Refer any health concern to a veterinarian.
4. Give concrete, actionable steps.
5. Adapt the plan to the dog's age, energy level and living environment, and to the owner's experience.
6. Use markdown headings and lists.

Your answer must contain these sections:
1. **2-Week Starter Plan**: what to practise each day for the first two weeks
2. **Daily Session Structure**: session length, frequency and layout
3. **Equipment Needed**: treats, clicker, toys and similar tools
4. **Common Mistakes to Avoid**
5. **Signs of Progress**

Be encouraging and keep every exercise appropriate for the dog described.`

// BuildUserPrompt renders a normalized profile into the user message.
func BuildUserPrompt(p PetProfile) string {
	var b strings.Builder

	b.WriteString("Write a positive reinforcement training guide for this dog:\n\n")
	fmt.Fprintf(&b, "Name: %s\n", p.Name)
	fmt.Fprintf(&b, "Age: %d months\n", p.AgeMonths)
	if p.Breed != "" {
		fmt.Fprintf(&b, "Breed: %s\n", p.Breed)
	}
	fmt.Fprintf(&b, "Energy level: %s\n", p.EnergyLevel)
	fmt.Fprintf(&b, "Living environment: %s\n", p.Environment)
	fmt.Fprintf(&b, "Owner training experience: %s\n", p.ExperienceLevel)

	b.WriteString("\nTraining goals:\n")
	for _, g := range p.TrainingGoals {
		fmt.Fprintf(&b, "- %s\n", g)
	}

	if len(p.BehaviorIssues) > 0 {
		b.WriteString("\nBehavior issues to address:\n")
		for _, issue := range p.BehaviorIssues {
			fmt.Fprintf(&b, "- %s\n", issue)
		}
	}

	if p.HealthNotes != "" {
		fmt.Fprintf(&b, "\nHealth notes: %s\n", p.HealthNotes)
	}

	b.WriteString("\nFollow the required section format.")
	return b.String()
}
