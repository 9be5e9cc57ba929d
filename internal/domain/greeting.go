package domain

import "fmt"

// Character selects the chatbot persona.
type Character string

const (
	CharacterHot    Character = "hot"
	CharacterIce    Character = "ice"
	CharacterNormal Character = "normal"
)

// Greeting is the chatbot opening line.
type Greeting struct {
	Character Character `json:"character"`
	Message   string    `json:"message"`
}

var greetingTemplates = []func(place, context string, temp int) string{
	func(place, context string, _ int) string {
		return fmt.Sprintf("Exploring %s in %s? I've got the best tips for you! 🌡️", place, context)
	},
	func(place, _ string, temp int) string {
		return fmt.Sprintf("Planning your %s trip? Let me help you prepare for %d°C conditions! 🎒", place, temp)
	},
	func(place, context string, _ int) string {
		return fmt.Sprintf("Getting ready for %s's %s? I'm here to guide you! 📍", place, context)
	},
	func(place, _ string, temp int) string {
		return fmt.Sprintf("Want to make the most of %s in %d°C? I know all the secrets! 💎", place, temp)
	},
	func(place, context string, _ int) string {
		return fmt.Sprintf("Visiting %s with %s? Let's plan your perfect day! 🗺️", place, context)
	},
	func(place, _ string, temp int) string {
		return fmt.Sprintf("Curious about %s in %d°C? I can share the best activities! 🌤️", place, temp)
	},
}

// GreetingFor builds the opening line for place. A nil temperature picks the
// normal character and phrases the message around DefaultTemperatureC.
func GreetingFor(place string, tempC *int, rnd RandomSource) Greeting {
	character := CharacterNormal
	temp := DefaultTemperatureC
	if tempC != nil {
		temp = *tempC
		switch {
		case temp > 25:
			character = CharacterHot
		case temp < 15:
			character = CharacterIce
		}
	}

	context := "perfect weather"
	switch {
	case temp > 25:
		context = "hot weather"
	case temp < 15:
		context = "cool weather"
	}

	i := int(rnd.Float64() * float64(len(greetingTemplates)))
	i = min(max(i, 0), len(greetingTemplates)-1)

	return Greeting{Character: character, Message: greetingTemplates[i](place, context, temp)}
}
