package seed

import "github.com/julianstephens/tracklit/internal/constants"

// defaultQuestion is one question of a seeded check-in template.
type defaultQuestion struct {
	prompt       string
	responseType string
}

// defaultTemplate describes a check-in template seeded on first startup.
// Template IDs are generated from the ledger key and are only discoverable by content.
type defaultTemplate struct {
	key         string
	name        string
	description string
	questions   []defaultQuestion
}

var defaultTemplates = []defaultTemplate{
	{
		key:         constants.SeedCheckinDaily,
		name:        "Daily Check-in",
		description: "A quick look at how today went",
		questions: []defaultQuestion{
			{"How are you feeling today?", constants.ResponseScale},
			{"How well did you sleep?", constants.ResponseScale},
			{"Did you move your body today?", constants.ResponseBoolean},
			{"What are you grateful for?", constants.ResponseText},
			{"What is on your mind?", constants.ResponseText},
		},
	},
	{
		key:         constants.SeedCheckinWeekly,
		name:        "Weekly Review",
		description: "Look back on the week and plan the next one",
		questions: []defaultQuestion{
			{"How was your week overall?", constants.ResponseScale},
			{"What went well this week?", constants.ResponseText},
			{"What was challenging?", constants.ResponseText},
			{"Did you make progress on your goals?", constants.ResponseBoolean},
			{"What is your focus for next week?", constants.ResponseText},
		},
	},
}

// defaultActivity is a seeded bored activity with a fixed ID.
type defaultActivity struct {
	id      string
	title   string
	minutes int
}

// defaultCategory is a seeded bored category with a fixed ID.
type defaultCategory struct {
	id         string
	name       string
	icon       string
	color      string
	activities []defaultActivity
}

var defaultCategories = []defaultCategory{
	{
		id: "bored-cat-creative", name: "Creative", icon: "palette", color: "#f59e0b",
		activities: []defaultActivity{
			{"bored-act-sketch", "Sketch something in the room", 15},
			{"bored-act-poem", "Write a short poem", 10},
			{"bored-act-photo", "Take five photos on a theme", 20},
		},
	},
	{
		id: "bored-cat-active", name: "Active", icon: "activity", color: "#10b981",
		activities: []defaultActivity{
			{"bored-act-walk", "Go for a walk around the block", 20},
			{"bored-act-stretch", "Do a ten minute stretch", 10},
			{"bored-act-dance", "Dance to three songs", 12},
		},
	},
	{
		id: "bored-cat-learn", name: "Learn", icon: "book-open", color: "#6366f1",
		activities: []defaultActivity{
			{"bored-act-article", "Read a long-form article", 25},
			{"bored-act-words", "Learn five words in another language", 10},
			{"bored-act-docs", "Watch a short documentary", 45},
		},
	},
	{
		id: "bored-cat-tidy", name: "Tidy", icon: "home", color: "#ef4444",
		activities: []defaultActivity{
			{"bored-act-desk", "Clear your desk", 10},
			{"bored-act-drawer", "Sort one drawer", 15},
			{"bored-act-inbox", "Archive old emails", 20},
		},
	},
}
