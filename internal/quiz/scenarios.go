package quiz

// Scenarios returns the built-in five-question quiz. Weights decide how
// strongly each option pulls toward a category; every scenario has one
// dominant option per archetype.
func Scenarios() []Scenario {
	return []Scenario{
		{
			Emoji: "🚪",
			Scene: "When you get home, the overall vibe is more like —",
			Options: []Option{
				{
					Text:   "Chaos. It beat you to the door and is broadcasting on every channel",
					Scores: map[Category]int{Storm: 3, Moon: 0, Sun: 1, Forest: 0},
				},
				{
					Text:   "You can feel it watching you from somewhere, but it is in no hurry",
					Scores: map[Category]int{Storm: 0, Moon: 3, Sun: 0, Forest: 1},
				},
				{
					Text:   "It strolls over and rubs against you, as if to say \"you're back, good\"",
					Scores: map[Category]int{Storm: 0, Moon: 1, Sun: 3, Forest: 0},
				},
				{
					Text:   "Nothing seems to have changed, yet it has quietly moved a little closer to you",
					Scores: map[Category]int{Storm: 0, Moon: 0, Sun: 0, Forest: 3},
				},
			},
		},
		{
			Emoji: "⚡",
			Scene: "One word for its everyday energy —",
			Options: []Option{
				{
					Text:   "Perpetual motion. There is a small power plant inside it",
					Scores: map[Category]int{Storm: 3, Moon: 0, Sun: 1, Forest: 0},
				},
				{
					Text:   "Tides. Very quiet when quiet, unstoppable when it comes",
					Scores: map[Category]int{Storm: 1, Moon: 3, Sun: 0, Forest: 1},
				},
				{
					Text:   "A little sun. Carries its own warmth and good mood everywhere",
					Scores: map[Category]int{Storm: 0, Moon: 0, Sun: 3, Forest: 0},
				},
				{
					Text:   "An observer. It seems to notice everything but rarely takes a position",
					Scores: map[Category]int{Storm: 0, Moon: 1, Sun: 0, Forest: 3},
				},
			},
		},
		{
			Emoji: "💤",
			Scene: "Late at night, things between you two are usually —",
			Options: []Option{
				{
					Text:   "You want to sleep but it won't let you, there is always a new game",
					Scores: map[Category]int{Storm: 3, Moon: 0, Sun: 1, Forest: 0},
				},
				{
					Text:   "You never notice it arriving; by the time you do it is already at your feet",
					Scores: map[Category]int{Storm: 0, Moon: 3, Sun: 0, Forest: 1},
				},
				{
					Text:   "It claims a spot on or next to you and clearly wants company",
					Scores: map[Category]int{Storm: 0, Moon: 0, Sun: 3, Forest: 0},
				},
				{
					Text:   "You each take a corner, and somehow that distance feels comfortable",
					Scores: map[Category]int{Storm: 0, Moon: 0, Sun: 0, Forest: 3},
				},
			},
		},
		{
			Emoji: "🤲",
			Scene: "On the subject of petting —",
			Options: []Option{
				{
					Text:   "It loves to play but hates being held down; two strokes and it nips and bolts",
					Scores: map[Category]int{Storm: 3, Moon: 0, Sun: 0, Forest: 1},
				},
				{
					Text:   "You have to wait for it to come to you; the moment it chooses you is the real petting time",
					Scores: map[Category]int{Storm: 0, Moon: 3, Sun: 0, Forest: 1},
				},
				{
					Text:   "Open-door policy; the belly flop is how it greets guests",
					Scores: map[Category]int{Storm: 0, Moon: 0, Sun: 3, Forest: 0},
				},
				{
					Text:   "It lets you pet it, with a permanent face of \"fine, I'll allow it\"",
					Scores: map[Category]int{Storm: 0, Moon: 1, Sun: 0, Forest: 3},
				},
			},
		},
		{
			Emoji: "💬",
			Scene: "If it could talk, the line it would most likely say is —",
			Options: []Option{
				{
					Text:   "\"Look at me look at me! Why aren't you looking at me!!\"",
					Scores: map[Category]int{Storm: 3, Moon: 0, Sun: 1, Forest: 0},
				},
				{
					Text:   "\"...You being here is enough. No need to keep me company.\"",
					Scores: map[Category]int{Storm: 0, Moon: 3, Sun: 0, Forest: 1},
				},
				{
					Text:   "\"Hey! Today is another great day, right? Right!\"",
					Scores: map[Category]int{Storm: 0, Moon: 0, Sun: 3, Forest: 0},
				},
				{
					Text:   "\"I was not watching you. ...Okay, I was.\"",
					Scores: map[Category]int{Storm: 0, Moon: 1, Sun: 0, Forest: 3},
				},
			},
		},
	}
}
