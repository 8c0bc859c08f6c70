package persona

import "catspark/internal/quiz"

type profileReactions struct {
	schedule map[Schedule]string
	energy   map[Energy]string
	need     map[Need]string
}

var reactions = map[quiz.Category]profileReactions{
	quiz.Storm: {
		schedule: map[Schedule]string{
			ScheduleEarly:     "Nine to six? Then I see you off in the morning AND greet you at night! Double the fun!",
			ScheduleLate:      "Then I'll sprint to the door every night! Never late!",
			ScheduleHome:      "You're home all day?! Amazing!! Full-time play mode engaged!",
			ScheduleIrregular: "No fixed hours? Then I stay ready to sprint at any moment! Thrilling!",
		},
		energy: map[Energy]string{
			EnergyFull:     "Perfect! Let's cause some chaos! What are we dismantling today?",
			EnergyTired:    "Then I'm your charger! Watch the belly flip! Cures everything!",
			EnergyMeh:      "No no no moping allowed! Come on! Two laps with me!",
			EnergyStressed: "Stressed? Chase me! You'll forget everything by the time you catch me!",
		},
		need: map[Need]string{
			NeedUnderstand: "Understand you? I study you daily! I know you better than you do!",
			NeedRemind:     "On it! Alarm clocks wish they were me! Louder, too!",
			NeedCheer:      "My specialty!! Watch me! WATCH ME!!",
			NeedQuiet:      "Fine, I'll try... (three seconds later) Can't do it! But I'll try!",
		},
	},
	quiz.Moon: {
		schedule: map[Schedule]string{
			ScheduleEarly:     "...Mm. I'll watch you leave from the windowsill then.",
			ScheduleLate:      "...Mm. I'll leave a light on.",
			ScheduleHome:      "...You being here is enough. I'll stay where you can see me.",
			ScheduleIrregular: "...It's fine. Whenever you come back, I'll be here.",
		},
		energy: map[Energy]string{
			EnergyFull:     "...That's good. You look lovely when you're happy.",
			EnergyTired:    "...Come, lean here. No need to talk.",
			EnergyMeh:      "...Mm. I know that feeling. I'll sit with you.",
			EnergyStressed: "...(leans in gently) ...I'm here.",
		},
		need: map[Need]string{
			NeedUnderstand: "...That one I can do. No words needed, I can tell.",
			NeedRemind:     "...Okay. I'll remind you softly. Very softly.",
			NeedCheer:      "...I'm not good at being funny. But you may pet my head.",
			NeedQuiet:      "...That one is my specialty.",
		},
	},
	quiz.Sun: {
		schedule: map[Schedule]string{
			ScheduleEarly:     "Nine to six! Perfect rhythm! Proper hello time every single day!",
			ScheduleLate:      "No problem! The moment you come home is the best moment of the day!",
			ScheduleHome:      "I get to see you every day! Every day is a lucky day!",
			ScheduleIrregular: "It's okay! Whenever you show up, I'm happy!",
		},
		energy: map[Energy]string{
			EnergyFull:     "Amazing! Then today is a great day for sure!",
			EnergyTired:    "You worked hard! Come pet me, recharge a little ☀️",
			EnergyMeh:      "Hey, it's alright. Tomorrow will be better! Promise!",
			EnergyStressed: "Deep breath! In—— out—— once more! I'm with you!",
		},
		need: map[Need]string{
			NeedUnderstand: "I understand you best! I watch you every day after all!",
			NeedRemind:     "Leave it to me! Water, food, rest — I'll remind you of all of it!",
			NeedCheer:      "Consider it done! Watch the belly flip!",
			NeedQuiet:      "Okay! Then I'll keep you company, quietly ☀️",
		},
	},
	quiz.Forest: {
		schedule: map[Schedule]string{
			ScheduleEarly:     "A person of routine. Not bad. I'm a cat of routine.",
			ScheduleLate:      "Mm. I'll be on the cabinet then. Not waiting for you. Just happening to be there.",
			ScheduleHome:      "You're always here? Then I'll pick a corner where you can see me.",
			ScheduleIrregular: "Whatever. My body clock doesn't sync with yours anyway.",
		},
		energy: map[Energy]string{
			EnergyFull:     "Mm. Energetic people tolerate more petting.",
			EnergyTired:    "Mm. Understood. I won't bother you. But I'm here.",
			EnergyMeh:      "...The way you space out looks a bit like me watching birds.",
			EnergyStressed: "(jumps up and sits next to you. Says nothing. But you know.)",
		},
		need: map[Need]string{
			NeedUnderstand: "I've been observing you. I understand more than you think.",
			NeedRemind:     "I can push the glass toward you. Not a reminder. It was simply in the way.",
			NeedCheer:      "I don't tell jokes. But I can push things off tables. That always works.",
			NeedQuiet:      "...Finally someone gives the right answer.",
		},
	},
}

// ScheduleReaction returns the persona's immediate response to a schedule
// answer during the profile interview.
func ScheduleReaction(cat quiz.Category, s Schedule) string {
	if r, ok := reactions[cat]; ok {
		if line, ok := r.schedule[s]; ok {
			return line
		}
	}
	return reactions[quiz.Sun].schedule[ScheduleIrregular]
}

// EnergyReaction returns the persona's response to an energy answer.
func EnergyReaction(cat quiz.Category, e Energy) string {
	if r, ok := reactions[cat]; ok {
		if line, ok := r.energy[e]; ok {
			return line
		}
	}
	return reactions[quiz.Sun].energy[EnergyMeh]
}

// NeedReaction returns the persona's response to a need answer.
func NeedReaction(cat quiz.Category, n Need) string {
	if r, ok := reactions[cat]; ok {
		if line, ok := r.need[n]; ok {
			return line
		}
	}
	return reactions[quiz.Sun].need[NeedQuiet]
}
