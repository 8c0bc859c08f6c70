package persona

import (
	"fmt"

	"catspark/internal/quiz"
)

// secondaryMoments replace day 4 of the fallback timeline when a secondary
// category is present: the moment the hidden side of the personality
// suddenly shows.
var secondaryMoments = map[quiz.Category]func(cat string) TimelineEntry{
	quiz.Storm: func(cat string) TimelineEntry {
		return TimelineEntry{Day: 4, Emoji: "⚡", Text: fmt.Sprintf(
			"No idea what got into %s today — three mad laps around the living room, one cup down, and it was on top of the cabinet before you could react. ...That's not like it at all?", cat)}
	},
	quiz.Moon: func(cat string) TimelineEntry {
		return TimelineEntry{Day: 4, Emoji: "🌙", Text: fmt.Sprintf(
			"%s suddenly went quiet today. Lay on the windowsill watching clouds for a long time. You walked over; it didn't dodge. It even pressed into your palm.", cat)}
	},
	quiz.Sun: func(cat string) TimelineEntry {
		return TimelineEntry{Day: 4, Emoji: "☀️", Text: fmt.Sprintf(
			"%s actually rolled belly-up on its own today and chirped at you. Warm. It almost never asks for affection like that.", cat)}
	},
	quiz.Forest: func(cat string) TimelineEntry {
		return TimelineEntry{Day: 4, Emoji: "🌿", Text: fmt.Sprintf(
			"%s spent the whole day watching you from the corner. Did nothing. But whatever you did, it was watching. It's never this \"attentive\".", cat)}
	},
}

// secondaryCodas are appended to the fallback poem to hint at the contrast.
var secondaryCodas = map[quiz.Category]string{
	quiz.Storm:  "\n\nbut sometimes\nit breaks into a sudden run\nas if to remind you\nthere is still a fire in its soul",
	quiz.Moon:   "\n\nbut sometimes\nit goes quiet\nstaring into the distance\nthinking things you'll never know",
	quiz.Sun:    "\n\nbut sometimes\nit bumps you out of nowhere\nwarm\nlike it hid a small sun",
	quiz.Forest: "\n\nbut sometimes\nit just watches you\nsaying nothing\nand you know it understands",
}

// mbtiQuips are the one-line reactions to the owner's MBTI code.
var mbtiQuips = map[string]string{
	"INFP": "Oh~ no wonder you look at me so gently",
	"INFJ": "You must be able to read every one of my glances",
	"INTP": "What are you thinking? Don't bother saying, I can guess",
	"INTJ": "Mm. You have plans, I have nine lives. Pleasure doing business",
	"ISFP": "You must close your eyes when you pet me, to feel it properly",
	"ISFJ": "You're the kind who remembers which flavor I like",
	"ISTP": "Mm, we're alike. The each-to-their-own kind",
	"ISTJ": "You'll feed me on time. I like punctual people",
	"ENFP": "I caught your enthusiasm! High five! With the paw!",
	"ENFJ": "You want to take care of the whole world? Start with me",
	"ENTP": "Your brain spins fast, but it can't outspin my tail",
	"ENTJ": "Yes boss. I'll file my daily report every day then",
	"ESFP": "Party! Every day is a party! I like you!",
	"ESFJ": "I watch you cook. Not because I want some. Fine, I want some",
	"ESTP": "You're bold, I'm bold. Let's cause trouble together",
	"ESTJ": "Rules? My rule is no rules. But my can is due on time",
}

// mbtiObservations are the cat's day-5 diary observation of each owner
// type. The framing sentence comes from the category so the same
// observation reads differently per persona.
var mbtiObservations = map[string]string{
	"INFP": "You sometimes stop and smile at nothing at all. Whatever world that is, it must be beautiful",
	"INFJ": "You helped someone all day and forgot to eat yourself",
	"INTP": "You stare at the screen with your mouth slightly open. Whatever is in that head must be interesting",
	"INTJ": "You plan everything. You did not plan for me lying on your keyboard",
	"ISFP": "You stood at the window watching the sunset, paint still on your fingers",
	"ISFJ": "You change my water before you even brush your teeth. Every day. Never missed",
	"ISTP": "You fix things quietly and tell no one. Your hands are steady",
	"ISTJ": "Your desk is always tidy. I nudged a pen crooked. You put it back at once",
	"ENFP": "You told me three new ideas today, then two more. Your brain never stops either",
	"ENFJ": "You worry about everyone. Who worries about you? I do",
	"ENTP": "You argue with friends the way I chase the feather wand, all lit up",
	"ENTJ": "Your meeting voice carries across the whole flat. Very impressive. At home you're still my can-opener",
	"ESFP": "You sang today. Skipping about. I watched the entire show from the cabinet",
	"ESFJ": "Guests came and you bustled all evening. When they left you finally sat down. My turn",
	"ESTP": "You doubled back twice for forgotten things and said \"don't laugh\". I didn't. Fine, I did",
	"ESTJ": "Your checklist includes \"8:00 feed cat\". Touching. I start yelling at 7:45 regardless",
}

var mbtiMomentFrames = map[quiz.Category]string{
	quiz.Storm:  "%s! I noticed! I notice everything about you!",
	quiz.Moon:   "...%s. I saw it. I didn't say anything.",
	quiz.Sun:    "%s And that made my whole day brighter ☀️",
	quiz.Forest: "%s. Noted. I keep records.",
}

// mbtiPoemOpeners are prepended to the fallback poem, one per owner type.
var mbtiPoemOpeners = map[string]string{
	"INFP": "you are gentler than you think\nI could tell from day one\n\n",
	"INFJ": "you see through everything\nand never say so\nme too\n\n",
	"INTP": "when you forget to eat\nI go sit by the bowl\nnot hungry\nreminding you\n\n",
	"INTJ": "your plan never included\n\"moved by a cat\"\nyet here you are\n\n",
	"ISFP": "you brought home a fallen leaf\nothers wouldn't get it\nI do\n\n",
	"ISFJ": "you do the same things every day\nbut that isn't repetition\nit's saying — I care\n\n",
	"ISTP": "you say nothing when you fix things\nyou say nothing when you care\nbut your hands are warm\n\n",
	"ISTJ": "you are the dependable kind\nI know\nbecause your footsteps\nhave never lied to me\n\n",
	"ENFP": "your eyes light up\nlike something good is coming\nevery time I see that\nI think — it already came\n\n",
	"ENFJ": "you look after everyone\nbut who looks after you?\nI do\nmy way\n\n",
	"ENTP": "your mind spins faster than my tail\nbut when you pause\nyour eyes go quiet\nI like that moment\n\n",
	"ENTJ": "you call the shots\nexcept on my matters\nthose are mine\nand you accepted that\n\n",
	"ESFP": "you laugh so loudly\nthe whole house rings\nyou don't know\nmy ears turn toward you\n\n",
	"ESFJ": "you arranged the home so well\nbecause you want everyone comfortable\nyou don't know\nmy most comfortable spot\nis next to you\n\n",
	"ESTP": "you act first, think later\nme too\nwe both remember how high the table is\nonly after jumping\n\n",
	"ESTJ": "you have everything scheduled\nneat and clear\nbut the unscheduled moments\nare when you're most yourself\n\n",
}

// mixedLabels label each primary-secondary pairing on the result stage.
var mixedLabels = map[string]MixedLabel{
	"storm-moon":   {Display: "🌪️ Whirlwind · with a touch of 🌙 Moonlight", Description: "Settles down quietly once the chaos is spent, a contrast that melts you"},
	"storm-sun":    {Display: "🌪️ Whirlwind · with a touch of ☀️ Sunshine", Description: "A glowing little fireball, the center of every room"},
	"storm-forest": {Display: "🌪️ Whirlwind · with a touch of 🌿 Forest", Description: "Unstoppable when wild, yet frighteningly observant"},
	"moon-storm":   {Display: "🌙 Moonlight · with a touch of 🌪️ Whirlwind", Description: "Quiet most days, with sudden bursts of madness"},
	"moon-sun":     {Display: "🌙 Moonlight · with a touch of ☀️ Sunshine", Description: "A quiet warmth, like a campfire under moonlight"},
	"moon-forest":  {Display: "🌙 Moonlight · with a touch of 🌿 Forest", Description: "A silent observer with an ocean inside"},
	"sun-storm":    {Display: "☀️ Sunshine · with a touch of 🌪️ Whirlwind", Description: "Warms up and then explodes, but the sweet kind of explosion"},
	"sun-moon":     {Display: "☀️ Sunshine · with a touch of 🌙 Moonlight", Description: "Mostly warm, with its own quiet hours"},
	"sun-forest":   {Display: "☀️ Sunshine · with a touch of 🌿 Forest", Description: "Warm but measured; its eyes curve when it smiles"},
	"forest-storm": {Display: "🌿 Forest · with a touch of 🌪️ Whirlwind", Description: "Cool on the surface, eruptions you cannot catch"},
	"forest-moon":  {Display: "🌿 Forest · with a touch of 🌙 Moonlight", Description: "A soft heart under the aloof exterior"},
	"forest-sun":   {Display: "🌿 Forest · with a touch of ☀️ Sunshine", Description: "The mouth denies it but the body is honest"},
}

// ComposeTimeline builds the deterministic 7-entry diary fallback: the
// category's base timeline with day 4 swapped for the secondary-contrast
// moment and day 5 for the MBTI observation when those attributes exist.
func (l Library) ComposeTimeline(primary quiz.Category, secondary quiz.Category, catName string, p Profile) []TimelineEntry {
	base := l.Get(primary).Timeline(catName, p)
	out := make([]TimelineEntry, len(base))
	copy(out, base)
	for i, e := range out {
		if e.Day == 4 && secondary != "" {
			if m, ok := secondaryMoments[secondary]; ok {
				out[i] = m(catName)
			}
		}
		if e.Day == 5 {
			if mbti := NormalizeMBTI(p.MBTI); mbti != "" {
				out[i] = mbtiMoment(primary, mbti)
			}
		}
	}
	return out
}

func mbtiMoment(primary quiz.Category, mbti string) TimelineEntry {
	frame, ok := mbtiMomentFrames[primary]
	if !ok {
		frame = "%s"
	}
	return TimelineEntry{Day: 5, Emoji: "🤍", Text: fmt.Sprintf(frame, mbtiObservations[mbti])}
}

// ComposePoem builds the deterministic fallback poem: MBTI opener (when
// known) + category base poem + secondary coda (when present).
func (l Library) ComposePoem(primary quiz.Category, secondary quiz.Category, catName string, p Profile) string {
	poem := l.Get(primary).Poem(catName, p)
	if mbti := NormalizeMBTI(p.MBTI); mbti != "" {
		if opener, ok := mbtiPoemOpeners[mbti]; ok {
			poem = opener + poem
		}
	}
	if secondary != "" {
		if coda, ok := secondaryCodas[secondary]; ok {
			poem += coda
		}
	}
	return poem
}
