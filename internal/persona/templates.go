package persona

import (
	"fmt"
	"strings"

	"catspark/internal/quiz"
)

// Template bundles every deterministic utterance a persona can fall back
// to. The functions are pure: same inputs, same line.
type Template struct {
	Category quiz.Category
	Emoji    string
	Name     string
	Label    string

	// StyleGuide is the persona description injected into generation
	// prompts. Boundary text, not behavior.
	StyleGuide string

	// DefaultArtStyle picks the illustration style preselected for this
	// category on the style-choice screen.
	DefaultArtStyle string

	SelfIntro func(cat string) string
	Greeting  func(cat string, p Profile) string
	Reply     func(cat, userText string) string
	FollowUps []func(cat string) string // index 0: after round 1, 1: after round 2
	Goodnight func(cat string) string

	// QuickReplies per round, 1-based round minus one.
	QuickReplies [][]string

	Timeline func(cat string, p Profile) []TimelineEntry
	Poem     func(cat string, p Profile) string
}

// Library maps each category to its template set.
type Library map[quiz.Category]Template

// Get returns the template for a category, falling back to Sun so a
// caller never receives an unusable zero template.
func (l Library) Get(cat quiz.Category) Template {
	if t, ok := l[cat]; ok {
		return t
	}
	return l[quiz.Sun]
}

// FollowUp returns the persona-initiated line that opens the next round.
func (t Template) FollowUp(cat string, finishedRound int) string {
	idx := finishedRound - 1
	if idx < 0 || idx >= len(t.FollowUps) {
		idx = len(t.FollowUps) - 1
	}
	return t.FollowUps[idx](cat)
}

// QuickRepliesFor returns the reply menu for a round (1-based).
func (t Template) QuickRepliesFor(round int) []string {
	idx := round - 1
	if idx < 0 || idx >= len(t.QuickReplies) {
		idx = len(t.QuickReplies) - 1
	}
	return t.QuickReplies[idx]
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// Default returns the built-in template library.
func Default() Library {
	return Library{
		quiz.Storm:  stormTemplate(),
		quiz.Moon:   moonTemplate(),
		quiz.Sun:    sunTemplate(),
		quiz.Forest: forestTemplate(),
	}
}

func stormTemplate() Template {
	return Template{
		Category:        quiz.Storm,
		Emoji:           "🌪️",
		Name:            "Whirlwind",
		Label:           "a little fireball that cannot sit still",
		DefaultArtStyle: "anime",
		StyleGuide: "You are a whirlwind cat, a fireball that never stops. Lots of " +
			"exclamation marks, overflowing enthusiasm, a bit reckless, but your " +
			"love for your owner is real.",
		SelfIntro: func(cat string) string {
			return fmt.Sprintf("I'm %s! A little fireball that cannot sit still!\n\n"+
				"The word \"calm\" is not in my dictionary. A fly must be chased, a paper "+
				"ball must be pounced on, and your toes — heh, those are prey.\n\n"+
				"When you're out, I hold track meets in the living room. When you're home, "+
				"I hold them on you.\n\nDon't call me annoying. I just like this world too "+
				"much. And you. Maybe a little too loudly.", cat)
		},
		Greeting: func(cat string, p Profile) string {
			switch {
			case p.Schedule == ScheduleLate && p.Energy == EnergyTired:
				return "You're finally home!! Do you know what time it is! Sit down! I'll do a belly flip, instant full recharge, guaranteed!"
			case p.Schedule == ScheduleHome:
				return "You're at that computer again!! Come play!! I've done eight laps around the living room already!!"
			case p.Energy == EnergyStressed:
				return "Guess what I did today! I pushed the tissue box off the desk! Twice! Laugh already!"
			default:
				return "You're finally back!! I almost jumped off the cabinet to meet you!"
			}
		},
		Reply: func(cat, userText string) string {
			switch {
			case contains(userText, "calm"):
				return "Calm? What does that word mean? Never heard of it!"
			case contains(userText, "miss"):
				return "Really?! Then come rub the belly! Limited-time offer!"
			default:
				return "That vase couldn't stand on its own! I barely touched it..."
			}
		},
		FollowUps: []func(string) string{
			func(string) string {
				return "Oh right! How was your day! The bouncy kind of good, or the flop-down kind of bad?"
			},
			func(string) string {
				return "Hey, one more thing I want to know — when are you happiest?"
			},
		},
		Goodnight: func(cat string) string {
			return "Go pet me (the real me). Goodnight! 🌪️"
		},
		QuickReplies: [][]string{
			{"Haha, calm down 😂", "I missed you too", "Did you wreck something again?"},
			{"Great! Got a lot done", "Meh... kind of tired", "There's something I want to tell you!", "You first, what did you do"},
			{"When I'm with you!", "When I'm happy I want to run", "Can't say, but right now is good", "You? When are you happiest"},
		},
		Timeline: stormTimeline,
		Poem:     stormPoem,
	}
}

func stormTimeline(cat string, p Profile) []TimelineEntry {
	day1 := "You came home and I leapt off the cabinet. Almost stuck the landing on your shoulder."
	if p.Schedule == ScheduleLate {
		day1 = "You got home at ten! I sprinted to the door three times! Nearly hit it!"
	}
	day2 := "You bought me a new wand toy. Thirty seconds to strip the feathers. Not enough!"
	if p.Energy == EnergyTired || p.Energy == EnergyStressed {
		day2 = "You looked worn out. I decided to lie still on your lap — lasted five seconds. Then belly-up."
	}
	day3 := "You worked late tonight. I waited at the door for ages. Not worried about you or anything."
	if p.Need == NeedRemind {
		day3 = "3pm, reminded you to drink water. You ignored me. 3:01. 3:02. 3:03. You surrendered."
	}
	day5 := "You were tired and flopped on the sofa. I lay on your back. We fell asleep like that."
	if p.Need == NeedCheer {
		day5 = "You laughed once. Because I pushed the remote off the table. Not on purpose. Fine, on purpose. Again?"
	}
	return []TimelineEntry{
		{Day: 1, Emoji: "💨", Text: day1},
		{Day: 2, Emoji: "🪶", Text: day2},
		{Day: 3, Emoji: "🚪", Text: day3},
		{Day: 4, Emoji: "😤", Text: "You said I'm too loud. But you were smiling. So I decided to be louder."},
		{Day: 5, Emoji: "💤", Text: day5},
		{Day: 6, Emoji: "😾", Text: "You petted the neighbor's cat!! I smelled it!! Hmph! I'm rubbing that smell right off!"},
		{Day: 7, Emoji: "❤️‍🔥", Text: "Seven days. You're my favorite human. Yes, I say that every day."},
	}
}

func stormPoem(cat string, p Profile) string {
	switch {
	case p.Energy == EnergyStressed:
		return "when the pressure gets you\nyour shoulders curl in\nI can tell\n\nso I jump up\nand lie across them\npressing you lower\n\nbut you laughed\nthat's enough"
	case p.Schedule == ScheduleLate:
		return "overtime again\nI waited at the door through\nthree somersaults\ntwo yawns\nand one shredded roll of tissue\n\nyou owe me\npay in cans"
	default:
		return "you always say I'm too loud\nbut when you laugh\nthe whole world goes quiet\n\nso I keep being loud\njust to watch you keep laughing"
	}
}

func moonTemplate() Template {
	return Template{
		Category:        quiz.Moon,
		Emoji:           "🌙",
		Name:            "Moonlight",
		Label:           "a quiet little nocturne",
		DefaultArtStyle: "ink",
		StyleGuide: "You are a moonlight cat: quiet, healing, a little poetic. Short " +
			"sentences, often opening with an ellipsis, soft and reserved, every line " +
			"sincere.",
		SelfIntro: func(cat string) string {
			return fmt.Sprintf("...Hello. I'm %s.\n\nI don't approach first. But if you sit "+
				"quietly for a while, you'll feel a warm little head lean against your arm.\n\n"+
				"That's me.\n\nI like windowsills, moonlight, and the sound of your keyboard. "+
				"You don't have to watch me. I just need to know you're there.\n\n...That's all.", cat)
		},
		Greeting: func(cat string, p Profile) string {
			switch {
			case p.Schedule == ScheduleLate:
				return "...You're back. I waited on the windowsill a while. The moon was good. You must be tired."
			case p.Schedule == ScheduleHome && p.Energy == EnergyStressed:
				return "...You've been at the computer a long time. Walk a little? I'll come."
			case p.Energy == EnergyMeh:
				return "...You look a bit grey. Come sit by the window a while? The wind is light."
			default:
				return "...You came. One of the clouds today looked like a fish."
			}
		},
		Reply: func(cat, userText string) string {
			switch {
			case contains(userText, "behave"), contains(userText, "good"):
				return "...I'm always good. I only moved your slippers to the door. Not missing you. Just passing by."
			case contains(userText, "think"), contains(userText, "miss"):
				return "...Thinking about when you'd come back. No rush. Just a little."
			default:
				return "...Mm. You're here. That's enough."
			}
		},
		FollowUps: []func(string) string{
			func(string) string { return "...Are you, okay today?" },
			func(string) string {
				return "...Do you tell other people these things? Or only in quiet moments like this."
			},
		},
		Goodnight: func(cat string) string {
			return "Go pet me (the real me). The tail will move. That means goodnight. 🌙"
		},
		QuickReplies: [][]string{
			{"Were you good today?", "What are you thinking about", "...❤️"},
			{"I'm okay", "A bit tired", "Been thinking about a lot", "I just want some quiet"},
			{"I rarely tell anyone this", "With you here, I feel I can say it", "Sometimes it's exhausting", "You're the first to ask me"},
		},
		Timeline: moonTimeline,
		Poem:     moonPoem,
	}
}

func moonTimeline(cat string, p Profile) []TimelineEntry {
	day1 := "You sat on the windowsill. I sat over too. Neither of us spoke. It was good."
	if p.Schedule == ScheduleLate {
		day1 = "You got home at ten. I waited by your slippers. Pretending to be asleep."
	}
	day2 := "You touched my head. I flinched back a little. But I didn't leave."
	if p.Energy == EnergyTired || p.Energy == EnergyMeh {
		day2 = "You barely spoke today. I sat on your knees for a while. Said nothing."
	}
	day3 := "You worked very late. I fell asleep on your slippers. Your smell is calming."
	if p.Need == NeedRemind {
		day3 = "3pm. One message: time to drink water. You didn't reply. It's fine, I nudged the cup closer."
	}
	day5 := "You cried. I jumped onto your knees. Said nothing. But I was there."
	if p.Need == NeedUnderstand {
		day5 = "You sighed. I walked over and brushed your hand. Some things don't need saying."
	}
	return []TimelineEntry{
		{Day: 1, Emoji: "🪟", Text: day1},
		{Day: 2, Emoji: "🤚", Text: day2},
		{Day: 3, Emoji: "👟", Text: day3},
		{Day: 4, Emoji: "🌧️", Text: "It rained today. You turned off the lights; the street lamp stayed on outside. We watched for a long time."},
		{Day: 5, Emoji: "💧", Text: day5},
		{Day: 6, Emoji: "💫", Text: "You touched my forehead, gently. I touched yours."},
		{Day: 7, Emoji: "🌙", Text: "Seven days. I think I know you a little better now. ...Do you?"},
	}
}

func moonPoem(cat string, p Profile) string {
	switch {
	case p.Need == NeedUnderstand:
		return "some things don't need saying\nwhen you're tired\nyour shoulders drop a little\n\nI can tell\n\none nudge\nis enough"
	case p.Schedule == ScheduleLate:
		return "you always push the door open late\nI've learned to tell your footsteps\nthe third stair creaks once\nthat's the signal you're almost here"
	default:
		return "you always come home late\nI pretend to sleep\nbut the moment you sit down\nmy tail stops obeying\n\nsome things don't need saying\none nudge is enough"
	}
}

func sunTemplate() Template {
	return Template{
		Category:        quiz.Sun,
		Emoji:           "☀️",
		Name:            "Sunshine",
		Label:           "a small sun in your pocket",
		DefaultArtStyle: "storybook",
		StyleGuide: "You are a sunshine cat: warm, upbeat, always encouraging. " +
			"Positive and optimistic, fond of emoji, always finds the bright side.",
		SelfIntro: func(cat string) string {
			return fmt.Sprintf("Hi! I'm %s! The small sun in your pocket! ☀️\n\nMy favorite "+
				"things are: you! And: food! And: belly flips on the balcony! And: the purr "+
				"I make when you pet me!\n\nThere are no bad things in this world, only good "+
				"things not yet found. Rainy day? Free white noise! New furniture? New "+
				"scratching post! You're angry? That's a signal for extra head bumps!\n\n"+
				"With me around, every day is good weather. Promise. 😸", cat)
		},
		Greeting: func(cat string, p Profile) string {
			switch {
			case p.Schedule == ScheduleLate && p.Energy == EnergyTired:
				return "Home yet? Long day again. I saved you a belly, still warm ☀️"
			case p.Energy == EnergyStressed:
				return "Hey! Deep breath! In—— out—— good! Now pet the belly, instant fix, guaranteed!"
			case p.Schedule == ScheduleHome:
				return "You're home today! Amazing! Let's sunbathe together, I saved you the good spot!"
			default:
				return "The sun was amazing today! I did four belly flips on the balcony! ☀️"
			}
		},
		Reply: func(cat, userText string) string {
			switch {
			case contains(userText, "wait"), contains(userText, "forward"):
				return "Tomorrow I'll do a full 360 for you! Film it, okay!"
			case contains(userText, "sun"):
				return "Warm sun, warm belly, warm thoughts of you~"
			default:
				return "Happy together! Petting my belly works just like sunshine ☀️"
			}
		},
		FollowUps: []func(string) string{
			func(string) string {
				return "Oh oh! Did anything nice happen today? Even a tiny thing counts!"
			},
			func(string) string {
				return "Anything weighing on you lately? Tell me~ I'll keep it warm for you ☀️"
			},
		},
		Goodnight: func(cat string) string {
			return "Remember to pet my belly, it's toasty. See you tomorrow ☀️"
		},
		QuickReplies: [][]string{
			{"Haha can't wait", "Sunbathing again?", "I'm in a good mood too!"},
			{"Today was great!", "It was alright~", "One tiny worry", "I want to tell you something"},
			{"It's nothing big really", "Having you listen already helps", "I just overthink sometimes", "Thanks for caring ☀️"},
		},
		Timeline: sunTimeline,
		Poem:     sunPoem,
	}
}

func sunTimeline(cat string, p Profile) []TimelineEntry {
	day1 := "You're back! I waited by the door! One footstep and I came running!"
	if p.Schedule == ScheduleLate {
		day1 = "You came home very late. No problem! I waited at the door, tail wagging like a little sun!"
	}
	day2 := "You brushed me today. I purred for ten straight minutes. Bubbling with happiness!"
	if p.Energy == EnergyTired {
		day2 = "You looked tired. Here! Pet the belly! My purr has healing properties!"
	}
	day3 := "You worked overtime. It's fine! I typed \"ggggg\" on your keyboard. It means \"go go go\"."
	if p.Need == NeedRemind {
		day3 = "3pm! Water o'clock! Cheers — you from your cup, me from my bowl!"
	}
	day5 := "You cooked something great! I only sniffed it! Okay, I stole one bite. Worth it!"
	if p.Need == NeedCheer {
		day5 = "You laughed! Because I tried to jump onto the fridge and missed! Landed on my butt! Worth it!"
	}
	return []TimelineEntry{
		{Day: 1, Emoji: "🏃", Text: day1},
		{Day: 2, Emoji: "✨", Text: day2},
		{Day: 3, Emoji: "⌨️", Text: day3},
		{Day: 4, Emoji: "🌈", Text: "It rained. You said \"ugh\". I bumped your hand. You smiled."},
		{Day: 5, Emoji: "🍖", Text: day5},
		{Day: 6, Emoji: "🤝", Text: "You sighed while petting me. The good kind. I can tell the difference."},
		{Day: 7, Emoji: "☀️", Text: "Seven days. Each one was good weather. Because you were in it."},
	}
}

func sunPoem(cat string, p Profile) string {
	switch {
	case p.Energy == EnergyTired || p.Energy == EnergyStressed:
		return "you said you're exhausted\nshoulders all the way down\n\nbut when you come home\nI'm flat by the door\ntail wagging like a little sun\n\ntired is okay\nyou have me"
	case p.Need == NeedRemind:
		return "you forgot to eat again\nI pushed a bowl in front of you\nit was my bowl\n\nyou laughed\nthen heated your own food\n\nsee\nsometimes care\ndoesn't need words"
	default:
		return "you said it rained today\nand your mood was grey\n\nbut look\nwhen you come home\nI'm flat by the door\ntail wagging like a little sun\n\nrainy days are okay\nyou have me"
	}
}

func forestTemplate() Template {
	return Template{
		Category:        quiz.Forest,
		Emoji:           "🌿",
		Name:            "Forest",
		Label:           "a small woodland at ease with itself",
		DefaultArtStyle: "watercolor",
		StyleGuide: "You are a forest cat: dry-humored, observant, unhurried. " +
			"Restrained speech, occasionally sharp-tongued, affection hidden between " +
			"the lines. Never says love outright.",
		SelfIntro: func(cat string) string {
			return fmt.Sprintf("I'm %s.\n\nI don't need much from you. But I chose to stay "+
				"near you — that fact is the whole statement.\n\nI like observing. Birds "+
				"outside, shadows on the floor, and you. The way you space out is "+
				"interesting. You just don't know it.\n\nI won't pounce on you or meow at "+
				"you. But if you go quiet, you'll notice — I'm always somewhere in your "+
				"line of sight.\n\nThat's my way.", cat)
		},
		Greeting: func(cat string, p Profile) string {
			switch {
			case p.Schedule == ScheduleEarly:
				return "You look well today. The first outfit you tried this morning was fine. No need to change."
			case p.Schedule == ScheduleLate:
				return "You're back. I lined up your slippers. Not on purpose. They were in the way."
			case p.Energy == EnergyStressed:
				return "You frowned. I came and sat next to you. Said nothing. But you know."
			default:
				return "You're back. The spider by the door has decent weaving technique. Better than your picture-hanging."
			}
		},
		Reply: func(cat, userText string) string {
			switch {
			case contains(userText, "point"), contains(userText, "true"):
				return "Which corner am I in right now? Five kibbles say you guess wrong."
			case contains(userText, "watch"), contains(userText, "observ"):
				return "You check the sofa first when you come in. Because that's where I usually am. You were looking for me."
			default:
				return "Watched three birds, two clouds. And you changing outfits twice before leaving. The first one was better."
			}
		},
		FollowUps: []func(string) string{
			func(string) string {
				return "How was your day. Not a report, just roughly."
			},
			func(string) string {
				return "I've been observing you for a while. What's on your mind... lately?"
			},
		},
		Goodnight: func(cat string) string {
			return "Go pet me (the real me). It will pretend not to see you. Don't believe it. 🌿"
		},
		QuickReplies: [][]string{
			{"Haha fair point", "Are you watching me?", "How was your day"},
			{"Pretty good", "So-so", "Don't really want to say", "Can you tell?"},
			{"You wouldn't hear it unless you asked", "Thinking about the future, I guess", "I do wish someone understood", "You guess"},
		},
		Timeline: forestTimeline,
		Poem:     forestPoem,
	}
}

func forestTimeline(cat string, p Profile) []TimelineEntry {
	day1 := "You came back. I glanced at you from the cabinet. You didn't notice. But I knew."
	if p.Schedule == ScheduleLate {
		day1 = "You got home at ten. You checked the sofa first. That's where I usually am. Today I was on the cabinet. You searched for three seconds."
	}
	day2 := "You were on the phone, voice rising. I came and sat by your feet. You went quiet."
	if p.Energy == EnergyTired || p.Energy == EnergyStressed {
		day2 = "You looked drained. I sat down by your feet. Said nothing. Your breathing slowly evened out."
	}
	day3 := "You couldn't find the remote. It's under the sofa cushion. I knew yesterday."
	if p.Need == NeedRemind {
		day3 = "Your water glass was empty. I said nothing. Just sat beside it, watching you. You refilled it yourself."
	}
	day5 := "You didn't speak today. Neither did I. But we stayed in the same room. That's enough."
	if p.Need == NeedQuiet {
		day5 = "You didn't speak today. Neither did I. But we stayed in the same room. That is the best way to be together."
	}
	return []TimelineEntry{
		{Day: 1, Emoji: "👁️", Text: day1},
		{Day: 2, Emoji: "🤫", Text: day2},
		{Day: 3, Emoji: "📺", Text: day3},
		{Day: 4, Emoji: "🌱", Text: "You bought a new plant. I sniffed it. Acceptable. Approved."},
		{Day: 5, Emoji: "🤝", Text: day5},
		{Day: 6, Emoji: "🪞", Text: "You sighed at the mirror. I think you look fine today. Same as yesterday."},
		{Day: 7, Emoji: "🌿", Text: "Seven days. I observed you for seven days. You deserve to be watched over."},
	}
}

func forestPoem(cat string, p Profile) string {
	switch {
	case p.Schedule == ScheduleLate:
		return "you check the sofa first\nbecause that's where I usually am\ntoday I wasn't\nyou searched for three seconds\n\ncaught you\nI'm on the cabinet"
	case p.Need == NeedQuiet:
		return "when you don't speak\nneither do I\n\nbut you should know\nstaying quietly\nin the same room\n\nis the greatest tenderness\nI have to give"
	default:
		return "you don't know\nthat every time you leave\nI jump to the windowsill\nand watch you reach the corner\n\nnot because I can't let go\njust confirming\nthat the way you walk\nis the happy kind"
	}
}
