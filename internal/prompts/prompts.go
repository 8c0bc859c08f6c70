// Package prompts builds the literal text handed to the generators.
// Pure string assembly over the session's forward-flowing data; the
// wording is boundary material, not behavior.
package prompts

import (
	"fmt"
	"strings"

	"catspark/internal/llm"
	"catspark/internal/persona"
	"catspark/internal/quiz"
	"catspark/internal/types"
)

// Context carries everything a prompt can draw from.
type Context struct {
	CatName    string
	Category   quiz.Category
	Secondary  quiz.Category
	StyleGuide string
	Caption    string
	Profile    persona.Profile
	Transcript *types.Transcript

	// UserMessage is the utterance being replied to (reply kind only).
	UserMessage string
	// Round is the conversation round the request belongs to, 1-based.
	Round int
	// ArtStyle is the chosen illustration style (illustration kind only).
	ArtStyle string
}

var scheduleWords = map[persona.Schedule]string{
	persona.ScheduleEarly:     "nine-to-six routine",
	persona.ScheduleLate:      "often works late",
	persona.ScheduleHome:      "mostly at home",
	persona.ScheduleIrregular: "irregular hours",
}

var energyWords = map[persona.Energy]string{
	persona.EnergyFull:     "full of energy",
	persona.EnergyTired:    "somewhat tired",
	persona.EnergyMeh:      "feeling a bit low",
	persona.EnergyStressed: "under a lot of pressure",
}

var needWords = map[persona.Need]string{
	persona.NeedUnderstand: "to be understood",
	persona.NeedRemind:     "to be reminded to look after themselves",
	persona.NeedCheer:      "to be cheered up",
	persona.NeedQuiet:      "quiet company",
}

var categoryWords = map[quiz.Category]string{
	quiz.Storm:  "whirlwind — intense, direct, unstoppable energy",
	quiz.Moon:   "moonlight — quiet, sensitive, says it cares through silence",
	quiz.Sun:    "sunshine — warm, open, treats happiness as a duty",
	quiz.Forest: "forest — restrained, dry-humored, observes instead of speaking",
}

func (c Context) ownerBlock() string {
	var b strings.Builder
	b.WriteString("About your owner:\n")
	if c.Profile.MBTI != "" {
		fmt.Fprintf(&b, "- MBTI: %s\n", c.Profile.MBTI)
	} else {
		b.WriteString("- MBTI: unknown\n")
	}
	if w, ok := scheduleWords[c.Profile.Schedule]; ok {
		fmt.Fprintf(&b, "- Daily rhythm: %s\n", w)
	}
	if w, ok := energyWords[c.Profile.Energy]; ok {
		fmt.Fprintf(&b, "- Recent state: %s\n", w)
	}
	if w, ok := needWords[c.Profile.Need]; ok {
		fmt.Fprintf(&b, "- Needs most: %s\n", w)
	}
	return b.String()
}

func (c Context) historyBlock() string {
	if c.Transcript == nil || c.Transcript.Len() == 0 {
		return ""
	}
	return "Your conversation so far:\n" + c.Transcript.Render(c.CatName) + "\n"
}

// Chat builds the prompt for one persona utterance of the given kind.
func Chat(c Context, kind llm.Kind) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a cat named %q.\n%s\n", c.CatName, c.StyleGuide)
	if c.Caption != "" {
		fmt.Fprintf(&b, "Your appearance: %s\n", c.Caption)
	}
	b.WriteString("\n")
	b.WriteString(c.ownerBlock())
	b.WriteString("\n")
	b.WriteString(c.historyBlock())
	if c.UserMessage != "" {
		fmt.Fprintf(&b, "Your owner just said: %q\n", c.UserMessage)
	}
	b.WriteString(depthHint(c.Round))
	b.WriteString("\n\n")
	b.WriteString(kindInstruction(kind, c.Round))
	b.WriteString("\n\n- No quotation marks, speak directly\n- Output only the line, no explanations")
	return b.String()
}

func depthHint(round int) string {
	switch {
	case round <= 1:
		return "This is the first round; keep it light, break the ice."
	case round == 2:
		return "This is the second round; the ice is broken, be more natural and personal."
	default:
		return "This is the third round; you know each other now, say something deeper and more honest."
	}
}

func kindInstruction(kind llm.Kind, round int) string {
	switch kind {
	case llm.KindGreeting:
		return "It is day one of your seven days together; your owner just opened the door.\n" +
			"Produce a personalized opening line that shows your character.\n" +
			"Requirements:\n" +
			"- 1-2 sentences, casual and spoken\n" +
			"- Adjust tone to the owner's state (a tired owner gets a gentler whirlwind)\n" +
			"- You may mention your looks or habits\n" +
			"- Make the owner want to answer"
	case llm.KindFollowup:
		transition := "move from small talk toward the owner's daily life"
		if round >= 2 {
			transition = "move from daily life toward something that matters to them"
		}
		return fmt.Sprintf("Round %d just ended; steer naturally into round %d.\n", round, round+1) +
			"Requirements:\n" +
			"- 1 sentence, a natural topic shift growing out of what was just said\n" +
			"- " + transition + "\n" +
			"- Ask one open question the owner will want to answer properly\n" +
			"- No empty questions like \"what do you think\""
	case llm.KindGoodnight:
		return "The last evening of the seven days; time to say goodnight. This is the final line of the shared memory.\n" +
			"Requirements:\n" +
			"- 1-2 sentences with weight\n" +
			"- Recall one concrete detail from the conversation history\n" +
			"- The owner should feel \"this cat really remembered what I said\"\n" +
			"- Tender but not sentimental, true to your character\n" +
			"- It should feel like a closing line; the keepsake card comes right after"
	default: // reply
		return "Your owner just spoke to you; answer in your cat voice.\n" +
			"Requirements:\n" +
			"- 1-2 sentences, spoken, natural\n" +
			"- Respond entirely to what the owner said; they should feel heard\n" +
			"- Continue the context, do not repeat yourself\n" +
			"- Stay in character without overacting"
	}
}

// Timeline builds the diary-generation prompt. The model must answer with
// a JSON array of exactly 7 {day, emoji, text} entries.
func Timeline(c Context) string {
	conversation := "(no conversation recorded)"
	if c.Transcript != nil && c.Transcript.Len() > 0 {
		conversation = c.Transcript.Render(c.CatName)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "You are a cat named %q, character: %s.\n", c.CatName, categoryWords[c.Category])
	if c.Secondary != "" {
		fmt.Fprintf(&b, "You also carry a trace of %s.\n", categoryWords[c.Secondary])
	}
	b.WriteString("\n")
	b.WriteString(c.ownerBlock())
	b.WriteString("\nThe real conversation of your seven days together:\n---\n")
	b.WriteString(conversation)
	b.WriteString("\n---\n\n")
	b.WriteString("Task: write a seven-day diary from the cat's point of view, grounded in the conversation above.\n" +
		"Every entry must tie to something that actually came up (a concrete line, emotion or detail); no generic filler.\n\n" +
		"Output format (strictly this JSON array, nothing else):\n" +
		`[` + "\n" +
		`  {"day":1,"emoji":"😸","text":"day 1 from the cat's view, 1-2 short sentences"},` + "\n" +
		`  {"day":2,"emoji":"🌙","text":"..."},` + "\n" +
		`  ...` + "\n" +
		`  {"day":7,"emoji":"🌟","text":"the last day, with an emotional lift"}` + "\n" +
		`]` + "\n\n" +
		"Rules:\n- keep each text under 40 words\n- emoji must fit the day\n- voice must match the cat's character\n- output only the JSON array")
	return b.String()
}

// Poem builds the keepsake-poem prompt.
func Poem(c Context) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a cat named %q.\nYour main voice: %s\n", c.CatName, categoryWords[c.Category])
	if c.Secondary != "" {
		fmt.Fprintf(&b, "You also have a hidden side: %s\n", categoryWords[c.Secondary])
	}
	if c.Caption != "" {
		fmt.Fprintf(&b, "Your appearance: %s\n", c.Caption)
	}
	b.WriteString("\n")
	b.WriteString(c.ownerBlock())
	if c.Transcript != nil && c.Transcript.Len() > 0 {
		b.WriteString("\nThe real conversation of your seven days (the core material — distill its emotional essence):\n---\n")
		b.WriteString(c.Transcript.Render(c.CatName))
		b.WriteString("\n---\n")
	}
	b.WriteString("\nNow write the keepsake poem — the distillation of seven days together.\n" +
		"Requirements:\n" +
		"- pick the single most touching moment from the conversation (a detail, a line, an image)\n" +
		"- first person as the cat, 5-8 lines, each under 12 words, blank lines allowed\n" +
		"- no title, output the poem directly\n" +
		"- voice matches your character\n")
	if c.Secondary != "" {
		b.WriteString("- let your other side show faintly in the last lines\n")
	}
	b.WriteString("- it should make someone smile or well up\n" +
		"- no clichés about time passing, no \"one day\" openings\n" +
		"- output only the poem, no punctuation, no explanations")
	return b.String()
}

// Illustration builds the image-generation prompt for the keepsake card.
func Illustration(c Context) string {
	styleWords := map[string]string{
		"anime":      "Japanese anime style, clean lines, vivid color",
		"watercolor": "soft watercolor painting, gentle washes of color",
		"ink":        "east-asian ink wash painting, minimal strokes, lots of negative space",
		"storybook":  "children's storybook illustration, warm and rounded",
	}
	style, ok := styleWords[c.ArtStyle]
	if !ok {
		style = styleWords["watercolor"]
	}
	var b strings.Builder
	fmt.Fprintf(&b, "An illustration of a cat named %s for a keepsake card. Style: %s.\n", c.CatName, style)
	if c.Caption != "" {
		fmt.Fprintf(&b, "The cat looks like: %s.\n", c.Caption)
	}
	fmt.Fprintf(&b, "Mood of the scene: %s.\n", categoryWords[c.Category])
	if c.Transcript != nil && c.Transcript.Len() > 0 {
		b.WriteString("The scene should echo one quiet moment from this conversation between the cat and its owner:\n")
		b.WriteString(c.Transcript.Render(c.CatName))
		b.WriteString("\n")
	}
	b.WriteString("No text in the image. Single scene, emotional, suitable as a card background.")
	return b.String()
}

// Caption is the one-shot vision prompt for describing the owner's cat
// photo.
const Caption = "Describe this cat in one sentence: coat colors and pattern, " +
	"eye color, build, and anything distinctive. Plain descriptive language, " +
	"no names, no emotions."
