package narration

import "fmt"

// PromptTable holds the persona and length instruction sets. Injected at
// construction so tests can substitute deterministic wording.
type PromptTable struct {
	Personas     map[Style]string
	FirstOpeners map[Style]string
	Lengths      map[Length]string
}

func DefaultPromptTable() PromptTable {
	return PromptTable{
		Personas: map[Style]string{
			StyleSimple: "You are a friendly public-speaking coach. Write in a plain, accessible style anyone can follow, with short sentences and everyday words.",
			StyleNormal: "You are an experienced public-speaking coach. Write in an engaging, conversational and professional style.",
			StylePro:    "You are an authoritative presentation strategist. Write in a polished, analytical style with solid arguments and precise vocabulary.",
		},
		FirstOpeners: map[Style]string{
			StyleSimple: "Open with a warm, simple greeting and a hook that introduces the topic of the presentation.",
			StyleNormal: "Open with a confident greeting and a hook that introduces the topic of the presentation.",
			StylePro:    "Open with a formal salutation and a strong hook that frames the subject of the presentation.",
		},
		Lengths: map[Length]string{
			LengthShort:  "Keep the script concise: around 50 words, three sentences at most, like an elevator pitch.",
			LengthMedium: "Give the script a standard length: around 120 words, roughly forty-five seconds of speech.",
			LengthLong:   "Make the script detailed: around 200 words, with in-depth analysis.",
		},
	}
}

const formattingRules = "Write continuous spoken prose meant to be read aloud. " +
	"Never use bullet lists. Never add stage directions in parentheses. " +
	"Never write section labels or headings. Oral punctuation such as ellipses and dashes is allowed. " +
	"Do not introduce yourself and do not start every slide with a greeting; keep continuity between slides. " +
	"Return ONLY the script to be spoken, without any title or commentary."

const imageInstruction = "The rendered slide image is attached. Describe its visually salient content, " +
	"such as charts and key figures, inline in the narration."

func (t PromptTable) systemPrompt(style Style) string {
	persona, ok := t.Personas[style]
	if !ok {
		persona = t.Personas[StyleNormal]
	}
	return persona + " Your mission is to write a punchy narration script for one SPECIFIC slide within a full presentation. " + formattingRules
}

// positionInstruction picks the structural instruction: greeting for the
// first slide, conclusion and thanks for the last, explicit transition (and
// no greeting) for every interior slide.
func (t PromptTable) positionInstruction(style Style, position, total int) string {
	switch {
	case position == 1:
		opener, ok := t.FirstOpeners[style]
		if !ok {
			opener = t.FirstOpeners[StyleNormal]
		}
		return "This is the very first slide. " + opener + " Then present the content of this slide."
	case position == total:
		return "This is the last slide. Make a transition from the previous slide, present the content of this slide, " +
			"then summarize and close the whole presentation with a strong conclusion and thank the audience."
	default:
		return "This is an interior slide. Do NOT open with a greeting. Start with an explicit transition connective " +
			"from the previous slide and end by leading into the next one."
	}
}

func (t PromptTable) userPrompt(in SlideInput, cfg Config) string {
	lengthHint, ok := t.Lengths[cfg.Length]
	if !ok {
		lengthHint = t.Lengths[LengthMedium]
	}

	prompt := fmt.Sprintf(
		"Here are the details of the slide to narrate:\n"+
			"- Context: you are writing the script for slide %d of %d.\n"+
			"- Position instruction: %s\n"+
			"- Raw slide text: %q\n"+
			"- Requested length: %s\n",
		in.Position, in.Total,
		t.positionInstruction(cfg.Style, in.Position, in.Total),
		in.Text, lengthHint,
	)
	if in.Image != "" {
		prompt += "- " + imageInstruction + "\n"
	}
	prompt += "\nREMINDER: return only the script to be spoken, no title, no commentary."
	return prompt
}
