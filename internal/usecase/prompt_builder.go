package usecase

// PromptKind selects which instruction template wraps the user's text.
type PromptKind int

const (
	KindExplain PromptKind = iota
	KindRefine
)

// Command returns the audit/metrics name of the command behind a kind.
func (k PromptKind) Command() string {
	if k == KindRefine {
		return "prompt"
	}
	return "explain"
}

// System instructions sent alongside the built prompt.
const (
	ExplainSystemPrompt = "You explain at multiple levels clearly."
	RefineSystemPrompt  = "You are a world-class prompt engineer. Always return in the strict format."
)

// BuildPrompt dispatches to the template for the given kind.
func BuildPrompt(kind PromptKind, userText string) string {
	if kind == KindRefine {
		return BuildRefinePrompt(userText)
	}
	return BuildExplainPrompt(userText)
}

// SystemPrompt returns the system instruction paired with a kind.
func SystemPrompt(kind PromptKind) string {
	if kind == KindRefine {
		return RefineSystemPrompt
	}
	return ExplainSystemPrompt
}

// BuildExplainPrompt asks for a fixed three-tier explanation. The user text
// is embedded verbatim; escaping is the model's problem, not ours.
func BuildExplainPrompt(userText string) string {
	return `
You are an expert explainer. Explain the following text at three levels:

🔹 Basic — like for a 5-year-old
🔸 Intermediate — like for a college student
🔶 Advanced — for professionals

Format:

🔹 *Basic explanation:*
<text>

🔸 *Intermediate explanation:*
<text>

🔶 *Advanced explanation:*
<text>

Text:
"""` + userText + `"""`
}

// BuildRefinePrompt asks for a structured rewrite of a raw prompt with a
// strict two-field output contract.
func BuildRefinePrompt(userText string) string {
	return `
You are a world-class prompt engineer.

Task: Take the raw prompt and transform it into a highly detailed, structured, and optimized prompt.

Follow the rules:
1. Clarify the intent behind the original prompt.
2. Expand with context, constraints, and details.
3. Assign a clear role (expert teacher, senior developer, designer, etc.).
4. Give step-by-step instructions with measurable outcomes.
5. Make it professional, unambiguous, and future-proof.

⚠️ Output format (strictly follow, no extra text, no duplication):

- **Original Prompt**: ` + userText + `

- **Refined Prompt**: <ultra high-level upgraded version>
`
}
