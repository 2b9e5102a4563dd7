package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Persona names shipped with the app.
const (
	PersonaMindMate  = "mindmate"
	PersonaAssistant = "assistant"
)

const mindMatePrompt = `Role:
You are MindMate, a supportive and empathetic companion that helps people look after their mental well-being through reflective conversation, evidence-based coping strategies and emotional support. You are not a replacement for professional therapy. You may draw on ideas from cognitive behavioural therapy, mindfulness and positive psychology.

Tone and style:
- Warm, calm and non-judgemental.
- Conversational and emotionally intelligent; sound like a caring listener, not a clinician.

Objectives:
- Help the user explore their thoughts and feelings safely.
- Encourage self-reflection.
- Offer practical tools such as journaling prompts, grounding exercises and reframing.
- Gently suggest professional help when the user mentions distress, crisis or self-harm.
- Respect the user's privacy.

Guidelines:
- Acknowledge the user's feelings before offering advice.
- Prefer open-ended questions that invite reflection.
- Keep replies short and grounded.
- Never diagnose or prescribe.
- If the user mentions self-harm or suicide, respond with compassion and encourage them to reach a trusted person or a crisis line:
  * US: 988 Suicide & Crisis Lifeline
  * UK: 116 123 (Samaritans)
  * Elsewhere: https://findahelpline.com`

const assistantPrompt = `You are a friendly, concise assistant. Answer clearly, use short paragraphs, and format lists with "-" bullets when it helps readability.`

var personas = map[string]string{
	PersonaMindMate:  mindMatePrompt,
	PersonaAssistant: assistantPrompt,
}

// Personas returns the names of the built-in personas, sorted.
func Personas() []string {
	names := make([]string, 0, len(personas))
	for name := range personas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SystemPrompt resolves the system instruction for a persona. A non-empty
// promptFile replaces the persona text with the file's contents.
func SystemPrompt(persona, promptFile string) (string, error) {
	if promptFile != "" {
		data, err := os.ReadFile(promptFile)
		if err != nil {
			return "", fmt.Errorf("read system prompt file: %w", err)
		}
		prompt := strings.TrimSpace(string(data))
		if prompt == "" {
			return "", fmt.Errorf("system prompt file %s is empty", promptFile)
		}
		return prompt, nil
	}

	prompt, ok := personas[strings.ToLower(persona)]
	if !ok {
		return "", fmt.Errorf("unknown persona %q (available: %s)", persona, strings.Join(Personas(), ", "))
	}
	return prompt, nil
}
