package chat

import (
	"fmt"
	"time"

	"github.com/iyunix/go-legalist/internal/domain"
	"github.com/iyunix/go-legalist/internal/services/ai"
)

// FallbackReply is returned and stored whenever the model cannot answer.
const FallbackReply = "I'm sorry, I'm unable to process your request right now. The AI service may be temporarily unavailable. Please try again in a moment."

const systemPromptTemplate = `You are an advanced Legal AI Assistant designed for Indian Law. Current Date: %s

**Guidelines:**
1. **Conversation**: For casual greetings (e.g., 'Hi', 'Hello'), respond naturally and briefly without legal jargon. Do not invent legal scenarios unless asked.
2. **Legal Knowledge**: When discussing legal matters, you MUST be well-versed with **Bharatiya Nyaya Sanhita (BNS)**, **Bharatiya Nagarik Suraksha Sanhita (BNSS)**, and **Bharatiya Sakshya Adhiniyam (BSA)**. ALWAYS cite both the new laws AND the corresponding old IPC/CrPC/IEA sections.
3. **Scheduling**: ONLY if the user EXPLICITLY asks to 'schedule', 'add to calendar', or 'remind me' of an event:
   - If the requested date is before the Current Date, DO NOT schedule; ask for a valid future date.
   - If the date is ambiguous, ask for clarification.
   - ONLY when a title, a future date and a time are all present, end your response with a JSON block in this format:
` + "```json" + `
{
  "action": "schedule",
  "title": "Event Title",
  "date": "YYYY-MM-DD",
  "time": "HH:MM"
}
` + "```" + `
Do NOT output this JSON for general questions, past dates, or when information is missing.`

// SystemPrompt renders the legal assistant instructions for the given day.
func SystemPrompt(now time.Time) string {
	return fmt.Sprintf(systemPromptTemplate, now.Format("2006-01-02"))
}

// EnsureSystemPrompt prepends the system prompt unless the window already
// starts with a system message.
func EnsureSystemPrompt(messages []ai.Message, now time.Time) []ai.Message {
	if len(messages) > 0 && messages[0].Role == string(domain.RoleSystem) {
		return messages
	}
	out := make([]ai.Message, 0, len(messages)+1)
	out = append(out, ai.Message{Role: string(domain.RoleSystem), Content: SystemPrompt(now)})
	return append(out, messages...)
}

// DraftPrompt asks for a complete legal document on topic.
func DraftPrompt(topic, details string) string {
	return fmt.Sprintf("Draft a detailed legal document regarding '%s'.\n\nDetails:\n%s\n\nFormat strictly as a professional %s under Indian Law.", topic, details, topic)
}
