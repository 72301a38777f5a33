// Package prompts builds the modular summarization prompts: a content
// category crossed with a presentation format, with the transcript
// embedded under the [TARGET SCRIPT] marker.
package prompts

import (
	"fmt"
	"strings"
)

// CategoryInfo describes one selectable prompt category.
type CategoryInfo struct {
	Category    string `json:"category"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
}

type category struct {
	info  CategoryInfo
	focus string
}

var categories = []category{
	{
		info: CategoryInfo{
			Category:    "general",
			DisplayName: "General",
			Description: "Balanced summary for any kind of video",
		},
		focus: "the main topics, key claims, and conclusions",
	},
	{
		info: CategoryInfo{
			Category:    "tech",
			DisplayName: "Tech & Tutorial",
			Description: "Technical explanations, tutorials, and product reviews",
		},
		focus: "concepts explained, steps demonstrated, tools used, and practical takeaways",
	},
	{
		info: CategoryInfo{
			Category:    "lecture",
			DisplayName: "Lecture & Education",
			Description: "Lectures, courses, and educational content",
		},
		focus: "the core arguments, definitions, examples, and what the audience should learn",
	},
	{
		info: CategoryInfo{
			Category:    "news",
			DisplayName: "News & Current Affairs",
			Description: "News reports, interviews, and commentary",
		},
		focus: "the events covered, who is involved, stated facts versus opinions, and context",
	},
}

// Categories lists the available prompt categories.
func Categories() []CategoryInfo {
	ret := make([]CategoryInfo, 0, len(categories))
	for _, c := range categories {
		ret = append(ret, c.info)
	}
	return ret
}

func focusFor(name string) string {
	for _, c := range categories {
		if c.info.Category == name {
			return c.focus
		}
	}
	return categories[0].focus
}

func formatInstruction(formatType string) string {
	if formatType == "presentation" {
		return "The video is a structured presentation; follow its section order."
	}
	return "The video is conversational; reconstruct the flow of the discussion."
}

// Overview builds the prompt for the concise 2-3 sentence summary.
func Overview(categoryName, formatType, transcript string) string {
	return fmt.Sprintf(`Summarize the video transcript below in 2-3 sentences, focusing on %s. %s
Reply in the language the transcript is written in.

[TARGET SCRIPT]
%s`, focusFor(categoryName), formatInstruction(formatType), transcript)
}

// Detail builds the prompt for the detailed markdown summary.
func Detail(categoryName, formatType, transcript string) string {
	return fmt.Sprintf(`Write a detailed markdown summary of the video transcript below, focusing on %s. %s
Use ## and ### headers and bullet points. Reply in the language the transcript is written in.

[TARGET SCRIPT]
%s`, focusFor(categoryName), formatInstruction(formatType), transcript)
}

// StripScriptSection removes the embedded transcript from a prompt so
// the prompt text can be echoed back to the caller without the payload.
func StripScriptSection(prompt string) string {
	if idx := strings.Index(prompt, "[TARGET SCRIPT]"); idx >= 0 {
		return strings.TrimSpace(prompt[:idx])
	}
	return prompt
}

// ChatContext builds the transcript-grounded system context for the
// chat endpoint; answers must come from the script alone.
func ChatContext(transcript string) string {
	return fmt.Sprintf(`The following is the full transcript of a YouTube video:

%s

[INSTRUCTIONS]
- Answer the user's questions using only the transcript above
- Do not guess or bring in outside knowledge
- If the transcript does not cover the question, say so
- Keep answers concise and reply in the user's language`, transcript)
}
