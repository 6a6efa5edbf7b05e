package llm

import (
	"fmt"
	"strings"

	"prdgen/internal/domain/models"
)

// createSystemPrompt is the fixed instructional prompt for generating a new
// product-level PRD, including the structural template the output follows.
const createSystemPrompt = `You are an expert Product Requirements Document (PRD) generator. Your role is to help project managers, product owners, and stakeholders create comprehensive PRDs that serve as the single source of truth throughout the product development process.

Key guidelines for PRD generation:
1. Create detailed, comprehensive documents unless templates are specified
2. Ensure requirements are clear for development, design, and testing teams
3. Include all essential PRD sections: Overview, Goals, Features, Requirements, etc.
4. Use clear, unambiguous language
5. Structure information logically and hierarchically
6. Include acceptance criteria where appropriate
7. Consider technical feasibility and business value

PRD Structure Template:
1. **Product Overview**
   - Product vision and mission
   - Target audience and user personas
   - Problem statement and solution

2. **Goals and Objectives**
   - Business objectives
   - User goals
   - Success metrics and KPIs

3. **Features and Functionality**
   - Core features (detailed descriptions)
   - User stories and use cases
   - Feature prioritization

4. **Technical Requirements**
   - System requirements
   - Performance requirements
   - Security and compliance needs
   - Integration requirements

5. **User Experience Requirements**
   - UI/UX guidelines
   - Accessibility requirements
   - User journey mapping

6. **Constraints and Assumptions**
   - Technical constraints
   - Business constraints
   - Timeline and resource constraints

7. **Success Criteria and Metrics**
   - Definition of done
   - Testing requirements
   - Launch criteria

8. **Dependencies and Risks**
   - External dependencies
   - Risk assessment and mitigation

Always ask clarifying questions if the user input lacks sufficient detail for any section.`

// buildCreateUserMessage wraps the user brief for the product-creation prompt.
func buildCreateUserMessage(brief string) string {
	return fmt.Sprintf("Please generate a comprehensive Product Requirements Document based on this input: %s", brief)
}

// buildEpicSystemPrompt embeds the full parent product content so the epic
// inherits vocabulary and scope from its parent. The jira key, if present,
// is a cross-reference annotation only.
func buildEpicSystemPrompt(parentContent string, jiraKey *string) string {
	var b strings.Builder
	b.WriteString(createSystemPrompt)
	b.WriteString("\n\nYou are generating an Epic-Level PRD scoped to one feature of an existing product. ")
	b.WriteString("Stay consistent with the vocabulary, goals and constraints of the parent Product-Level PRD below; do not restate it wholesale.\n\n")
	b.WriteString("Parent Product-Level PRD:\n")
	b.WriteString(parentContent)
	if jiraKey != nil && *jiraKey != "" {
		fmt.Fprintf(&b, "\n\nReference this epic as Jira issue %s in the document header.", *jiraKey)
	}
	return b.String()
}

// buildChatSystemPrompt embeds the current document content as system
// context for iterative refinement.
func buildChatSystemPrompt(currentContent string) string {
	return fmt.Sprintf(`You are helping to iterate and improve a Product Requirements Document.

Current PRD Content:
%s

Guidelines:
- Help users refine, expand, or modify sections of the PRD
- Suggest improvements based on best practices
- Answer questions about the PRD content
- Maintain the PRD structure and quality
- Be specific and actionable in your suggestions`, currentContent)
}

// buildSuggestSystemPrompt embeds the sampled approved documents as
// reference examples for comparative improvement suggestions.
func buildSuggestSystemPrompt(corpus []models.Document) string {
	samples := make([]string, 0, len(corpus))
	for _, doc := range corpus {
		samples = append(samples, doc.Content)
	}

	return fmt.Sprintf(`Analyze the current PRD against these approved, high-quality PRDs and suggest specific improvements:

Approved PRDs for reference:
%s

Provide specific, actionable suggestions to improve the current PRD based on best practices from the approved examples.`, strings.Join(samples, "\n\n---\n\n"))
}

// buildSuggestUserMessage wraps the document under review.
func buildSuggestUserMessage(currentContent string) string {
	return fmt.Sprintf("Current PRD to improve:\n%s", currentContent)
}
