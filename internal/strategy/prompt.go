package strategy

const analyzeSystemPrompt = `You analyze student profile completeness for an academic records office. Respond with a valid JSON object only: {"criticality": "low|medium|high", "responsiveness": "low|medium|high", "priority": "yes|no", "reasoning": "<brief explanation>"}`

const analyzeUserPrompt = `Student profile:
- Name: %s
- Email: %s
- Completion: %d%%
- Missing fields: %s

Assess how critical this profile gap is, the student's likely responsiveness, and whether to prioritize outreach.`

const strategySystemPrompt = `You decide outreach email strategy for an academic records office. Respond with a valid JSON object only: {"tone": "friendly|professional|urgent", "length": "short|medium|detailed", "emphasis": "deadline|benefits|personal_touch", "reasoning": "<brief explanation>"}`

const strategyUserPrompt = `Student: %s
Completion: %d%%
Missing fields: %s
Gap analysis: criticality=%s responsiveness=%s priority=%s (%s)

Decide the best email strategy for getting this student to complete their profile.`
