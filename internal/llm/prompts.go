package llm

const moodAnalysisPrompt = `Analyze the emotional state and mood of the following message from a workplace context.

Message: "%s"

Respond with a JSON object containing:
- level: mood level from 1-5 (1=very low, 2=low, 3=neutral, 4=good, 5=excellent)
- confidence: confidence score from 0-1
- keywords: array of relevant emotional keywords
- sentiment: "positive", "negative", or "neutral"
- emotions: array of detected emotions

Focus on workplace stress, burnout, anxiety, depression, and general wellbeing indicators.
Respond with the JSON object only, no surrounding text.`

const chatResponsePrompt = `You are a compassionate AI therapy assistant for workplace wellness. Respond to the user's message with empathy and helpful guidance.

User message: "%s"
User mood level: %d
Conversation context:
%s
User preferences: %s

Guidelines:
- Be empathetic and non-judgmental
- Provide practical workplace-appropriate advice
- Encourage professional help when needed
- Use the user's preferred communication style: %s
- Respect privacy level: %s
- Don't provide medical diagnoses
- Focus on coping strategies and wellness

Respond in a supportive, professional manner.`

const recommendationPrompt = `Based on the user's mood analysis and message history, recommend the most appropriate mental health professional.

Current mood level: %d
Recent messages:
%s
User preferences: %s

Respond with a JSON object containing:
- type: "psychologist", "therapist", "psychiatrist", or "counselor"
- reason: explanation for the recommendation
- urgency: "low", "medium", or "high"
- specializations: array of relevant specializations

Consider:
- Psychologists: for cognitive behavioral therapy, assessment
- Therapists: for talk therapy, relationship issues
- Psychiatrists: for medication management, severe conditions
- Counselors: for general support, workplace issues

Respond with the JSON object only, no surrounding text.`

const habitSuggestionPrompt = `Suggest healthy habits based on the user's current mood and workplace context.

Mood level: %d
User context: %s
Previous habits: %s

Respond with a JSON array of habit suggestions, each containing:
- id: unique identifier
- title: habit name
- description: detailed description
- category: "mental_health", "physical_health", "work_life_balance", "stress_management", or "social_connection"
- difficulty: "easy", "medium", or "hard"
- estimated_time: time required (e.g., "5 minutes", "30 minutes")
- benefits: array of expected benefits

Focus on evidence-based practices that can be done in a workplace environment.
Respond with the JSON array only, no surrounding text.`
