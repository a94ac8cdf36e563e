package extraction

// Stage instructions. The list-shaped stages demand a bare JSON array so the
// response can be parsed without free-text scraping; parseStringList degrades
// to an empty list when a model ignores that.

const traitsInstructions = `You are an expert at analyzing social media content to understand personality traits.
Analyze the following content and extract 5-7 key personality traits.
Return ONLY a JSON array of trait strings, e.g. ["curious", "empathetic", "analytical"].
Focus on genuine personality characteristics, not superficial observations.`

const interestsInstructions = `You are an expert at analyzing social media content to understand interests.
Analyze the following content and extract 5-10 key interests and topics this person cares about.
Return ONLY a JSON array of interest strings, e.g. ["technology", "philosophy", "cooking"].
Focus on recurring themes and genuine passions.`

const styleInstructions = `You are an expert at analyzing communication patterns.
Analyze the following content and describe this person's communication style in 2-3 sentences.
Consider: tone (formal/casual), use of humor, level of directness, vocabulary complexity.
Return ONLY the description as plain text.`

const valuesInstructions = `You are an expert at understanding personal values from social media content.
Analyze the following content and extract 3-5 core values this person seems to hold.
Return ONLY a JSON array of value strings, e.g. ["authenticity", "innovation", "community"].
Look for what they advocate for, criticize, or repeatedly emphasize.`

const samplesInstructions = `You are an expert at analyzing writing style and voice.
From the following posts, select 5-10 that best represent this person's unique language style.
Pick posts that showcase their distinctive phrasing, slang, humor, sentence structure, and tone.
Prefer posts that are original thoughts (not replies or reposts) and feel most "them".
Return ONLY a JSON array of the selected post strings, exactly as written.`

const summaryInstructions = `You are creating a personality summary that will be used to power a conversational clone.
Based on the extracted traits, interests, values, and communication style, write a 3-4 sentence summary
that captures the essence of this person's personality. This should feel personal and authentic.
Write in third person, as if describing someone to a friend.`
