package analysis

// scoringPrompt instructs the model to rate the player against the NTRP
// (National Tennis Rating Program) scale and answer with a JSON document in
// the exact shape parseResult expects. The overallRating the model supplies
// is requested for completeness but recomputed server-side.
const scoringPrompt = `Analyze this tennis video and rate the player against the NTRP
(National Tennis Rating Program) standard.
Return the analysis as JSON with exactly these fields:

{
  "overallRating": overall NTRP rating (1.0-7.0),
  "serve": {
    "score": serve technique rating (1-7),
    "reason": "explanation for the rating"
  },
  "forehand": {
    "score": forehand stroke rating (1-7),
    "reason": "explanation for the rating"
  },
  "backhand": {
    "score": backhand stroke rating (1-7),
    "reason": "explanation for the rating"
  },
  "movement": {
    "score": footwork and court movement rating (1-7),
    "reason": "explanation for the rating"
  },
  "netPlay": {
    "score": net play rating (1-7),
    "reason": "explanation for the rating"
  },
  "improvements": ["suggestion 1", "suggestion 2", "suggestion 3"]
}

Judge technique, tactical awareness and movement strictly and rigorously;
the average video should not score above 3. If the footage is too blurry to
assess, say so in the reason fields and keep those scores between 0 and 1.`
