package analysis

// Emotion is one detected emotion as shown to the user.
type Emotion struct {
	Emoji string `json:"emoji"`
	Name  string `json:"name"`
}

// ChatAnalysis is the merged result of the summary model and local emotion
// detection for one chat session.
type ChatAnalysis struct {
	Summary     string    `json:"summary"`
	KeyTopics   []string  `json:"keyTopics,omitempty"`
	Insights    []string  `json:"insights,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	OverallTone string    `json:"overallTone,omitempty"`
	Emotions    []Emotion `json:"emotions"`
}

// WithEmotions returns a copy of the analysis carrying the given emotions in
// place of whatever the summary model produced.
func (a ChatAnalysis) WithEmotions(emotions []Emotion) ChatAnalysis {
	a.Emotions = append([]Emotion(nil), emotions...)
	return a
}
